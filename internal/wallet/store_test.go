package wallet

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var testCutover = time.Date(2025, time.November, 22, 0, 0, 0, 0, time.FixedZone("WIB", 7*60*60))

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := zerolog.Nop()
	s := NewStore(t.TempDir(), testCutover, &log)
	s.Now = func() time.Time { return testCutover.Add(-24 * time.Hour) }
	return s
}

func sampleTicket(id string) SavedTicket {
	return SavedTicket{
		TicketID: id,
		QRUrl:    "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes")),
		Name:     "Jane Doe",
		RegistrationData: &RegistrationData{
			Instagram:   "@jane",
			PhoneNumber: "08123456789",
			HeardFrom:   "Other",
		},
	}
}

func TestSaveThenGetAll(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(sampleTicket("C2C-483920175")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	tickets := s.GetAll()
	if len(tickets) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(tickets))
	}
	got := tickets[0]
	if got.TicketID != "C2C-483920175" || got.Name != "Jane Doe" {
		t.Errorf("ticket fields lost on round-trip: %+v", got)
	}
	if want := s.Now().UnixMilli(); got.Timestamp != want {
		t.Errorf("timestamp = %d, want capture time %d", got.Timestamp, want)
	}
	if got.RegistrationData == nil || got.RegistrationData.Instagram != "@jane" {
		t.Errorf("registration data lost on round-trip: %+v", got.RegistrationData)
	}
}

func TestSaveAppendsInOrder(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"C2C-111111111", "C2C-222222222", "C2C-333333333"} {
		if err := s.Save(sampleTicket(id)); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}
	tickets := s.GetAll()
	if len(tickets) != 3 {
		t.Fatalf("expected 3 tickets, got %d", len(tickets))
	}
	if tickets[0].TicketID != "C2C-111111111" || tickets[2].TicketID != "C2C-333333333" {
		t.Errorf("save order not preserved: %v", tickets)
	}
}

func TestGetAllAfterCutover(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(sampleTicket("C2C-483920175")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s.Now = func() time.Time { return testCutover.Add(time.Second) }

	if got := s.GetAll(); len(got) != 0 {
		t.Fatalf("expected empty list after cutover, got %d tickets", len(got))
	}
	// The read is a pure check: the stored document is untouched until
	// Cleanup runs.
	if _, err := os.Stat(s.ticketsPath()); err != nil {
		t.Fatalf("ticket document should still exist before Cleanup: %v", err)
	}
	if !s.Expired() {
		t.Error("Expired() should report true past the cutover")
	}
}

func TestGetAllCorruptDocument(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.ticketsPath()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.ticketsPath(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := s.GetAll(); len(got) != 0 {
		t.Fatalf("corrupt document should read as no tickets, got %d", len(got))
	}
}

func TestGetByID(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(sampleTicket("C2C-483920175")); err != nil {
		t.Fatal(err)
	}

	if got, ok := s.GetByID("C2C-483920175"); !ok || got.TicketID != "C2C-483920175" {
		t.Errorf("GetByID miss for saved ticket: %v %v", got, ok)
	}
	if _, ok := s.GetByID("C2C-000000000"); ok {
		t.Error("GetByID returned a ticket that was never saved")
	}
}

func TestHasAnyAndCount(t *testing.T) {
	s := newTestStore(t)
	if s.HasAny() || s.Count() != 0 {
		t.Error("fresh wallet should be empty")
	}
	if err := s.Save(sampleTicket("C2C-483920175")); err != nil {
		t.Fatal(err)
	}
	if !s.HasAny() || s.Count() != 1 {
		t.Errorf("HasAny=%v Count=%d after one save", s.HasAny(), s.Count())
	}
}

func TestClearAll(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(sampleTicket("C2C-483920175")); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearAll(); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if s.HasAny() {
		t.Error("tickets survived ClearAll")
	}
	// Idempotent on an already-empty wallet.
	if err := s.ClearAll(); err != nil {
		t.Fatalf("ClearAll on empty wallet: %v", err)
	}
}

func TestCleanupBeforeCutoverIsNoop(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(sampleTicket("C2C-483920175")); err != nil {
		t.Fatal(err)
	}
	s.Cleanup()
	if s.Count() != 1 {
		t.Error("Cleanup before the cutover must not touch the wallet")
	}
}

func TestCleanupAfterCutoverSweepsEverything(t *testing.T) {
	s := newTestStore(t)
	tk := sampleTicket("C2C-483920175")
	if err := s.Save(tk); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ExportQR(tk); err != nil {
		t.Fatal(err)
	}
	s.stampSession("last_reconcile", "0")

	s.Now = func() time.Time { return testCutover.Add(time.Hour) }
	s.Cleanup()

	if _, err := os.Stat(s.ticketsPath()); !os.IsNotExist(err) {
		t.Error("ticket document survived cleanup")
	}
	if _, err := os.Stat(s.MediaDir()); !os.IsNotExist(err) {
		t.Error("media cache survived cleanup")
	}
	if _, err := os.Stat(s.sessionPath()); !os.IsNotExist(err) {
		t.Error("session data survived cleanup")
	}
}

func TestExportQR(t *testing.T) {
	s := newTestStore(t)
	tk := sampleTicket("C2C-483920175")

	path, err := s.ExportQR(tk)
	if err != nil {
		t.Fatalf("ExportQR: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read exported image: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("exported image content = %q", data)
	}

	tk.QRUrl = "https://example.com/qr.png"
	if _, err := s.ExportQR(tk); err == nil {
		t.Error("ExportQR should reject non-data-URL references")
	}
}

type fakeVerifier struct {
	verdicts map[string]Verdict
	calls    int
}

func (f *fakeVerifier) Verify(_ context.Context, ticketID string) Verdict {
	f.calls++
	return f.verdicts[ticketID]
}

func TestReconcile(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"C2C-111111111", "C2C-222222222", "C2C-333333333", "C2C-444444444"} {
		if err := s.Save(sampleTicket(id)); err != nil {
			t.Fatal(err)
		}
	}

	v := &fakeVerifier{verdicts: map[string]Verdict{
		"C2C-111111111": VerdictPresent,
		"C2C-222222222": VerdictAbsent,
		"C2C-333333333": VerdictUnknown,
		"C2C-444444444": VerdictPresent,
	}}

	kept, removed, err := s.Reconcile(context.Background(), v)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if kept != 2 || removed != 2 {
		t.Errorf("kept=%d removed=%d, want 2/2", kept, removed)
	}
	if v.calls != 4 {
		t.Errorf("expected one check per cached ticket, got %d", v.calls)
	}

	tickets := s.GetAll()
	if len(tickets) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(tickets))
	}
	if tickets[0].TicketID != "C2C-111111111" || tickets[1].TicketID != "C2C-444444444" {
		t.Errorf("survivor order wrong: %v", tickets)
	}

	// The rewritten document holds exactly the survivors.
	raw, err := os.ReadFile(s.ticketsPath())
	if err != nil {
		t.Fatal(err)
	}
	var onDisk []SavedTicket
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatal(err)
	}
	if len(onDisk) != 2 {
		t.Errorf("document holds %d tickets, want 2", len(onDisk))
	}
}

func TestReconcileEmptyWallet(t *testing.T) {
	s := newTestStore(t)
	v := &fakeVerifier{}
	kept, removed, err := s.Reconcile(context.Background(), v)
	if err != nil || kept != 0 || removed != 0 {
		t.Errorf("empty reconcile: kept=%d removed=%d err=%v", kept, removed, err)
	}
	if v.calls != 0 {
		t.Errorf("no checks expected for an empty wallet, got %d", v.calls)
	}
}

func TestInitialize(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(sampleTicket("C2C-111111111")); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(sampleTicket("C2C-222222222")); err != nil {
		t.Fatal(err)
	}

	v := &fakeVerifier{verdicts: map[string]Verdict{
		"C2C-111111111": VerdictPresent,
		"C2C-222222222": VerdictAbsent,
	}}
	if err := s.Initialize(context.Background(), v); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if s.Count() != 1 {
		t.Errorf("expected 1 ticket after startup reconciliation, got %d", s.Count())
	}
}
