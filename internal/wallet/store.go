package wallet

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	ticketsFile = "tickets.json"
	mediaDir    = "cache"
	sessionDir  = "session"

	pngDataURLPrefix = "data:image/png;base64,"
)

// Store keeps the ordered ticket list in a single JSON document under the
// wallet directory. Reads and writes go through the whole document; a
// single active writer per device is assumed, concurrent wallets may lose
// updates.
type Store struct {
	dir     string
	cutover time.Time
	log     *zerolog.Logger

	// Now is the clock used for capture timestamps and the cutover check.
	Now func() time.Time
}

func NewStore(dir string, cutover time.Time, log *zerolog.Logger) *Store {
	return &Store{
		dir:     dir,
		cutover: cutover,
		log:     log,
		Now:     time.Now,
	}
}

func (s *Store) ticketsPath() string { return filepath.Join(s.dir, ticketsFile) }

// MediaDir is where exported QR images land; swept by Cleanup.
func (s *Store) MediaDir() string { return filepath.Join(s.dir, mediaDir) }

func (s *Store) sessionPath() string { return filepath.Join(s.dir, sessionDir) }

// Expired reports whether the event cutover instant has passed. Pure
// check, no side effects.
func (s *Store) Expired() bool {
	return s.Now().After(s.cutover)
}

// GetAll returns the cached tickets. After the cutover it always returns
// an empty list, synchronously, regardless of what is stored. Missing or
// corrupt data reads as "no tickets", never as an error.
func (s *Store) GetAll() []SavedTicket {
	if s.Expired() {
		return []SavedTicket{}
	}

	data, err := os.ReadFile(s.ticketsPath())
	if err != nil {
		return []SavedTicket{}
	}

	var tickets []SavedTicket
	if err := json.Unmarshal(data, &tickets); err != nil {
		s.log.Warn().Err(err).Msg("corrupt ticket cache, treating as empty")
		return []SavedTicket{}
	}
	return tickets
}

// Save appends the ticket with a capture timestamp and rewrites the
// document.
func (s *Store) Save(t SavedTicket) error {
	t.Timestamp = s.Now().UnixMilli()
	tickets := append(s.GetAll(), t)
	return s.writeAll(tickets)
}

func (s *Store) HasAny() bool {
	return len(s.GetAll()) > 0
}

func (s *Store) Count() int {
	return len(s.GetAll())
}

// GetByID scans the cached list for a matching identifier.
func (s *Store) GetByID(ticketID string) (SavedTicket, bool) {
	for _, t := range s.GetAll() {
		if t.TicketID == ticketID {
			return t, true
		}
	}
	return SavedTicket{}, false
}

// ClearAll removes the ticket document.
func (s *Store) ClearAll() error {
	if err := os.Remove(s.ticketsPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear ticket cache: %w", err)
	}
	return nil
}

// Cleanup is the explicit bulk sweep after the cutover: the ticket
// document, the media cache and the session files all go. Before the
// cutover it is a no-op. Best effort; individual failures are logged and
// the sweep continues.
func (s *Store) Cleanup() {
	if !s.Expired() {
		return
	}

	if err := s.ClearAll(); err != nil {
		s.log.Warn().Err(err).Msg("cleanup: failed to remove ticket cache")
	}
	if err := os.RemoveAll(s.MediaDir()); err != nil {
		s.log.Warn().Err(err).Msg("cleanup: failed to remove media cache")
	}
	if err := os.RemoveAll(s.sessionPath()); err != nil {
		s.log.Warn().Err(err).Msg("cleanup: failed to remove session data")
	}
}

// ExportQR decodes the stored PNG data URL and writes <ticketId>.png into
// the media cache directory, returning the written path.
func (s *Store) ExportQR(t SavedTicket) (string, error) {
	if !strings.HasPrefix(t.QRUrl, pngDataURLPrefix) {
		return "", fmt.Errorf("ticket %s has no PNG data URL", t.TicketID)
	}

	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(t.QRUrl, pngDataURLPrefix))
	if err != nil {
		return "", fmt.Errorf("decode QR image: %w", err)
	}

	if err := os.MkdirAll(s.MediaDir(), 0o755); err != nil {
		return "", fmt.Errorf("create media cache: %w", err)
	}

	path := filepath.Join(s.MediaDir(), t.TicketID+".png")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("write QR image: %w", err)
	}
	return path, nil
}

// Reconcile verifies every cached ticket against the desk concurrently and
// keeps only those confirmed present. Absent and unverifiable tickets are
// both dropped: an untrustworthy credential is worse than a missing one.
// The document is rewritten once, after all checks settle.
func (s *Store) Reconcile(ctx context.Context, verify Verifier) (kept, removed int, err error) {
	tickets := s.GetAll()
	if len(tickets) == 0 {
		return 0, 0, nil
	}

	verdicts := make([]Verdict, len(tickets))
	var wg sync.WaitGroup
	for i, t := range tickets {
		wg.Add(1)
		go func(i int, ticketID string) {
			defer wg.Done()
			verdicts[i] = verify.Verify(ctx, ticketID)
		}(i, t.TicketID)
	}
	wg.Wait()

	survivors := make([]SavedTicket, 0, len(tickets))
	for i, t := range tickets {
		if verdicts[i] == VerdictPresent {
			survivors = append(survivors, t)
			continue
		}
		s.log.Info().
			Str("ticket_id", t.TicketID).
			Str("verdict", verdicts[i].String()).
			Msg("dropping ticket")
	}

	if err := s.writeAll(survivors); err != nil {
		return 0, 0, err
	}
	s.stampSession("last_reconcile", strconv.FormatInt(s.Now().UnixMilli(), 10))

	return len(survivors), len(tickets) - len(survivors), nil
}

// Initialize is the one-time startup call: bulk expiry cleanup, then
// reconciliation.
func (s *Store) Initialize(ctx context.Context, verify Verifier) error {
	s.Cleanup()
	_, _, err := s.Reconcile(ctx, verify)
	return err
}

func (s *Store) writeAll(tickets []SavedTicket) error {
	data, err := json.Marshal(tickets)
	if err != nil {
		return fmt.Errorf("encode ticket cache: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create wallet dir: %w", err)
	}
	if err := os.WriteFile(s.ticketsPath(), data, 0o644); err != nil {
		return fmt.Errorf("write ticket cache: %w", err)
	}
	return nil
}

func (s *Store) stampSession(name, value string) {
	if err := os.MkdirAll(s.sessionPath(), 0o755); err != nil {
		s.log.Warn().Err(err).Msg("failed to create session dir")
		return
	}
	if err := os.WriteFile(filepath.Join(s.sessionPath(), name), []byte(value), 0o644); err != nil {
		s.log.Warn().Err(err).Msg("failed to write session stamp")
	}
}
