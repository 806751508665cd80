package ticket

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
)

func TestNewIDFormat(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := NewID()
		if !IDPattern.MatchString(id) {
			t.Fatalf("identifier %q does not match %s", id, IDPattern)
		}
		n, err := strconv.Atoi(strings.TrimPrefix(id, IDPrefix))
		if err != nil {
			t.Fatalf("identifier %q has non-numeric suffix: %v", id, err)
		}
		if n < 100000000 || n > 999999999 {
			t.Fatalf("identifier number %d out of range", n)
		}
	}
}

func TestValidID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"C2C-483920175", true},
		{"C2C-100000000", true},
		{"C2C-99999999", false},
		{"C2C-1000000000", false},
		{"c2c-483920175", false},
		{"483920175", false},
		{"C2C-48392017a", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidID(c.id); got != c.want {
			t.Errorf("ValidID(%q) = %v, want %v", c.id, got, c.want)
		}
	}
}

func TestNormalizeHandle(t *testing.T) {
	if got := NormalizeHandle("jane"); got != "@jane" {
		t.Errorf("NormalizeHandle(jane) = %q", got)
	}
	if got := NormalizeHandle("@jane"); got != "@jane" {
		t.Errorf("NormalizeHandle(@jane) = %q", got)
	}
}

func TestResolveHeardFrom(t *testing.T) {
	if got := ResolveHeardFrom("Instagram", ""); got != "Instagram" {
		t.Errorf("got %q", got)
	}
	if got := ResolveHeardFrom("Other", "radio ad"); got != "radio ad" {
		t.Errorf("got %q", got)
	}
}

func TestRenderQR(t *testing.T) {
	url, err := RenderQR(QRPayload{
		TicketID:  "C2C-483920175",
		Name:      "Jane Doe",
		Instagram: "@jane",
		Phone:     "08123456789",
		CGMember:  false,
		HeardFrom: "radio ad",
		Event:     "Created 2 Connect - Youth Camp 2025",
	})
	if err != nil {
		t.Fatalf("RenderQR: %v", err)
	}

	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("expected PNG data URL, got %.40q", url)
	}

	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	if err != nil {
		t.Fatalf("data URL payload is not valid base64: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Fatal("decoded payload is not a PNG image")
	}
}

func TestQRPayloadFieldNames(t *testing.T) {
	data, err := json.Marshal(QRPayload{TicketID: "C2C-000000000", Event: "x"})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"ticketId", "name", "instagram", "phone", "cgMember", "event"} {
		if _, ok := m[key]; !ok {
			t.Errorf("payload is missing key %q", key)
		}
	}
}
