package wallet

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Verdict is the three-way outcome of a single reconciliation check.
type Verdict int

const (
	// VerdictUnknown means the check itself failed; the ticket cannot be
	// trusted.
	VerdictUnknown Verdict = iota
	// VerdictPresent means the desk still acknowledges the registration.
	VerdictPresent
	// VerdictAbsent means the desk has no record of the ticket.
	VerdictAbsent
)

func (v Verdict) String() string {
	switch v {
	case VerdictPresent:
		return "present"
	case VerdictAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Verifier answers whether the desk still holds a registration for a
// ticket identifier.
type Verifier interface {
	Verify(ctx context.Context, ticketID string) Verdict
}

// HTTPVerifier checks tickets against the desk's lookup endpoint.
// One attempt per ticket, no retry.
type HTTPVerifier struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPVerifier(baseURL string) *HTTPVerifier {
	return &HTTPVerifier{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, ticketID string) Verdict {
	url := fmt.Sprintf("%s/api/registrations/%s", v.BaseURL, ticketID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return VerdictUnknown
	}

	resp, err := v.Client.Do(req)
	if err != nil {
		return VerdictUnknown
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return VerdictPresent
	case http.StatusNotFound:
		return VerdictAbsent
	default:
		return VerdictUnknown
	}
}
