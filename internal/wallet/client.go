package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RegisterSubmission mirrors the desk's registration form.
type RegisterSubmission struct {
	Name           string `json:"name"`
	Instagram      string `json:"instagram"`
	PhoneNumber    string `json:"phonenumber"`
	IsCGMember     bool   `json:"isCGMember"`
	CGNumber       string `json:"cgNumber,omitempty"`
	HeardFrom      string `json:"heardFrom,omitempty"`
	HeardFromOther string `json:"heardFromOther,omitempty"`
}

type registerResponse struct {
	Success  bool   `json:"success"`
	TicketID string `json:"ticketId"`
	QRUrl    string `json:"qrUrl"`
	Error    string `json:"error"`
}

// DeskClient submits registrations to the desk.
type DeskClient struct {
	BaseURL string
	Client  *http.Client
}

func NewDeskClient(baseURL string) *DeskClient {
	return &DeskClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Register submits the form and returns the issued credential. A
// non-success answer from the desk is surfaced with its error message;
// there is no partial success to handle, the desk never returns a ticket
// id without a durable record.
func (c *DeskClient) Register(ctx context.Context, sub RegisterSubmission) (ticketID, qrURL string, err error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return "", "", fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/register", bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("submit registration: %w", err)
	}
	defer resp.Body.Close()

	var out registerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", fmt.Errorf("decode response: %w", err)
	}

	if !out.Success {
		if out.Error == "" {
			out.Error = fmt.Sprintf("registration failed with status %d", resp.StatusCode)
		}
		return "", "", fmt.Errorf("%s", out.Error)
	}

	return out.TicketID, out.QRUrl, nil
}
