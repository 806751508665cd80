// Package wallet is the device-local ticket cache: it remembers issued
// tickets across restarts, enforces the event cutover, and reconciles its
// contents against the registration desk.
package wallet

import "time"

// DefaultCutover is the event-over instant: 2025-11-22 00:00 venue time
// (UTC+7). Every cached ticket is invalid from this point on.
var DefaultCutover = time.Date(2025, time.November, 22, 0, 0, 0, 0, time.FixedZone("WIB", 7*60*60))

// RegistrationData is the denormalized copy of the submitted form kept
// alongside each ticket.
type RegistrationData struct {
	Instagram      string `json:"instagram"`
	PhoneNumber    string `json:"phonenumber"`
	IsCGMember     bool   `json:"isCGMember"`
	CGNumber       string `json:"cgNumber,omitempty"`
	HeardFrom      string `json:"heardFrom,omitempty"`
	HeardFromOther string `json:"heardFromOther,omitempty"`
}

// SavedTicket is one cached credential. Timestamp is the capture time in
// milliseconds, set by Save.
type SavedTicket struct {
	TicketID         string            `json:"ticketId"`
	QRUrl            string            `json:"qrUrl"`
	Name             string            `json:"name"`
	Timestamp        int64             `json:"timestamp"`
	RegistrationData *RegistrationData `json:"registrationData,omitempty"`
}
