package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/wb-go/wbf/ginext"

	"c2creg/internal/model"
)

const (
	ErrRegistrationFailed   = "Registration failed"
	ErrDatabaseSaveFailed   = "Database save failed. Please try again."
	ErrRegistrationNotFound = "Registration not found"
	ErrInvalidTicketID      = "Invalid ticket ID"
)

// RegisterRequest is the registration submission posted by the form.
// Field names follow the form contract.
type RegisterRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=255"`
	Instagram      string `json:"instagram" validate:"required,handle"`
	PhoneNumber    string `json:"phonenumber" validate:"required,phone"`
	IsCGMember     bool   `json:"isCGMember"`
	CGNumber       string `json:"cgNumber,omitempty"`
	HeardFrom      string `json:"heardFrom,omitempty"`
	HeardFromOther string `json:"heardFromOther,omitempty"`
}

// CheckMembershipFields enforces the exclusive pair: members carry a CG
// number and no referral source, non-members the reverse. The "Other"
// referral source requires an elaboration of at least 3 characters after
// trimming.
func (r *RegisterRequest) CheckMembershipFields() error {
	if r.IsCGMember {
		if strings.TrimSpace(r.CGNumber) == "" {
			return errors.New("cgNumber is required for CG members")
		}
		return nil
	}
	if strings.TrimSpace(r.HeardFrom) == "" {
		return errors.New("heardFrom is required for non-members")
	}
	if r.HeardFrom == "Other" && len(strings.TrimSpace(r.HeardFromOther)) < 3 {
		return errors.New("heardFromOther must elaborate when heardFrom is Other")
	}
	return nil
}

// RegisterResponse is the issuance wire shape: a success flag with either
// the credential or an error message, never both.
type RegisterResponse struct {
	Success  bool   `json:"success"`
	TicketID string `json:"ticketId,omitempty"`
	QRUrl    string `json:"qrUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

type RegistrationView struct {
	TicketID         string     `json:"ticketid"`
	Name             string     `json:"name"`
	Instagram        string     `json:"instagram"`
	PhoneNumber      string     `json:"phonenumber"`
	IsCGMember       bool       `json:"is_cg_member"`
	CGNumber         *string    `json:"cg_number,omitempty"`
	HeardFrom        *string    `json:"heard_from,omitempty"`
	DateRegistered   time.Time  `json:"dateregistered"`
	Reregistered     bool       `json:"reregistered"`
	DateReregistered *time.Time `json:"datereregistered,omitempty"`
}

func NewRegistrationView(reg *model.Registration) RegistrationView {
	return RegistrationView{
		TicketID:         reg.TicketID,
		Name:             reg.Name,
		Instagram:        reg.Instagram,
		PhoneNumber:      reg.PhoneNumber,
		IsCGMember:       reg.IsCGMember,
		CGNumber:         reg.CGNumber,
		HeardFrom:        reg.HeardFrom,
		DateRegistered:   reg.DateRegistered,
		Reregistered:     reg.Reregistered,
		DateReregistered: reg.DateReregistered,
	}
}

// LookupResponse answers the reconciliation dependency.
type LookupResponse struct {
	Success      bool              `json:"success"`
	Registration *RegistrationView `json:"registration,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// RegistrationCreatedMessage is published to RabbitMQ after every
// successful issuance.
type RegistrationCreatedMessage struct {
	TicketID       string    `json:"ticket_id"`
	Name           string    `json:"name"`
	Instagram      string    `json:"instagram"`
	PhoneNumber    string    `json:"phone_number"`
	IsCGMember     bool      `json:"is_cg_member"`
	DateRegistered time.Time `json:"dateregistered"`
}

func IssuedResponse(c *ginext.Context, ticketID, qrURL string) {
	c.JSON(200, RegisterResponse{
		Success:  true,
		TicketID: ticketID,
		QRUrl:    qrURL,
	})
}

func RegistrationFailedError(c *ginext.Context) {
	c.JSON(500, RegisterResponse{
		Success: false,
		Error:   ErrRegistrationFailed,
	})
}

func DatabaseSaveFailedError(c *ginext.Context) {
	c.JSON(500, RegisterResponse{
		Success: false,
		Error:   ErrDatabaseSaveFailed,
	})
}

func RegistrationNotFoundError(c *ginext.Context) {
	c.JSON(404, LookupResponse{
		Success: false,
		Error:   ErrRegistrationNotFound,
	})
}

func InvalidTicketIDError(c *ginext.Context) {
	c.JSON(400, LookupResponse{
		Success: false,
		Error:   ErrInvalidTicketID,
	})
}

func FoundResponse(c *ginext.Context, reg *model.Registration) {
	view := NewRegistrationView(reg)
	c.JSON(200, LookupResponse{
		Success:      true,
		Registration: &view,
	})
}

func ListResponse(c *ginext.Context, regs []model.Registration) {
	views := make([]RegistrationView, 0, len(regs))
	for i := range regs {
		views = append(views, NewRegistrationView(&regs[i]))
	}
	c.JSON(200, struct {
		Success       bool               `json:"success"`
		Registrations []RegistrationView `json:"registrations"`
	}{Success: true, Registrations: views})
}
