package model

import "time"

// WIB is the venue timezone (UTC+7). Registration timestamps are stored as
// civil time in this zone regardless of where the server runs.
var WIB = time.FixedZone("WIB", 7*60*60)

// NowWIB returns the current venue-local civil time.
func NowWIB() time.Time {
	return time.Now().In(WIB)
}

type Registration struct {
	ID               int64      `db:"id" json:"id"`
	TicketID         string     `db:"ticketid" json:"ticketid"`
	Name             string     `db:"name" json:"name"`
	Instagram        string     `db:"instagram" json:"instagram"`
	PhoneNumber      string     `db:"phonenumber" json:"phonenumber"`
	IsCGMember       bool       `db:"is_cg_member" json:"is_cg_member"`
	CGNumber         *string    `db:"cg_number" json:"cg_number,omitempty"`
	HeardFrom        *string    `db:"heard_from" json:"heard_from,omitempty"`
	DateRegistered   time.Time  `db:"dateregistered" json:"dateregistered"`
	Reregistered     bool       `db:"reregistered" json:"reregistered"`
	DateReregistered *time.Time `db:"datereregistered" json:"datereregistered,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}
