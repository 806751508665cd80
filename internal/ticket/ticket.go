// Package ticket mints ticket identifiers and renders the QR credential
// handed back to the attendee.
package ticket

import (
	"math/rand"
	"regexp"
	"strings"
)

const (
	// IDPrefix brands every ticket identifier.
	IDPrefix = "C2C-"

	idMin  = 100000000
	idSpan = 900000000
)

// IDPattern matches a well-formed ticket identifier.
var IDPattern = regexp.MustCompile(`^C2C-\d{9}$`)

// NewID draws a uniform 9-digit number and formats it as C2C-<digits>.
// One draw, no collision check against existing records.
func NewID() string {
	return IDPrefix + formatDigits(idMin+rand.Intn(idSpan))
}

func formatDigits(n int) string {
	buf := make([]byte, 9)
	for i := 8; i >= 0; i-- {
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf)
}

// ValidID reports whether id is a well-formed ticket identifier.
func ValidID(id string) bool {
	return IDPattern.MatchString(id)
}

// NormalizeHandle ensures the instagram handle starts with @.
func NormalizeHandle(handle string) string {
	if strings.HasPrefix(handle, "@") {
		return handle
	}
	return "@" + handle
}

// ResolveHeardFrom substitutes the free-text elaboration when the stated
// source is "Other".
func ResolveHeardFrom(heardFrom, heardFromOther string) string {
	if heardFrom == "Other" {
		return heardFromOther
	}
	return heardFrom
}
