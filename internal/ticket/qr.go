package ticket

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 400

// Scan colors match the event design: midnight ink on cream.
var (
	qrDark  = color.RGBA{R: 0x1f, G: 0x1f, B: 0x1f, A: 0xff}
	qrLight = color.RGBA{R: 0xfd, G: 0xfb, B: 0xf1, A: 0xff}
)

// QRPayload is the JSON document encoded into the scannable credential.
type QRPayload struct {
	TicketID  string `json:"ticketId"`
	Name      string `json:"name"`
	Instagram string `json:"instagram"`
	Phone     string `json:"phone"`
	CGMember  bool   `json:"cgMember"`
	CGNumber  string `json:"cgNumber,omitempty"`
	HeardFrom string `json:"heardFrom,omitempty"`
	Event     string `json:"event"`
}

// RenderQR encodes the payload as a PNG data URL the client can display
// and re-save as a file.
func RenderQR(p QRPayload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal qr payload: %w", err)
	}

	qr, err := qrcode.New(string(data), qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("build qr code: %w", err)
	}
	qr.ForegroundColor = qrDark
	qr.BackgroundColor = qrLight

	png, err := qr.PNG(qrSize)
	if err != nil {
		return "", fmt.Errorf("render qr png: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
