package feed

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRCode renders url as a QR code made of terminal block characters, so a phone
// can open the feed page.
func QRCode(url string) (string, error) {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("qrcode %s: %w", url, err)
	}
	return q.ToSmallString(false), nil
}
