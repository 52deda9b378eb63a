package qr

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the edge length in pixels of rendered codes.
const DefaultSize = 256

// Encoder renders text as a PNG QR code.
type Encoder struct {
	Size  int
	Level qrcode.RecoveryLevel
}

func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = DefaultSize
	}
	return &Encoder{Size: size, Level: qrcode.Medium}
}

// Encode returns PNG bytes for text.
func (e *Encoder) Encode(text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("nothing to encode")
	}
	png, err := qrcode.Encode(text, e.Level, e.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
