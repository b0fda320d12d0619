package media

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"riconnect/internal/domain"
)

type qrEncoder struct {
	size int
}

// NewQREncoder renders share links as size x size PNG QR codes.
func NewQREncoder(size int) domain.QREncoder {
	if size <= 0 {
		size = 256
	}
	return &qrEncoder{size: size}
}

func (q *qrEncoder) EncodePNG(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("qr payload is empty: %w", domain.ErrInvalidInput)
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, q.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
