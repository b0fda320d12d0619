// Package media prepares and stores event photos and renders share codes.
package media

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"

	"riconnect/internal/domain"
)

const (
	// DefaultMaxWidth is the width photos are scaled down to before upload.
	DefaultMaxWidth = 1280
	jpegQuality     = 85
)

type jpegProcessor struct {
	maxWidth int
}

// NewJPEGProcessor returns an ImageProcessor that applies EXIF orientation, scales
// photos wider than maxWidth down (keeping the aspect ratio) and re-encodes as JPEG.
func NewJPEGProcessor(maxWidth int) domain.ImageProcessor {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	return &jpegProcessor{maxWidth: maxWidth}
}

func (p *jpegProcessor) Prepare(raw []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w: %w", domain.ErrInvalidInput, err)
	}
	if img.Bounds().Dx() > p.maxWidth {
		img = imaging.Resize(img, p.maxWidth, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode photo: %w", err)
	}
	return buf.Bytes(), nil
}
