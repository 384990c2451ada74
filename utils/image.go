package utils

import (
	"bytes"
	"errors"

	"github.com/disintegration/imaging"
)

const (
	MaxLogoSizeBytes = 5 * 1024 * 1024
	logoMaxSide      = 300
)

// ResizeLogo decodes an uploaded image, fits it in a 300x300 box and re-encodes it as PNG.
func ResizeLogo(data []byte) ([]byte, error) {
	if len(data) > MaxLogoSizeBytes {
		return nil, errors.New("file size exceeds 5MB limit")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() > logoMaxSide || b.Dy() > logoMaxSide {
		img = imaging.Fit(img, logoMaxSide, logoMaxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
