package core

import (
	"bytes"
	"image"
	"image/png"
	"io"
)

// Banner is a rendered notification image and the alert it was built from
type Banner struct {
	Alert
	Image image.Image
}

// Encode writes the banner as PNG
func (b Banner) Encode(w io.Writer) error {
	return png.Encode(w, b.Image)
}

// PNG returns the PNG encoding of the banner
func (b Banner) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
