package render

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// LoadTemplate reads the background image every banner is drawn on
func LoadTemplate(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open background image: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode background image %s: %w", path, err)
	}

	if img.Bounds().Empty() {
		return nil, fmt.Errorf("background image %s (%s) is empty", path, format)
	}

	return img, nil
}
