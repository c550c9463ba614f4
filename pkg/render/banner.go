// Package render draws notification banners: a background template with an
// outlined price line and a smaller pair/handle caption, both centered.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/raykavin/pricemonitor/pkg/core"
	"github.com/raykavin/pricemonitor/pkg/exchange"
	"github.com/raykavin/pricemonitor/pkg/logger"
	"github.com/raykavin/pricemonitor/pkg/threshold"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Layout constants, in pixels and points
const (
	PriceFontSize   = 60
	CaptionFontSize = 28
	PriceLift       = 20 // price line is raised this much above the vertical center
	CaptionGap      = 10 // space between the price and caption lines
	OutlineWidth    = 2
)

var (
	DefaultFill    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	DefaultOutline = color.RGBA{R: 50, G: 50, B: 50, A: 255}
)

// ErrNoTemplate is returned when the renderer has no background image
var ErrNoTemplate = errors.New("no background template")

// Renderer implements core.Renderer
type Renderer struct {
	template     image.Image
	handle       string
	fonts        []FontSource
	fill         color.Color
	outline      color.Color
	outlineWidth int

	priceFace   font.Face
	captionFace font.Face
}

var _ core.Renderer = (*Renderer)(nil)

// Option configures a Renderer
type Option func(*Renderer)

// WithFonts replaces the font preference list
func WithFonts(sources ...FontSource) Option {
	return func(r *Renderer) {
		r.fonts = sources
	}
}

// WithColors sets the text fill and outline colors
func WithColors(fill, outline color.Color) Option {
	return func(r *Renderer) {
		r.fill = fill
		r.outline = outline
	}
}

// WithOutlineWidth sets the outline radius in pixels
func WithOutlineWidth(width int) Option {
	return func(r *Renderer) {
		r.outlineWidth = width
	}
}

// New creates a renderer drawing on top of template. The handle is shown in
// the caption line next to the pair.
func New(template image.Image, handle string, log logger.Logger, options ...Option) *Renderer {
	r := &Renderer{
		template:     template,
		handle:       handle,
		fonts:        DefaultFonts(),
		fill:         DefaultFill,
		outline:      DefaultOutline,
		outlineWidth: OutlineWidth,
	}

	for _, option := range options {
		option(r)
	}

	fonts := Preload(r.fonts)

	var priceFont, captionFont string
	r.priceFace, priceFont = LoadFace(fonts, PriceFontSize)
	r.captionFace, captionFont = LoadFace(fonts, CaptionFontSize)

	log.WithFields(map[string]any{
		"price_font":   priceFont,
		"caption_font": captionFont,
	}).Debug("banner fonts loaded")

	return r
}

// Render draws the banner for an alert on a fresh copy of the template
func (r *Renderer) Render(alert core.Alert) (core.Banner, error) {
	if r.template == nil {
		return core.Banner{}, ErrNoTemplate
	}

	bounds := r.template.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, r.template, bounds.Min, draw.Src)

	priceText := threshold.FormatPrice(alert.Price, alert.Decimals)
	captionText := Caption(alert.Pair, r.handle)

	centerX := bounds.Min.X + bounds.Dx()/2
	centerY := bounds.Min.Y + bounds.Dy()/2

	priceInk := measure(r.priceFace, priceText)
	priceLeft := centerX - priceInk.Dx()/2
	priceTop := centerY - priceInk.Dy()/2 - PriceLift
	r.drawOutlined(canvas, r.priceFace, priceText, priceLeft-priceInk.Min.X, priceTop-priceInk.Min.Y)

	captionInk := measure(r.captionFace, captionText)
	captionLeft := centerX - captionInk.Dx()/2
	captionTop := priceTop + priceInk.Dy() + CaptionGap
	r.drawOutlined(canvas, r.captionFace, captionText, captionLeft-captionInk.Min.X, captionTop-captionInk.Min.Y)

	return core.Banner{Alert: alert, Image: canvas}, nil
}

// Caption builds the "BASE/QUOTE | handle" line for a pair
func Caption(pair, handle string) string {
	asset, quote := exchange.SplitAssetQuote(pair)
	if quote == "" {
		quote = exchange.DefaultQuote
	}

	caption := fmt.Sprintf("%s/%s", asset, quote)
	if handle != "" {
		caption += " | " + handle
	}
	return caption
}

// measure returns the ink bounds of text relative to a dot at the origin
func measure(face font.Face, text string) image.Rectangle {
	bounds, _ := font.BoundString(face, text)
	return image.Rect(
		bounds.Min.X.Floor(),
		bounds.Min.Y.Floor(),
		bounds.Max.X.Ceil(),
		bounds.Max.Y.Ceil(),
	)
}

// drawOutlined draws text at every offset within the outline radius in the
// outline color and then once at (x, y) in the fill color
func (r *Renderer) drawOutlined(dst draw.Image, face font.Face, text string, x, y int) {
	for dx := -r.outlineWidth; dx <= r.outlineWidth; dx++ {
		for dy := -r.outlineWidth; dy <= r.outlineWidth; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawString(dst, face, r.outline, text, x+dx, y+dy)
		}
	}

	drawString(dst, face, r.fill, text, x, y)
}

func drawString(dst draw.Image, face font.Face, c color.Color, text string, x, y int) {
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}
