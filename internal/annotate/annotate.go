// Package annotate marks a matched element on a device screenshot.
package annotate

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mj1618/element-inspector/internal/platform"
)

const (
	borderWidth = 4
	glyphWidth  = 7
	glyphHeight = 13
)

var (
	boxColor     = color.RGBA{R: 0, G: 200, B: 83, A: 255}
	textColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

// Highlight draws a box around b and writes label just above it. Bounds are
// in screenshot pixels, which is what UIAutomator reports.
func Highlight(img image.Image, b platform.Bounds, label string) *image.RGBA {
	rgba := ToRGBA(img)
	for i := 0; i < borderWidth; i++ {
		drawRectangle(rgba, b.X+i, b.Y+i, b.X+b.Width-i, b.Y+b.Height-i, boxColor)
	}
	if label != "" {
		y := b.Y - glyphHeight/2 - 2
		if y < glyphHeight {
			y = b.Y + b.Height + glyphHeight
		}
		x := b.X + 2
		if maxX := rgba.Bounds().Max.X - LabelWidth(label) - 1; x > maxX {
			x = max(maxX, rgba.Bounds().Min.X+1)
		}
		drawTextWithOutline(rgba, label, x, y, textColor, outlineColor)
	}
	return rgba
}

// PNG decodes a screenshot, highlights b, and re-encodes it.
func PNG(data []byte, b platform.Bounds, label string) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, Highlight(img, b, label)); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

// ToRGBA converts any image to RGBA.
func ToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

// drawRectangle draws a one-pixel outline clamped to the image.
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	r := image.Rect(x1, y1, x2, y2).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// drawTextWithOutline draws text with its baseline at (x, y) and a one-pixel
// outline for contrast.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, textColor, outline color.Color) {
	stroke := func(dx, dy int, c color.Color) {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(x+dx, y+dy),
		}
		d.DrawString(text)
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				stroke(dx, dy, outline)
			}
		}
	}
	stroke(0, 0, textColor)
}

// LabelWidth is the pixel width of label in the annotation font.
func LabelWidth(label string) int {
	return len([]rune(label)) * glyphWidth
}
