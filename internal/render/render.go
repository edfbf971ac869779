package render

import (
	"image"
	"image/color"
	"image/draw"
	"io"

	"golang.org/x/image/font"
)

// Imaging is the image capability the title renderer draws through.
// Raster is the real implementation; tests substitute a recorder.
type Imaging interface {
	// LoadImage decodes the image at path into a mutable canvas.
	LoadImage(path string) (draw.Image, error)
	// LoadFont loads a TrueType or OpenType font at size pixels.
	LoadFont(path string, size float64) (font.Face, error)
	// DrawText draws text with its top-left corner at at.
	DrawText(dst draw.Image, face font.Face, text string, at image.Point, c color.Color) TextMetrics
	// DrawImage composites src scaled into rect.
	DrawImage(dst draw.Image, src image.Image, rect image.Rectangle)
	// Encode writes img as PNG.
	Encode(w io.Writer, img image.Image) error
}

type TextMetrics struct {
	Width      int
	Height     int
	Ascent     int
	Descent    int
	LineHeight int
}
