package screens

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/rook-computer/titlecard/internal/render"
	"github.com/rook-computer/titlecard/internal/render/layout"
	"golang.org/x/image/font"
)

// TitleCard is the composition drawn over the background: wrapped title lines
// and, optionally, a QR code in the bottom-right corner.
type TitleCard struct {
	Placements []layout.Placement
	Face       font.Face
	Color      color.Color

	QR       image.Image
	QRSize   int
	QRMargin int
}

// Draw paints the card onto dst in placement order and returns one metrics entry per line.
func (c TitleCard) Draw(r render.Imaging, dst draw.Image) []render.TextMetrics {
	metrics := make([]render.TextMetrics, 0, len(c.Placements))
	for _, p := range c.Placements {
		metrics = append(metrics, r.DrawText(dst, c.Face, p.Line, p.Point, c.Color))
	}
	if c.QR != nil {
		area := layout.Inset(dst.Bounds(), c.QRMargin)
		r.DrawImage(dst, c.QR, layout.AnchorBottomRight(area, c.QRSize, c.QRSize))
	}
	return metrics
}
