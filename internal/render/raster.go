package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/k1LoW/errors"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// fontDPI makes one point equal one pixel, so font sizes are pixel sizes.
const fontDPI = 72

var _ Imaging = (*Raster)(nil)

// Raster implements Imaging on in-memory RGBA canvases.
type Raster struct {
	Logger *slog.Logger
}

func NewRaster(logger *slog.Logger) *Raster { return &Raster{Logger: logger} }

func (r *Raster) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func (r *Raster) LoadImage(path string) (_ draw.Image, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer f.Close()
	src, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image file %s: %w", path, err)
	}
	// Always copy into an RGBA canvas; decoded paletted or gray images cannot take white text.
	bounds := src.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), src, bounds.Min, draw.Src)
	r.logger().Info("background loaded", "path", path, "format", format, "width", bounds.Dx(), "height", bounds.Dy())
	return canvas, nil
}

func (r *Raster) LoadFont(path string, size float64) (_ font.Face, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
	}
	// freetype handles plain TrueType; CFF-flavoured OpenType needs x/image.
	tt, terr := truetype.Parse(b)
	if terr == nil {
		r.logger().Info("font loaded", "path", path, "parser", "truetype", "size", size)
		return truetype.NewFace(tt, &truetype.Options{Size: size, DPI: fontDPI, Hinting: font.HintingFull}), nil
	}
	r.logger().Debug("truetype parse failed, trying opentype", "path", path, "error", terr)
	otf, err := opentype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font file %s: %w", path, err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{Size: size, DPI: fontDPI, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face from %s: %w", path, err)
	}
	r.logger().Info("font loaded", "path", path, "parser", "opentype", "size", size)
	return face, nil
}

func (r *Raster) DrawText(dst draw.Image, face font.Face, text string, at image.Point, c color.Color) TextMetrics {
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}
	width := drawer.MeasureString(text).Ceil()
	drawer.Dot = fixed.P(at.X, at.Y+ascent)
	drawer.DrawString(text)
	return TextMetrics{
		Width:      width,
		Height:     ascent + metrics.Descent.Ceil(),
		Ascent:     ascent,
		Descent:    metrics.Descent.Ceil(),
		LineHeight: metrics.Height.Ceil(),
	}
}

func (r *Raster) DrawImage(dst draw.Image, src image.Image, rect image.Rectangle) {
	if src == nil || rect.Empty() {
		return
	}
	if rect.Size() == src.Bounds().Size() {
		draw.Draw(dst, rect, src, src.Bounds().Min, draw.Over)
		return
	}
	xdraw.NearestNeighbor.Scale(dst, rect, src, src.Bounds(), xdraw.Over, nil)
}

func (r *Raster) Encode(w io.Writer, img image.Image) error {
	enc := &png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(w, img); err != nil {
		return errors.WithStack(fmt.Errorf("failed to encode png: %w", err))
	}
	return nil
}
