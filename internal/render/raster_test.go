package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	r := NewRaster(nil)

	rgba := filepath.Join(dir, "rgba.png")
	writePNG(t, rgba, solid(40, 20, color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xFF}))
	gray := filepath.Join(dir, "gray.png")
	writePNG(t, gray, image.NewGray(image.Rect(5, 5, 25, 15)))

	tests := []struct {
		path string
		size image.Point
	}{
		{rgba, image.Pt(40, 20)},
		{gray, image.Pt(20, 10)},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			img, err := r.LoadImage(tt.path)
			if err != nil {
				t.Fatal(err)
			}
			if _, ok := img.(*image.RGBA); !ok {
				t.Errorf("canvas is %T, want *image.RGBA", img)
			}
			if got := img.Bounds(); got.Min != (image.Point{}) || got.Size() != tt.size {
				t.Errorf("bounds = %v, want origin-based size %v", got, tt.size)
			}
		})
	}
}

func TestLoadImageErrors(t *testing.T) {
	dir := t.TempDir()
	r := NewRaster(nil)

	if _, err := r.LoadImage(filepath.Join(dir, "background.png")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: error = %v, want fs.ErrNotExist", err)
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := r.LoadImage(garbage); err == nil {
		t.Error("garbage file: expected error")
	}
}

func TestLoadFont(t *testing.T) {
	dir := t.TempDir()
	r := NewRaster(nil)

	ttf := filepath.Join(dir, "Go-Regular.ttf")
	if err := os.WriteFile(ttf, goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}
	face, err := r.LoadFont(ttf, 55)
	if err != nil {
		t.Fatal(err)
	}
	if h := face.Metrics().Height.Ceil(); h < 55 || h > 80 {
		t.Errorf("line height = %d, want roughly the 55px size", h)
	}

	if _, err := r.LoadFont(filepath.Join(dir, "Roboto-Regular.ttf"), 55); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing font: error = %v, want fs.ErrNotExist", err)
	}

	garbage := filepath.Join(dir, "garbage.ttf")
	if err := os.WriteFile(garbage, []byte("not a font"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := r.LoadFont(garbage, 55); err == nil {
		t.Error("garbage font: expected error")
	}
}

func TestDrawText(t *testing.T) {
	dir := t.TempDir()
	r := NewRaster(nil)
	ttf := filepath.Join(dir, "Go-Regular.ttf")
	if err := os.WriteFile(ttf, goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}
	face, err := r.LoadFont(ttf, 55)
	if err != nil {
		t.Fatal(err)
	}

	canvas := solid(600, 200, color.Black)
	at := image.Pt(30, 60)
	m := r.DrawText(canvas, face, "Hello World", at, color.White)
	if m.Width <= 0 || m.Ascent <= 0 || m.Height < m.Ascent {
		t.Fatalf("unexpected metrics %+v", m)
	}

	// A couple of pixels of slack for anti-aliasing at the glyph edges.
	box := image.Rect(at.X, at.Y, at.X+m.Width, at.Y+m.Height).Inset(-2)
	inside, outside := 0, 0
	for y := 0; y < canvas.Bounds().Dy(); y++ {
		for x := 0; x < canvas.Bounds().Dx(); x++ {
			if canvas.RGBAAt(x, y).R == 0 {
				continue
			}
			if image.Pt(x, y).In(box) {
				inside++
			} else {
				outside++
			}
		}
	}
	if inside == 0 {
		t.Error("no text pixels inside the text box")
	}
	if outside != 0 {
		t.Errorf("%d text pixels outside box %v", outside, box)
	}
}

func TestDrawImage(t *testing.T) {
	r := NewRaster(nil)
	canvas := solid(100, 100, color.Black)
	red := color.RGBA{R: 0xFF, A: 0xFF}

	r.DrawImage(canvas, solid(10, 10, red), image.Rect(80, 80, 100, 100))
	if got := canvas.RGBAAt(90, 90); got != red {
		t.Errorf("scaled pixel = %v, want %v", got, red)
	}
	if got := canvas.RGBAAt(79, 79); got != (color.RGBA{A: 0xFF}) {
		t.Errorf("pixel outside rect = %v, want black", got)
	}

	r.DrawImage(canvas, solid(5, 5, red), image.Rect(0, 0, 5, 5))
	if got := canvas.RGBAAt(4, 4); got != red {
		t.Errorf("unscaled pixel = %v, want %v", got, red)
	}

	r.DrawImage(canvas, nil, image.Rect(0, 0, 5, 5))
}

func TestEncodeDeterministic(t *testing.T) {
	r := NewRaster(nil)
	img := solid(64, 32, color.RGBA{R: 0x90, B: 0xFF, A: 0xFF})

	var a, b bytes.Buffer
	if err := r.Encode(&a, img); err != nil {
		t.Fatal(err)
	}
	if err := r.Encode(&b, img); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("encoding the same canvas twice differs")
	}
	decoded, err := png.Decode(&a)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}
}

func TestGenerateQRCodeImage(t *testing.T) {
	img, err := GenerateQRCodeImage("", 100, color.White)
	if err != nil || img != nil {
		t.Errorf("empty payload = (%v, %v), want (nil, nil)", img, err)
	}

	img, err = GenerateQRCodeImage("https://example.com/articles/saga/", 200, color.White)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Dx(); got < 200 {
		t.Errorf("width = %d, want >= 200", got)
	}
	opaque, transparent := 0, 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
				transparent++
			} else {
				opaque++
			}
		}
	}
	if opaque == 0 || transparent == 0 {
		t.Errorf("opaque=%d transparent=%d, want both modules and background", opaque, transparent)
	}
}
