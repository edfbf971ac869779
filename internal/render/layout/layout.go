package layout

import (
	"image"
	"strings"
	"unicode/utf8"
)

// Placement is a wrapped line together with the top-left point it is drawn at.
type Placement struct {
	Index int
	Line  string
	Point image.Point
}

// Wrap splits text into lines of whitespace-separated words, greedily filling each
// line up to width characters. Width is counted in runes, not pixels.
// A word longer than width is put on its own line and never split.
// Text without any words yields no lines.
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	var current strings.Builder
	currentLen := 0
	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		if currentLen > 0 && currentLen+1+wordLen > width {
			lines = append(lines, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	if currentLen > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// Words returns the word sequence carried by lines, in order.
func Words(lines []string) []string {
	var words []string
	for _, line := range lines {
		words = append(words, strings.Fields(line)...)
	}
	return words
}

// Place assigns each line its draw position: x stays at origin.X, y advances by
// stepPx per line starting at origin.Y.
func Place(lines []string, origin image.Point, stepPx int) []Placement {
	placements := make([]Placement, 0, len(lines))
	for i, line := range lines {
		placements = append(placements, Placement{
			Index: i,
			Line:  line,
			Point: image.Pt(origin.X, origin.Y+stepPx*i),
		})
	}
	return placements
}

// Inset shrinks rect by paddingPx on all sides.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	out := image.Rect(rect.Min.X+paddingPx, rect.Min.Y+paddingPx, rect.Max.X-paddingPx, rect.Max.Y-paddingPx)
	return Normalize(out)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// AnchorBottomRight returns a rectangle of size (widthPx,heightPx) placed in the bottom-right of rect.
// The size is clamped to rect.
func AnchorBottomRight(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	widthPx = clamp(widthPx, 0, rect.Dx())
	heightPx = clamp(heightPx, 0, rect.Dy())
	return image.Rect(rect.Max.X-widthPx, rect.Max.Y-heightPx, rect.Max.X, rect.Max.Y)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
