package config

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rook-computer/titlecard/internal/assets"
)

// Defaults matching the social image layout the tool was built for.
const (
	DefaultFontSize  = 55
	DefaultTextColor = "#FFFFFF"
	DefaultX         = 30
	DefaultY         = 60
	DefaultLineStep  = 70
	DefaultWrapWidth = 36
	DefaultQRSize    = 160
	DefaultQRMargin  = 30
)

// Config is everything a single render needs. Build it with Default, adjust it,
// then call Validate once before handing it to the renderer.
type Config struct {
	Title      string
	OutputPath string

	BackgroundPath string
	FontPath       string
	FontSize       float64
	TextColor      color.RGBA

	// Origin is the top-left of the first line; each following line moves down by LineStep.
	Origin    image.Point
	LineStep  int
	WrapWidth int

	// QRPayload, when set, is stamped as a QR code in the bottom-right corner.
	QRPayload string
	QRSize    int
	QRMargin  int
}

func Default(title, outputPath string) Config {
	white, _ := ParseColor(DefaultTextColor)
	return Config{
		Title:          title,
		OutputPath:     outputPath,
		BackgroundPath: assets.BackgroundPNG,
		FontPath:       assets.FontTTF,
		FontSize:       DefaultFontSize,
		TextColor:      white,
		Origin:         image.Pt(DefaultX, DefaultY),
		LineStep:       DefaultLineStep,
		WrapWidth:      DefaultWrapWidth,
		QRSize:         DefaultQRSize,
		QRMargin:       DefaultQRMargin,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.OutputPath == "" {
		errs = append(errs, errors.New("output path is empty"))
	}
	if c.BackgroundPath == "" {
		errs = append(errs, errors.New("background path is empty"))
	}
	if c.FontPath == "" {
		errs = append(errs, errors.New("font path is empty"))
	}
	if c.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("font size must be positive: %v", c.FontSize))
	}
	if c.WrapWidth <= 0 {
		errs = append(errs, fmt.Errorf("wrap width must be positive: %d", c.WrapWidth))
	}
	if c.QRPayload != "" && c.QRSize <= 0 {
		errs = append(errs, fmt.Errorf("qr size must be positive: %d", c.QRSize))
	}
	return errors.Join(errs...)
}

// ParseColor parses "#rrggbb" or "#rgb" into an opaque colour.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}, nil
}

// Style holds the optional overrides read from a YAML style file.
// Unset keys keep whatever the Config already has.
type Style struct {
	Background *string  `yaml:"background,omitempty"`
	Font       *string  `yaml:"font,omitempty"`
	FontSize   *float64 `yaml:"fontSize,omitempty"`
	Color      *string  `yaml:"color,omitempty"`
	X          *int     `yaml:"x,omitempty"`
	Y          *int     `yaml:"y,omitempty"`
	LineStep   *int     `yaml:"lineStep,omitempty"`
	WrapWidth  *int     `yaml:"wrapWidth,omitempty"`
	QRSize     *int     `yaml:"qrSize,omitempty"`
	QRMargin   *int     `yaml:"qrMargin,omitempty"`
}

// LoadStyle reads a style file. An empty path yields an empty Style.
func LoadStyle(path string) (*Style, error) {
	s := &Style{}
	if path == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read style file: %w", err)
	}
	if err := yaml.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal style file %s: %w", path, err)
	}
	return s, nil
}

// Apply copies the set fields of s onto c.
func (s *Style) Apply(c *Config) error {
	if s == nil {
		return nil
	}
	if s.Background != nil {
		c.BackgroundPath = *s.Background
	}
	if s.Font != nil {
		c.FontPath = *s.Font
	}
	if s.FontSize != nil {
		c.FontSize = *s.FontSize
	}
	if s.Color != nil {
		rgba, err := ParseColor(*s.Color)
		if err != nil {
			return err
		}
		c.TextColor = rgba
	}
	if s.X != nil {
		c.Origin.X = *s.X
	}
	if s.Y != nil {
		c.Origin.Y = *s.Y
	}
	if s.LineStep != nil {
		c.LineStep = *s.LineStep
	}
	if s.WrapWidth != nil {
		c.WrapWidth = *s.WrapWidth
	}
	if s.QRSize != nil {
		c.QRSize = *s.QRSize
	}
	if s.QRMargin != nil {
		c.QRMargin = *s.QRMargin
	}
	return nil
}
