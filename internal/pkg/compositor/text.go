package compositor

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ds124wfegd/portrait/internal/entity"
)

var (
	nameFill    = color.NRGBA{255, 255, 255, 255}
	nameOutline = color.NRGBA{0, 0, 0, 255}
)

// LoadFace parses TTF/OTF bytes into a face at the given size.
func LoadFace(ttf []byte, size float64) (font.Face, error) {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// FallbackFace returns the embedded Go regular face, used when no font
// URL is configured or the remote font cannot be parsed.
func FallbackFace(size float64) font.Face {
	face, err := LoadFace(goregular.TTF, size)
	if err != nil {
		// goregular is a known-good embedded font.
		panic(err)
	}
	return face
}

// drawName renders the player name centered on the name anchor, wrapped
// when wider than the configured max width, with a simulated stroke:
// eight offset passes in the outline color, then one fill pass.
func drawName(dst *image.NRGBA, name string, face font.Face, l entity.NameLayout) {
	lines := wrapName(name, face, l.MaxWidth)

	metrics := face.Metrics()
	lineHeight := (metrics.Ascent + metrics.Descent).Ceil() + l.LineSpacing
	blockHeight := lineHeight*len(lines) - l.LineSpacing
	baseline := l.Center.Y - blockHeight/2 + metrics.Ascent.Ceil()

	for _, line := range lines {
		width := font.MeasureString(face, line).Ceil()
		x := l.Center.X - width/2

		for dx := -l.OutlineWidth; dx <= l.OutlineWidth; dx += l.OutlineWidth {
			for dy := -l.OutlineWidth; dy <= l.OutlineWidth; dy += l.OutlineWidth {
				if dx == 0 && dy == 0 {
					continue
				}
				drawLine(dst, line, face, x+dx, baseline+dy, nameOutline)
			}
		}
		drawLine(dst, line, face, x, baseline, nameFill)

		baseline += lineHeight
	}
}

func drawLine(dst *image.NRGBA, text string, face font.Face, x, y int, c color.NRGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// wrapName splits name into lines no wider than maxWidth. The break
// point is a character-count estimate derived from the string's average
// glyph width; words longer than a line are hard-split.
func wrapName(name string, face font.Face, maxWidth int) []string {
	width := font.MeasureString(face, name).Ceil()
	runes := []rune(name)
	if width <= maxWidth || len(runes) == 0 {
		return []string{name}
	}

	avg := width / len(runes)
	if avg < 1 {
		avg = 1
	}
	perLine := maxWidth / avg
	if perLine < 1 {
		perLine = 1
	}

	var lines []string
	var current []rune
	for _, word := range strings.Fields(name) {
		w := []rune(word)
		for len(w) > perLine {
			if len(current) > 0 {
				lines = append(lines, string(current))
				current = nil
			}
			lines = append(lines, string(w[:perLine]))
			w = w[perLine:]
		}
		switch {
		case len(current) == 0:
			current = w
		case len(current)+1+len(w) <= perLine:
			current = append(append(current, ' '), w...)
		default:
			lines = append(lines, string(current))
			current = w
		}
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	if len(lines) == 0 {
		return []string{name}
	}
	return lines
}
