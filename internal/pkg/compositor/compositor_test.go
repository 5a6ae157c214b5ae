package compositor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds124wfegd/portrait/internal/entity"
)

const (
	templateW = 1320
	templateH = 1400
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

var (
	templateGray = color.NRGBA{60, 60, 60, 255}
	avatarGreen  = color.NRGBA{0, 200, 0, 255}
	itemBlue     = color.NRGBA{0, 0, 220, 255}
	weaponRed    = color.NRGBA{220, 0, 0, 255}
)

func testTemplate() *image.NRGBA {
	return solid(templateW, templateH, templateGray)
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

// sameHue tolerates the ±1 rounding Lanczos resampling introduces.
func sameHue(a color.Color, want color.NRGBA) bool {
	r, g, b, _ := a.RGBA()
	diff := func(got uint32, want uint8) int {
		d := int(got>>8) - int(want)
		if d < 0 {
			d = -d
		}
		return d
	}
	return diff(r, want.R) <= 2 && diff(g, want.G) <= 2 && diff(b, want.B) <= 2
}

func TestComposeTemplateOnly(t *testing.T) {
	out, err := New().Compose(Input{Template: testTemplate()})
	require.NoError(t, err)

	img := decodePNG(t, out)
	assert.Equal(t, templateW, img.Bounds().Dx())
	assert.Equal(t, templateH, img.Bounds().Dy())
	assert.True(t, sameHue(img.At(10, 10), templateGray))
}

func TestComposeDeterministic(t *testing.T) {
	in := Input{
		Template: testTemplate(),
		Avatar:   solid(80, 100, avatarGreen),
		AvatarID: "101000006",
		Layers: []Layer{
			{Slot: entity.SlotHead, Index: 0, ItemID: "h1", Image: solid(64, 64, itemBlue)},
			{Slot: entity.SlotWeapons, Index: 0, ItemID: "w1", Image: solid(100, 30, weaponRed)},
		},
		PlayerName: "ProPlayer",
		Face:       FallbackFace(entity.NameDefaults.FontSize),
	}

	c := New()
	first, err := c.Compose(in)
	require.NoError(t, err)
	second, err := c.Compose(in)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second))
}

// Avatar geometry must come from the per-id override table when the id
// is present: 101000006 is 750x1000 centered at (720,750), which covers
// x=1090 while the generic 800x1000 at (660,750) stops at x=1060.
func TestComposeAvatarOverrideGeometry(t *testing.T) {
	out, err := New().Compose(Input{
		Template: testTemplate(),
		Avatar:   solid(75, 100, avatarGreen),
		AvatarID: "101000006",
	})
	require.NoError(t, err)

	img := decodePNG(t, out)
	assert.True(t, sameHue(img.At(720, 750), avatarGreen), "override center")
	assert.True(t, sameHue(img.At(1090, 750), avatarGreen), "override right edge")
	assert.True(t, sameHue(img.At(340, 750), templateGray), "left of override box")
}

func TestComposeCenterAnchoredPaste(t *testing.T) {
	// head anchor 0 is centered at (954,256) with a 200x200 target.
	out, err := New().Compose(Input{
		Template: testTemplate(),
		Layers: []Layer{
			{Slot: entity.SlotHead, Index: 0, ItemID: "h1", Image: solid(64, 64, itemBlue)},
		},
	})
	require.NoError(t, err)

	img := decodePNG(t, out)
	assert.True(t, sameHue(img.At(954, 256), itemBlue), "anchor center")
	assert.True(t, sameHue(img.At(860, 162), itemBlue), "inside top-left quadrant")
	assert.True(t, sameHue(img.At(848, 256), templateGray), "left of pasted box")
	assert.True(t, sameHue(img.At(954, 362), templateGray), "below pasted box")
}

// An item id in the stretch table always uses its override dimensions,
// never the anchor's generic size.
func TestComposeWeaponStretchOverride(t *testing.T) {
	entity.WeaponStretch["555000111"] = entity.Size{W: 300, H: 80}
	defer delete(entity.WeaponStretch, "555000111")

	out, err := New().Compose(Input{
		Template: testTemplate(),
		Layers: []Layer{
			{Slot: entity.SlotWeapons, Index: 0, ItemID: "555000111", Image: solid(100, 30, weaponRed)},
		},
	})
	require.NoError(t, err)

	// Anchor center (1056,700): 300x80 covers x=906..1206, y=660..740.
	// The generic 500x150 would cover x=806..1306, y=625..775.
	img := decodePNG(t, out)
	assert.True(t, sameHue(img.At(1056, 700), weaponRed), "weapon center")
	assert.True(t, sameHue(img.At(916, 700), weaponRed), "inside override width")
	assert.True(t, sameHue(img.At(826, 700), templateGray), "outside override, inside generic width")
	assert.True(t, sameHue(img.At(1056, 650), templateGray), "outside override, inside generic height")
}

func TestComposeWeaponDefaultStretch(t *testing.T) {
	out, err := New().Compose(Input{
		Template: testTemplate(),
		Layers: []Layer{
			{Slot: entity.SlotWeapons, Index: 0, ItemID: "unlisted-weapon", Image: solid(100, 30, weaponRed)},
		},
	})
	require.NoError(t, err)

	img := decodePNG(t, out)
	assert.True(t, sameHue(img.At(826, 700), weaponRed), "default 500-wide stretch")
}

func TestComposeSkipsOutOfRangeIndex(t *testing.T) {
	plain, err := New().Compose(Input{Template: testTemplate()})
	require.NoError(t, err)

	withBad, err := New().Compose(Input{
		Template: testTemplate(),
		Layers: []Layer{
			{Slot: entity.SlotMask, Index: 5, ItemID: "m1", Image: solid(10, 10, itemBlue)},
			{Slot: entity.SlotMask, Index: -1, ItemID: "m2", Image: solid(10, 10, itemBlue)},
		},
	})
	require.NoError(t, err)

	assert.True(t, bytes.Equal(plain, withBad))
}

func TestComposeBannerLayer(t *testing.T) {
	out, err := New().Compose(Input{
		Template: testTemplate(),
		Banner:   solid(60, 12, itemBlue),
	})
	require.NoError(t, err)

	// Banner anchor: centered at (660,130), 600x120.
	img := decodePNG(t, out)
	assert.True(t, sameHue(img.At(660, 130), itemBlue))
	assert.True(t, sameHue(img.At(660, 300), templateGray))
}

func TestComposeNameDrawsText(t *testing.T) {
	plain, err := New().Compose(Input{Template: testTemplate()})
	require.NoError(t, err)

	named, err := New().Compose(Input{
		Template:   testTemplate(),
		PlayerName: "ProPlayer",
		Face:       FallbackFace(entity.NameDefaults.FontSize),
	})
	require.NoError(t, err)

	assert.False(t, bytes.Equal(plain, named))
}

func TestWrapName(t *testing.T) {
	face := FallbackFace(entity.NameDefaults.FontSize)

	t.Run("short name stays on one line", func(t *testing.T) {
		lines := wrapName("Bob", face, entity.NameDefaults.MaxWidth)
		assert.Equal(t, []string{"Bob"}, lines)
	})

	t.Run("long name wraps preserving words", func(t *testing.T) {
		name := "Extremely Long Player Name That Cannot Possibly Fit"
		lines := wrapName(name, face, entity.NameDefaults.MaxWidth)
		require.Greater(t, len(lines), 1)
		assert.Equal(t, name, strings.Join(lines, " "))
	})

	t.Run("oversized single word is hard split", func(t *testing.T) {
		name := strings.Repeat("W", 60)
		lines := wrapName(name, face, entity.NameDefaults.MaxWidth)
		require.Greater(t, len(lines), 1)
		assert.Equal(t, name, strings.Join(lines, ""))
	})
}
