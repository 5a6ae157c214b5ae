package compositor

import (
	"bytes"
	"image"
	"image/png"
	"sort"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"

	"github.com/ds124wfegd/portrait/internal/entity"
)

// Layer is one fetched and decoded overlay, tagged with the slot/index
// it was collected for so compositing order never depends on fetch
// arrival order.
type Layer struct {
	Slot   entity.Slot
	Index  int
	ItemID string
	Image  image.Image
}

// Input carries everything one composition needs. Template is
// mandatory; every other field may be zero and its layer is skipped.
type Input struct {
	Template   image.Image
	Avatar     image.Image
	AvatarID   string
	Layers     []Layer
	Banner     image.Image
	PlayerName string
	Face       font.Face
}

// Compositor renders the final portrait canvas. One instance is safe
// for concurrent use; the canvas itself is per-call state.
type Compositor struct {
	name entity.NameLayout
}

func New() *Compositor {
	return &Compositor{name: entity.NameDefaults}
}

// Compose seeds the canvas from the template and layers avatar, slot
// items, banner and name text in the fixed order, returning
// size-optimized PNG bytes.
func (c *Compositor) Compose(in Input) ([]byte, error) {
	canvas := imaging.Clone(in.Template)

	if in.Avatar != nil {
		anchor := entity.CharacterAnchor(in.AvatarID)
		canvas = pasteCentered(canvas, in.Avatar, anchor.Center, anchor.Size)
	}

	bySlot := make(map[entity.Slot][]Layer, len(in.Layers))
	for _, l := range in.Layers {
		bySlot[l.Slot] = append(bySlot[l.Slot], l)
	}
	for _, slot := range entity.OverlaySlots {
		layers := bySlot[slot]
		sort.Slice(layers, func(i, j int) bool { return layers[i].Index < layers[j].Index })

		anchors := entity.SlotAnchors[slot]
		for _, l := range layers {
			if l.Index < 0 || l.Index >= len(anchors) || l.Image == nil {
				continue
			}
			anchor := anchors[l.Index]
			size := anchor.Size
			if slot == entity.SlotWeapons {
				size = entity.WeaponSize(l.ItemID)
			}
			canvas = pasteCentered(canvas, l.Image, anchor.Center, size)
		}
	}

	if in.Banner != nil {
		anchor := entity.SlotAnchors[entity.SlotBanner][0]
		canvas = pasteCentered(canvas, in.Banner, anchor.Center, anchor.Size)
	}

	if in.PlayerName != "" && in.Face != nil {
		drawName(canvas, in.PlayerName, in.Face, c.name)
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, canvas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pasteCentered resizes img to size and overlays it so its center lands
// on the anchor point, blending through the alpha channel.
func pasteCentered(canvas *image.NRGBA, img image.Image, center entity.Point, size entity.Size) *image.NRGBA {
	resized := imaging.Resize(img, size.W, size.H, imaging.Lanczos)
	pos := image.Pt(center.X-resized.Bounds().Dx()/2, center.Y-resized.Bounds().Dy()/2)
	return imaging.Overlay(canvas, resized, pos, 1.0)
}
