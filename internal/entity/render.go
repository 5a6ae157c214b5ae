package entity

// Slot is a named equipment/display category on the portrait.
type Slot string

const (
	SlotCharacter Slot = "character"
	SlotHead      Slot = "head"
	SlotMask      Slot = "mask"
	SlotTop       Slot = "top"
	SlotBottom    Slot = "bottom"
	SlotFootwear  Slot = "footwear"
	SlotWeapons   Slot = "weapons"
	SlotPets      Slot = "pets"
	SlotBanner    Slot = "profile_banner"
)

// OverlaySlots is the fixed compositing order for item layers.
// The banner and name layers are drawn after these.
var OverlaySlots = []Slot{
	SlotHead,
	SlotMask,
	SlotTop,
	SlotBottom,
	SlotFootwear,
	SlotWeapons,
	SlotPets,
}

type Point struct {
	X int
	Y int
}

type Size struct {
	W int
	H int
}

// Anchor is one placement position: a center point and a target size.
// All pasting is center-anchored.
type Anchor struct {
	Center Point
	Size   Size
}

// RenderRequest is the normalized input to a render: explicit item ids
// plus the optional decorations. Built directly from caller arguments
// or from a player profile lookup.
type RenderRequest struct {
	AvatarID   string   `json:"avatar_id"`
	Outfits    []string `json:"outfits,omitempty"`
	Weapons    []string `json:"weapons,omitempty"`
	Pets       []string `json:"pets,omitempty"`
	PlayerName string   `json:"player_name,omitempty"`
	Banner     string   `json:"banner,omitempty"`
}

// SlotItems maps each overlay slot to its resolved, capacity-bounded
// item id list.
type SlotItems map[Slot][]string

// Caps on raw caller input, applied before slot resolution.
const (
	MaxOutfits = 7
	MaxWeapons = 2
	MaxPets    = 1
)
