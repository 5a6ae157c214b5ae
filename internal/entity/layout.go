package entity

// Static placement configuration. Fixed at build time, never derived at
// request time.

// SlotAnchors lists the placement positions per slot; a slot's capacity
// is the length of its anchor list.
var SlotAnchors = map[Slot][]Anchor{
	SlotHead: {
		{Center: Point{954, 256}, Size: Size{200, 200}},
		{Center: Point{1130, 496}, Size: Size{200, 200}},
	},
	SlotMask: {
		{Center: Point{1182, 270}, Size: Size{200, 200}},
	},
	SlotTop: {
		{Center: Point{180, 508}, Size: Size{200, 200}},
		{Center: Point{324, 254}, Size: Size{200, 200}},
	},
	SlotBottom: {
		{Center: Point{170, 796}, Size: Size{200, 200}},
	},
	SlotFootwear: {
		{Center: Point{326, 1028}, Size: Size{200, 200}},
	},
	SlotWeapons: {
		{Center: Point{1056, 700}, Size: Size{500, 150}},
		{Center: Point{1056, 880}, Size: Size{500, 150}},
	},
	SlotPets: {
		{Center: Point{952, 1052}, Size: Size{180, 180}},
	},
	SlotBanner: {
		{Center: Point{660, 130}, Size: Size{600, 120}},
	},
}

// Capacity returns the number of anchors configured for a slot.
func Capacity(s Slot) int {
	return len(SlotAnchors[s])
}

// CharacterDefault is the generic avatar placement, used when the
// avatar id has no override.
var CharacterDefault = Anchor{Center: Point{660, 750}, Size: Size{800, 1000}}

// CharacterOverrides carries per-avatar-id placement geometry.
var CharacterOverrides = map[string]Anchor{
	"102000024": {Center: Point{650, 750}, Size: Size{750, 900}},
	"102000004": {Center: Point{650, 720}, Size: Size{700, 1000}},
	"101000006": {Center: Point{720, 750}, Size: Size{750, 1000}},
	"101000020": {Center: Point{630, 750}, Size: Size{800, 1000}},
	"101000023": {Center: Point{680, 750}, Size: Size{750, 950}},
	"101000026": {Center: Point{650, 750}, Size: Size{800, 900}},
	"101000027": {Center: Point{665, 720}, Size: Size{750, 850}},
	"102000010": {Center: Point{720, 750}, Size: Size{800, 1000}},
	"102000017": {Center: Point{650, 750}, Size: Size{650, 950}},
	"102000022": {Center: Point{650, 750}, Size: Size{650, 950}},
	"102000027": {Center: Point{650, 750}, Size: Size{650, 950}},
	"102000029": {Center: Point{600, 750}, Size: Size{750, 1000}},
	"102000036": {Center: Point{630, 750}, Size: Size{700, 1000}},
	"102000041": {Center: Point{650, 750}, Size: Size{500, 900}},
}

// CharacterAnchor returns the placement for an avatar id, falling back
// to the generic anchor.
func CharacterAnchor(avatarID string) Anchor {
	if a, ok := CharacterOverrides[avatarID]; ok {
		return a
	}
	return CharacterDefault
}

// WeaponStretchDefault is the target size for weapon images without a
// per-item override.
var WeaponStretchDefault = Size{500, 150}

// WeaponStretch overrides the weapon target size by item id. An id in
// this table always wins over the anchor's generic size.
var WeaponStretch = map[string]Size{
	"907101817": {500, 150},
	"907101818": {500, 150},
}

// WeaponSize returns the stretch size for a weapon item id.
func WeaponSize(itemID string) Size {
	if s, ok := WeaponStretch[itemID]; ok {
		return s
	}
	return WeaponStretchDefault
}

// DefaultItems are appended to a slot until its capacity is met when
// the caller supplied fewer items.
var DefaultItems = map[Slot][]string{
	SlotMask:    {"214000000"},
	SlotTop:     {"203000000"},
	SlotWeapons: {"907101817"},
}

// NameLayout positions the outlined player-name text block.
type NameLayout struct {
	Center       Point
	MaxWidth     int
	FontSize     float64
	OutlineWidth int
	LineSpacing  int
}

var NameDefaults = NameLayout{
	Center:       Point{660, 1240},
	MaxWidth:     560,
	FontSize:     48,
	OutlineWidth: 2,
	LineSpacing:  6,
}
