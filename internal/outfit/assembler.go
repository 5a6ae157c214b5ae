package outfit

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ds124wfegd/portrait/internal/category"
	"github.com/ds124wfegd/portrait/internal/entity"
)

// Assembler distributes caller-supplied item ids into equipment slots,
// bounded by each slot's anchor capacity, and backfills configured
// defaults.
type Assembler struct {
	resolver category.Resolver
}

func NewAssembler(r category.Resolver) *Assembler {
	return &Assembler{resolver: r}
}

type resolved struct {
	slot entity.Slot
	ok   bool
}

// Assemble produces the slot->ids mapping for a request. Outfit ids are
// resolved to slots concurrently but inserted in their original input
// order; weapon and pet ids bypass resolution and go straight to their
// named slots. Every returned list is no longer than its slot capacity.
func (a *Assembler) Assemble(ctx context.Context, req entity.RenderRequest) entity.SlotItems {
	items := entity.SlotItems{}
	for _, slot := range entity.OverlaySlots {
		items[slot] = []string{}
	}

	// Hard caps before resolution; excess is silently dropped.
	for _, w := range truncate(req.Weapons, entity.MaxWeapons) {
		if len(items[entity.SlotWeapons]) < entity.Capacity(entity.SlotWeapons) {
			items[entity.SlotWeapons] = append(items[entity.SlotWeapons], w)
		}
	}
	for _, p := range truncate(req.Pets, entity.MaxPets) {
		if len(items[entity.SlotPets]) < entity.Capacity(entity.SlotPets) {
			items[entity.SlotPets] = append(items[entity.SlotPets], p)
		}
	}

	outfits := truncate(req.Outfits, entity.MaxOutfits)

	// Fan out category resolution, pairing each result back with its
	// input position so arrival order cannot reorder slot lists.
	results := make([]resolved, len(outfits))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, id := range outfits {
		g.Go(func() error {
			slot, ok := a.resolver.Resolve(gctx, id)
			results[i] = resolved{slot: slot, ok: ok}
			return nil
		})
	}
	_ = g.Wait()

	for i, id := range outfits {
		r := results[i]
		if !r.ok {
			continue
		}
		list, known := items[r.slot]
		if !known {
			continue
		}
		if len(list) < entity.Capacity(r.slot) {
			items[r.slot] = append(list, id)
		}
	}

	// Backfill defaults, then clamp defensively.
	for slot, defaults := range entity.DefaultItems {
		capacity := entity.Capacity(slot)
		for _, d := range defaults {
			if len(items[slot]) >= capacity {
				break
			}
			if contains(items[slot], d) {
				continue
			}
			items[slot] = append(items[slot], d)
		}
	}
	for slot, list := range items {
		if capacity := entity.Capacity(slot); len(list) > capacity {
			items[slot] = list[:capacity]
		}
	}

	return items
}

func truncate(ids []string, max int) []string {
	out := make([]string, 0, max)
	for _, id := range ids {
		if id == "" {
			continue
		}
		if len(out) == max {
			break
		}
		out = append(out, id)
	}
	return out
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
