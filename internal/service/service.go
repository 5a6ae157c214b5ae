package service

import (
	"context"

	"github.com/ds124wfegd/portrait/internal/entity"
)

// RenderService renders composite portrait PNGs.
type RenderService interface {
	// RenderByItems renders from explicit item ids.
	RenderByItems(ctx context.Context, req entity.RenderRequest) ([]byte, error)
	// RenderByUID resolves uid/region through the player-info API
	// first, falling back to the configured default identity when the
	// API stays down.
	RenderByUID(ctx context.Context, uid, region string) ([]byte, error)
}
