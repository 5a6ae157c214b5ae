package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ds124wfegd/portrait/internal/entity"
)

// RenderImage renders from explicit item ids.
// GET /render/image?avatarId=...&outfits=a,b,c&weapons=x&pets=y&name=...&banner=...
func (h *RenderHandler) RenderImage(c *gin.Context) {
	avatarID := strings.TrimSpace(c.Query("avatarId"))
	if avatarID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing avatarId"})
		return
	}

	req := entity.RenderRequest{
		AvatarID:   avatarID,
		Outfits:    splitList(c.Query("outfits")),
		Weapons:    splitList(c.Query("weapons")),
		Pets:       splitList(c.Query("pets")),
		PlayerName: strings.TrimSpace(c.Query("name")),
		Banner:     strings.TrimSpace(c.Query("banner")),
	}

	ctx, cancel := h.renderContext(c)
	defer cancel()

	png, err := h.service.RenderByItems(ctx, req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// RenderProfile renders from a uid/region pair resolved through the
// player-info API.
// GET /render/uid?uid=...&region=...
func (h *RenderHandler) RenderProfile(c *gin.Context) {
	uid := strings.TrimSpace(c.Query("uid"))
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing uid"})
		return
	}
	region := strings.TrimSpace(c.Query("region"))

	ctx, cancel := h.renderContext(c)
	defer cancel()

	png, err := h.service.RenderByUID(ctx, uid, region)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *RenderHandler) renderContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout > 0 {
		return context.WithTimeout(c.Request.Context(), h.requestTimeout)
	}
	return context.WithCancel(c.Request.Context())
}

func (h *RenderHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrMissingRequiredField), errors.Is(err, entity.ErrInvalidRegion):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrProfileUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
