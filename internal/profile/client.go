package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/portrait/internal/entity"
	"github.com/ds124wfegd/portrait/internal/pkg/fetcher"
)

// Client normalizes the external player-info API into the same
// RenderRequest shape the assembler consumes.
type Client struct {
	fetch   *fetcher.Client
	infoURL string
	timeout time.Duration
	regions []string
}

func NewClient(fetch *fetcher.Client, infoURL string, timeout time.Duration, regions []string) *Client {
	return &Client{
		fetch:   fetch,
		infoURL: infoURL,
		timeout: timeout,
		regions: regions,
	}
}

// ValidRegion reports whether region is in the allowed list,
// case-insensitively.
func (c *Client) ValidRegion(region string) bool {
	for _, r := range c.regions {
		if strings.EqualFold(r, region) {
			return true
		}
	}
	return false
}

// FetchProfile resolves uid into a RenderRequest. With an empty region
// every allowed region is tried until one answers. Exhausted retries or
// a malformed payload yield ErrProfileUnavailable; an unknown region
// yields ErrInvalidRegion.
func (c *Client) FetchProfile(ctx context.Context, uid, region string) (entity.RenderRequest, error) {
	if uid == "" {
		return entity.RenderRequest{}, entity.ErrMissingRequiredField
	}

	if region != "" {
		if !c.ValidRegion(region) {
			return entity.RenderRequest{}, entity.ErrInvalidRegion
		}
		return c.fetchOne(ctx, uid, region)
	}

	for _, r := range c.regions {
		req, err := c.fetchOne(ctx, uid, r)
		if err == nil {
			return req, nil
		}
		logrus.Warnf("profile uid=%s region=%s: %v", uid, r, err)
	}
	return entity.RenderRequest{}, entity.ErrProfileUnavailable
}

func (c *Client) fetchOne(ctx context.Context, uid, region string) (entity.RenderRequest, error) {
	q := url.Values{}
	q.Set("uid", uid)
	q.Set("region", strings.ToLower(region))

	data, err := c.fetch.Fetch(ctx, c.infoURL+"?"+q.Encode(), c.timeout)
	if err != nil {
		return entity.RenderRequest{}, fmt.Errorf("%w: %v", entity.ErrProfileUnavailable, err)
	}
	return normalize(data)
}

// normalize extracts the id lists from the raw API payload. Numeric ids
// are coerced to decimal strings; a non-object payload is malformed.
func normalize(data []byte) (entity.RenderRequest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return entity.RenderRequest{}, fmt.Errorf("%w: %v", entity.ErrProfileUnavailable, err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return entity.RenderRequest{}, fmt.Errorf("%w: payload is not an object", entity.ErrProfileUnavailable)
	}

	var req entity.RenderRequest

	if info, ok := obj["profileInfo"].(map[string]any); ok {
		req.AvatarID = coerceID(info["avatarId"])
		req.Outfits = coerceIDs(info["equippedSkills"])
	}
	if skins, ok := obj["weaponSkinShows"].([]any); ok {
		req.Weapons = coerceIDs(skins)
	}
	if pet, ok := obj["petInfo"].(map[string]any); ok {
		if id := coerceID(pet["skinId"]); id != "" {
			req.Pets = []string{id}
		} else if id := coerceID(pet["id"]); id != "" {
			req.Pets = []string{id}
		}
	}
	if basic, ok := obj["basicInfo"].(map[string]any); ok {
		if name, ok := basic["nickname"].(string); ok {
			req.PlayerName = strings.TrimSpace(name)
		}
	}

	return req, nil
}

func coerceID(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

func coerceIDs(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if id := coerceID(item); id != "" {
			out = append(out, id)
		}
	}
	return out
}
