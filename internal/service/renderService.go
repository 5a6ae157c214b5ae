package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/sync/errgroup"

	"github.com/ds124wfegd/portrait/config"
	"github.com/ds124wfegd/portrait/internal/entity"
	"github.com/ds124wfegd/portrait/internal/outfit"
	"github.com/ds124wfegd/portrait/internal/pkg/assetcache"
	"github.com/ds124wfegd/portrait/internal/pkg/compositor"
	"github.com/ds124wfegd/portrait/internal/pkg/events"
	"github.com/ds124wfegd/portrait/internal/profile"
)

// fetchLimit bounds the per-request download pool.
const fetchLimit = 8

type renderService struct {
	cfg       *config.Config
	cache     *assetcache.Cache
	assembler *outfit.Assembler
	profiles  *profile.Client
	comp      *compositor.Compositor
	producer  events.Producer
}

func NewRenderService(cfg *config.Config, cache *assetcache.Cache, assembler *outfit.Assembler, profiles *profile.Client, comp *compositor.Compositor, producer events.Producer) RenderService {
	return &renderService{
		cfg:       cfg,
		cache:     cache,
		assembler: assembler,
		profiles:  profiles,
		comp:      comp,
		producer:  producer,
	}
}

type assetKind int

const (
	kindTemplate assetKind = iota
	kindAvatar
	kindItem
	kindBanner
)

type assetJob struct {
	kind   assetKind
	url    string
	ttl    time.Duration
	slot   entity.Slot
	index  int
	itemID string

	data []byte
	err  error
}

func (s *renderService) RenderByItems(ctx context.Context, req entity.RenderRequest) ([]byte, error) {
	if req.AvatarID == "" {
		return nil, entity.ErrMissingRequiredField
	}

	start := time.Now()
	renderID := uuid.New().String()

	items := s.assembler.Assemble(ctx, req)
	jobs := s.collectAssets(req, items)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchLimit)
	for i := range jobs {
		job := &jobs[i]
		g.Go(func() error {
			job.data, job.err = s.cache.GetOrFetch(gctx, job.url, job.ttl, s.cfg.Fetch.ImageTimeout)
			// Only the template is allowed to fail the stage; a failed
			// optional asset is just a skipped layer.
			if job.err != nil && job.kind == kindTemplate {
				return job.err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logrus.Errorf("render %s: template fetch: %v", renderID, err)
		return nil, entity.ErrTemplateUnavailable
	}

	in := compositor.Input{
		AvatarID:   req.AvatarID,
		PlayerName: req.PlayerName,
	}
	for _, job := range jobs {
		if job.err != nil {
			logrus.Warnf("render %s: skipping %s: %v", renderID, job.url, job.err)
			continue
		}
		img, err := imaging.Decode(bytes.NewReader(job.data))
		if err != nil {
			if job.kind == kindTemplate {
				logrus.Errorf("render %s: template decode: %v", renderID, err)
				return nil, entity.ErrTemplateUnavailable
			}
			logrus.Warnf("render %s: undecodable %s: %v", renderID, job.url, err)
			continue
		}
		switch job.kind {
		case kindTemplate:
			in.Template = img
		case kindAvatar:
			in.Avatar = img
		case kindBanner:
			in.Banner = img
		case kindItem:
			in.Layers = append(in.Layers, compositor.Layer{
				Slot:   job.slot,
				Index:  job.index,
				ItemID: job.itemID,
				Image:  img,
			})
		}
	}
	if in.Template == nil {
		return nil, entity.ErrTemplateUnavailable
	}

	if req.PlayerName != "" {
		in.Face = s.nameFace(ctx)
	}

	out, err := s.comp.Compose(in)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"render_id": renderID,
		"avatar_id": req.AvatarID,
		"bytes":     len(out),
		"took":      time.Since(start).String(),
	}).Info("render completed")

	if err := s.producer.RenderCompleted(events.RenderEvent{
		RenderID: renderID,
		AvatarID: req.AvatarID,
		Bytes:    len(out),
		Duration: time.Since(start),
	}); err != nil {
		logrus.Warnf("render %s: event publish: %v", renderID, err)
	}

	return out, nil
}

func (s *renderService) RenderByUID(ctx context.Context, uid, region string) ([]byte, error) {
	req, err := s.profiles.FetchProfile(ctx, uid, region)
	switch {
	case err == nil:
	case errors.Is(err, entity.ErrInvalidRegion), errors.Is(err, entity.ErrMissingRequiredField):
		return nil, err
	default:
		// Availability over strictness: a degraded profile service
		// renders the configured default identity.
		fb := s.cfg.Profile.Fallback
		if fb.AvatarID == "" {
			return nil, entity.ErrProfileUnavailable
		}
		logrus.Warnf("profile uid=%s unavailable, using fallback identity: %v", uid, err)
		req = entity.RenderRequest{
			AvatarID:   fb.AvatarID,
			Outfits:    fb.Outfits,
			Weapons:    fb.Weapons,
			Pets:       fb.Pets,
			PlayerName: fb.Name,
		}
	}
	return s.RenderByItems(ctx, req)
}

// collectAssets turns the assembled slot items into the fetch plan:
// the template always, the avatar when known, one URL per
// (slot, index, item), plus the optional banner.
func (s *renderService) collectAssets(req entity.RenderRequest, items entity.SlotItems) []assetJob {
	assets := s.cfg.Assets
	jobs := []assetJob{
		{kind: kindTemplate, url: assets.TemplateURL(), ttl: s.cfg.Cache.StaticTTL},
	}
	if req.AvatarID != "" {
		jobs = append(jobs, assetJob{
			kind: kindAvatar,
			url:  assets.ItemURL(req.AvatarID),
			ttl:  s.cfg.Cache.DefaultTTL,
		})
	}
	for _, slot := range entity.OverlaySlots {
		for i, itemID := range items[slot] {
			jobs = append(jobs, assetJob{
				kind:   kindItem,
				url:    assets.ItemURL(itemID),
				ttl:    s.cfg.Cache.DefaultTTL,
				slot:   slot,
				index:  i,
				itemID: itemID,
			})
		}
	}
	if req.Banner != "" {
		url := req.Banner
		if !strings.HasPrefix(url, "http") {
			url = assets.ItemURL(url)
		}
		jobs = append(jobs, assetJob{kind: kindBanner, url: url, ttl: s.cfg.Cache.DefaultTTL})
	}
	return jobs
}

// nameFace loads the configured remote font (static TTL) or the
// embedded fallback. A fresh face per render: faces carry internal
// rasterizer state and must not be shared across requests.
func (s *renderService) nameFace(ctx context.Context) font.Face {
	size := entity.NameDefaults.FontSize
	if url := s.cfg.Assets.FontURL; url != "" {
		data, err := s.cache.GetOrFetch(ctx, url, s.cfg.Cache.StaticTTL, s.cfg.Fetch.FontTimeout)
		if err != nil {
			logrus.Warnf("font %s: %v", url, err)
		} else if face, ferr := compositor.LoadFace(data, size); ferr != nil {
			logrus.Warnf("font %s unparseable: %v", url, ferr)
		} else {
			return face
		}
	}
	return compositor.FallbackFace(size)
}
