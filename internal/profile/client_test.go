package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds124wfegd/portrait/internal/entity"
	"github.com/ds124wfegd/portrait/internal/pkg/fetcher"
)

func newTestClient(url string, regions ...string) *Client {
	if len(regions) == 0 {
		regions = []string{"ind", "br", "eu"}
	}
	return NewClient(fetcher.New(1, 0), url, time.Second, regions)
}

func TestFetchProfileNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "12345", r.URL.Query().Get("uid"))
		assert.Equal(t, "ind", r.URL.Query().Get("region"))
		w.Write([]byte(`{
			"basicInfo": {"nickname": "  ProPlayer  "},
			"profileInfo": {"avatarId": 101000006, "equippedSkills": [211000001, "203000005"]},
			"weaponSkinShows": [907101817, 907101818],
			"petInfo": {"skinId": 1300000001}
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	req, err := c.FetchProfile(context.Background(), "12345", "IND")

	require.NoError(t, err)
	assert.Equal(t, "101000006", req.AvatarID)
	assert.Equal(t, []string{"211000001", "203000005"}, req.Outfits)
	assert.Equal(t, []string{"907101817", "907101818"}, req.Weapons)
	assert.Equal(t, []string{"1300000001"}, req.Pets)
	assert.Equal(t, "ProPlayer", req.PlayerName)
}

func TestFetchProfileMalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "array payload", body: `[1, 2, 3]`},
		{name: "bare string", body: `"nope"`},
		{name: "not json", body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(srv.URL)
			_, err := c.FetchProfile(context.Background(), "12345", "ind")
			assert.ErrorIs(t, err, entity.ErrProfileUnavailable)
		})
	}
}

func TestFetchProfilePartialPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"profileInfo": {"avatarId": "102000024"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	req, err := c.FetchProfile(context.Background(), "12345", "ind")

	require.NoError(t, err)
	assert.Equal(t, "102000024", req.AvatarID)
	assert.Empty(t, req.Outfits)
	assert.Empty(t, req.PlayerName)
}

func TestFetchProfileInvalidRegion(t *testing.T) {
	c := newTestClient("http://unused.test")
	_, err := c.FetchProfile(context.Background(), "12345", "zz")
	assert.ErrorIs(t, err, entity.ErrInvalidRegion)
}

func TestFetchProfileMissingUID(t *testing.T) {
	c := newTestClient("http://unused.test")
	_, err := c.FetchProfile(context.Background(), "", "ind")
	assert.ErrorIs(t, err, entity.ErrMissingRequiredField)
}

// With no region supplied the client walks the allowed regions until
// one answers.
func TestFetchProfileRegionFanOver(t *testing.T) {
	var regions []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		region := r.URL.Query().Get("region")
		regions = append(regions, region)
		if region != "eu" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"profileInfo": {"avatarId": "101000020"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	req, err := c.FetchProfile(context.Background(), "12345", "")

	require.NoError(t, err)
	assert.Equal(t, "101000020", req.AvatarID)
	assert.Equal(t, []string{"ind", "br", "eu"}, regions)
}

func TestFetchProfileAllRegionsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.FetchProfile(context.Background(), "12345", "")
	assert.ErrorIs(t, err, entity.ErrProfileUnavailable)
}
