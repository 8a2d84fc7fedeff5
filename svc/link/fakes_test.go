package link_test

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/limits"
	"github.com/pawa80/utm-link-crafter-sub002/svc/campaign"
	"github.com/pawa80/utm-link-crafter-sub002/svc/link"
)

type memStorage struct {
	mu    sync.Mutex
	links []link.Link
}

func (s *memStorage) Create(_ context.Context, l *link.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links = append(s.links, *l)
	return nil
}

func (s *memStorage) Get(_ context.Context, accountID, id uuid.UUID) (*link.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.ID == id && l.AccountID == accountID {
			return &l, nil
		}
	}
	return nil, link.ErrLinkNotFound
}

func (s *memStorage) ListByCampaign(_ context.Context, accountID, campaignID uuid.UUID, _ link.ListFilter) ([]link.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []link.Link
	for _, l := range s.links {
		if l.AccountID == accountID && l.CampaignID == campaignID {
			out = append(out, l)
		}
	}
	slices.Reverse(out)
	return out, nil
}

func (s *memStorage) Delete(_ context.Context, accountID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.links {
		if l.ID == id && l.AccountID == accountID {
			s.links = slices.Delete(s.links, i, i+1)
			return nil
		}
	}
	return link.ErrLinkNotFound
}

func (s *memStorage) Count(_ context.Context, accountID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, l := range s.links {
		if l.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

type campaigns map[uuid.UUID]*campaign.Campaign

func (c campaigns) Get(_ context.Context, accountID, id uuid.UUID) (*campaign.Campaign, error) {
	found, ok := c[id]
	if !ok || found.AccountID != accountID {
		return nil, campaign.ErrCampaignNotFound
	}
	return found, nil
}

// features grants the listed plan features.
type features map[limits.Feature]bool

func (f features) Require(_ context.Context, _ uuid.UUID, feat limits.Feature) error {
	if f[feat] {
		return nil
	}
	return limits.ErrFeatureNotAvailable
}
