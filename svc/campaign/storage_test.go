package campaign_test

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/svc/campaign"
)

type memStorage struct {
	mu        sync.Mutex
	campaigns map[uuid.UUID]campaign.Campaign
}

func newMemStorage() *memStorage {
	return &memStorage{campaigns: make(map[uuid.UUID]campaign.Campaign)}
}

func (s *memStorage) Create(_ context.Context, c *campaign.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.campaigns {
		if existing.AccountID == c.AccountID && existing.Slug == c.Slug {
			return campaign.ErrSlugTaken
		}
	}
	s.campaigns[c.ID] = *c
	return nil
}

func (s *memStorage) Get(_ context.Context, accountID, id uuid.UUID) (*campaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok || c.AccountID != accountID {
		return nil, campaign.ErrCampaignNotFound
	}
	return &c, nil
}

func (s *memStorage) GetBySlug(_ context.Context, accountID uuid.UUID, slug string) (*campaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.campaigns {
		if c.AccountID == accountID && c.Slug == slug {
			return &c, nil
		}
	}
	return nil, campaign.ErrCampaignNotFound
}

func (s *memStorage) List(_ context.Context, accountID uuid.UUID, filter campaign.ListFilter) ([]campaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []campaign.Campaign
	for _, c := range s.campaigns {
		if c.AccountID != accountID || (filter.Status != "" && c.Status != filter.Status) {
			continue
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b campaign.Campaign) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (s *memStorage) Update(_ context.Context, c *campaign.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.campaigns[c.ID]
	if !ok || existing.AccountID != c.AccountID {
		return campaign.ErrCampaignNotFound
	}
	s.campaigns[c.ID] = *c
	return nil
}

func (s *memStorage) Delete(_ context.Context, accountID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok || c.AccountID != accountID {
		return campaign.ErrCampaignNotFound
	}
	delete(s.campaigns, id)
	return nil
}

func (s *memStorage) SlugExists(_ context.Context, accountID uuid.UUID, slug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.campaigns {
		if c.AccountID == accountID && c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStorage) Count(_ context.Context, accountID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, c := range s.campaigns {
		if c.AccountID == accountID {
			n++
		}
	}
	return n, nil
}
