package wizard_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/limits"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/sanitizer"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/utm"
	"github.com/pawa80/utm-link-crafter-sub002/svc/campaign"
	"github.com/pawa80/utm-link-crafter-sub002/svc/link"
)

type fakeCampaigns struct {
	mu     sync.Mutex
	byName map[string]*campaign.Campaign
}

func (f *fakeCampaigns) FindOrCreate(_ context.Context, accountID, userID uuid.UUID, in campaign.CreateInput) (*campaign.Campaign, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byName == nil {
		f.byName = make(map[string]*campaign.Campaign)
	}
	if c, ok := f.byName[in.Name]; ok {
		return c, false, nil
	}
	c := &campaign.Campaign{
		ID:          uuid.New(),
		AccountID:   accountID,
		Name:        in.Name,
		UTMCampaign: sanitizer.UTMParameter(in.Name),
		Status:      campaign.StatusActive,
		CreatedBy:   userID,
	}
	f.byName[in.Name] = c
	return c, true, nil
}

type fakeLinks struct {
	mu      sync.Mutex
	err     error
	created []link.Link

	// When release is set, Create reports on entered and waits for release.
	entered chan<- struct{}
	release <-chan struct{}
}

func (f *fakeLinks) Create(_ context.Context, accountID, userID, campaignID uuid.UUID, in link.Input) (*link.Link, error) {
	if f.release != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	built, err := utm.Build(utm.Params{
		TargetURL: in.TargetURL,
		Campaign:  in.Campaign,
		Source:    in.Source,
		Medium:    in.Medium,
		Content:   in.Content,
		Term:      in.Term,
	})
	if err != nil {
		return nil, err
	}
	l := link.Link{
		ID:         uuid.New(),
		AccountID:  accountID,
		CampaignID: campaignID,
		Label:      in.Label,
		TargetURL:  built.Target,
		Params:     built.Params,
		FullURL:    built.URL,
		CreatedBy:  userID,
	}
	f.created = append(f.created, l)
	return &l, nil
}

type features map[limits.Feature]bool

func (f features) Require(_ context.Context, _ uuid.UUID, feat limits.Feature) error {
	if f[feat] {
		return nil
	}
	return limits.ErrFeatureNotAvailable
}
