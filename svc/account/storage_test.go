package account_test

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/rbac"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/tenant"
	"github.com/pawa80/utm-link-crafter-sub002/svc/account"
)

type memberKey struct{ account, user uuid.UUID }

// memStorage is an in-memory account.Storage.
type memStorage struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]tenant.Account
	members  map[memberKey]account.Member
	updates  int
}

func newMemStorage() *memStorage {
	return &memStorage{
		accounts: make(map[uuid.UUID]tenant.Account),
		members:  make(map[memberKey]account.Member),
	}
}

func (s *memStorage) GetAccount(_ context.Context, id uuid.UUID) (*tenant.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, tenant.ErrAccountNotFound
	}
	return &a, nil
}

func (s *memStorage) GetAccountBySlug(_ context.Context, slug string) (*tenant.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Slug == slug {
			return &a, nil
		}
	}
	return nil, tenant.ErrAccountNotFound
}

func (s *memStorage) ListAccounts(_ context.Context, filter account.ListFilter) ([]tenant.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []tenant.Account
	for _, a := range s.accounts {
		if filter.PlanID != "" && a.PlanID != filter.PlanID {
			continue
		}
		if filter.Active != nil && a.Active != *filter.Active {
			continue
		}
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b tenant.Account) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (s *memStorage) SlugExists(_ context.Context, slug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStorage) CreateAccount(_ context.Context, a *tenant.Account, owner *account.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.Slug == a.Slug {
			return account.ErrSlugTaken
		}
	}
	s.accounts[a.ID] = *a
	s.members[memberKey{a.ID, owner.UserID}] = *owner
	return nil
}

func (s *memStorage) UpdateAccount(_ context.Context, a *tenant.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[a.ID]; !ok {
		return tenant.ErrAccountNotFound
	}
	s.accounts[a.ID] = *a
	s.updates++
	return nil
}

func (s *memStorage) GetMember(_ context.Context, accountID, userID uuid.UUID) (*account.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[memberKey{accountID, userID}]
	if !ok {
		return nil, account.ErrMemberNotFound
	}
	return &m, nil
}

func (s *memStorage) ListMembers(_ context.Context, accountID uuid.UUID) ([]account.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []account.Member
	for k, m := range s.members {
		if k.account == accountID {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b account.Member) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (s *memStorage) CreateMember(_ context.Context, m *account.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[m.AccountID]; !ok {
		return tenant.ErrAccountNotFound
	}
	k := memberKey{m.AccountID, m.UserID}
	if _, ok := s.members[k]; ok {
		return account.ErrMemberExists
	}
	s.members[k] = *m
	return nil
}

func (s *memStorage) lastOwner(accountID, userID uuid.UUID) bool {
	owners := 0
	for k, m := range s.members {
		if k.account == accountID && m.Role == rbac.RoleOwner {
			owners++
		}
	}
	m := s.members[memberKey{accountID, userID}]
	return m.Role == rbac.RoleOwner && owners <= 1
}

func (s *memStorage) UpdateMemberRole(_ context.Context, accountID, userID uuid.UUID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := memberKey{accountID, userID}
	m, ok := s.members[k]
	if !ok {
		return account.ErrMemberNotFound
	}
	if role != rbac.RoleOwner && s.lastOwner(accountID, userID) {
		return account.ErrLastOwner
	}
	m.Role = role
	s.members[k] = m
	return nil
}

func (s *memStorage) DeleteMember(_ context.Context, accountID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := memberKey{accountID, userID}
	if _, ok := s.members[k]; !ok {
		return account.ErrMemberNotFound
	}
	if s.lastOwner(accountID, userID) {
		return account.ErrLastOwner
	}
	delete(s.members, k)
	return nil
}

func (s *memStorage) CountMembers(_ context.Context, accountID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k := range s.members {
		if k.account == accountID {
			n++
		}
	}
	return n, nil
}
