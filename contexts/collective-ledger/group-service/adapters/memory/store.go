package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"commonfund/contexts/collective-ledger/group-service/domain/entities"
	domainerrors "commonfund/contexts/collective-ledger/group-service/domain/errors"
)

type membershipKey struct {
	groupID int64
	userID  int64
}

type grantKey struct {
	applicationID int64
	groupID       int64
}

// Store is the in-memory adapter behind the group-service repositories.
type Store struct {
	mu sync.RWMutex

	groups           map[int64]entities.Group
	memberships      map[membershipKey]entities.Membership
	grants           map[grantKey]entities.ApplicationGroupGrant
	tiers            map[int64]entities.Tier
	nextGroupID      int64
	nextMembershipID int64
	nextGrantID      int64
	nextTierID       int64
}

func NewStore() *Store {
	return &Store{
		groups:      make(map[int64]entities.Group),
		memberships: make(map[membershipKey]entities.Membership),
		grants:      make(map[grantKey]entities.ApplicationGroupGrant),
		tiers:       make(map[int64]entities.Tier),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) CreateGroup(_ context.Context, group entities.Group) (entities.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextGroupID++
	group.ID = s.nextGroupID
	s.groups[group.ID] = group
	return group, nil
}

func (s *Store) GetGroup(_ context.Context, groupID int64) (entities.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, exists := s.groups[groupID]
	if !exists {
		return entities.Group{}, domainerrors.ErrGroupNotFound
	}
	return group, nil
}

func (s *Store) UpdateGroup(_ context.Context, group entities.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.groups[group.ID]; !exists {
		return domainerrors.ErrGroupNotFound
	}
	s.groups[group.ID] = group
	return nil
}

func (s *Store) AddMembership(_ context.Context, membership entities.Membership) (entities.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := membershipKey{groupID: membership.GroupID, userID: membership.UserID}
	if _, exists := s.memberships[key]; exists {
		return entities.Membership{}, domainerrors.ErrMembershipExists
	}
	s.nextMembershipID++
	membership.ID = s.nextMembershipID
	s.memberships[key] = membership
	return membership, nil
}

func (s *Store) GetMembership(_ context.Context, groupID int64, userID int64) (entities.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	membership, exists := s.memberships[membershipKey{groupID: groupID, userID: userID}]
	if !exists {
		return entities.Membership{}, domainerrors.ErrMembershipNotFound
	}
	return membership, nil
}

func (s *Store) UpdateMembership(_ context.Context, membership entities.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := membershipKey{groupID: membership.GroupID, userID: membership.UserID}
	if _, exists := s.memberships[key]; !exists {
		return domainerrors.ErrMembershipNotFound
	}
	s.memberships[key] = membership
	return nil
}

func (s *Store) RemoveMembership(_ context.Context, groupID int64, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := membershipKey{groupID: groupID, userID: userID}
	if _, exists := s.memberships[key]; !exists {
		return domainerrors.ErrMembershipNotFound
	}
	delete(s.memberships, key)
	return nil
}

func (s *Store) ListUserGroups(_ context.Context, userID int64) ([]entities.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]entities.Group, 0)
	for key, membership := range s.memberships {
		if membership.UserID != userID {
			continue
		}
		if group, exists := s.groups[key.groupID]; exists {
			groups = append(groups, group)
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].ID < groups[j].ID
	})
	return groups, nil
}

func (s *Store) CreateGrant(_ context.Context, grant entities.ApplicationGroupGrant) (entities.ApplicationGroupGrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := grantKey{applicationID: grant.ApplicationID, groupID: grant.GroupID}
	if existing, exists := s.grants[key]; exists {
		return existing, nil
	}
	s.nextGrantID++
	grant.ID = s.nextGrantID
	s.grants[key] = grant
	return grant, nil
}

func (s *Store) HasGrant(_ context.Context, applicationID int64, groupID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.grants[grantKey{applicationID: applicationID, groupID: groupID}]
	return exists, nil
}

func (s *Store) CreateTier(_ context.Context, tier entities.Tier) (entities.Tier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTierID++
	tier.ID = s.nextTierID
	s.tiers[tier.ID] = tier
	return tier, nil
}

func (s *Store) UpdateTier(_ context.Context, tier entities.Tier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tiers[tier.ID]; !exists {
		return domainerrors.ErrTierNotFound
	}
	s.tiers[tier.ID] = tier
	return nil
}

func (s *Store) GetTier(_ context.Context, tierID int64) (entities.Tier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tier, exists := s.tiers[tierID]
	if !exists {
		return entities.Tier{}, domainerrors.ErrTierNotFound
	}
	return tier, nil
}

func (s *Store) ListTiers(_ context.Context, groupID int64) ([]entities.Tier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tiers := make([]entities.Tier, 0)
	for _, tier := range s.tiers {
		if tier.GroupID == groupID {
			tiers = append(tiers, tier)
		}
	}
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].ID < tiers[j].ID
	})
	return tiers, nil
}
