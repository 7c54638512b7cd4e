package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/repository"
	"github.com/spec-kit/appointment-service/pkg/util/sentinel"
)

// IdentityStore keeps identities in a map guarded by a RWMutex. Email and
// username uniqueness mirror the Postgres constraints.
type IdentityStore struct {
	mu         sync.RWMutex
	identities map[string]*domain.Identity
}

// NewIdentityStore returns an empty store.
func NewIdentityStore() *IdentityStore {
	return &IdentityStore{identities: make(map[string]*domain.Identity)}
}

var _ repository.IdentityRepository = (*IdentityStore)(nil)

func (s *IdentityStore) Create(_ context.Context, identity *domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUniqueLocked(identity, ""); err != nil {
		return err
	}
	now := time.Now().UTC()
	identity.ID = uuid.NewString()
	identity.CreatedAt = now
	identity.UpdatedAt = now
	s.identities[identity.ID] = identity.Clone()
	return nil
}

func (s *IdentityStore) Update(_ context.Context, identity *domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.identities[identity.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if err := s.checkUniqueLocked(identity, identity.ID); err != nil {
		return err
	}
	identity.CreatedAt = existing.CreatedAt
	identity.UpdatedAt = time.Now().UTC()
	s.identities[identity.ID] = identity.Clone()
	return nil
}

func (s *IdentityStore) checkUniqueLocked(identity *domain.Identity, skipID string) error {
	for id, other := range s.identities {
		if id == skipID {
			continue
		}
		if strings.EqualFold(other.Email, identity.Email) || other.Username == identity.Username {
			return sentinel.ErrConflict
		}
	}
	return nil
}

func (s *IdentityStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.identities, id)
	return nil
}

func (s *IdentityStore) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if identity, ok := s.identities[id]; ok {
		return identity.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *IdentityStore) GetByEmail(_ context.Context, email string) (*domain.Identity, error) {
	return s.find(func(i *domain.Identity) bool { return strings.EqualFold(i.Email, email) })
}

func (s *IdentityStore) GetByUsername(_ context.Context, username string) (*domain.Identity, error) {
	return s.find(func(i *domain.Identity) bool { return i.Username == username })
}

func (s *IdentityStore) find(match func(*domain.Identity) bool) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, identity := range s.identities {
		if match(identity) {
			return identity.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *IdentityStore) List(_ context.Context, filter repository.IdentityFilter) ([]domain.Identity, error) {
	s.mu.RLock()
	var result []domain.Identity
	for _, identity := range s.identities {
		if filter.Role != nil && !identity.HasRole(*filter.Role) {
			continue
		}
		if filter.ExcludeID != nil && identity.ID == *filter.ExcludeID {
			continue
		}
		if filter.Active != nil && identity.IsActive != *filter.Active {
			continue
		}
		result = append(result, *identity.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return page(result, filter.Limit, filter.Offset), nil
}

func (s *IdentityStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.identities), nil
}
