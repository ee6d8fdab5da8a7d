package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Lead, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id string, expected, next entity.Status) error {
	args := m.Called(ctx, id, expected, next)
	return args.Error(0)
}

func (m *MockLeadRepository) ScheduleFollowUp(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockLeadRepository) IncrementMessageCount(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) DeleteBatch(ctx context.Context, ids []string) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) CountByStatus(ctx context.Context, ownerID string) (map[entity.Status]int, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entity.Status]int), args.Error(1)
}

func (m *MockLeadRepository) ListInactiveSince(ctx context.Context, cutoff time.Time) ([]*entity.Lead, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

// MockRoleStore
type MockRoleStore struct {
	mock.Mock
}

func (m *MockRoleStore) GetRole(ctx context.Context, userID string) (entity.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(entity.Role), args.Error(1)
}

func (m *MockRoleStore) SetDefaultRole(ctx context.Context, userID string, role entity.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

// MockTriggerProducer
type MockTriggerProducer struct {
	mock.Mock
}

func (m *MockTriggerProducer) PublishTrigger(ctx context.Context, leadID string, trigger Trigger, actorID string, actorRole entity.Role) error {
	args := m.Called(ctx, leadID, trigger, actorID, actorRole)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendFollowUpAlert(lead *entity.Lead, due time.Time) error {
	args := m.Called(lead, due)
	return args.Error(0)
}

// MockMessageService
type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) SendMessage(to, body string) error {
	args := m.Called(to, body)
	return args.Error(0)
}

// fixedRoleResolver builds a resolver whose store always returns one role.
func fixedRoleResolver(role entity.Role) *ResolveRoleUseCase {
	store := new(MockRoleStore)
	store.On("GetRole", mock.Anything, mock.Anything).Return(role, nil)
	return NewResolveRoleUseCase(store, "")
}

// fakeLeadStore is an in-memory gateway with real compare-and-swap
// semantics, for exercising concurrent writers against one lead.
type fakeLeadStore struct {
	mu    sync.Mutex
	leads map[string]*entity.Lead
}

func newFakeLeadStore(leads ...*entity.Lead) *fakeLeadStore {
	s := &fakeLeadStore{leads: make(map[string]*entity.Lead)}
	for _, l := range leads {
		cp := *l
		s.leads[l.ID] = &cp
	}
	return s
}

func (s *fakeLeadStore) get(id string) (*entity.Lead, bool) {
	lead, ok := s.leads[id]
	if !ok {
		return nil, false
	}
	cp := *lead
	return &cp, true
}

func (s *fakeLeadStore) Create(ctx context.Context, lead *entity.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *lead
	s.leads[lead.ID] = &cp
	return nil
}

func (s *fakeLeadStore) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.get(id)
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	return lead, nil
}

func (s *fakeLeadStore) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Lead
	for id, l := range s.leads {
		if l.OwnerID == ownerID {
			cp, _ := s.get(id)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (s *fakeLeadStore) UpdateStatus(ctx context.Context, id string, expected, next entity.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.leads[id]
	if !ok {
		return entity.ErrLeadNotFound
	}
	if lead.Status != expected {
		return entity.ErrStatusConflict
	}
	lead.Status = next
	lead.UpdatedAt = time.Now()
	return nil
}

func (s *fakeLeadStore) ScheduleFollowUp(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.leads[id]
	if !ok {
		return entity.ErrLeadNotFound
	}
	lead.FollowUpAt = &at
	return nil
}

func (s *fakeLeadStore) IncrementMessageCount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.leads[id]
	if !ok {
		return entity.ErrLeadNotFound
	}
	lead.MessageCount++
	return nil
}

func (s *fakeLeadStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.leads[id]; !ok {
		return entity.ErrLeadNotFound
	}
	delete(s.leads, id)
	return nil
}

func (s *fakeLeadStore) DeleteBatch(ctx context.Context, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := s.leads[id]; ok {
			delete(s.leads, id)
			n++
		}
	}
	return n, nil
}

func (s *fakeLeadStore) CountByStatus(ctx context.Context, ownerID string) (map[entity.Status]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[entity.Status]int)
	for _, l := range s.leads {
		if ownerID == "" || l.OwnerID == ownerID {
			counts[l.Status]++
		}
	}
	return counts, nil
}

func (s *fakeLeadStore) ListInactiveSince(ctx context.Context, cutoff time.Time) ([]*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Lead
	for id, l := range s.leads {
		if l.UpdatedAt.Before(cutoff) && !l.Status.IsTerminal() && l.Status != entity.StatusFollowUp {
			cp, _ := s.get(id)
			out = append(out, cp)
		}
	}
	return out, nil
}
