package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"go-feedback-gate/internal/model"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) Insert(ctx context.Context, u model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

type mockPageStore struct {
	mock.Mock
}

func (m *mockPageStore) Create(ctx context.Context, p model.FeedbackPage) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPageStore) GetByID(ctx context.Context, id string, ownerID string) (model.FeedbackPage, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Get(0).(model.FeedbackPage), args.Error(1)
}

func (m *mockPageStore) GetByToken(ctx context.Context, urlToken string) (model.FeedbackPage, error) {
	args := m.Called(ctx, urlToken)
	return args.Get(0).(model.FeedbackPage), args.Error(1)
}

func (m *mockPageStore) ListByOwner(ctx context.Context, ownerID string) ([]model.FeedbackPage, error) {
	args := m.Called(ctx, ownerID)
	pages, _ := args.Get(0).([]model.FeedbackPage)
	return pages, args.Error(1)
}

func (m *mockPageStore) Update(ctx context.Context, id string, ownerID string, patch model.FeedbackPagePatch, now time.Time) (model.FeedbackPage, error) {
	args := m.Called(ctx, id, ownerID, patch, now)
	return args.Get(0).(model.FeedbackPage), args.Error(1)
}

func (m *mockPageStore) Delete(ctx context.Context, id string, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *mockPageStore) IsExpired(ctx context.Context, urlToken string, now time.Time) (bool, error) {
	args := m.Called(ctx, urlToken, now)
	return args.Bool(0), args.Error(1)
}

type recordedOutcome struct {
	kind      string
	operation string
	outcome   string
}

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []recordedOutcome
}

func (r *fakeRecorder) RecordAuth(operation string, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, recordedOutcome{kind: "auth", operation: operation, outcome: outcome})
}

func (r *fakeRecorder) RecordGate(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, recordedOutcome{kind: "gate", outcome: outcome})
}

func (r *fakeRecorder) last() recordedOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.outcomes) == 0 {
		return recordedOutcome{}
	}
	return r.outcomes[len(r.outcomes)-1]
}
