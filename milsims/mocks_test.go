package milsims

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/bf2-milsims/census/pkg/discord"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Find(ctx context.Context, id uuid.UUID) (*Milsim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Milsim), args.Error(1)
}

func (m *MockStore) RefreshCandidates(ctx context.Context, cutoff time.Time, limit int) ([]Milsim, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Milsim), args.Error(1)
}

func (m *MockStore) ApplyDiscord(ctx context.Context, id uuid.UUID, update *DiscordUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockStore) FindByDiscordServerID(ctx context.Context, guildID string) (*Milsim, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Milsim), args.Error(1)
}

func (m *MockStore) SlugTaken(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, milsim *Milsim) error {
	args := m.Called(ctx, milsim)
	return args.Error(0)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, inviteURL string) (*discord.Invite, error) {
	args := m.Called(ctx, inviteURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discord.Invite), args.Error(1)
}

type MockColors struct {
	mock.Mock
}

func (m *MockColors) ThemeColor(ctx context.Context, iconURL string) (string, error) {
	args := m.Called(ctx, iconURL)
	return args.String(0), args.Error(1)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) TryAcquire(ctx context.Context, key string, minInterval time.Duration) (bool, error) {
	args := m.Called(ctx, key, minInterval)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocker) LastRun(ctx context.Context, key string) (*time.Time, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}
