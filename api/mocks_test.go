package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/bf2-milsims/census/milsims"
	"github.com/bf2-milsims/census/roadmap"
)

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) Search(ctx context.Context, opts milsims.SearchOptions) ([]milsims.Milsim, error) {
	args := m.Called(ctx, opts)
	list, _ := args.Get(0).([]milsims.Milsim)
	return list, args.Error(1)
}

func (m *mockDirectory) Facets(ctx context.Context) (*milsims.Facets, error) {
	args := m.Called(ctx)
	facets, _ := args.Get(0).(*milsims.Facets)
	return facets, args.Error(1)
}

func (m *mockDirectory) FindListedBySlug(ctx context.Context, slug string) (*milsims.Milsim, error) {
	args := m.Called(ctx, slug)
	milsim, _ := args.Get(0).(*milsims.Milsim)
	return milsim, args.Error(1)
}

func (m *mockDirectory) OldestServers(ctx context.Context, limit int) ([]milsims.Milsim, error) {
	args := m.Called(ctx, limit)
	list, _ := args.Get(0).([]milsims.Milsim)
	return list, args.Error(1)
}

func (m *mockDirectory) LargestServers(ctx context.Context, limit int) ([]milsims.Milsim, error) {
	args := m.Called(ctx, limit)
	list, _ := args.Get(0).([]milsims.Milsim)
	return list, args.Error(1)
}

type mockRefresher struct {
	mock.Mock
}

func (m *mockRefresher) Refresh(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRefresher) RefreshBatch(ctx context.Context, opts milsims.BatchOptions) (milsims.BatchResult, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(milsims.BatchResult), args.Error(1)
}

func (m *mockRefresher) MaybeRefreshDirectory(ctx context.Context, opts milsims.VisitOptions) milsims.VisitResult {
	return m.Called(ctx, opts).Get(0).(milsims.VisitResult)
}

func (m *mockRefresher) LastRun(ctx context.Context, key string) (*time.Time, error) {
	args := m.Called(ctx, key)
	last, _ := args.Get(0).(*time.Time)
	return last, args.Error(1)
}

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) Submit(ctx context.Context, sub milsims.Submission) (*milsims.Milsim, error) {
	args := m.Called(ctx, sub)
	milsim, _ := args.Get(0).(*milsims.Milsim)
	return milsim, args.Error(1)
}

type mockRoadmap struct {
	mock.Mock
}

func (m *mockRoadmap) PublicItems(ctx context.Context) ([]roadmap.Item, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]roadmap.Item)
	return items, args.Error(1)
}
