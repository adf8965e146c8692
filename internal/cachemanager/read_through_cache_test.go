package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/dqs/internal/mocks"
)

type wrappedInput struct {
	ID int
}

func loadRows(_ context.Context, input wrappedInput) ([]*resultRow, error) {
	return []*resultRow{{ID: input.ID}}, nil
}

func failLoad(context.Context, wrappedInput) ([]*resultRow, error) {
	return nil, errors.New("failed to get data")
}

func TestReadThroughCache_Get_WithCacheDisabled(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []*resultRow](t)
	readThroughCache := NewReadThroughCache[string, []*resultRow, wrappedInput](managerMock, loadRows, true)

	rows, hit, err := readThroughCache.Get(context.Background(), "key", wrappedInput{ID: 1}, time.Minute)
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, []*resultRow{{ID: 1}}, rows)
}

func TestReadThroughCache_GetWithRefresh_WithCacheDisabled(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []*resultRow](t)
	readThroughCache := NewReadThroughCache[string, []*resultRow, wrappedInput](managerMock, loadRows, true)

	rows, hit, err := readThroughCache.GetWithRefresh(context.Background(), "key", wrappedInput{ID: 1}, time.Minute)
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, []*resultRow{{ID: 1}}, rows)
}

func TestReadThroughCache_Get_WithValueInCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []*resultRow](t)
	managerMock.EXPECT().Get(mock.Anything, "key").Return([]*resultRow{{ID: 1, Name: "cached"}}, true)

	readThroughCache := NewReadThroughCache[string, []*resultRow, wrappedInput](managerMock, loadRows, false)

	rows, hit, err := readThroughCache.Get(context.Background(), "key", wrappedInput{ID: 1}, time.Minute)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, []*resultRow{{ID: 1, Name: "cached"}}, rows)
}

func TestReadThroughCache_Get_EmptyCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []*resultRow](t)
	managerMock.EXPECT().Get(mock.Anything, "key").Return([]*resultRow{}, false)
	managerMock.EXPECT().Set(mock.Anything, "key", []*resultRow{{ID: 1}}, time.Minute).Return()

	readThroughCache := NewReadThroughCache[string, []*resultRow, wrappedInput](managerMock, loadRows, false)

	rows, hit, err := readThroughCache.Get(context.Background(), "key", wrappedInput{ID: 1}, time.Minute)
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, []*resultRow{{ID: 1}}, rows)
}

func TestReadThroughCache_Get_LoadError(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []*resultRow](t)
	managerMock.EXPECT().Get(mock.Anything, "key").Return([]*resultRow{}, false)

	readThroughCache := NewReadThroughCache[string, []*resultRow, wrappedInput](managerMock, failLoad, false)

	_, _, err := readThroughCache.Get(context.Background(), "key", wrappedInput{ID: 1}, time.Minute)
	require.Error(t, err)
}

func TestReadThroughCache_GetWithRefresh_WithValueInCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []*resultRow](t)
	managerMock.EXPECT().GetWithRefresh(mock.Anything, "key", time.Minute).Return([]*resultRow{{ID: 2}}, true)

	readThroughCache := NewReadThroughCache[string, []*resultRow, wrappedInput](managerMock, loadRows, false)

	rows, hit, err := readThroughCache.GetWithRefresh(context.Background(), "key", wrappedInput{ID: 1}, time.Minute)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, []*resultRow{{ID: 2}}, rows)
}

func TestReadThroughCache_GetWithRefresh_EmptyCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []*resultRow](t)
	managerMock.EXPECT().GetWithRefresh(mock.Anything, "key", mock.Anything).Return([]*resultRow{}, false)
	managerMock.EXPECT().Set(mock.Anything, "key", []*resultRow{{ID: 1}}, mock.Anything).Return()

	readThroughCache := NewReadThroughCache[string, []*resultRow, wrappedInput](managerMock, loadRows, false)

	rows, hit, err := readThroughCache.GetWithRefresh(context.Background(), "key", wrappedInput{ID: 1}, time.Minute)
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, []*resultRow{{ID: 1}}, rows)
}

func TestReadThroughCache_GetWithRefresh_LoadError(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []*resultRow](t)
	managerMock.EXPECT().GetWithRefresh(mock.Anything, "key", mock.Anything).Return([]*resultRow{}, false)

	readThroughCache := NewReadThroughCache[string, []*resultRow, wrappedInput](managerMock, failLoad, false)

	_, _, err := readThroughCache.GetWithRefresh(context.Background(), "key", wrappedInput{ID: 1}, time.Minute)
	require.Error(t, err)
}

func TestReadThroughCache_WithInMemoryManager(t *testing.T) {
	calls := 0
	load := func(_ context.Context, input wrappedInput) ([]*resultRow, error) {
		calls++
		return []*resultRow{{ID: input.ID}}, nil
	}
	cache := NewInMemoryCacheManager[string, []*resultRow]("results", DefaultExpiration, DefaultCleanupInterval)
	readThroughCache := NewReadThroughCache[string, []*resultRow, wrappedInput](cache, load, false)
	ctx := context.Background()

	_, hit, err := readThroughCache.Get(ctx, "key", wrappedInput{ID: 1}, time.Minute)
	require.NoError(t, err)
	require.False(t, hit)

	rows, hit, err := readThroughCache.Get(ctx, "key", wrappedInput{ID: 99}, time.Minute)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, 1, rows[0].ID)
	require.Equal(t, 1, calls)
}
