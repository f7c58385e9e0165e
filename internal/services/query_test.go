package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"zayavka-portal/internal/dto"
	"zayavka-portal/internal/entities"
	"zayavka-portal/internal/repositories"
	"zayavka-portal/pkg/constants"
	"zayavka-portal/pkg/contextkeys"
	apperrors "zayavka-portal/pkg/errors"
)

// fakeZayavkaRepo перекрывает только нужные тесту методы; вызов любого
// другого падает с nil pointer — значит, тест трогает то, чего не должен.
type fakeZayavkaRepo struct {
	repositories.ZayavkaRepositoryInterface

	lastFilter      dto.ZayavkaFilterDTO
	lastIncludeDone bool
	dashboard       []entities.Zayavka
	all             []entities.Zayavka
}

func (f *fakeZayavkaRepo) GetDashboard(_ context.Context, filter dto.ZayavkaFilterDTO, includeDone bool) ([]entities.Zayavka, error) {
	f.lastFilter = filter
	f.lastIncludeDone = includeDone
	return f.dashboard, nil
}

func (f *fakeZayavkaRepo) GetAll(_ context.Context) ([]entities.Zayavka, error) {
	return f.all, nil
}

type fakeCache struct {
	data map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string]string)} }

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.data[key] = fmt.Sprint(value)
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	return c.data[key], nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func adminCtx() context.Context {
	ctx := context.WithValue(context.Background(), contextkeys.UserIDKey, 1)
	return context.WithValue(ctx, contextkeys.UserRoleKey, constants.RoleAdmin)
}

func employeeCtx(id int) context.Context {
	ctx := context.WithValue(context.Background(), contextkeys.UserIDKey, id)
	return context.WithValue(ctx, contextkeys.UserRoleKey, constants.RoleEmployee)
}

func TestDashboardForbiddenForEmployee(t *testing.T) {
	svc := NewQueryService(&fakeZayavkaRepo{}, newFakeCache(), zap.NewNop())

	_, err := svc.Dashboard(employeeCtx(5), dto.ZayavkaFilterDTO{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestDashboardHidesDoneByDefault(t *testing.T) {
	repo := &fakeZayavkaRepo{}
	svc := NewQueryService(repo, newFakeCache(), zap.NewNop())

	_, err := svc.Dashboard(adminCtx(), dto.ZayavkaFilterDTO{})
	require.NoError(t, err)
	assert.False(t, repo.lastIncludeDone, "без фильтра сделанные заявки скрыты")
}

func TestDashboardShowsDoneWhenFiltered(t *testing.T) {
	repo := &fakeZayavkaRepo{}
	svc := NewQueryService(repo, newFakeCache(), zap.NewNop())

	_, err := svc.Dashboard(adminCtx(), dto.ZayavkaFilterDTO{Status: "done"})
	require.NoError(t, err)
	assert.True(t, repo.lastIncludeDone, "явный фильтр по сделанным снимает скрытие")
	assert.Equal(t, "сделано", repo.lastFilter.Status, "английский алиас нормализуется к каноническому статусу")
}

func TestDashboardNormalizesAnyStatusAlias(t *testing.T) {
	repo := &fakeZayavkaRepo{}
	svc := NewQueryService(repo, newFakeCache(), zap.NewNop())

	_, err := svc.Dashboard(adminCtx(), dto.ZayavkaFilterDTO{Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, "отказано", repo.lastFilter.Status, "алиас приводится к каноническому написанию и для нефинальных фильтров")
	assert.False(t, repo.lastIncludeDone, "фильтр по отказанным не поднимает сделанные")

	_, err = svc.Dashboard(adminCtx(), dto.ZayavkaFilterDTO{Status: "отклонено"})
	require.NoError(t, err)
	assert.Equal(t, "отказано", repo.lastFilter.Status, "историческое написание тоже нормализуется")
}

func TestDashboardTrimsFilters(t *testing.T) {
	repo := &fakeZayavkaRepo{}
	svc := NewQueryService(repo, newFakeCache(), zap.NewNop())

	_, err := svc.Dashboard(adminCtx(), dto.ZayavkaFilterDTO{Type: "  проектор ", Query: " иванов "})
	require.NoError(t, err)
	assert.Equal(t, "проектор", repo.lastFilter.Type)
	assert.Equal(t, "иванов", repo.lastFilter.Query)
}

func TestToZayavkaDTORating(t *testing.T) {
	withRating := entities.Zayavka{
		ID:     1,
		Status: constants.StatusDone,
		Rating: null.IntFrom(4),
	}
	d := toZayavkaDTO(withRating)
	assert.Equal(t, 4, d.Rating)

	withoutRating := entities.Zayavka{ID: 2, Status: constants.StatusPending}
	d = toZayavkaDTO(withoutRating)
	assert.Zero(t, d.Rating, "без оценки поле остаётся нулевым")
}

func TestCalendarFeedCachesResult(t *testing.T) {
	repo := &fakeZayavkaRepo{
		all: []entities.Zayavka{
			{
				ID: 1, Type: "Проектор", Status: constants.StatusDone,
				CreatedAt: time.Date(2025, time.March, 1, 10, 0, 0, 0, time.Local),
			},
		},
	}
	cache := newFakeCache()
	svc := NewQueryService(repo, cache, zap.NewNop())

	events, err := svc.CalendarFeed(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Проектор (сделано)", events[0].Title)
	assert.Equal(t, "2025-03-01", events[0].Start)
	assert.Equal(t, "green", events[0].Color)
	assert.NotEmpty(t, cache.data[calendarCacheKey], "лента должна осесть в кеше")

	// Повторный вызов обслуживается из кеша: подменяем данные репозитория
	// и убеждаемся, что ответ не изменился.
	repo.all = nil
	events, err = svc.CalendarFeed(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
