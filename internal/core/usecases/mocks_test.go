package usecases

import (
	"context"
	"errors"
	"sync"

	"github.com/geofieldx/geofieldx/internal/core/domain"
	"github.com/geofieldx/geofieldx/internal/core/ports"
)

var errNotFound = errors.New("not found")

type mockFeatureRepo struct {
	createFn       func(ctx context.Context, f *domain.Feature) error
	updateFn       func(ctx context.Context, f *domain.Feature) error
	updateStatusFn func(ctx context.Context, id string, status domain.FeatureStatus, maintenance *bool) error
	appendImagesFn func(ctx context.Context, id string, paths []string) error
	deleteFn       func(ctx context.Context, id string) error
	getByIDFn      func(ctx context.Context, id string) (*domain.Feature, error)
	listFn         func(ctx context.Context, filter ports.FeatureFilter) ([]domain.Feature, int, error)
	findNearbyFn   func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Feature, error)
	findInBoundsFn func(ctx context.Context, b domain.Bounds, limit int) ([]domain.Feature, error)
}

func (m *mockFeatureRepo) Create(ctx context.Context, f *domain.Feature) error {
	if m.createFn != nil {
		return m.createFn(ctx, f)
	}
	return nil
}

func (m *mockFeatureRepo) Update(ctx context.Context, f *domain.Feature) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, f)
	}
	return nil
}

func (m *mockFeatureRepo) UpdateStatus(ctx context.Context, id string, status domain.FeatureStatus, maintenance *bool) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status, maintenance)
	}
	return nil
}

func (m *mockFeatureRepo) AppendImages(ctx context.Context, id string, paths []string) error {
	if m.appendImagesFn != nil {
		return m.appendImagesFn(ctx, id, paths)
	}
	return nil
}

func (m *mockFeatureRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockFeatureRepo) GetByID(ctx context.Context, id string) (*domain.Feature, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, errNotFound
}

func (m *mockFeatureRepo) List(ctx context.Context, filter ports.FeatureFilter) ([]domain.Feature, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockFeatureRepo) FindNearby(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Feature, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lon, radius, limit)
	}
	return nil, nil
}

func (m *mockFeatureRepo) FindInBounds(ctx context.Context, b domain.Bounds, limit int) ([]domain.Feature, error) {
	if m.findInBoundsFn != nil {
		return m.findInBoundsFn(ctx, b, limit)
	}
	return nil, nil
}

func (m *mockFeatureRepo) FindInPolygon(ctx context.Context, boundaryID string) ([]domain.Feature, error) {
	return nil, nil
}

func (m *mockFeatureRepo) UpsertBatch(ctx context.Context, features []domain.Feature) error {
	return nil
}

type mockTaskRepo struct {
	createFn       func(ctx context.Context, t *domain.Task) error
	updateStatusFn func(ctx context.Context, id string, status domain.TaskStatus) error
	assignFn       func(ctx context.Context, id string, teamID, assigneeID *string) error
	getByIDFn      func(ctx context.Context, id string) (*domain.Task, error)
}

func (m *mockTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	return nil
}

func (m *mockTaskRepo) Update(ctx context.Context, t *domain.Task) error { return nil }

func (m *mockTaskRepo) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockTaskRepo) Assign(ctx context.Context, id string, teamID, assigneeID *string) error {
	if m.assignFn != nil {
		return m.assignFn(ctx, id, teamID, assigneeID)
	}
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, id string) error { return nil }

func (m *mockTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, errNotFound
}

func (m *mockTaskRepo) List(ctx context.Context, filter ports.TaskFilter) ([]domain.Task, int, error) {
	return nil, 0, nil
}

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User

	createFn        func(ctx context.Context, u *domain.User) error
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	touched         []string
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, errNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, errNotFound
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) { return nil, nil }

func (m *mockUserRepo) SetApproval(ctx context.Context, id string, approval domain.ApprovalStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.Approval = approval
		return nil
	}
	return errNotFound
}

func (m *mockUserRepo) SetTeam(ctx context.Context, id string, teamID *string) error { return nil }

func (m *mockUserRepo) TouchActivity(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched = append(m.touched, id)
	return nil
}

type mockShapefileRepo struct {
	createFn     func(ctx context.Context, s *domain.Shapefile) error
	getGeoJSONFn func(ctx context.Context, id string) ([]byte, error)
}

func (m *mockShapefileRepo) Create(ctx context.Context, s *domain.Shapefile) error {
	if m.createFn != nil {
		return m.createFn(ctx, s)
	}
	return nil
}

func (m *mockShapefileRepo) GetByID(ctx context.Context, id string) (*domain.Shapefile, error) {
	return nil, errNotFound
}

func (m *mockShapefileRepo) GetGeoJSON(ctx context.Context, id string) ([]byte, error) {
	if m.getGeoJSONFn != nil {
		return m.getGeoJSONFn(ctx, id)
	}
	return nil, errNotFound
}

func (m *mockShapefileRepo) List(ctx context.Context) ([]domain.Shapefile, error) { return nil, nil }

func (m *mockShapefileRepo) Delete(ctx context.Context, id string) error { return nil }

type mockCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{store: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.store[key]; ok {
		return v, nil
	}
	return nil, errNotFound
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, key)
	return nil
}

type mockPublisher struct {
	mu              sync.Mutex
	featureEvents   []*domain.FeatureEvent
	taskEvents      []*domain.TaskEvent
	shapefileEvents []*domain.ShapefileEvent
}

func (m *mockPublisher) PublishFeatureEvent(ctx context.Context, ev *domain.FeatureEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.featureEvents = append(m.featureEvents, ev)
	return nil
}

func (m *mockPublisher) PublishTaskEvent(ctx context.Context, ev *domain.TaskEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskEvents = append(m.taskEvents, ev)
	return nil
}

func (m *mockPublisher) PublishShapefileImported(ctx context.Context, ev *domain.ShapefileEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shapefileEvents = append(m.shapefileEvents, ev)
	return nil
}
