package usecases

import (
	"context"
	"strings"
	"testing"

	"github.com/geofieldx/geofieldx/internal/core/domain"
)

func pointGeometry(lat, lon float64) domain.Geometry {
	return domain.Geometry{
		Kind:  domain.GeometryPoint,
		Point: &domain.GeoPoint{Lat: lat, Lon: lon},
	}
}

func TestFeatureService_Create(t *testing.T) {
	repo := &mockFeatureRepo{
		createFn: func(ctx context.Context, f *domain.Feature) error {
			f.ID = "feat-1"
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := NewFeatureService(repo, nil, pub)

	f, err := svc.Create(context.Background(), CreateFeatureInput{
		FeatureID:    "TWR-0001",
		Type:         "tower",
		SpecificType: "lattice",
		Geometry:     pointGeometry(51.5074, -0.1278),
		State:        "plan",
	}, "user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if f.Status != domain.StatusUnassigned {
		t.Errorf("expected unassigned without a team, got %s", f.Status)
	}
	if f.CreatedBy != "user-1" {
		t.Errorf("created_by = %q", f.CreatedBy)
	}
	if len(pub.featureEvents) != 1 || pub.featureEvents[0].Action != "created" {
		t.Errorf("expected one created event, got %v", pub.featureEvents)
	}
}

func TestFeatureService_CreateWithTeamIsAssigned(t *testing.T) {
	svc := NewFeatureService(&mockFeatureRepo{}, nil, nil)
	teamID := "6ba7b810-9dad-41d1-80b4-00c04fd430c8"

	f, err := svc.Create(context.Background(), CreateFeatureInput{
		FeatureID:    "MH-0002",
		Type:         "manhole",
		SpecificType: "four_way",
		Geometry:     pointGeometry(51.5, -0.12),
		State:        "as_built",
		TeamID:       &teamID,
	}, "user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if f.Status != domain.StatusAssigned {
		t.Errorf("expected assigned with a team, got %s", f.Status)
	}
}

func TestFeatureService_CreateRejectsBadEnums(t *testing.T) {
	svc := NewFeatureService(&mockFeatureRepo{}, nil, nil)

	cases := []struct {
		name string
		in   CreateFeatureInput
	}{
		{"unknown type", CreateFeatureInput{
			FeatureID: "X-1", Type: "pipeline", SpecificType: "12f",
			Geometry: pointGeometry(51, 0), State: "plan",
		}},
		{"specific type from wrong family", CreateFeatureInput{
			FeatureID: "TWR-1", Type: "tower", SpecificType: "12f",
			Geometry: pointGeometry(51, 0), State: "plan",
		}},
		{"unknown state", CreateFeatureInput{
			FeatureID: "TWR-1", Type: "tower", SpecificType: "mobile",
			Geometry: pointGeometry(51, 0), State: "built",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.in, "u"); err == nil {
				t.Error("expected rejection")
			}
		})
	}
}

func TestFeatureService_CreateRejectsGeometryMismatch(t *testing.T) {
	svc := NewFeatureService(&mockFeatureRepo{}, nil, nil)

	// A fiber cable must carry a line, not a point.
	_, err := svc.Create(context.Background(), CreateFeatureInput{
		FeatureID:    "FC-0001",
		Type:         "fiber_cable",
		SpecificType: "24f",
		Geometry:     pointGeometry(51.5, -0.12),
		State:        "plan",
	}, "user-1")
	if err == nil {
		t.Fatal("expected geometry mismatch")
	}
	if !strings.Contains(err.Error(), "requires line") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFeatureService_SetStatusPublishesEvent(t *testing.T) {
	repo := &mockFeatureRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Feature, error) {
			return &domain.Feature{ID: id, Status: domain.StatusInProgress}, nil
		},
	}
	pub := &mockPublisher{}
	svc := NewFeatureService(repo, nil, pub)

	f, err := svc.SetStatus(context.Background(), "feat-1", domain.StatusInProgress, nil)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if f.Status != domain.StatusInProgress {
		t.Errorf("status = %s", f.Status)
	}
	if len(pub.featureEvents) != 1 || pub.featureEvents[0].Action != "status_changed" {
		t.Errorf("expected status_changed event, got %v", pub.featureEvents)
	}
}

func TestFeatureService_SetStatusRejectsUnknown(t *testing.T) {
	svc := NewFeatureService(&mockFeatureRepo{}, nil, nil)
	if _, err := svc.SetStatus(context.Background(), "feat-1", "archived", nil); err == nil {
		t.Fatal("expected rejection")
	}
}

func TestFeatureService_FindNearbyCaches(t *testing.T) {
	calls := 0
	repo := &mockFeatureRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Feature, error) {
			calls++
			return []domain.Feature{{ID: "feat-1"}}, nil
		},
	}
	svc := NewFeatureService(repo, newMockCache(), nil)

	for i := 0; i < 3; i++ {
		features, err := svc.FindNearby(context.Background(), 51.5074, -0.1278, 500, 10)
		if err != nil {
			t.Fatalf("find nearby: %v", err)
		}
		if len(features) != 1 {
			t.Fatalf("expected 1 feature, got %d", len(features))
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 repository call with warm cache, got %d", calls)
	}
}

// The API boots with a nil cache and publisher when valkey or NATS are down;
// every operation must still work.
func TestFeatureService_WithoutCacheAndBroker(t *testing.T) {
	repo := &mockFeatureRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Feature, error) {
			return &domain.Feature{ID: id}, nil
		},
		findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Feature, error) {
			return []domain.Feature{{ID: "f1", Geometry: pointGeometry(51.5, -0.12)}}, nil
		},
	}
	svc := NewFeatureService(repo, nil, nil)

	if _, err := svc.Create(context.Background(), CreateFeatureInput{
		FeatureID:    "TWR-0003",
		Type:         "tower",
		SpecificType: "mobile",
		Geometry:     pointGeometry(51.5, -0.12),
		State:        "plan",
	}, "user-1"); err != nil {
		t.Fatalf("create without cache/broker: %v", err)
	}
	if _, err := svc.FindNearby(context.Background(), 51.5, -0.12, 500, 10); err != nil {
		t.Fatalf("find nearby without cache/broker: %v", err)
	}
	if err := svc.Delete(context.Background(), "f1"); err != nil {
		t.Fatalf("delete without cache/broker: %v", err)
	}
}

func TestFeatureService_FindNearbyFillsDistance(t *testing.T) {
	repo := &mockFeatureRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Feature, error) {
			return []domain.Feature{{ID: "f1", Geometry: pointGeometry(51.5072, -0.1426)}}, nil
		},
	}
	svc := NewFeatureService(repo, nil, nil)

	features, err := svc.FindNearby(context.Background(), 51.5072, -0.1276, 2000, 10)
	if err != nil {
		t.Fatalf("find nearby: %v", err)
	}
	if features[0].Distance == nil {
		t.Fatal("expected distance to be filled in")
	}
	// ~1km of longitude at London's latitude
	if d := *features[0].Distance; d < 900 || d > 1200 {
		t.Errorf("distance = %.0f m, want roughly 1 km", d)
	}
}

func TestFeatureService_FindInBoundsRejectsInverted(t *testing.T) {
	svc := NewFeatureService(&mockFeatureRepo{}, nil, nil)
	_, err := svc.FindInBounds(context.Background(), domain.Bounds{
		MinLat: 52, MaxLat: 51, MinLon: -1, MaxLon: 0,
	}, 100)
	if err == nil {
		t.Fatal("expected inverted box rejection")
	}
}

func TestFeatureService_DeletePublishesDeleted(t *testing.T) {
	repo := &mockFeatureRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Feature, error) {
			return &domain.Feature{ID: id}, nil
		},
	}
	pub := &mockPublisher{}
	svc := NewFeatureService(repo, nil, pub)

	if err := svc.Delete(context.Background(), "feat-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(pub.featureEvents) != 1 || pub.featureEvents[0].Action != "deleted" {
		t.Errorf("expected deleted event, got %v", pub.featureEvents)
	}
}
