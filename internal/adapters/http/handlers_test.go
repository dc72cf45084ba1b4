package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	handler "github.com/geofieldx/geofieldx/internal/adapters/http"
	"github.com/geofieldx/geofieldx/internal/core/domain"
	"github.com/geofieldx/geofieldx/internal/core/ports"
	"github.com/geofieldx/geofieldx/internal/core/usecases"
)

// ---- Mock repositories ----

type mockFeatureRepo struct {
	createFn     func(ctx context.Context, f *domain.Feature) error
	getByIDFn    func(ctx context.Context, id string) (*domain.Feature, error)
	listFn       func(ctx context.Context, filter ports.FeatureFilter) ([]domain.Feature, int, error)
	findNearbyFn func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Feature, error)
}

func (m *mockFeatureRepo) Create(ctx context.Context, f *domain.Feature) error {
	if m.createFn != nil {
		return m.createFn(ctx, f)
	}
	return nil
}
func (m *mockFeatureRepo) Update(ctx context.Context, f *domain.Feature) error { return nil }
func (m *mockFeatureRepo) UpdateStatus(ctx context.Context, id string, status domain.FeatureStatus, maintenance *bool) error {
	return nil
}
func (m *mockFeatureRepo) AppendImages(ctx context.Context, id string, paths []string) error {
	return nil
}
func (m *mockFeatureRepo) Delete(ctx context.Context, id string) error { return nil }
func (m *mockFeatureRepo) GetByID(ctx context.Context, id string) (*domain.Feature, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not found")
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
	return nil, nil
}
func (m *mockFeatureRepo) FindInPolygon(ctx context.Context, boundaryID string) ([]domain.Feature, error) {
	return nil, nil
}
func (m *mockFeatureRepo) UpsertBatch(ctx context.Context, features []domain.Feature) error {
	return nil
}

type mockTaskRepo struct {
	createFn  func(ctx context.Context, t *domain.Task) error
	getByIDFn func(ctx context.Context, id string) (*domain.Task, error)
	listFn    func(ctx context.Context, filter ports.TaskFilter) ([]domain.Task, int, error)
}

func (m *mockTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	return nil
}
func (m *mockTaskRepo) Update(ctx context.Context, t *domain.Task) error { return nil }
func (m *mockTaskRepo) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	return nil
}
func (m *mockTaskRepo) Assign(ctx context.Context, id string, teamID, assigneeID *string) error {
	return nil
}
func (m *mockTaskRepo) Delete(ctx context.Context, id string) error { return nil }
func (m *mockTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not found")
}
func (m *mockTaskRepo) List(ctx context.Context, filter ports.TaskFilter) ([]domain.Task, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, 0, nil
}

type mockBoundaryRepo struct {
	listFn func(ctx context.Context) ([]domain.Boundary, error)
}

func (m *mockBoundaryRepo) Create(ctx context.Context, b *domain.Boundary) error { return nil }
func (m *mockBoundaryRepo) Update(ctx context.Context, b *domain.Boundary) error { return nil }
func (m *mockBoundaryRepo) AssignTeam(ctx context.Context, id string, teamID *string) error {
	return nil
}
func (m *mockBoundaryRepo) Delete(ctx context.Context, id string) error { return nil }
func (m *mockBoundaryRepo) GetByID(ctx context.Context, id string) (*domain.Boundary, error) {
	return nil, fmt.Errorf("not found")
}
func (m *mockBoundaryRepo) List(ctx context.Context) ([]domain.Boundary, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockTeamRepo struct {
	listFn func(ctx context.Context) ([]domain.Team, error)
}

func (m *mockTeamRepo) Create(ctx context.Context, t *domain.Team) error { return nil }
func (m *mockTeamRepo) SetApproval(ctx context.Context, id string, approval domain.ApprovalStatus) error {
	return nil
}
func (m *mockTeamRepo) TouchActivity(ctx context.Context, id string) error { return nil }
func (m *mockTeamRepo) Delete(ctx context.Context, id string) error        { return nil }
func (m *mockTeamRepo) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	return nil, fmt.Errorf("not found")
}
func (m *mockTeamRepo) List(ctx context.Context) ([]domain.Team, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockTeamRepo) Members(ctx context.Context, id string) ([]domain.User, error) {
	return nil, nil
}

type mockUserRepo struct {
	users map[string]*domain.User
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error { return nil }
func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("not found")
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, fmt.Errorf("not found")
}
func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) { return nil, nil }
func (m *mockUserRepo) SetApproval(ctx context.Context, id string, approval domain.ApprovalStatus) error {
	return nil
}
func (m *mockUserRepo) SetTeam(ctx context.Context, id string, teamID *string) error { return nil }
func (m *mockUserRepo) TouchActivity(ctx context.Context, id string) error           { return nil }

type mockShapefileRepo struct {
	listFn func(ctx context.Context) ([]domain.Shapefile, error)
}

func (m *mockShapefileRepo) Create(ctx context.Context, s *domain.Shapefile) error { return nil }
func (m *mockShapefileRepo) GetByID(ctx context.Context, id string) (*domain.Shapefile, error) {
	return nil, fmt.Errorf("not found")
}
func (m *mockShapefileRepo) GetGeoJSON(ctx context.Context, id string) ([]byte, error) {
	return nil, fmt.Errorf("not found")
}
func (m *mockShapefileRepo) List(ctx context.Context) ([]domain.Shapefile, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockShapefileRepo) Delete(ctx context.Context, id string) error { return nil }

// ---- Test helpers ----

const testSecret = "test-secret"

func testUsers(t *testing.T) *mockUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return &mockUserRepo{users: map[string]*domain.User{
		"sup-1": {
			ID: "sup-1", Username: "boss", PasswordHash: string(hash),
			Role: domain.RoleSupervisor, Approval: domain.ApprovalApproved,
		},
		"field-1": {
			ID: "field-1", Username: "crew", PasswordHash: string(hash),
			Role: domain.RoleField, Approval: domain.ApprovalApproved,
		},
	}}
}

func makeDeps(t *testing.T, opts ...func(*handler.Dependencies)) *handler.Dependencies {
	t.Helper()
	users := testUsers(t)
	d := &handler.Dependencies{
		Auth:       usecases.NewAuthService(users, testSecret, time.Hour),
		Features:   usecases.NewFeatureService(&mockFeatureRepo{}, nil, nil),
		Tasks:      usecases.NewTaskService(&mockTaskRepo{}, nil),
		Boundaries: usecases.NewBoundaryService(&mockBoundaryRepo{}, &mockFeatureRepo{}),
		Teams:      usecases.NewTeamService(&mockTeamRepo{}, users),
		Users:      usecases.NewUserService(users, &mockTeamRepo{}),
		Shapefiles: usecases.NewShapefileService(&mockShapefileRepo{}, nil, nil, 500, 5.0, 0),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

// tokenFor logs a test account in and returns its JWT.
func tokenFor(t *testing.T, deps *handler.Dependencies, username string) string {
	t.Helper()
	token, _, err := deps.Auth.Login(context.Background(), username, "correct-horse")
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return token
}

// ---- Auth tests ----

func TestLogin_Success(t *testing.T) {
	deps := makeDeps(t)
	app := setupApp(deps)

	body, _ := json.Marshal(map[string]string{"username": "boss", "password": "correct-horse"})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Token == "" {
		t.Error("no token in login response")
	}
	if result.User.Username != "boss" {
		t.Errorf("user = %q", result.User.Username)
	}

	gotCookie := false
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "geofieldx_token" && cookie.Value != "" {
			gotCookie = true
		}
	}
	if !gotCookie {
		t.Error("auth cookie not set")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	app := setupApp(makeDeps(t))

	body, _ := json.Marshal(map[string]string{"username": "boss", "password": "wrong"})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestProtectedRoute_NoToken(t *testing.T) {
	app := setupApp(makeDeps(t))

	req := httptest.NewRequest("GET", "/api/features", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Code string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "unauthorized" {
		t.Errorf("expected unauthorized error, got %s", apiErr.Code)
	}
}

// ---- Feature handler tests ----

func TestListFeatures_Success(t *testing.T) {
	deps := makeDeps(t, func(d *handler.Dependencies) {
		d.Features = usecases.NewFeatureService(&mockFeatureRepo{
			listFn: func(ctx context.Context, filter ports.FeatureFilter) ([]domain.Feature, int, error) {
				return []domain.Feature{
					{ID: "f1", FeatureID: "TWR-0001", Type: domain.FeatureTower},
					{ID: "f2", FeatureID: "MH-0002", Type: domain.FeatureManhole},
				}, 2, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/api/features", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "boss"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Feature `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Total != 2 {
		t.Errorf("expected total 2, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 features, got %d", len(result.Data))
	}
}

func TestListFeatures_BadType(t *testing.T) {
	deps := makeDeps(t)
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/api/features?type=pipeline", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "boss"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateFeature_Success(t *testing.T) {
	deps := makeDeps(t, func(d *handler.Dependencies) {
		d.Features = usecases.NewFeatureService(&mockFeatureRepo{
			createFn: func(ctx context.Context, f *domain.Feature) error {
				f.ID = "f1"
				return nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	body, _ := json.Marshal(map[string]any{
		"feature_id":    "TWR-0042",
		"type":          "tower",
		"specific_type": "monopole",
		"state":         "plan",
		"geometry": map[string]any{
			"kind":  "point",
			"point": map[string]float64{"lat": 51.5074, "lon": -0.1278},
		},
	})
	req := httptest.NewRequest("POST", "/api/features", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "crew"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var feature domain.Feature
	json.NewDecoder(resp.Body).Decode(&feature)
	if feature.CreatedBy != "field-1" {
		t.Errorf("created_by = %q", feature.CreatedBy)
	}
	if feature.Status != domain.StatusUnassigned {
		t.Errorf("status = %s", feature.Status)
	}
}

func TestCreateFeature_GeometryMismatch(t *testing.T) {
	deps := makeDeps(t)
	app := setupApp(deps)

	body, _ := json.Marshal(map[string]any{
		"feature_id":    "FC-0001",
		"type":          "fiber_cable",
		"specific_type": "48f",
		"state":         "plan",
		"geometry": map[string]any{
			"kind":  "point",
			"point": map[string]float64{"lat": 51.5, "lon": -0.12},
		},
	})
	req := httptest.NewRequest("POST", "/api/features", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "crew"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNearbyFeatures_MissingParams(t *testing.T) {
	deps := makeDeps(t)
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/api/features/nearby", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "crew"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNearbyFeatures_Success(t *testing.T) {
	deps := makeDeps(t, func(d *handler.Dependencies) {
		d.Features = usecases.NewFeatureService(&mockFeatureRepo{
			findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Feature, error) {
				dist := 120.5
				return []domain.Feature{{ID: "f1", Distance: &dist}}, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/api/features/nearby?lat=51.5&lon=-0.12&radius=500", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "crew"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var features []domain.Feature
	json.NewDecoder(resp.Body).Decode(&features)
	if len(features) != 1 || features[0].Distance == nil {
		t.Errorf("expected 1 feature with distance, got %+v", features)
	}
}

func TestNearbyFeatures_GreenwichMeridian(t *testing.T) {
	deps := makeDeps(t, func(d *handler.Dependencies) {
		d.Features = usecases.NewFeatureService(&mockFeatureRepo{
			findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Feature, error) {
				return []domain.Feature{{ID: "f1"}}, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	// lon=0 is a valid coordinate: the meridian crosses the city.
	req := httptest.NewRequest("GET", "/api/features/nearby?lat=51.4779&lon=0&radius=500", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "crew"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 on the meridian, got %d", resp.StatusCode)
	}
}

func TestBBoxFeatures_AcrossMeridian(t *testing.T) {
	deps := makeDeps(t)
	app := setupApp(deps)

	req := httptest.NewRequest("GET",
		"/api/features/bbox?min_lat=51.4&min_lon=-0.01&max_lat=51.5&max_lon=0.01", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "crew"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 for a viewport spanning lon 0, got %d", resp.StatusCode)
	}
}

func TestBBoxFeatures_MissingParams(t *testing.T) {
	deps := makeDeps(t)
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/api/features/bbox?min_lat=51.4&min_lon=-0.2", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "crew"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for a partial viewport, got %d", resp.StatusCode)
	}
}

func TestListFeatures_LinkHeadersKeepFilters(t *testing.T) {
	deps := makeDeps(t, func(d *handler.Dependencies) {
		d.Features = usecases.NewFeatureService(&mockFeatureRepo{
			listFn: func(ctx context.Context, filter ports.FeatureFilter) ([]domain.Feature, int, error) {
				return []domain.Feature{{ID: "f1", Type: domain.FeatureTower}}, 3, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/api/features?type=tower&limit=1", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "boss"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	link := resp.Header.Get("Link")
	if !strings.Contains(link, `rel="next"`) {
		t.Fatalf("expected a next link, got %q", link)
	}
	// Following a page link must keep the active filter.
	if !strings.Contains(link, "type=tower") {
		t.Errorf("filter dropped from Link header: %q", link)
	}
}

func TestDeleteFeature_FieldRoleForbidden(t *testing.T) {
	deps := makeDeps(t)
	app := setupApp(deps)

	req := httptest.NewRequest("DELETE", "/api/features/f1", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "crew"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 403 {
		t.Fatalf("expected 403 for field role, got %d", resp.StatusCode)
	}
}

// ---- Task handler tests ----

func TestCreateTask_Success(t *testing.T) {
	deps := makeDeps(t, func(d *handler.Dependencies) {
		d.Tasks = usecases.NewTaskService(&mockTaskRepo{
			createFn: func(ctx context.Context, task *domain.Task) error {
				task.ID = "t1"
				return nil
			},
		}, nil)
	})
	app := setupApp(deps)

	body, _ := json.Marshal(map[string]any{
		"title":    "Inspect manhole MH-0002",
		"priority": "urgent",
	})
	req := httptest.NewRequest("POST", "/api/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "boss"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var task domain.Task
	json.NewDecoder(resp.Body).Decode(&task)
	if task.Status != domain.TaskOpen {
		t.Errorf("status = %s", task.Status)
	}
}

func TestTaskStatus_IllegalTransition(t *testing.T) {
	deps := makeDeps(t, func(d *handler.Dependencies) {
		d.Tasks = usecases.NewTaskService(&mockTaskRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Task, error) {
				return &domain.Task{ID: id, Status: domain.TaskOpen}, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	body, _ := json.Marshal(map[string]string{"status": "done"})
	req := httptest.NewRequest("PATCH", "/api/tasks/t1/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "crew"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 409 {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestTaskAssign_RequiresSupervisor(t *testing.T) {
	deps := makeDeps(t)
	app := setupApp(deps)

	body, _ := json.Marshal(map[string]string{"team_id": "team-1"})
	req := httptest.NewRequest("PATCH", "/api/tasks/t1/assign", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "crew"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 403 {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

// ---- Shapefile handler tests ----

func TestUploadShapefile_MissingFile(t *testing.T) {
	deps := makeDeps(t, func(d *handler.Dependencies) {
		d.MaxArchiveBytes = 50 << 20
	})
	app := setupApp(deps)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("name", "Ducts")
	mw.Close()

	req := httptest.NewRequest("POST", "/api/shapefiles/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "boss"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUploadShapefile_NotAZip(t *testing.T) {
	deps := makeDeps(t, func(d *handler.Dependencies) {
		d.MaxArchiveBytes = 50 << 20
	})
	app := setupApp(deps)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "routes.shp")
	fw.Write([]byte("raw shapefile, not zipped"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/shapefiles/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "boss"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Misc ----

func TestHealth(t *testing.T) {
	app := setupApp(makeDeps(t))

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var health struct {
		Status string `json:"status"`
	}
	json.NewDecoder(resp.Body).Decode(&health)
	if health.Status != "healthy" {
		t.Errorf("status = %q", health.Status)
	}
}

func TestListTeams_Success(t *testing.T) {
	deps := makeDeps(t, func(d *handler.Dependencies) {
		d.Teams = usecases.NewTeamService(&mockTeamRepo{
			listFn: func(ctx context.Context) ([]domain.Team, error) {
				return []domain.Team{
					{ID: "team-1", Name: "North Crew", MemberCount: 4},
				}, nil
			},
		}, testUsers(t))
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/api/teams", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "crew"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var teams []domain.Team
	json.NewDecoder(resp.Body).Decode(&teams)
	if len(teams) != 1 || teams[0].MemberCount != 4 {
		t.Errorf("unexpected teams: %+v", teams)
	}
}

func TestListUsers_RequiresSupervisor(t *testing.T) {
	deps := makeDeps(t)
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, deps, "crew"))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 403 {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}
