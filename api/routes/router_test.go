package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crewcast/shootflow-backend/internal/directory"
	"github.com/crewcast/shootflow-backend/internal/requests"
	"github.com/crewcast/shootflow-backend/pkg/config"
	"github.com/crewcast/shootflow-backend/pkg/db/models"
	"github.com/crewcast/shootflow-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type gormTx struct {
	db *gorm.DB
}

func (g gormTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

type routerFixture struct {
	t       *testing.T
	db      *gorm.DB
	handler http.Handler

	reporter  uuid.UUID
	admin     uuid.UUID
	custodian uuid.UUID
	driver    uuid.UUID
	initiator uuid.UUID
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	dsn := "file:router_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Vehicle{}, &models.EquipmentItem{},
		&models.ShootingRequest{}, &models.ExtraLocation{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	directoryService, err := directory.NewService(directory.NewRepository(db))
	if err != nil {
		t.Fatalf("directory service: %v", err)
	}
	requestsService, err := requests.NewService(requests.NewRepository(db), gormTx{db: db}, nil)
	if err != nil {
		t.Fatalf("requests service: %v", err)
	}

	cfg := &config.Config{App: config.AppConfig{Env: "test", Port: "0"}}
	handler := NewRouter(cfg, nil, stubPinger{}, directoryService, requestsService)

	f := &routerFixture{t: t, db: db, handler: handler}
	f.reporter = f.seedUser(enums.PositionReporter)
	f.admin = f.seedUser(enums.PositionAdmin)
	f.custodian = f.seedUser(enums.PositionEquipmentCustodian)
	f.driver = f.seedUser(enums.PositionDriver)
	f.initiator = f.seedUser(enums.PositionInitiator)
	return f
}

func (f *routerFixture) seedUser(position enums.Position) uuid.UUID {
	f.t.Helper()
	user := models.User{
		ID:       uuid.New(),
		FullName: "Test " + position.String(),
		Email:    uuid.NewString() + "@example.org",
		Position: position,
		IsActive: true,
	}
	if err := f.db.Create(&user).Error; err != nil {
		f.t.Fatalf("seed user: %v", err)
	}
	return user.ID
}

func (f *routerFixture) do(method, path string, actor uuid.UUID, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			f.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != uuid.Nil {
		req.Header.Set("X-Actor-Id", actor.String())
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope.Data
}

func TestHealthEndpoints(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(http.MethodGet, "/health/live", uuid.Nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("live = %d", w.Code)
	}
	w = f.do(http.MethodGet, "/health/ready", uuid.Nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("ready = %d", w.Code)
	}
	if got := w.Header().Get("X-Shootflow-Env"); got != "test" {
		t.Fatalf("env header = %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(http.MethodGet, "/metrics", uuid.Nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("metrics = %d", w.Code)
	}
}

func TestActorRequired(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(http.MethodGet, "/api/v1/requests/", uuid.Nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing actor = %d, want 401", w.Code)
	}

	w = f.do(http.MethodGet, "/api/v1/requests/", uuid.New(), nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown actor = %d, want 401", w.Code)
	}
}

func TestDirectoryRoleGates(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(http.MethodGet, "/api/v1/directory/drivers", f.custodian, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("custodian listing drivers = %d, want 403", w.Code)
	}

	w = f.do(http.MethodGet, "/api/v1/directory/drivers", f.admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin listing drivers = %d, want 200", w.Code)
	}

	w = f.do(http.MethodGet, "/api/v1/directory/equipment/available", f.custodian, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("custodian listing equipment = %d, want 200", w.Code)
	}
}

func TestRequestLifecycleOverHTTP(t *testing.T) {
	f := newRouterFixture(t)

	item := models.EquipmentItem{ID: uuid.New(), Name: "tripod", Category: "support", Status: enums.EquipmentStatusAvailable}
	if err := f.db.Create(&item).Error; err != nil {
		t.Fatalf("seed equipment: %v", err)
	}

	w := f.do(http.MethodPost, "/api/v1/requests/", f.reporter, map[string]any{
		"project_title":       "Bridge opening ceremony",
		"main_location":       "West bridge",
		"shooting_date":       time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"number_of_cameramen": 2,
		"initiator_id":        f.initiator,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", w.Code, w.Body.String())
	}
	created := decodeData[requests.RequestView](t, w)
	base := fmt.Sprintf("/api/v1/requests/%s", created.ID)

	w = f.do(http.MethodPost, base+"/submit", f.reporter, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submit = %d: %s", w.Code, w.Body.String())
	}

	// Wrong role surfaces as a state conflict, not a transport error.
	w = f.do(http.MethodPost, base+"/approve", f.reporter, map[string]any{"driver_id": f.driver})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("reporter approve = %d, want 422", w.Code)
	}

	w = f.do(http.MethodPost, base+"/approve", f.admin, map[string]any{"driver_id": f.driver})
	if w.Code != http.StatusOK {
		t.Fatalf("approve = %d: %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodPost, base+"/equipment", f.custodian, map[string]any{"equipment_ids": []uuid.UUID{item.ID}})
	if w.Code != http.StatusOK {
		t.Fatalf("assign equipment = %d: %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodPost, base+"/trip/start", f.driver, map[string]any{"location": map[string]float64{"lat": 39.9, "lng": 32.8}})
	if w.Code != http.StatusOK {
		t.Fatalf("start trip = %d: %s", w.Code, w.Body.String())
	}

	for _, next := range []string{"arrived", "returning", "returned"} {
		w = f.do(http.MethodPost, base+"/trip/status", f.driver, map[string]any{"trip_status": next})
		if w.Code != http.StatusOK {
			t.Fatalf("trip %s = %d: %s", next, w.Code, w.Body.String())
		}
	}

	w = f.do(http.MethodPost, base+"/trip/complete", f.driver, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete trip = %d: %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodPost, base+"/equipment/return", f.custodian, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("equipment return = %d: %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodPost, base+"/finalize", f.reporter, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("finalize = %d: %s", w.Code, w.Body.String())
	}
	final := decodeData[requests.RequestView](t, w)
	if final.Status != enums.RequestStatusFinished {
		t.Fatalf("status = %s, want finished", final.Status)
	}

	w = f.do(http.MethodGet, base+"/", f.reporter, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("detail = %d", w.Code)
	}
}

func TestExtraLocationsOverHTTP(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(http.MethodPost, "/api/v1/requests/", f.reporter, map[string]any{
		"project_title":       "Court report",
		"main_location":       "Courthouse",
		"shooting_date":       time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"number_of_cameramen": 1,
		"initiator_id":        f.initiator,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", w.Code, w.Body.String())
	}
	created := decodeData[requests.RequestView](t, w)
	base := fmt.Sprintf("/api/v1/requests/%s", created.ID)

	w = f.do(http.MethodPost, base+"/locations", f.reporter, map[string]any{"name": "Press room"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add location = %d: %s", w.Code, w.Body.String())
	}
	view := decodeData[requests.RequestView](t, w)
	if len(view.ExtraLocations) != 1 {
		t.Fatalf("locations = %d, want 1", len(view.ExtraLocations))
	}

	locationPath := fmt.Sprintf("%s/locations/%s/approve", base, view.ExtraLocations[0].ID)
	w = f.do(http.MethodPost, locationPath, f.admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("approve location = %d: %s", w.Code, w.Body.String())
	}
	view = decodeData[requests.RequestView](t, w)
	if !view.ExtraLocations[0].Approved {
		t.Fatal("location should be approved")
	}
}

func TestListEndpointsOverHTTP(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(http.MethodPost, "/api/v1/requests/", f.reporter, map[string]any{
		"project_title":       "Morning bulletin",
		"main_location":       "Studio A",
		"shooting_date":       time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"number_of_cameramen": 1,
		"initiator_id":        f.initiator,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d", w.Code)
	}

	w = f.do(http.MethodGet, "/api/v1/requests/?status=draft", f.admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	page := decodeData[requests.RequestPage](t, w)
	if len(page.Items) != 1 {
		t.Fatalf("list items = %d, want 1", len(page.Items))
	}

	w = f.do(http.MethodGet, "/api/v1/requests/?status=bogus", f.admin, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bogus status = %d, want 400", w.Code)
	}

	w = f.do(http.MethodGet, "/api/v1/requests/mine", f.reporter, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("mine = %d", w.Code)
	}
	page = decodeData[requests.RequestPage](t, w)
	if len(page.Items) != 1 {
		t.Fatalf("mine items = %d, want 1", len(page.Items))
	}

	w = f.do(http.MethodGet, "/api/v1/requests/pending", f.custodian, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pending = %d", w.Code)
	}
	page = decodeData[requests.RequestPage](t, w)
	if len(page.Items) != 0 {
		t.Fatalf("custodian pending = %d, want 0", len(page.Items))
	}
}
