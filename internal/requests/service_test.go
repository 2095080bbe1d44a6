package requests

import (
	"context"
	"testing"
	"time"

	"github.com/crewcast/shootflow-backend/pkg/db/models"
	"github.com/crewcast/shootflow-backend/pkg/enums"
	pkgerrors "github.com/crewcast/shootflow-backend/pkg/errors"
	"github.com/crewcast/shootflow-backend/pkg/pagination"
	"github.com/crewcast/shootflow-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// gormTx satisfies the service's transaction runner the same way the
// production DB client does.
type gormTx struct {
	db *gorm.DB
}

func (g gormTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

type fixture struct {
	db  *gorm.DB
	svc Service

	reporter  Actor
	head      Actor
	admin     Actor
	custodian Actor
	driver    Actor
	operator  Actor
	initiator uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := "file:requests_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.EquipmentItem{},
		&models.ShootingRequest{}, &models.ExtraLocation{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc, err := NewService(NewRepository(db), gormTx{db: db}, nil)
	if err != nil {
		t.Fatalf("service: %v", err)
	}

	f := &fixture{db: db, svc: svc}
	f.reporter = f.seedActor(t, enums.PositionReporter)
	f.head = f.seedActor(t, enums.PositionHeadOfReporters)
	f.admin = f.seedActor(t, enums.PositionAdmin)
	f.custodian = f.seedActor(t, enums.PositionEquipmentCustodian)
	f.driver = f.seedActor(t, enums.PositionDriver)
	f.operator = f.seedActor(t, enums.PositionOperator)
	f.initiator = f.seedActor(t, enums.PositionInitiator).UserID
	return f
}

func (f *fixture) seedActor(t *testing.T, position enums.Position) Actor {
	t.Helper()
	user := models.User{
		ID:       uuid.New(),
		FullName: "Test " + position.String(),
		Email:    uuid.NewString() + "@example.org",
		Position: position,
		IsActive: true,
	}
	if err := f.db.Create(&user).Error; err != nil {
		t.Fatalf("seed %s: %v", position, err)
	}
	return Actor{UserID: user.ID, Role: position}
}

func (f *fixture) seedEquipment(t *testing.T, n int) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		item := models.EquipmentItem{
			ID:       uuid.New(),
			Name:     "camera-" + uuid.NewString()[:8],
			Category: "camera",
			Status:   enums.EquipmentStatusAvailable,
		}
		if err := f.db.Create(&item).Error; err != nil {
			t.Fatalf("seed equipment: %v", err)
		}
		ids = append(ids, item.ID)
	}
	return ids
}

func (f *fixture) createDraft(t *testing.T) *RequestView {
	t.Helper()
	view, err := f.svc.CreateDraft(context.Background(), f.reporter, CreateDraftInput{
		ProjectTitle:      "Harbor expansion feature",
		MainLocation:      "North pier",
		ShootingDate:      time.Now().Add(48 * time.Hour),
		NumberOfCameramen: 2,
		InitiatorID:       f.initiator,
	})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	return view
}

func (f *fixture) equipmentStatus(t *testing.T, id uuid.UUID) enums.EquipmentStatus {
	t.Helper()
	var item models.EquipmentItem
	if err := f.db.First(&item, "id = ?", id).Error; err != nil {
		t.Fatalf("load equipment: %v", err)
	}
	return item.Status
}

func TestFullLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	equipment := f.seedEquipment(t, 2)

	view := f.createDraft(t)
	if view.Status != enums.RequestStatusDraft {
		t.Fatalf("status = %s, want draft", view.Status)
	}

	view, err := f.svc.Submit(ctx, f.reporter, view.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if view.Status != enums.RequestStatusSubmitted {
		t.Fatalf("status = %s, want submitted", view.Status)
	}

	view, err = f.svc.ApproveAndAssignDriver(ctx, f.admin, view.ID, f.driver.UserID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if view.Status != enums.RequestStatusAdminApproved {
		t.Fatalf("status = %s, want admin_approved", view.Status)
	}
	if view.DriverID == nil || *view.DriverID != f.driver.UserID {
		t.Fatal("driver not bound at approval")
	}

	view, err = f.svc.AssignEquipment(ctx, f.custodian, view.ID, equipment)
	if err != nil {
		t.Fatalf("assign equipment: %v", err)
	}
	if view.Status != enums.RequestStatusEquipmentAssigned {
		t.Fatalf("status = %s, want equipment_assigned", view.Status)
	}
	if !view.EquipmentAssigned {
		t.Fatal("equipment_assigned flag should be set")
	}
	if view.TripStatus == nil || *view.TripStatus != enums.TripStatusNotStarted {
		t.Fatal("trip should initialize to not_started")
	}
	for _, id := range equipment {
		if got := f.equipmentStatus(t, id); got != enums.EquipmentStatusAssigned {
			t.Fatalf("equipment %s = %s, want assigned", id, got)
		}
	}

	view, err = f.svc.StartTrip(ctx, f.driver, view.ID, &types.GeoPoint{Lat: 40.71, Lng: -74.0})
	if err != nil {
		t.Fatalf("start trip: %v", err)
	}
	if view.Status != enums.RequestStatusTripStarted {
		t.Fatalf("status = %s, want trip_started", view.Status)
	}
	if view.TripStatus == nil || *view.TripStatus != enums.TripStatusStarted {
		t.Fatal("trip sub-state should be started")
	}
	if view.CurrentLocation == nil || view.CurrentLocation.Lat != 40.71 {
		t.Fatal("trip location not recorded")
	}

	for _, next := range []enums.TripStatus{
		enums.TripStatusArrived, enums.TripStatusWaiting, enums.TripStatusReturning, enums.TripStatusReturned,
	} {
		view, err = f.svc.UpdateTripStatus(ctx, f.driver, view.ID, TripProgressInput{Next: next})
		if err != nil {
			t.Fatalf("advance trip to %s: %v", next, err)
		}
	}
	if view.Status != enums.RequestStatusTripStarted {
		t.Fatal("trip progress must not move the primary status")
	}

	view, err = f.svc.CompleteTrip(ctx, f.driver, view.ID)
	if err != nil {
		t.Fatalf("complete trip: %v", err)
	}
	if view.Status != enums.RequestStatusTripReturned {
		t.Fatalf("status = %s, want trip_returned", view.Status)
	}

	view, err = f.svc.ConfirmEquipmentReturn(ctx, f.custodian, view.ID)
	if err != nil {
		t.Fatalf("confirm return: %v", err)
	}
	if !view.EquipmentReturned {
		t.Fatal("equipment_returned flag should be set")
	}
	for _, id := range equipment {
		if got := f.equipmentStatus(t, id); got != enums.EquipmentStatusAvailable {
			t.Fatalf("equipment %s = %s, want available", id, got)
		}
	}

	view, err = f.svc.Finalize(ctx, f.reporter, view.ID)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if view.Status != enums.RequestStatusFinished {
		t.Fatalf("status = %s, want finished", view.Status)
	}
}

func TestRejectIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view := f.createDraft(t)
	if _, err := f.svc.Submit(ctx, f.reporter, view.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	view, err := f.svc.Reject(ctx, f.head, view.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if view.Status != enums.RequestStatusRejected {
		t.Fatalf("status = %s, want rejected", view.Status)
	}

	_, err = f.svc.Submit(ctx, f.reporter, view.ID)
	assertServiceCode(t, err, pkgerrors.CodeStateConflict)
	_, err = f.svc.ApproveAndAssignDriver(ctx, f.admin, view.ID, f.driver.UserID)
	assertServiceCode(t, err, pkgerrors.CodeStateConflict)
}

func TestDriverBoundToOneActiveRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	equipment := f.seedEquipment(t, 1)

	first := f.createDraft(t)
	second := f.createDraft(t)
	for _, id := range []uuid.UUID{first.ID, second.ID} {
		if _, err := f.svc.Submit(ctx, f.reporter, id); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	if _, err := f.svc.ApproveAndAssignDriver(ctx, f.admin, first.ID, f.driver.UserID); err != nil {
		t.Fatalf("first approve: %v", err)
	}

	_, err := f.svc.ApproveAndAssignDriver(ctx, f.admin, second.ID, f.driver.UserID)
	assertServiceCode(t, err, pkgerrors.CodeResourceUnavailable)

	// A failed approval leaves the second request untouched.
	unchanged, err := f.svc.GetByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("reload second: %v", err)
	}
	if unchanged.Status != enums.RequestStatusSubmitted || unchanged.DriverID != nil {
		t.Fatal("failed approval must not mutate the request")
	}

	// Walk the first request past trip_returned; the driver frees up.
	if _, err := f.svc.AssignEquipment(ctx, f.custodian, first.ID, equipment); err != nil {
		t.Fatalf("assign equipment: %v", err)
	}
	if _, err := f.svc.StartTrip(ctx, f.driver, first.ID, nil); err != nil {
		t.Fatalf("start trip: %v", err)
	}
	for _, next := range []enums.TripStatus{enums.TripStatusArrived, enums.TripStatusReturning, enums.TripStatusReturned} {
		if _, err := f.svc.UpdateTripStatus(ctx, f.driver, first.ID, TripProgressInput{Next: next}); err != nil {
			t.Fatalf("advance trip: %v", err)
		}
	}
	if _, err := f.svc.CompleteTrip(ctx, f.driver, first.ID); err != nil {
		t.Fatalf("complete trip: %v", err)
	}

	if _, err := f.svc.ApproveAndAssignDriver(ctx, f.admin, second.ID, f.driver.UserID); err != nil {
		t.Fatalf("driver should be free after trip_returned: %v", err)
	}
}

func TestAssignEquipmentIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	equipment := f.seedEquipment(t, 3)

	first := f.createDraft(t)
	second := f.createDraft(t)
	driver2 := f.seedActor(t, enums.PositionDriver)
	for _, id := range []uuid.UUID{first.ID, second.ID} {
		if _, err := f.svc.Submit(ctx, f.reporter, id); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if _, err := f.svc.ApproveAndAssignDriver(ctx, f.admin, first.ID, f.driver.UserID); err != nil {
		t.Fatalf("approve first: %v", err)
	}
	if _, err := f.svc.ApproveAndAssignDriver(ctx, f.admin, second.ID, driver2.UserID); err != nil {
		t.Fatalf("approve second: %v", err)
	}

	if _, err := f.svc.AssignEquipment(ctx, f.custodian, first.ID, equipment[:1]); err != nil {
		t.Fatalf("assign first: %v", err)
	}

	// Overlapping draw: one held item poisons the whole batch and the
	// transaction rolls the free items back to available.
	_, err := f.svc.AssignEquipment(ctx, f.custodian, second.ID, equipment)
	assertServiceCode(t, err, pkgerrors.CodeResourceUnavailable)

	for _, id := range equipment[1:] {
		if got := f.equipmentStatus(t, id); got != enums.EquipmentStatusAvailable {
			t.Fatalf("equipment %s = %s, want available after rollback", id, got)
		}
	}
	unchanged, err := f.svc.GetByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("reload second: %v", err)
	}
	if unchanged.Status != enums.RequestStatusAdminApproved || len(unchanged.AssignedEquipment) != 0 {
		t.Fatal("failed assignment must not mutate the request")
	}

	if _, err := f.svc.AssignEquipment(ctx, f.custodian, second.ID, equipment[1:]); err != nil {
		t.Fatalf("assign remaining: %v", err)
	}
}

func TestUpdateDraftOnlyWhileDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view := f.createDraft(t)
	title := "Renamed package"
	cameramen := 3

	updated, err := f.svc.UpdateDraft(ctx, f.reporter, view.ID, UpdateDraftInput{
		ProjectTitle:      &title,
		NumberOfCameramen: &cameramen,
	})
	if err != nil {
		t.Fatalf("update draft: %v", err)
	}
	if updated.ProjectTitle != title || updated.NumberOfCameramen != 3 {
		t.Fatal("draft fields not updated")
	}

	// Another reporter cannot edit someone else's draft.
	other := f.seedActor(t, enums.PositionReporter)
	_, err = f.svc.UpdateDraft(ctx, other, view.ID, UpdateDraftInput{ProjectTitle: &title})
	assertServiceCode(t, err, pkgerrors.CodeStateConflict)

	if _, err := f.svc.Submit(ctx, f.reporter, view.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	_, err = f.svc.UpdateDraft(ctx, f.reporter, view.ID, UpdateDraftInput{ProjectTitle: &title})
	assertServiceCode(t, err, pkgerrors.CodeStateConflict)
}

func TestTripOrderEnforced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	equipment := f.seedEquipment(t, 1)

	view := f.createDraft(t)
	if _, err := f.svc.Submit(ctx, f.reporter, view.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.ApproveAndAssignDriver(ctx, f.admin, view.ID, f.driver.UserID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := f.svc.AssignEquipment(ctx, f.custodian, view.ID, equipment); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// Trip progress before the trip starts is a conflict.
	_, err := f.svc.UpdateTripStatus(ctx, f.driver, view.ID, TripProgressInput{Next: enums.TripStatusArrived})
	assertServiceCode(t, err, pkgerrors.CodeStateConflict)

	if _, err := f.svc.StartTrip(ctx, f.driver, view.ID, nil); err != nil {
		t.Fatalf("start trip: %v", err)
	}

	// Starting twice is a conflict.
	_, err = f.svc.StartTrip(ctx, f.driver, view.ID, nil)
	assertServiceCode(t, err, pkgerrors.CodeStateConflict)

	// Skipping arrived is a conflict.
	_, err = f.svc.UpdateTripStatus(ctx, f.driver, view.ID, TripProgressInput{Next: enums.TripStatusReturned})
	assertServiceCode(t, err, pkgerrors.CodeStateConflict)

	// Completing before the trip returns is a conflict.
	_, err = f.svc.CompleteTrip(ctx, f.driver, view.ID)
	assertServiceCode(t, err, pkgerrors.CodeStateConflict)

	if _, err := f.svc.UpdateTripStatus(ctx, f.driver, view.ID, TripProgressInput{Next: enums.TripStatusArrived}); err != nil {
		t.Fatalf("arrive: %v", err)
	}

	// Only the bound driver advances the trip.
	stranger := f.seedActor(t, enums.PositionDriver)
	_, err = f.svc.UpdateTripStatus(ctx, stranger, view.ID, TripProgressInput{Next: enums.TripStatusWaiting})
	assertServiceCode(t, err, pkgerrors.CodeStateConflict)

	// Moving backwards is a conflict.
	_, err = f.svc.UpdateTripStatus(ctx, f.driver, view.ID, TripProgressInput{Next: enums.TripStatusStarted})
	assertServiceCode(t, err, pkgerrors.CodeStateConflict)

	// Waiting is optional: arrived can go straight to returning.
	if _, err := f.svc.UpdateTripStatus(ctx, f.driver, view.ID, TripProgressInput{Next: enums.TripStatusReturning}); err != nil {
		t.Fatalf("returning: %v", err)
	}
}

func TestTripLocationValidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	equipment := f.seedEquipment(t, 1)

	view := f.createDraft(t)
	if _, err := f.svc.Submit(ctx, f.reporter, view.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.ApproveAndAssignDriver(ctx, f.admin, view.ID, f.driver.UserID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := f.svc.AssignEquipment(ctx, f.custodian, view.ID, equipment); err != nil {
		t.Fatalf("assign: %v", err)
	}

	_, err := f.svc.StartTrip(ctx, f.driver, view.ID, &types.GeoPoint{Lat: 120, Lng: 0})
	assertServiceCode(t, err, pkgerrors.CodeValidation)

	if _, err := f.svc.StartTrip(ctx, f.driver, view.ID, nil); err != nil {
		t.Fatalf("start trip: %v", err)
	}

	updated, err := f.svc.UpdateTripStatus(ctx, f.driver, view.ID, TripProgressInput{
		Next:     enums.TripStatusArrived,
		Location: &types.GeoPoint{Lat: 41.0, Lng: 28.9},
	})
	if err != nil {
		t.Fatalf("arrive with location: %v", err)
	}
	if updated.CurrentLocation == nil || updated.CurrentLocation.Lng != 28.9 {
		t.Fatal("location not refreshed on trip progress")
	}
}

func TestExtraLocations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view := f.createDraft(t)

	first, err := f.svc.AddExtraLocation(ctx, f.reporter, view.ID, "Rooftop annex")
	if err != nil {
		t.Fatalf("add location: %v", err)
	}
	if len(first.ExtraLocations) != 1 || first.ExtraLocations[0].Position != 1 {
		t.Fatalf("unexpected locations: %+v", first.ExtraLocations)
	}
	if first.ExtraLocations[0].Approved {
		t.Fatal("new locations start unapproved")
	}

	// Admins can append too, and ordering is preserved.
	second, err := f.svc.AddExtraLocation(ctx, f.admin, view.ID, "Loading dock")
	if err != nil {
		t.Fatalf("admin add location: %v", err)
	}
	if len(second.ExtraLocations) != 2 || second.ExtraLocations[1].Position != 2 {
		t.Fatalf("unexpected locations: %+v", second.ExtraLocations)
	}

	// A reporter who does not own the request cannot append.
	other := f.seedActor(t, enums.PositionReporter)
	_, err = f.svc.AddExtraLocation(ctx, other, view.ID, "Basement")
	assertServiceCode(t, err, pkgerrors.CodeStateConflict)

	// Approval is admin work.
	locationID := second.ExtraLocations[0].ID
	_, err = f.svc.ApproveExtraLocation(ctx, f.reporter, view.ID, locationID)
	assertServiceCode(t, err, pkgerrors.CodeStateConflict)

	approved, err := f.svc.ApproveExtraLocation(ctx, f.head, view.ID, locationID)
	if err != nil {
		t.Fatalf("approve location: %v", err)
	}
	if !approved.ExtraLocations[0].Approved {
		t.Fatal("location should be approved")
	}
	if approved.ExtraLocations[1].Approved {
		t.Fatal("approval must not leak to siblings")
	}

	_, err = f.svc.ApproveExtraLocation(ctx, f.admin, view.ID, uuid.New())
	assertServiceCode(t, err, pkgerrors.CodeNotFound)
}

func TestExtraLocationsRejectedOnClosedRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view := f.createDraft(t)
	if _, err := f.svc.Submit(ctx, f.reporter, view.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.Reject(ctx, f.admin, view.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	_, err := f.svc.AddExtraLocation(ctx, f.reporter, view.ID, "Too late")
	assertServiceCode(t, err, pkgerrors.CodeStateConflict)
}

func TestChangeReporter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view := f.createDraft(t)
	replacement := f.seedActor(t, enums.PositionReporter)

	// Only admins reassign ownership.
	_, err := f.svc.ChangeReporter(ctx, f.reporter, view.ID, replacement.UserID)
	assertServiceCode(t, err, pkgerrors.CodeStateConflict)

	// The new owner must hold a position that can own requests.
	_, err = f.svc.ChangeReporter(ctx, f.admin, view.ID, f.driver.UserID)
	assertServiceCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.ChangeReporter(ctx, f.admin, view.ID, uuid.New())
	assertServiceCode(t, err, pkgerrors.CodeNotFound)

	updated, err := f.svc.ChangeReporter(ctx, f.admin, view.ID, replacement.UserID)
	if err != nil {
		t.Fatalf("change reporter: %v", err)
	}
	if updated.ReporterID != replacement.UserID {
		t.Fatal("reporter not reassigned")
	}

	// Ownership follows the reassignment: the old owner can no longer submit.
	_, err = f.svc.Submit(ctx, f.reporter, view.ID)
	assertServiceCode(t, err, pkgerrors.CodeStateConflict)
	if _, err := f.svc.Submit(ctx, replacement, view.ID); err != nil {
		t.Fatalf("new owner submit: %v", err)
	}
}

func TestCreateDraftValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateDraft(ctx, f.admin, CreateDraftInput{
		ProjectTitle: "x", MainLocation: "y", ShootingDate: time.Now(), NumberOfCameramen: 1, InitiatorID: f.initiator,
	})
	assertServiceCode(t, err, pkgerrors.CodeForbidden)

	cases := []CreateDraftInput{
		{MainLocation: "y", ShootingDate: time.Now(), NumberOfCameramen: 1, InitiatorID: f.initiator},
		{ProjectTitle: "x", ShootingDate: time.Now(), NumberOfCameramen: 1, InitiatorID: f.initiator},
		{ProjectTitle: "x", MainLocation: "y", NumberOfCameramen: 1, InitiatorID: f.initiator},
		{ProjectTitle: "x", MainLocation: "y", ShootingDate: time.Now(), InitiatorID: f.initiator},
		{ProjectTitle: "x", MainLocation: "y", ShootingDate: time.Now(), NumberOfCameramen: 1},
	}
	for i, input := range cases {
		_, err := f.svc.CreateDraft(ctx, f.reporter, input)
		if err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
		assertServiceCode(t, err, pkgerrors.CodeValidation)
	}
}

func TestQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createDraft(t)
	submitted := f.createDraft(t)
	if _, err := f.svc.Submit(ctx, f.reporter, submitted.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	all, err := f.svc.ListAll(ctx, nil, pagination.Params{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all.Items) != 2 {
		t.Fatalf("all = %d items, want 2", len(all.Items))
	}

	status := enums.RequestStatusSubmitted
	filtered, err := f.svc.ListAll(ctx, &status, pagination.Params{})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered.Items) != 1 || filtered.Items[0].ID != submitted.ID {
		t.Fatalf("filtered = %+v", filtered.Items)
	}

	bogus := enums.RequestStatus("unknown")
	_, err = f.svc.ListAll(ctx, &bogus, pagination.Params{})
	assertServiceCode(t, err, pkgerrors.CodeValidation)

	mine, err := f.svc.ListMine(ctx, f.reporter, pagination.Params{})
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine.Items) != 2 {
		t.Fatalf("reporter mine = %d items, want 2", len(mine.Items))
	}

	// A driver with no bound requests sees an empty personal queue.
	mine, err = f.svc.ListMine(ctx, f.driver, pagination.Params{})
	if err != nil {
		t.Fatalf("driver mine: %v", err)
	}
	if len(mine.Items) != 0 {
		t.Fatalf("driver mine = %d items, want 0", len(mine.Items))
	}

	// Operator membership compares against equipment ids, so it stays empty.
	mine, err = f.svc.ListMine(ctx, f.operator, pagination.Params{})
	if err != nil {
		t.Fatalf("operator mine: %v", err)
	}
	if len(mine.Items) != 0 {
		t.Fatalf("operator mine = %d items, want 0", len(mine.Items))
	}

	pending, err := f.svc.ListPendingForMe(ctx, f.admin, pagination.Params{})
	if err != nil {
		t.Fatalf("admin pending: %v", err)
	}
	if len(pending.Items) != 1 || pending.Items[0].ID != submitted.ID {
		t.Fatalf("admin pending = %+v", pending.Items)
	}

	pending, err = f.svc.ListPendingForMe(ctx, f.custodian, pagination.Params{})
	if err != nil {
		t.Fatalf("custodian pending: %v", err)
	}
	if len(pending.Items) != 0 {
		t.Fatalf("custodian pending = %d items, want 0", len(pending.Items))
	}

	// The initiator role has no pending queue.
	pending, err = f.svc.ListPendingForMe(ctx, Actor{UserID: f.initiator, Role: enums.PositionInitiator}, pagination.Params{})
	if err != nil {
		t.Fatalf("initiator pending: %v", err)
	}
	if len(pending.Items) != 0 {
		t.Fatalf("initiator pending = %d items, want 0", len(pending.Items))
	}

	if _, err := f.svc.GetByID(ctx, uuid.New()); err == nil {
		t.Fatal("expected not found")
	} else {
		assertServiceCode(t, err, pkgerrors.CodeNotFound)
	}
}

func assertServiceCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("unexpected error: %v", err)
	}
}
