package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"trip-planner-service/internal/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func samplePlan() *domain.PlanSnapshot {
	return &domain.PlanSnapshot{
		Destination: "Rome",
		Trip: domain.TripParameters{
			Destination: "Rome",
			StartDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
			Passengers:  2,
		},
		Days: []*domain.ItineraryDay{
			{DayNumber: 1, Places: []*domain.PlaceStop{{Key: "place:colosseum", PlaceID: "colosseum", Name: "Colosseum"}}},
		},
		Cost: &domain.CostBreakdown{Total: 4200, PerPerson: 2100},
	}
}

func TestPlanRepositorySaveAssignsIDAndRoundTrips(t *testing.T) {
	repo := NewSqlitePlanRepository(newTestDB(t))
	ctx := context.Background()

	plan := samplePlan()
	if err := repo.Save(ctx, plan); err != nil {
		t.Fatalf("save: %v", err)
	}
	if plan.ID == "" {
		t.Fatal("save left ID empty")
	}

	got, err := repo.Get(ctx, plan.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Destination != "Rome" {
		t.Errorf("destination = %q, want Rome", got.Destination)
	}
	if len(got.Days) != 1 || got.Days[0].Places[0].Name != "Colosseum" {
		t.Errorf("days = %+v, want snapshot preserved", got.Days)
	}
	if got.Cost == nil || got.Cost.Total != 4200 {
		t.Errorf("cost = %+v, want 4200 total", got.Cost)
	}
}

func TestPlanRepositorySaveIsCreateOrReplace(t *testing.T) {
	repo := NewSqlitePlanRepository(newTestDB(t))
	ctx := context.Background()

	plan := samplePlan()
	if err := repo.Save(ctx, plan); err != nil {
		t.Fatalf("first save: %v", err)
	}

	plan.Destination = "Rome, Italy"
	if err := repo.Save(ctx, plan); err != nil {
		t.Fatalf("second save: %v", err)
	}

	plans, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("plans = %d, want 1 after replace", len(plans))
	}
	if plans[0].Destination != "Rome, Italy" {
		t.Errorf("destination = %q, want updated value", plans[0].Destination)
	}
}

func TestPlanRepositoryGetMissing(t *testing.T) {
	repo := NewSqlitePlanRepository(newTestDB(t))

	_, err := repo.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPlanRepositoryDelete(t *testing.T) {
	repo := NewSqlitePlanRepository(newTestDB(t))
	ctx := context.Background()

	plan := samplePlan()
	if err := repo.Save(ctx, plan); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := repo.Delete(ctx, plan.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, plan.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestPlanRepositoryRejectsBlankDestination(t *testing.T) {
	repo := NewSqlitePlanRepository(newTestDB(t))

	err := repo.Save(context.Background(), &domain.PlanSnapshot{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
