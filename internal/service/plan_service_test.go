package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pulsecoach/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return parsed
}

func newPlanServiceForTest(planRepo *fakePlanRepo, userRepo *fakeUserRepo, templateRepo *fakeTemplateRepo, today string) *planService {
	svc := NewPlanService(planRepo, userRepo, templateRepo).(*planService)
	svc.now = fixedClock(today)
	return svc
}

func TestPlanService_GetPlanDetails(t *testing.T) {
	trainerID := primitive.NewObjectID()
	clientID := primitive.NewObjectID()
	legDay := domain.WorkoutTemplate{ID: primitive.NewObjectID(), TrainerID: trainerID, Name: "Leg Day"}

	plan := domain.Plan{
		ID:        primitive.NewObjectID(),
		TrainerID: trainerID,
		ClientID:  clientID,
		Name:      "Strength Block",
		StartDate: mustDate(t, "2024-06-01"),
		EndDate:   mustDate(t, "2024-06-29"),
		Schedule:  domain.WeeklySchedule{Monday: &legDay.ID, Thursday: &legDay.ID},
	}

	planRepo := &fakePlanRepo{plans: []domain.Plan{plan}}
	userRepo := newFakeUserRepo()
	templateRepo := &fakeTemplateRepo{templates: []domain.WorkoutTemplate{legDay}}
	svc := newPlanServiceForTest(planRepo, userRepo, templateRepo, "2024-06-15")

	details, err := svc.GetPlanDetails(context.Background(), trainerID, plan.ID)
	if err != nil {
		t.Fatalf("GetPlanDetails returned error: %v", err)
	}

	if details.Derived.Status != domain.PlanStatusActive {
		t.Errorf("Status = %q, want %q", details.Derived.Status, domain.PlanStatusActive)
	}
	if details.Derived.Duration != "4 weeks" {
		t.Errorf("Duration = %q, want %q", details.Derived.Duration, "4 weeks")
	}
	if details.Derived.WorkoutsPerWeek != 2 {
		t.Errorf("WorkoutsPerWeek = %d, want 2", details.Derived.WorkoutsPerWeek)
	}
	if len(details.Week) != 7 {
		t.Fatalf("Week has %d days, want 7", len(details.Week))
	}
	if details.Week[0].WorkoutName != "Leg Day" || details.Week[0].RestDay {
		t.Errorf("Monday = %+v, want Leg Day workout", details.Week[0])
	}
	if details.Week[1].WorkoutName != domain.RestDayName || !details.Week[1].RestDay {
		t.Errorf("Tuesday = %+v, want rest day", details.Week[1])
	}
	if details.Progress.PercentComplete != 50 {
		t.Errorf("PercentComplete = %d, want 50", details.Progress.PercentComplete)
	}
}

func TestPlanService_GetPlanDetails_ClientCanView(t *testing.T) {
	trainerID := primitive.NewObjectID()
	clientID := primitive.NewObjectID()
	plan := domain.Plan{
		ID:        primitive.NewObjectID(),
		TrainerID: trainerID,
		ClientID:  clientID,
		Name:      "Conditioning",
		StartDate: mustDate(t, "2024-06-01"),
		EndDate:   mustDate(t, "2024-06-30"),
	}

	svc := newPlanServiceForTest(&fakePlanRepo{plans: []domain.Plan{plan}}, newFakeUserRepo(), &fakeTemplateRepo{}, "2024-06-15")

	if _, err := svc.GetPlanDetails(context.Background(), clientID, plan.ID); err != nil {
		t.Errorf("client view returned error: %v", err)
	}

	stranger := primitive.NewObjectID()
	if _, err := svc.GetPlanDetails(context.Background(), stranger, plan.ID); !errors.Is(err, ErrPlanAccessDenied) {
		t.Errorf("stranger view error = %v, want ErrPlanAccessDenied", err)
	}
}

func TestPlanService_GetPlanDetails_NotFound(t *testing.T) {
	svc := newPlanServiceForTest(&fakePlanRepo{}, newFakeUserRepo(), &fakeTemplateRepo{}, "2024-06-15")

	_, err := svc.GetPlanDetails(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("error = %v, want ErrPlanNotFound", err)
	}
}

func TestPlanService_CreatePlan(t *testing.T) {
	trainerID := primitive.NewObjectID()
	client := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleClient, TrainerID: &trainerID}
	legDay := domain.WorkoutTemplate{ID: primitive.NewObjectID(), TrainerID: trainerID, Name: "Leg Day"}

	planRepo := &fakePlanRepo{}
	svc := newPlanServiceForTest(planRepo, newFakeUserRepo(client), &fakeTemplateRepo{templates: []domain.WorkoutTemplate{legDay}}, "2024-06-15")

	schedule := domain.WeeklySchedule{Wednesday: &legDay.ID}
	plan, err := svc.CreatePlan(context.Background(), trainerID, client.ID, "Block 1", "",
		mustDate(t, "2024-07-01"), mustDate(t, "2024-08-01"), schedule)
	if err != nil {
		t.Fatalf("CreatePlan returned error: %v", err)
	}
	if plan.ID == primitive.NilObjectID {
		t.Error("created plan has no ID")
	}
	if len(planRepo.plans) != 1 {
		t.Errorf("stored %d plans, want 1", len(planRepo.plans))
	}
}

func TestPlanService_CreatePlan_Validation(t *testing.T) {
	trainerID := primitive.NewObjectID()
	otherTrainerID := primitive.NewObjectID()
	managed := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleClient, TrainerID: &trainerID}
	unmanaged := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleClient, TrainerID: &otherTrainerID}
	foreignTemplate := primitive.NewObjectID()

	svc := newPlanServiceForTest(&fakePlanRepo{}, newFakeUserRepo(managed, unmanaged), &fakeTemplateRepo{}, "2024-06-15")

	start := mustDate(t, "2024-07-01")
	end := mustDate(t, "2024-08-01")

	if _, err := svc.CreatePlan(context.Background(), trainerID, primitive.NewObjectID(), "P", "", start, end, domain.WeeklySchedule{}); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("unknown client error = %v, want ErrClientNotFound", err)
	}
	if _, err := svc.CreatePlan(context.Background(), trainerID, unmanaged.ID, "P", "", start, end, domain.WeeklySchedule{}); !errors.Is(err, ErrClientNotManaged) {
		t.Errorf("unmanaged client error = %v, want ErrClientNotManaged", err)
	}
	if _, err := svc.CreatePlan(context.Background(), trainerID, managed.ID, "P", "", start, end, domain.WeeklySchedule{Friday: &foreignTemplate}); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("unknown template error = %v, want ErrTemplateNotFound", err)
	}
	if _, err := svc.CreatePlan(context.Background(), trainerID, managed.ID, "P", "", end, start, domain.WeeklySchedule{}); err == nil {
		t.Error("reversed date range did not error")
	}
}

func TestPlanService_UpdatePlan_Ownership(t *testing.T) {
	trainerID := primitive.NewObjectID()
	plan := domain.Plan{
		ID:        primitive.NewObjectID(),
		TrainerID: trainerID,
		ClientID:  primitive.NewObjectID(),
		Name:      "Old Name",
		StartDate: mustDate(t, "2024-06-01"),
		EndDate:   mustDate(t, "2024-06-30"),
	}
	planRepo := &fakePlanRepo{plans: []domain.Plan{plan}}
	svc := newPlanServiceForTest(planRepo, newFakeUserRepo(), &fakeTemplateRepo{}, "2024-06-15")

	updates := plan
	updates.Name = "New Name"

	if _, err := svc.UpdatePlan(context.Background(), primitive.NewObjectID(), plan.ID, updates); !errors.Is(err, ErrPlanAccessDenied) {
		t.Errorf("foreign trainer update error = %v, want ErrPlanAccessDenied", err)
	}

	updated, err := svc.UpdatePlan(context.Background(), trainerID, plan.ID, updates)
	if err != nil {
		t.Fatalf("UpdatePlan returned error: %v", err)
	}
	if updated.Name != "New Name" {
		t.Errorf("Name = %q, want %q", updated.Name, "New Name")
	}
}

func TestPlanService_UnimplementedWritePaths(t *testing.T) {
	svc := newPlanServiceForTest(&fakePlanRepo{}, newFakeUserRepo(), &fakeTemplateRepo{}, "2024-06-15")

	if err := svc.DeletePlan(context.Background(), primitive.NewObjectID(), primitive.NewObjectID()); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("DeletePlan error = %v, want ErrNotImplemented", err)
	}
	if err := svc.SavePlanNotes(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), "notes"); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("SavePlanNotes error = %v, want ErrNotImplemented", err)
	}
}
