package service

import (
	"context"
	"errors"
	"testing"

	"pulsecoach/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTrainerServiceForTest(userRepo *fakeUserRepo, planRepo *fakePlanRepo, templateRepo *fakeTemplateRepo, today string) *trainerService {
	svc := NewTrainerService(userRepo, planRepo, templateRepo).(*trainerService)
	svc.now = fixedClock(today)
	return svc
}

func TestTrainerService_AddClientByEmail(t *testing.T) {
	trainerID := primitive.NewObjectID()
	otherTrainerID := primitive.NewObjectID()

	trainer := &domain.User{ID: trainerID, Role: domain.RoleTrainer, Email: "coach@example.com"}
	free := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleClient, Email: "free@example.com"}
	taken := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleClient, Email: "taken@example.com", TrainerID: &otherTrainerID}
	mine := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleClient, Email: "mine@example.com", TrainerID: &trainerID}
	notClient := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleTrainer, Email: "peer@example.com"}

	userRepo := newFakeUserRepo(trainer, free, taken, mine, notClient)
	svc := newTrainerServiceForTest(userRepo, &fakePlanRepo{}, &fakeTemplateRepo{}, "2024-06-15")
	ctx := context.Background()

	got, err := svc.AddClientByEmail(ctx, trainerID, "free@example.com")
	if err != nil {
		t.Fatalf("AddClientByEmail returned error: %v", err)
	}
	if got.TrainerID == nil || *got.TrainerID != trainerID {
		t.Error("client was not linked to the trainer")
	}

	if _, err := svc.AddClientByEmail(ctx, trainerID, "nobody@example.com"); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("unknown email error = %v, want ErrClientNotFound", err)
	}
	if _, err := svc.AddClientByEmail(ctx, trainerID, "peer@example.com"); !errors.Is(err, ErrClientNotRole) {
		t.Errorf("trainer email error = %v, want ErrClientNotRole", err)
	}
	if _, err := svc.AddClientByEmail(ctx, trainerID, "taken@example.com"); !errors.Is(err, ErrClientAlreadyAssigned) {
		t.Errorf("taken client error = %v, want ErrClientAlreadyAssigned", err)
	}
	if _, err := svc.AddClientByEmail(ctx, trainerID, "mine@example.com"); err != nil {
		t.Errorf("re-adding own client returned error: %v", err)
	}
}

func TestTrainerService_GetClientOverviews(t *testing.T) {
	trainerID := primitive.NewObjectID()
	activeClient := &domain.User{ID: primitive.NewObjectID(), Name: "Anna", Role: domain.RoleClient, TrainerID: &trainerID}
	idleClient := &domain.User{ID: primitive.NewObjectID(), Name: "Boris", Role: domain.RoleClient, TrainerID: &trainerID}
	trainer := &domain.User{
		ID:        trainerID,
		Role:      domain.RoleTrainer,
		ClientIDs: []primitive.ObjectID{activeClient.ID, idleClient.ID},
	}

	planRepo := &fakePlanRepo{plans: []domain.Plan{
		{
			ID:        primitive.NewObjectID(),
			TrainerID: trainerID,
			ClientID:  activeClient.ID,
			Name:      "Finished Block",
			StartDate: mustDate(t, "2024-01-01"),
			EndDate:   mustDate(t, "2024-02-01"),
		},
		{
			ID:        primitive.NewObjectID(),
			TrainerID: trainerID,
			ClientID:  activeClient.ID,
			Name:      "Current Block",
			StartDate: mustDate(t, "2024-06-01"),
			EndDate:   mustDate(t, "2024-07-01"),
		},
	}}

	svc := newTrainerServiceForTest(newFakeUserRepo(trainer, activeClient, idleClient), planRepo, &fakeTemplateRepo{}, "2024-06-15")

	overviews, err := svc.GetClientOverviews(context.Background(), trainerID)
	if err != nil {
		t.Fatalf("GetClientOverviews returned error: %v", err)
	}
	if len(overviews) != 2 {
		t.Fatalf("got %d overviews, want 2", len(overviews))
	}

	byName := map[string]ClientOverview{}
	for _, o := range overviews {
		byName[o.Client.Name] = o
	}

	anna := byName["Anna"]
	if anna.TotalPlans != 2 {
		t.Errorf("Anna TotalPlans = %d, want 2", anna.TotalPlans)
	}
	if anna.CurrentPlanName != "Current Block" {
		t.Errorf("Anna CurrentPlanName = %q, want %q", anna.CurrentPlanName, "Current Block")
	}
	if anna.CurrentPlan.Status != domain.PlanStatusActive {
		t.Errorf("Anna status = %q, want %q", anna.CurrentPlan.Status, domain.PlanStatusActive)
	}

	boris := byName["Boris"]
	if boris.TotalPlans != 0 {
		t.Errorf("Boris TotalPlans = %d, want 0", boris.TotalPlans)
	}
	if boris.CurrentPlan.Status != domain.PlanStatusUnknown {
		t.Errorf("Boris status = %q, want %q", boris.CurrentPlan.Status, domain.PlanStatusUnknown)
	}
	if boris.CurrentPlanName != "" {
		t.Errorf("Boris CurrentPlanName = %q, want empty", boris.CurrentPlanName)
	}
}

func TestPickCurrentPlan_PrefersActiveThenUpcoming(t *testing.T) {
	today := fixedClock("2024-06-15")()
	upcoming := domain.Plan{Name: "Upcoming", StartDate: mustDate(t, "2024-07-01"), EndDate: mustDate(t, "2024-08-01")}
	completed := domain.Plan{Name: "Completed", StartDate: mustDate(t, "2024-01-01"), EndDate: mustDate(t, "2024-02-01")}
	active := domain.Plan{Name: "Active", StartDate: mustDate(t, "2024-06-01"), EndDate: mustDate(t, "2024-07-01")}

	if got := pickCurrentPlan([]domain.Plan{upcoming, completed, active}, today); got.Name != "Active" {
		t.Errorf("picked %q, want Active", got.Name)
	}
	if got := pickCurrentPlan([]domain.Plan{completed, upcoming}, today); got.Name != "Upcoming" {
		t.Errorf("picked %q, want Upcoming", got.Name)
	}
	if got := pickCurrentPlan([]domain.Plan{completed}, today); got.Name != "Completed" {
		t.Errorf("picked %q, want Completed", got.Name)
	}
	if got := pickCurrentPlan(nil, today); got != nil {
		t.Errorf("picked %+v for empty plan list, want nil", got)
	}
}

func TestTrainerService_Templates(t *testing.T) {
	trainerID := primitive.NewObjectID()
	templateRepo := &fakeTemplateRepo{}
	svc := newTrainerServiceForTest(newFakeUserRepo(), &fakePlanRepo{}, templateRepo, "2024-06-15")
	ctx := context.Background()

	created, err := svc.CreateTemplate(ctx, trainerID, "Leg Day", "Squat focus", "Strength")
	if err != nil {
		t.Fatalf("CreateTemplate returned error: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("created template has no ID")
	}

	if _, err := svc.CreateTemplate(ctx, trainerID, "", "", ""); err == nil {
		t.Error("empty template name did not error")
	}

	templates, err := svc.GetTemplates(ctx, trainerID)
	if err != nil {
		t.Fatalf("GetTemplates returned error: %v", err)
	}
	if len(templates) != 1 || templates[0].Name != "Leg Day" {
		t.Errorf("templates = %+v, want single Leg Day", templates)
	}
}
