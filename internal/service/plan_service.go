// internal/service/plan_service.go
package service

import (
	"context"
	"errors"
	"pulsecoach/coaching-app/internal/domain"
	"pulsecoach/coaching-app/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound       = errors.New("plan not found")
	ErrPlanAccessDenied   = errors.New("access denied to this plan")
	ErrPlanCreationFailed = errors.New("failed to create plan")
	ErrTemplateNotFound   = errors.New("workout template not found")
	ErrNotImplemented     = errors.New("operation not implemented")
)

// PlanDetails is the display-ready view of a single plan: the stored record
// plus everything derived from it for the current date.
type PlanDetails struct {
	Plan     *domain.Plan
	Derived  domain.DerivedPlanStatus
	Progress domain.PlanProgress
	Week     []domain.DaySchedule
}

// PlanService exposes plan reads (with derived status and resolved
// schedules) and the trainer-side write path.
type PlanService interface {
	GetPlanDetails(ctx context.Context, requesterID, planID primitive.ObjectID) (*PlanDetails, error)
	CreatePlan(ctx context.Context, trainerID, clientID primitive.ObjectID, name, notes string, startDate, endDate time.Time, schedule domain.WeeklySchedule) (*domain.Plan, error)
	GetPlansForClient(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.Plan, error)
	UpdatePlan(ctx context.Context, trainerID, planID primitive.ObjectID, updates domain.Plan) (*domain.Plan, error)

	// Write paths the mobile screens expose but which have no backing
	// implementation yet. Both fail loudly with ErrNotImplemented instead
	// of pretending to succeed.
	DeletePlan(ctx context.Context, trainerID, planID primitive.ObjectID) error
	SavePlanNotes(ctx context.Context, trainerID, planID primitive.ObjectID, notes string) error
}

// --- Service Implementation ---

type planService struct {
	planRepo     repository.PlanRepository
	userRepo     repository.UserRepository
	templateRepo repository.TemplateRepository
	now          func() time.Time // injectable clock for derived values
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	planRepo repository.PlanRepository,
	userRepo repository.UserRepository,
	templateRepo repository.TemplateRepository,
) PlanService {
	return &planService{
		planRepo:     planRepo,
		userRepo:     userRepo,
		templateRepo: templateRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// GetPlanDetails loads a plan and computes its display view: status,
// duration, weekly workout count, date-range progress, and the resolved
// Monday..Sunday schedule.
func (s *planService) GetPlanDetails(ctx context.Context, requesterID, planID primitive.ObjectID) (*PlanDetails, error) {
	if requesterID == primitive.NilObjectID || planID == primitive.NilObjectID {
		return nil, errors.New("requester ID and plan ID are required")
	}

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	// Only the authoring trainer and the plan's client may view it.
	if plan.TrainerID != requesterID && plan.ClientID != requesterID {
		return nil, ErrPlanAccessDenied
	}

	templates, err := s.templateRepo.GetByTrainerID(ctx, plan.TrainerID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	return &PlanDetails{
		Plan:     plan,
		Derived:  domain.ClassifyPlan(plan, today),
		Progress: domain.CalculatePlanProgress(plan, today),
		Week:     domain.ResolveWeekSchedule(plan.Schedule, templates),
	}, nil
}

// CreatePlan creates a plan for a client managed by the trainer. Every
// template referenced by the schedule must exist in the trainer's catalog.
func (s *planService) CreatePlan(ctx context.Context, trainerID, clientID primitive.ObjectID, name, notes string, startDate, endDate time.Time, schedule domain.WeeklySchedule) (*domain.Plan, error) {
	if trainerID == primitive.NilObjectID || clientID == primitive.NilObjectID || name == "" {
		return nil, errors.New("trainer ID, client ID, and plan name are required")
	}
	if endDate.Before(startDate) {
		return nil, errors.New("plan end date must not precede its start date")
	}

	if err := s.verifyManagedClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	if err := s.verifyScheduleTemplates(ctx, trainerID, schedule); err != nil {
		return nil, err
	}

	plan := &domain.Plan{
		TrainerID: trainerID,
		ClientID:  clientID,
		Name:      name,
		Notes:     notes,
		StartDate: startDate,
		EndDate:   endDate,
		Schedule:  schedule,
		// ID, CreatedAt, UpdatedAt set by the repository
	}

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, ErrPlanCreationFailed
	}
	plan.ID = planID
	return plan, nil
}

// GetPlansForClient retrieves the plans the trainer created for one of
// their clients.
func (s *planService) GetPlansForClient(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.Plan, error) {
	if trainerID == primitive.NilObjectID || clientID == primitive.NilObjectID {
		return nil, errors.New("trainer ID and client ID are required")
	}
	if err := s.verifyManagedClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	return s.planRepo.GetByClientAndTrainerID(ctx, clientID, trainerID)
}

// UpdatePlan rewrites a plan's mutable fields after ownership checks.
func (s *planService) UpdatePlan(ctx context.Context, trainerID, planID primitive.ObjectID, updates domain.Plan) (*domain.Plan, error) {
	if trainerID == primitive.NilObjectID || planID == primitive.NilObjectID {
		return nil, errors.New("trainer ID and plan ID are required")
	}

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.TrainerID != trainerID {
		return nil, ErrPlanAccessDenied
	}

	if updates.Name == "" {
		return nil, errors.New("plan name cannot be empty")
	}
	if updates.EndDate.Before(updates.StartDate) {
		return nil, errors.New("plan end date must not precede its start date")
	}
	if err := s.verifyScheduleTemplates(ctx, trainerID, updates.Schedule); err != nil {
		return nil, err
	}

	plan.Name = updates.Name
	plan.Notes = updates.Notes
	plan.StartDate = updates.StartDate
	plan.EndDate = updates.EndDate
	plan.Schedule = updates.Schedule

	if err := s.planRepo.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// DeletePlan is not implemented yet. The screens show a delete action, but
// there is no agreed cascade for a plan's history, so the operation fails
// explicitly rather than half-deleting.
func (s *planService) DeletePlan(ctx context.Context, trainerID, planID primitive.ObjectID) error {
	return ErrNotImplemented
}

// SavePlanNotes is not implemented yet; see DeletePlan.
func (s *planService) SavePlanNotes(ctx context.Context, trainerID, planID primitive.ObjectID, notes string) error {
	return ErrNotImplemented
}

// verifyManagedClient checks the client exists and is on this trainer's
// roster.
func (s *planService) verifyManagedClient(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	if client.TrainerID == nil || *client.TrainerID != trainerID {
		return ErrClientNotManaged
	}
	return nil
}

// verifyScheduleTemplates ensures every non-rest slot references a template
// owned by the trainer.
func (s *planService) verifyScheduleTemplates(ctx context.Context, trainerID primitive.ObjectID, schedule domain.WeeklySchedule) error {
	templates, err := s.templateRepo.GetByTrainerID(ctx, trainerID)
	if err != nil {
		return err
	}
	known := make(map[primitive.ObjectID]bool, len(templates))
	for _, tpl := range templates {
		known[tpl.ID] = true
	}
	for _, slot := range schedule.Slots() {
		if slot != nil && !known[*slot] {
			return ErrTemplateNotFound
		}
	}
	return nil
}
