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
	ErrClientNotFound        = errors.New("client user not found")
	ErrClientNotRole         = errors.New("user found but is not a client")
	ErrClientAlreadyAssigned = errors.New("client is already assigned to a trainer")
	ErrClientNotManaged      = errors.New("client is not managed by this trainer")
)

// ClientOverview is one row of the trainer's analytics view: the client plus
// plan counts and the status of their most relevant plan, derived from the
// current date on every request.
type ClientOverview struct {
	Client          domain.User
	TotalPlans      int
	CurrentPlanName string // empty when the client has no plans
	CurrentPlan     domain.DerivedPlanStatus
}

// TrainerService covers roster management, the analytics overview, and the
// workout template catalog.
type TrainerService interface {
	AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error)
	GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	GetClientOverviews(ctx context.Context, trainerID primitive.ObjectID) ([]ClientOverview, error)

	CreateTemplate(ctx context.Context, trainerID primitive.ObjectID, name, description, focus string) (*domain.WorkoutTemplate, error)
	GetTemplates(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutTemplate, error)
}

// --- Service Implementation ---

type trainerService struct {
	userRepo     repository.UserRepository
	planRepo     repository.PlanRepository
	templateRepo repository.TemplateRepository
	now          func() time.Time
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	userRepo repository.UserRepository,
	planRepo repository.PlanRepository,
	templateRepo repository.TemplateRepository,
) TrainerService {
	return &trainerService{
		userRepo:     userRepo,
		planRepo:     planRepo,
		templateRepo: templateRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// === Roster Management ===

// AddClientByEmail finds a client by email and assigns them to the trainer.
func (s *trainerService) AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	if trainerID == primitive.NilObjectID || clientEmail == "" {
		return nil, errors.New("trainer ID and client email are required")
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if client.Role != domain.RoleClient {
		return nil, ErrClientNotRole
	}

	if client.TrainerID != nil && *client.TrainerID != primitive.NilObjectID {
		if *client.TrainerID == trainerID {
			// Already on this trainer's roster; treat as success.
			return client, nil
		}
		return nil, ErrClientAlreadyAssigned
	}

	// Link both sides of the relationship.
	if err := s.userRepo.AddClientIDToTrainer(ctx, trainerID, client.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetTrainerForClient(ctx, client.ID, trainerID); err != nil {
		return nil, err
	}

	client.TrainerID = &trainerID
	return client, nil
}

// GetManagedClients retrieves the list of clients managed by the trainer.
func (s *trainerService) GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	clients, err := s.userRepo.GetClientsByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	// Never hand password hashes past the service boundary.
	for i := range clients {
		clients[i].PasswordHash = ""
	}
	return clients, nil
}

// === Analytics ===

// GetClientOverviews builds the trainer's analytics rows: every managed
// client with their plan count and the derived status of their most
// relevant plan (an active one if any, otherwise the next upcoming one,
// otherwise the most recent).
func (s *trainerService) GetClientOverviews(ctx context.Context, trainerID primitive.ObjectID) ([]ClientOverview, error) {
	clients, err := s.GetManagedClients(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	plans, err := s.planRepo.GetByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	// Group plans per client; the repository returns them newest first.
	plansByClient := make(map[primitive.ObjectID][]domain.Plan, len(clients))
	for _, plan := range plans {
		plansByClient[plan.ClientID] = append(plansByClient[plan.ClientID], plan)
	}

	today := s.now()
	overviews := make([]ClientOverview, len(clients))
	for i, client := range clients {
		clientPlans := plansByClient[client.ID]
		current := pickCurrentPlan(clientPlans, today)

		overview := ClientOverview{
			Client:      client,
			TotalPlans:  len(clientPlans),
			CurrentPlan: domain.ClassifyPlan(current, today),
		}
		if current != nil {
			overview.CurrentPlanName = current.Name
		}
		overviews[i] = overview
	}
	return overviews, nil
}

// pickCurrentPlan selects the plan to headline a client's overview row.
// Preference order: active, then upcoming, then the newest of whatever is
// left. Returns nil when the client has no plans, which ClassifyPlan turns
// into the Unknown sentinel.
func pickCurrentPlan(plans []domain.Plan, today time.Time) *domain.Plan {
	var upcoming *domain.Plan
	for i := range plans {
		switch domain.ClassifyPlan(&plans[i], today).Status {
		case domain.PlanStatusActive:
			return &plans[i]
		case domain.PlanStatusUpcoming:
			if upcoming == nil {
				upcoming = &plans[i]
			}
		}
	}
	if upcoming != nil {
		return upcoming
	}
	if len(plans) > 0 {
		return &plans[0]
	}
	return nil
}

// === Template Catalog ===

// CreateTemplate adds a workout template to the trainer's catalog.
func (s *trainerService) CreateTemplate(ctx context.Context, trainerID primitive.ObjectID, name, description, focus string) (*domain.WorkoutTemplate, error) {
	if trainerID == primitive.NilObjectID || name == "" {
		return nil, errors.New("trainer ID and template name are required")
	}

	template := &domain.WorkoutTemplate{
		TrainerID:   trainerID,
		Name:        name,
		Description: description,
		Focus:       focus,
	}

	templateID, err := s.templateRepo.Create(ctx, template)
	if err != nil {
		return nil, err
	}
	template.ID = templateID
	return template, nil
}

// GetTemplates retrieves the trainer's workout template catalog.
func (s *trainerService) GetTemplates(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	return s.templateRepo.GetByTrainerID(ctx, trainerID)
}
