package service

import (
	"context"
	"pulsecoach/coaching-app/internal/domain"
	"pulsecoach/coaching-app/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) AddClientIDToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	trainer, ok := r.users[trainerID]
	if !ok {
		return repository.ErrNotFound
	}
	trainer.ClientIDs = append(trainer.ClientIDs, clientID)
	return nil
}

func (r *fakeUserRepo) GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	trainer, ok := r.users[trainerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clients := make([]domain.User, 0, len(trainer.ClientIDs))
	for _, id := range trainer.ClientIDs {
		if c, ok := r.users[id]; ok {
			clients = append(clients, *c)
		}
	}
	return clients, nil
}

func (r *fakeUserRepo) SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error {
	client, ok := r.users[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	client.TrainerID = &trainerID
	return nil
}

func (r *fakeUserRepo) SetAvatarKey(ctx context.Context, userID primitive.ObjectID, avatarKey string) error {
	user, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.AvatarKey = avatarKey
	return nil
}

type fakePlanRepo struct {
	plans []domain.Plan
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	r.plans = append(r.plans, *plan)
	return plan.ID, nil
}

func (r *fakePlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	for i := range r.plans {
		if r.plans[i].ID == id {
			copied := r.plans[i]
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePlanRepo) GetByClientAndTrainerID(ctx context.Context, clientID, trainerID primitive.ObjectID) ([]domain.Plan, error) {
	var out []domain.Plan
	for _, p := range r.plans {
		if p.ClientID == clientID && p.TrainerID == trainerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Plan, error) {
	var out []domain.Plan
	for _, p := range r.plans {
		if p.TrainerID == trainerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) Update(ctx context.Context, plan *domain.Plan) error {
	for i := range r.plans {
		if r.plans[i].ID == plan.ID {
			r.plans[i] = *plan
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeTemplateRepo struct {
	templates []domain.WorkoutTemplate
}

func (r *fakeTemplateRepo) Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	template.ID = primitive.NewObjectID()
	r.templates = append(r.templates, *template)
	return template.ID, nil
}

func (r *fakeTemplateRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	for i := range r.templates {
		if r.templates[i].ID == id {
			copied := r.templates[i]
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeTemplateRepo) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	var out []domain.WorkoutTemplate
	for _, t := range r.templates {
		if t.TrainerID == trainerID {
			out = append(out, t)
		}
	}
	return out, nil
}

// fixedClock pins derived-status calculations to a known date.
func fixedClock(date string) func() time.Time {
	parsed, _ := time.Parse("2006-01-02", date)
	return func() time.Time { return parsed }
}
