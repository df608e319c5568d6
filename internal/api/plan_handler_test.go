package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pulsecoach/coaching-app/internal/domain"
	"pulsecoach/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubPlanService returns canned values so handler tests exercise only the
// HTTP mapping.
type stubPlanService struct {
	details    *service.PlanDetails
	detailsErr error
}

func (s *stubPlanService) GetPlanDetails(ctx context.Context, requesterID, planID primitive.ObjectID) (*service.PlanDetails, error) {
	return s.details, s.detailsErr
}

func (s *stubPlanService) CreatePlan(ctx context.Context, trainerID, clientID primitive.ObjectID, name, notes string, startDate, endDate time.Time, schedule domain.WeeklySchedule) (*domain.Plan, error) {
	return nil, service.ErrPlanCreationFailed
}

func (s *stubPlanService) GetPlansForClient(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.Plan, error) {
	return nil, nil
}

func (s *stubPlanService) UpdatePlan(ctx context.Context, trainerID, planID primitive.ObjectID, updates domain.Plan) (*domain.Plan, error) {
	return nil, service.ErrPlanNotFound
}

func (s *stubPlanService) DeletePlan(ctx context.Context, trainerID, planID primitive.ObjectID) error {
	return service.ErrNotImplemented
}

func (s *stubPlanService) SavePlanNotes(ctx context.Context, trainerID, planID primitive.ObjectID, notes string) error {
	return service.ErrNotImplemented
}

// newPlanRouter wires the handler behind a middleware stub that injects the
// authenticated identity, skipping real JWT verification.
func newPlanRouter(svc service.PlanService, userID primitive.ObjectID, role domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextUserIDKey, userID.Hex())
		c.Set(ContextUserRoleKey, role)
	})

	handler := NewPlanHandler(svc)
	router.GET("/api/v1/plans/:planId", handler.GetPlanDetails)
	router.DELETE("/api/v1/trainer/plans/:planId", handler.DeletePlan)
	router.PATCH("/api/v1/trainer/plans/:planId/notes", handler.SavePlanNotes)
	return router
}

func TestPlanHandler_GetPlanDetails(t *testing.T) {
	trainerID := primitive.NewObjectID()
	templateID := primitive.NewObjectID()
	plan := &domain.Plan{
		ID:        primitive.NewObjectID(),
		TrainerID: trainerID,
		ClientID:  primitive.NewObjectID(),
		Name:      "Strength Block",
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 29, 0, 0, 0, 0, time.UTC),
		Schedule:  domain.WeeklySchedule{Monday: &templateID},
	}
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	svc := &stubPlanService{details: &service.PlanDetails{
		Plan:     plan,
		Derived:  domain.ClassifyPlan(plan, today),
		Progress: domain.CalculatePlanProgress(plan, today),
		Week: domain.ResolveWeekSchedule(plan.Schedule, []domain.WorkoutTemplate{
			{ID: templateID, Name: "Leg Day"},
		}),
	}}

	router := newPlanRouter(svc, trainerID, domain.RoleTrainer)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans/"+plan.ID.Hex(), nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp PlanDetailsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response did not decode: %v", err)
	}
	if resp.Plan.Name != "Strength Block" {
		t.Errorf("plan name = %q, want %q", resp.Plan.Name, "Strength Block")
	}
	if resp.Plan.StartDate != "2024-06-01" || resp.Plan.EndDate != "2024-06-29" {
		t.Errorf("dates = %q..%q, want 2024-06-01..2024-06-29", resp.Plan.StartDate, resp.Plan.EndDate)
	}
	if resp.Status.Status != domain.PlanStatusActive {
		t.Errorf("status = %q, want %q", resp.Status.Status, domain.PlanStatusActive)
	}
	if resp.Status.Duration != "4 weeks" {
		t.Errorf("duration = %q, want %q", resp.Status.Duration, "4 weeks")
	}
	if len(resp.Week) != 7 {
		t.Fatalf("week has %d days, want 7", len(resp.Week))
	}
	if resp.Week[0].WorkoutName != "Leg Day" {
		t.Errorf("Monday workout = %q, want Leg Day", resp.Week[0].WorkoutName)
	}
	if resp.Plan.Schedule.Monday == nil || *resp.Plan.Schedule.Monday != templateID.Hex() {
		t.Errorf("Monday schedule = %v, want %s", resp.Plan.Schedule.Monday, templateID.Hex())
	}
}

func TestPlanHandler_GetPlanDetails_ErrorMapping(t *testing.T) {
	userID := primitive.NewObjectID()
	planID := primitive.NewObjectID().Hex()

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not found", service.ErrPlanNotFound, http.StatusNotFound},
		{"access denied", service.ErrPlanAccessDenied, http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newPlanRouter(&stubPlanService{detailsErr: tc.err}, userID, domain.RoleClient)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/plans/"+planID, nil)
			router.ServeHTTP(rec, req)
			if rec.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantCode)
			}
		})
	}
}

func TestPlanHandler_UnimplementedWritePaths(t *testing.T) {
	trainerID := primitive.NewObjectID()
	planID := primitive.NewObjectID().Hex()
	router := newPlanRouter(&stubPlanService{}, trainerID, domain.RoleTrainer)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/trainer/plans/"+planID, nil)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("DELETE status = %d, want 501", rec.Code)
	}

	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"notes":"keep pushing"}`)
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/trainer/plans/"+planID+"/notes", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("PATCH notes status = %d, want 501", rec.Code)
	}
}
