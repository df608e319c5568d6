// internal/api/plan_handler.go
package api

import (
	"errors"
	"net/http"
	"pulsecoach/coaching-app/internal/domain"
	"pulsecoach/coaching-app/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Calendar dates cross the API as plain ISO date strings.
const dateLayout = "2006-01-02"

// PlanHandler exposes plan reads and the trainer-side plan write path.
type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

// WeeklyScheduleDTO carries one optional template ID (hex) per weekday.
type WeeklyScheduleDTO struct {
	Monday    *string `json:"monday"`
	Tuesday   *string `json:"tuesday"`
	Wednesday *string `json:"wednesday"`
	Thursday  *string `json:"thursday"`
	Friday    *string `json:"friday"`
	Saturday  *string `json:"saturday"`
	Sunday    *string `json:"sunday"`
}

type PlanRequest struct {
	Name      string            `json:"name" binding:"required"`
	Notes     string            `json:"notes"`
	StartDate string            `json:"startDate" binding:"required"` // "2006-01-02"
	EndDate   string            `json:"endDate" binding:"required"`   // "2006-01-02"
	Schedule  WeeklyScheduleDTO `json:"schedule"`
}

type PlanResponse struct {
	ID        string            `json:"id"`
	TrainerID string            `json:"trainerId"`
	ClientID  string            `json:"clientId"`
	Name      string            `json:"name"`
	Notes     string            `json:"notes,omitempty"`
	StartDate string            `json:"startDate"`
	EndDate   string            `json:"endDate"`
	Schedule  WeeklyScheduleDTO `json:"schedule"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// PlanDetailsResponse is the display-ready plan view: the stored record plus
// status, progress, and the resolved week, all derived per request.
type PlanDetailsResponse struct {
	Plan     PlanResponse             `json:"plan"`
	Status   domain.DerivedPlanStatus `json:"status"`
	Progress domain.PlanProgress      `json:"progress"`
	Week     []domain.DaySchedule     `json:"week"`
}

// --- DTO Mapping ---

// mapScheduleToDTO and mapDTOToSchedule are the explicit adapters between
// storage ObjectIDs and wire hex strings, with the weekday list spelled out
// on both sides.
func mapScheduleToDTO(s domain.WeeklySchedule) WeeklyScheduleDTO {
	hex := func(id *primitive.ObjectID) *string {
		if id == nil {
			return nil
		}
		h := id.Hex()
		return &h
	}
	return WeeklyScheduleDTO{
		Monday:    hex(s.Monday),
		Tuesday:   hex(s.Tuesday),
		Wednesday: hex(s.Wednesday),
		Thursday:  hex(s.Thursday),
		Friday:    hex(s.Friday),
		Saturday:  hex(s.Saturday),
		Sunday:    hex(s.Sunday),
	}
}

func mapDTOToSchedule(dto WeeklyScheduleDTO) (domain.WeeklySchedule, error) {
	var schedule domain.WeeklySchedule
	var err error
	parse := func(hex *string) *primitive.ObjectID {
		if hex == nil || err != nil {
			return nil
		}
		id, parseErr := primitive.ObjectIDFromHex(*hex)
		if parseErr != nil {
			err = parseErr
			return nil
		}
		return &id
	}
	schedule.Monday = parse(dto.Monday)
	schedule.Tuesday = parse(dto.Tuesday)
	schedule.Wednesday = parse(dto.Wednesday)
	schedule.Thursday = parse(dto.Thursday)
	schedule.Friday = parse(dto.Friday)
	schedule.Saturday = parse(dto.Saturday)
	schedule.Sunday = parse(dto.Sunday)
	return schedule, err
}

// MapPlanToResponse converts a domain.Plan to its API representation.
func MapPlanToResponse(p *domain.Plan) PlanResponse {
	if p == nil {
		return PlanResponse{}
	}
	return PlanResponse{
		ID:        p.ID.Hex(),
		TrainerID: p.TrainerID.Hex(),
		ClientID:  p.ClientID.Hex(),
		Name:      p.Name,
		Notes:     p.Notes,
		StartDate: p.StartDate.Format(dateLayout),
		EndDate:   p.EndDate.Format(dateLayout),
		Schedule:  mapScheduleToDTO(p.Schedule),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// MapPlansToResponse converts a slice of domain.Plan.
func MapPlansToResponse(plans []domain.Plan) []PlanResponse {
	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = MapPlanToResponse(&plans[i])
	}
	return responses
}

// parsePlanRequest validates and converts the wire representation.
func parsePlanRequest(req PlanRequest) (name, notes string, start, end time.Time, schedule domain.WeeklySchedule, err error) {
	start, err = time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return
	}
	end, err = time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return
	}
	schedule, err = mapDTOToSchedule(req.Schedule)
	if err != nil {
		return
	}
	return req.Name, req.Notes, start, end, schedule, nil
}

// --- Handler Methods ---

// GetPlanDetails godoc
// @Summary Get a plan with its derived display data
// @Description Returns the plan plus status, duration, weekly workout count, date progress, and the resolved week schedule. Accessible to the authoring trainer and the plan's client.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan's ObjectID Hex"
// @Success 200 {object} PlanDetailsResponse "Plan details"
// @Failure 400 {object} gin.H "Invalid plan ID format"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not the trainer or client of this plan)"
// @Failure 404 {object} gin.H "Plan not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /plans/{planId} [get]
func (h *PlanHandler) GetPlanDetails(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format in URL path.")
		return
	}

	requesterIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	requesterID, err := primitive.ObjectIDFromHex(requesterIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return
	}

	details, err := h.planService.GetPlanDetails(c.Request.Context(), requesterID, planID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrPlanAccessDenied) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plan details.")
		}
		return
	}

	c.JSON(http.StatusOK, PlanDetailsResponse{
		Plan:     MapPlanToResponse(details.Plan),
		Status:   details.Derived,
		Progress: details.Progress,
		Week:     details.Week,
	})
}

// CreatePlan godoc
// @Summary Create a new plan for a client
// @Description Creates a dated plan with a weekly schedule for a client managed by the authenticated trainer.
// @Tags Trainer Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client's ObjectID Hex"
// @Param planRequest body PlanRequest true "Plan details"
// @Success 201 {object} PlanResponse "Plan created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error, bad dates, bad template ID)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (client not managed by this trainer)"
// @Failure 404 {object} gin.H "Client or referenced template not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/clients/{clientId}/plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format in URL path.")
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := userIDFromToken(c)
	if !ok {
		return
	}

	name, notes, start, end, schedule, err := parsePlanRequest(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan payload: "+err.Error())
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), trainerID, clientID, name, notes, start, end, schedule)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound), errors.Is(err, service.ErrTemplateNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotManaged):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrPlanCreationFailed):
			abortWithError(c, http.StatusInternalServerError, err.Error())
		default:
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// GetPlansForClient godoc
// @Summary Get all plans for a specific client
// @Description Retrieves all plans the authenticated trainer created for a client, newest first.
// @Tags Trainer Plans
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client's ObjectID Hex"
// @Success 200 {array} PlanResponse "List of plans"
// @Failure 400 {object} gin.H "Invalid client ID format"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (client not managed)"
// @Failure 404 {object} gin.H "Client not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/clients/{clientId}/plans [get]
func (h *PlanHandler) GetPlansForClient(c *gin.Context) {
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format in URL path.")
		return
	}

	trainerID, ok := userIDFromToken(c)
	if !ok {
		return
	}

	plans, err := h.planService.GetPlansForClient(c.Request.Context(), trainerID, clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrClientNotManaged) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plans.")
		}
		return
	}

	if plans == nil {
		c.JSON(http.StatusOK, []PlanResponse{})
		return
	}
	c.JSON(http.StatusOK, MapPlansToResponse(plans))
}

// UpdatePlan godoc
// @Summary Update an existing plan
// @Description Rewrites a plan's name, notes, dates, and weekly schedule.
// @Tags Trainer Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan's ObjectID Hex"
// @Param planRequest body PlanRequest true "Updated plan details"
// @Success 200 {object} PlanResponse "Plan updated successfully"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (trainer does not own the plan)"
// @Failure 404 {object} gin.H "Plan or referenced template not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/plans/{planId} [put]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format in URL path.")
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := userIDFromToken(c)
	if !ok {
		return
	}

	name, notes, start, end, schedule, err := parsePlanRequest(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan payload: "+err.Error())
		return
	}

	updates := domain.Plan{
		Name:      name,
		Notes:     notes,
		StartDate: start,
		EndDate:   end,
		Schedule:  schedule,
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), trainerID, planID, updates)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound), errors.Is(err, service.ErrTemplateNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPlanAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// DeletePlan godoc
// @Summary Delete a plan (not implemented)
// @Description The delete write path has no backing implementation yet and always returns 501.
// @Tags Trainer Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan's ObjectID Hex"
// @Failure 501 {object} gin.H "Not implemented"
// @Router /trainer/plans/{planId} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format in URL path.")
		return
	}

	trainerID, ok := userIDFromToken(c)
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), trainerID, planID); err != nil {
		if errors.Is(err, service.ErrNotImplemented) {
			abortWithError(c, http.StatusNotImplemented, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete plan.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// --- DTO for Plan Notes ---

type SavePlanNotesRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// SavePlanNotes godoc
// @Summary Save trainer notes on a plan (not implemented)
// @Description The notes write path has no backing implementation yet and always returns 501.
// @Tags Trainer Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan's ObjectID Hex"
// @Param notesRequest body SavePlanNotesRequest true "Notes"
// @Failure 501 {object} gin.H "Not implemented"
// @Router /trainer/plans/{planId}/notes [patch]
func (h *PlanHandler) SavePlanNotes(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format in URL path.")
		return
	}

	var req SavePlanNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := userIDFromToken(c)
	if !ok {
		return
	}

	if err := h.planService.SavePlanNotes(c.Request.Context(), trainerID, planID, req.Notes); err != nil {
		if errors.Is(err, service.ErrNotImplemented) {
			abortWithError(c, http.StatusNotImplemented, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to save plan notes.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// userIDFromToken extracts and parses the authenticated user's ID,
// writing the error response itself on failure.
func userIDFromToken(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}
