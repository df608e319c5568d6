// internal/api/trainer_handler.go
package api

import (
	"errors"
	"net/http"
	"pulsecoach/coaching-app/internal/domain"
	"pulsecoach/coaching-app/internal/service"
	"time"

	"github.com/gin-gonic/gin"
)

// TrainerHandler exposes roster management, the client overview, and the
// workout template catalog.
type TrainerHandler struct {
	trainerService service.TrainerService
}

func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// --- DTOs ---

type AddClientRequest struct {
	ClientEmail string `json:"clientEmail" binding:"required,email"`
}

type ClientOverviewResponse struct {
	Client          UserResponse             `json:"client"`
	TotalPlans      int                      `json:"totalPlans"`
	CurrentPlanName string                   `json:"currentPlanName,omitempty"`
	CurrentPlan     domain.DerivedPlanStatus `json:"currentPlan"`
}

type TemplateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Focus       string `json:"focus"`
}

type TemplateResponse struct {
	ID          string    `json:"id"`
	TrainerID   string    `json:"trainerId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Focus       string    `json:"focus,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MapTemplateToResponse converts a domain.WorkoutTemplate to its API
// representation.
func MapTemplateToResponse(t *domain.WorkoutTemplate) TemplateResponse {
	if t == nil {
		return TemplateResponse{}
	}
	return TemplateResponse{
		ID:          t.ID.Hex(),
		TrainerID:   t.TrainerID.Hex(),
		Name:        t.Name,
		Description: t.Description,
		Focus:       t.Focus,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// MapTemplatesToResponse converts a slice of domain.WorkoutTemplate.
func MapTemplatesToResponse(templates []domain.WorkoutTemplate) []TemplateResponse {
	responses := make([]TemplateResponse, len(templates))
	for i := range templates {
		responses[i] = MapTemplateToResponse(&templates[i])
	}
	return responses
}

// --- Handler Methods ---

// AddClient godoc
// @Summary Add a client to the trainer's roster
// @Description Finds a registered client by email and assigns them to the authenticated trainer.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientEmailRequest body AddClientRequest true "Client's email"
// @Success 200 {object} UserResponse "Client added successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error or user is not a client)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Client email not found"
// @Failure 409 {object} gin.H "Client already assigned to another trainer"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/clients [post]
func (h *TrainerHandler) AddClient(c *gin.Context) {
	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := userIDFromToken(c)
	if !ok {
		return
	}

	client, err := h.trainerService.AddClientByEmail(c.Request.Context(), trainerID, req.ClientEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotRole):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrClientAlreadyAssigned):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add client.")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// GetClients godoc
// @Summary Get the trainer's managed clients
// @Description Retrieves the list of clients assigned to the authenticated trainer.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse "List of clients"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/clients [get]
func (h *TrainerHandler) GetClients(c *gin.Context) {
	trainerID, ok := userIDFromToken(c)
	if !ok {
		return
	}

	clients, err := h.trainerService.GetManagedClients(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve clients.")
		return
	}

	if clients == nil {
		c.JSON(http.StatusOK, []UserResponse{})
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(clients))
}

// GetClientOverviews godoc
// @Summary Get the trainer's client overview
// @Description Returns every managed client with plan counts and the derived status of their most relevant plan. Statuses are computed from the current date on each request.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ClientOverviewResponse "Client overview rows"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/clients/overview [get]
func (h *TrainerHandler) GetClientOverviews(c *gin.Context) {
	trainerID, ok := userIDFromToken(c)
	if !ok {
		return
	}

	overviews, err := h.trainerService.GetClientOverviews(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to build client overview.")
		return
	}

	responses := make([]ClientOverviewResponse, len(overviews))
	for i, o := range overviews {
		responses[i] = ClientOverviewResponse{
			Client:          MapUserToResponse(&o.Client),
			TotalPlans:      o.TotalPlans,
			CurrentPlanName: o.CurrentPlanName,
			CurrentPlan:     o.CurrentPlan,
		}
	}
	c.JSON(http.StatusOK, responses)
}

// CreateTemplate godoc
// @Summary Create a workout template
// @Description Adds a named workout template to the authenticated trainer's catalog.
// @Tags Trainer Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param templateRequest body TemplateRequest true "Template details"
// @Success 201 {object} TemplateResponse "Template created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/templates [post]
func (h *TrainerHandler) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := userIDFromToken(c)
	if !ok {
		return
	}

	template, err := h.trainerService.CreateTemplate(c.Request.Context(), trainerID, req.Name, req.Description, req.Focus)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create template.")
		return
	}

	c.JSON(http.StatusCreated, MapTemplateToResponse(template))
}

// GetTemplates godoc
// @Summary Get the trainer's workout templates
// @Description Retrieves the authenticated trainer's template catalog, sorted by name.
// @Tags Trainer Templates
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TemplateResponse "List of templates"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/templates [get]
func (h *TrainerHandler) GetTemplates(c *gin.Context) {
	trainerID, ok := userIDFromToken(c)
	if !ok {
		return
	}

	templates, err := h.trainerService.GetTemplates(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve templates.")
		return
	}

	if templates == nil {
		c.JSON(http.StatusOK, []TemplateResponse{})
		return
	}
	c.JSON(http.StatusOK, MapTemplatesToResponse(templates))
}
