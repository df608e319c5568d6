// internal/api/profile_handler.go
package api

import (
	"errors"
	"net/http"
	"pulsecoach/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileHandler exposes the avatar upload/download flow.
type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// --- DTOs ---

type AvatarUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type AvatarUploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

type ConfirmAvatarRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

type AvatarDownloadURLResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// --- Handler Methods ---

// RequestAvatarUploadURL godoc
// @Summary Request a presigned avatar upload URL
// @Description Returns a short-lived presigned PUT URL for the authenticated user's avatar. The client uploads directly to object storage and then confirms with the returned key.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uploadRequest body AvatarUploadURLRequest true "Content type of the image"
// @Success 200 {object} AvatarUploadURLResponse "Presigned URL and object key"
// @Failure 400 {object} gin.H "Invalid input (not an image content type)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /me/avatar/upload-url [post]
func (h *ProfileHandler) RequestAvatarUploadURL(c *gin.Context) {
	var req AvatarUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := userIDFromToken(c)
	if !ok {
		return
	}

	resp, err := h.profileService.RequestAvatarUploadURL(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrUploadURLGeneration) {
			abortWithError(c, http.StatusInternalServerError, err.Error())
		} else {
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, AvatarUploadURLResponse{
		UploadURL: resp.UploadURL,
		ObjectKey: resp.ObjectKey,
	})
}

// ConfirmAvatarUpload godoc
// @Summary Confirm an avatar upload
// @Description Records the uploaded object key on the authenticated user's profile and removes the previous avatar object.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param confirmRequest body ConfirmAvatarRequest true "Uploaded object key"
// @Success 204 "Avatar recorded"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Object key does not belong to this user"
// @Failure 404 {object} gin.H "User not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /me/avatar/confirm [post]
func (h *ProfileHandler) ConfirmAvatarUpload(c *gin.Context) {
	var req ConfirmAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := userIDFromToken(c)
	if !ok {
		return
	}

	if err := h.profileService.ConfirmAvatarUpload(c.Request.Context(), userID, req.ObjectKey); err != nil {
		switch {
		case errors.Is(err, service.ErrAvatarAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to confirm avatar upload.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// GetAvatarDownloadURL godoc
// @Summary Get a presigned avatar download URL
// @Description Returns a short-lived presigned GET URL for a user's avatar. Visible to the user themselves, their trainer, and their roster clients.
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Target user's ObjectID Hex"
// @Success 200 {object} AvatarDownloadURLResponse "Presigned download URL"
// @Failure 400 {object} gin.H "Invalid user ID format"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Not allowed to view this avatar"
// @Failure 404 {object} gin.H "User not found or has no avatar"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /users/{userId}/avatar [get]
func (h *ProfileHandler) GetAvatarDownloadURL(c *gin.Context) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in URL path.")
		return
	}

	requesterID, ok := userIDFromToken(c)
	if !ok {
		return
	}

	url, err := h.profileService.GetAvatarDownloadURL(c.Request.Context(), requesterID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAvatarAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrAvatarNotSet):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL.")
		}
		return
	}

	c.JSON(http.StatusOK, AvatarDownloadURLResponse{DownloadURL: url})
}
