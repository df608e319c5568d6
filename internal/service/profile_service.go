// internal/service/profile_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"pulsecoach/coaching-app/internal/domain"
	"pulsecoach/coaching-app/internal/repository"
	"pulsecoach/coaching-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrAvatarNotSet        = errors.New("user has no avatar")
	ErrAvatarAccessDenied  = errors.New("access denied to this user's avatar")
	ErrUploadURLGeneration = errors.New("failed to generate upload URL")
)

// AvatarUploadResponse carries a presigned PUT URL and the object key the
// client must confirm after uploading.
type AvatarUploadResponse struct {
	UploadURL string
	ObjectKey string
}

// ProfileService handles user avatars stored in object storage.
type ProfileService interface {
	RequestAvatarUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUploadResponse, error)
	ConfirmAvatarUpload(ctx context.Context, userID primitive.ObjectID, objectKey string) error
	GetAvatarDownloadURL(ctx context.Context, requesterID, targetUserID primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

type profileService struct {
	userRepo    repository.UserRepository
	fileStorage storage.FileStorage
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(userRepo repository.UserRepository, fileStorage storage.FileStorage) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		fileStorage: fileStorage,
	}
}

// RequestAvatarUploadURL generates a presigned PUT URL for the user's own
// avatar. The client uploads directly to object storage and then calls
// ConfirmAvatarUpload with the returned key.
func (s *profileService) RequestAvatarUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUploadResponse, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, errors.New("invalid or missing image content type")
	}

	// Unique key per upload; old avatars are overwritten by key rotation,
	// not in place.
	uniqueID := uuid.NewString()
	fileExtension := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("avatars", userID.Hex(), fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLGeneration
	}

	return &AvatarUploadResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmAvatarUpload records the uploaded object key on the user, replacing
// and deleting any previous avatar object.
func (s *profileService) ConfirmAvatarUpload(ctx context.Context, userID primitive.ObjectID, objectKey string) error {
	if userID == primitive.NilObjectID || objectKey == "" {
		return errors.New("user ID and object key are required")
	}

	// Keys are namespaced per user; reject confirmations for someone else's
	// prefix.
	expectedPrefix := path.Join("avatars", userID.Hex()) + "/"
	if !strings.HasPrefix(objectKey, expectedPrefix) {
		return ErrAvatarAccessDenied
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	previousKey := user.AvatarKey

	if err := s.userRepo.SetAvatarKey(ctx, userID, objectKey); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// Best effort cleanup of the replaced object.
	if previousKey != "" && previousKey != objectKey {
		_ = s.fileStorage.DeleteObject(ctx, previousKey)
	}
	return nil
}

// GetAvatarDownloadURL returns a presigned GET URL for a user's avatar.
// Allowed for the user themselves, their trainer, and their clients.
func (s *profileService) GetAvatarDownloadURL(ctx context.Context, requesterID, targetUserID primitive.ObjectID) (string, error) {
	if requesterID == primitive.NilObjectID || targetUserID == primitive.NilObjectID {
		return "", errors.New("requester ID and target user ID are required")
	}

	target, err := s.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if !avatarVisibleTo(requesterID, target) {
		return "", ErrAvatarAccessDenied
	}
	if target.AvatarKey == "" {
		return "", ErrAvatarNotSet
	}

	return s.fileStorage.GeneratePresignedDownloadURL(ctx, target.AvatarKey, storage.DefaultPresignedURLExpiry)
}

func avatarVisibleTo(requesterID primitive.ObjectID, target *domain.User) bool {
	if requesterID == target.ID {
		return true
	}
	// A client's avatar is visible to their trainer.
	if target.TrainerID != nil && *target.TrainerID == requesterID {
		return true
	}
	// A trainer's avatar is visible to every client on the roster.
	for _, clientID := range target.ClientIDs {
		if clientID == requesterID {
			return true
		}
	}
	return false
}
