package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmedXDR/auth-visage-backend/internal/models"
	"github.com/ahmedXDR/auth-visage-backend/internal/store"

	"github.com/google/uuid"
)

// Enrollment errors
var (
	ErrIncompleteEnrollment = errors.New("enrollment is missing a pose")
)

// EnrollmentService persists the embeddings captured during the
// registration flow.
type EnrollmentService struct {
	store *store.Store
}

func NewEnrollmentService(s *store.Store) *EnrollmentService {
	return &EnrollmentService{store: s}
}

// SaveFace stores the user's enrolled face, one embedding per pose.
// Re-enrolling replaces the previous face in place.
func (s *EnrollmentService) SaveFace(
	ctx context.Context,
	userID string,
	embeddings map[models.Orientation]models.Vector,
) error {
	for _, o := range models.EnrollmentSequence {
		if len(embeddings[o]) == 0 {
			return fmt.Errorf("%w: %s", ErrIncompleteEnrollment, o)
		}
	}

	existing, err := s.store.GetFaceByUserID(userID)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up enrolled face: %w", err)
	}

	if existing != nil {
		existing.CenterEmbedding = embeddings[models.OrientationCenter]
		existing.RightEmbedding = embeddings[models.OrientationRight]
		existing.LeftEmbedding = embeddings[models.OrientationLeft]
		return s.store.UpdateFace(existing)
	}

	return s.store.CreateFace(&models.Face{
		ID:              uuid.New().String(),
		UserID:          userID,
		CenterEmbedding: embeddings[models.OrientationCenter],
		RightEmbedding:  embeddings[models.OrientationRight],
		LeftEmbedding:   embeddings[models.OrientationLeft],
	})
}
