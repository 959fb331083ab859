package biometric

import (
	"context"
	"fmt"
	"math"

	"github.com/ahmedXDR/auth-visage-backend/internal/models"
	"github.com/ahmedXDR/auth-visage-backend/internal/store"
)

// StoreMatcher performs nearest-neighbor matching against the embeddings
// persisted in the store. Linear scan is fine at the enrollment counts
// this service targets.
type StoreMatcher struct {
	store *store.Store
}

// NewStoreMatcher creates a store-backed matcher
func NewStoreMatcher(s *store.Store) *StoreMatcher {
	return &StoreMatcher{store: s}
}

// Match returns the enrolled user nearest to the probe, provided the
// distance is strictly below the threshold; a record at exactly the
// threshold does not match. Ties keep the earliest enrolled face, which
// the store's insertion order guarantees. Returns nil when nothing is
// within the threshold.
func (m *StoreMatcher) Match(
	ctx context.Context,
	embedding models.Vector,
	o models.Orientation,
	threshold float64,
) (*Match, error) {
	faces, err := m.store.ListFaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list enrolled faces: %w", err)
	}

	var best *Match
	for i := range faces {
		candidate := faces[i].Embedding(o)
		d, err := EuclideanDistance(embedding, candidate)
		if err != nil {
			// Dimension mismatch means a stale enrollment; skip it.
			continue
		}
		if d >= threshold {
			continue
		}
		if best == nil || d < best.Distance {
			best = &Match{OwnerID: faces[i].UserID, Distance: d}
		}
	}

	return best, nil
}

// EuclideanDistance computes the L2 distance between two embeddings.
func EuclideanDistance(a, b models.Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimension mismatch: %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
