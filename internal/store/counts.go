package store

import (
	"time"

	"github.com/ahmedXDR/auth-visage-backend/internal/models"
)

// Count queries feeding the periodic metrics gauges.

func (s *Store) CountActiveOAuthSessions() (int64, error) {
	var count int64
	err := s.db.Model(&models.OAuthSession{}).
		Where("not_after IS NULL OR not_after > ?", time.Now()).
		Count(&count).Error
	return count, err
}

func (s *Store) CountActiveSignInSessions() (int64, error) {
	var count int64
	err := s.db.Model(&models.SignInSession{}).
		Where("not_after IS NULL OR not_after > ?", time.Now()).
		Count(&count).Error
	return count, err
}

func (s *Store) CountEnrolledFaces() (int64, error) {
	var count int64
	err := s.db.Model(&models.Face{}).Count(&count).Error
	return count, err
}

func (s *Store) CountPendingAuthCodes(validity time.Duration) (int64, error) {
	var count int64
	err := s.db.Model(&models.AuthCode{}).
		Where("created_at > ?", time.Now().Add(-validity)).
		Count(&count).Error
	return count, err
}
