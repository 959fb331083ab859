package store

import (
	"time"

	"github.com/ahmedXDR/auth-visage-backend/internal/models"

	"gorm.io/gorm"
)

// First-party sign-in sessions follow the same shape as OAuth sessions.

func (s *Store) CreateSignInSession(
	session *models.SignInSession,
	token *models.SignInRefreshToken,
) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		token.SessionID = session.ID
		return tx.Create(token).Error
	})
}

func (s *Store) GetSignInSessionByID(id string) (*models.SignInSession, error) {
	var session models.SignInSession
	if err := s.db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

func (s *Store) DeleteSignInSession(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.SignInRefreshToken{}, "session_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.SignInSession{}, "id = ?", id).Error
	})
}

func (s *Store) GetSignInRefreshTokenByHash(hash string) (*models.SignInRefreshToken, error) {
	var token models.SignInRefreshToken
	if err := s.db.Preload("Session").Where("token_hash = ?", hash).First(&token).Error; err != nil {
		return nil, notFound(err)
	}
	return &token, nil
}

func (s *Store) RotateSignInRefreshToken(
	oldID uint,
	newToken *models.SignInRefreshToken,
) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(newToken).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.SignInSession{}).
			Where("id = ?", newToken.SessionID).
			Update("refreshed_at", time.Now()).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.SignInRefreshToken{}, "id = ?", oldID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRefreshTokenRotated
		}
		return nil
	})
}
