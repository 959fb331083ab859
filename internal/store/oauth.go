package store

import (
	"time"

	"github.com/ahmedXDR/auth-visage-backend/internal/models"

	"gorm.io/gorm"
)

// Authorization code operations
func (s *Store) CreateAuthCode(code *models.AuthCode) error {
	return s.db.Create(code).Error
}

// ConsumeAuthCode atomically deletes the code row identified by its hash
// and returns it. Under concurrent redemption exactly one caller gets the
// record; the rest get ErrAuthCodeAlreadyUsed. The caller still has to
// check expiry and the PKCE challenge on the returned record.
func (s *Store) ConsumeAuthCode(codeHash string) (*models.AuthCode, error) {
	var code models.AuthCode
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("code_hash = ?", codeHash).First(&code).Error; err != nil {
			return notFound(err)
		}
		res := tx.Delete(&models.AuthCode{}, "id = ?", code.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAuthCodeAlreadyUsed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// DeleteExpiredAuthCodes removes codes older than the validity window
// and reports how many were deleted.
func (s *Store) DeleteExpiredAuthCodes(validity time.Duration) (int64, error) {
	cutoff := time.Now().Add(-validity)
	result := s.db.Delete(&models.AuthCode{}, "created_at < ?", cutoff)
	return result.RowsAffected, result.Error
}

// OAuth session operations

// CreateOAuthSession inserts the session together with its first refresh
// token generation in one transaction.
func (s *Store) CreateOAuthSession(
	session *models.OAuthSession,
	token *models.OAuthRefreshToken,
) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		token.SessionID = session.ID
		return tx.Create(token).Error
	})
}

func (s *Store) GetOAuthSessionByID(id string) (*models.OAuthSession, error) {
	var session models.OAuthSession
	if err := s.db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

// DeleteOAuthSession removes the session and all its refresh tokens.
func (s *Store) DeleteOAuthSession(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OAuthRefreshToken{}, "session_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.OAuthSession{}, "id = ?", id).Error
	})
}

func (s *Store) GetOAuthRefreshTokenByHash(hash string) (*models.OAuthRefreshToken, error) {
	var token models.OAuthRefreshToken
	if err := s.db.Preload("Session").Where("token_hash = ?", hash).First(&token).Error; err != nil {
		return nil, notFound(err)
	}
	return &token, nil
}

// RotateOAuthRefreshToken replaces one token generation with the next.
// The successor is created before the predecessor is deleted, so the
// session never ends up without a live token. Deleting the predecessor
// with a rows-affected check makes exactly one concurrent caller win.
func (s *Store) RotateOAuthRefreshToken(
	oldID uint,
	newToken *models.OAuthRefreshToken,
) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(newToken).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.OAuthSession{}).
			Where("id = ?", newToken.SessionID).
			Update("refreshed_at", time.Now()).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.OAuthRefreshToken{}, "id = ?", oldID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRefreshTokenRotated
		}
		return nil
	})
}
