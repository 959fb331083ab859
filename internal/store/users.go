package store

import (
	"github.com/ahmedXDR/auth-visage-backend/internal/models"
)

// User operations
func (s *Store) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

func (s *Store) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) UpdateUser(user *models.User) error {
	return s.db.Save(user).Error
}

func (s *Store) DeleteUser(id string) error {
	return s.db.Delete(&models.User{}, "id = ?", id).Error
}

// Face operations
func (s *Store) CreateFace(face *models.Face) error {
	return s.db.Create(face).Error
}

func (s *Store) GetFaceByUserID(userID string) (*models.Face, error) {
	var face models.Face
	if err := s.db.Where("user_id = ?", userID).First(&face).Error; err != nil {
		return nil, notFound(err)
	}
	return &face, nil
}

// ListFaces returns all enrolled faces in insertion order. The matcher
// relies on this order to break distance ties deterministically.
func (s *Store) ListFaces() ([]models.Face, error) {
	var faces []models.Face
	if err := s.db.Order("created_at ASC, id ASC").Find(&faces).Error; err != nil {
		return nil, err
	}
	return faces, nil
}

func (s *Store) UpdateFace(face *models.Face) error {
	return s.db.Save(face).Error
}

func (s *Store) DeleteFaceByUserID(userID string) error {
	return s.db.Delete(&models.Face{}, "user_id = ?", userID).Error
}
