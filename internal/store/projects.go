package store

import (
	"time"

	"github.com/ahmedXDR/auth-visage-backend/internal/models"
	"github.com/ahmedXDR/auth-visage-backend/internal/util"

	"gorm.io/gorm/clause"
)

// Project operations
func (s *Store) CreateProject(project *models.Project) error {
	return s.db.Create(project).Error
}

func (s *Store) GetProjectByID(id string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("id = ?", id).First(&project).Error; err != nil {
		return nil, notFound(err)
	}
	return &project, nil
}

func (s *Store) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *Store) UpdateProject(project *models.Project) error {
	return s.db.Save(project).Error
}

// Trusted origin operations
func (s *Store) AddTrustedOrigin(projectID, origin string) error {
	return s.db.Create(&models.TrustedOrigin{
		ProjectID: projectID,
		Origin:    util.NormalizeOrigin(origin),
	}).Error
}

// IsTrustedOrigin reports whether the normalized origin is registered
// for the project. Matching is exact string comparison.
func (s *Store) IsTrustedOrigin(projectID, origin string) (bool, error) {
	var count int64
	err := s.db.Model(&models.TrustedOrigin{}).
		Where("project_id = ? AND origin = ?", projectID, util.NormalizeOrigin(origin)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ListTrustedOrigins(projectID string) ([]models.TrustedOrigin, error) {
	var origins []models.TrustedOrigin
	if err := s.db.Where("project_id = ?", projectID).Find(&origins).Error; err != nil {
		return nil, err
	}
	return origins, nil
}

func (s *Store) DeleteTrustedOrigin(projectID, origin string) error {
	return s.db.Delete(&models.TrustedOrigin{},
		"project_id = ? AND origin = ?", projectID, util.NormalizeOrigin(origin)).Error
}

// User project link operations

func (s *Store) GetUserProjectLink(userID, projectID string) (*models.UserProjectLink, error) {
	var link models.UserProjectLink
	err := s.db.Where("user_id = ? AND project_id = ?", userID, projectID).
		First(&link).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &link, nil
}

// UpsertUserProjectLink records consent. Granting twice is a no-op.
func (s *Store) UpsertUserProjectLink(link *models.UserProjectLink) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "project_id"}},
		DoNothing: true,
	}).Create(link).Error
}

// TouchLastSignIn stamps the link's last_sign_in on successful token issuance.
func (s *Store) TouchLastSignIn(userID, projectID string, at time.Time) error {
	res := s.db.Model(&models.UserProjectLink{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Update("last_sign_in", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *Store) DeleteUserProjectLink(userID, projectID string) error {
	return s.db.Delete(&models.UserProjectLink{},
		"user_id = ? AND project_id = ?", userID, projectID).Error
}
