package store

import (
	"errors"
	"log"

	"github.com/ahmedXDR/auth-visage-backend/internal/models"
	"github.com/ahmedXDR/auth-visage-backend/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

func New(driver, dsn string) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// SQLite ships with foreign keys off; cascades depend on them.
	if driver == "sqlite" {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&models.User{},
		&models.Face{},
		&models.Project{},
		&models.TrustedOrigin{},
		&models.UserProjectLink{},
		&models.AuthCode{},
		&models.OAuthSession{},
		&models.OAuthRefreshToken{},
		&models.SignInSession{},
		&models.SignInRefreshToken{},
	); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// SeedDemoProject creates a demo project with a localhost trusted origin
// if no project exists yet. The plaintext API key is only printed once.
func (s *Store) SeedDemoProject() error {
	var projectCount int64
	s.db.Model(&models.Project{}).Count(&projectCount)
	if projectCount > 0 {
		return nil
	}

	project := &models.Project{
		ID:          uuid.New().String(),
		Name:        "Demo Project",
		Description: "Default project for local development",
		RedirectURL: "http://localhost:3000/callback",
		IsActive:    true,
	}
	apiKey, err := project.GenerateAPIKey()
	if err != nil {
		return err
	}
	if err := s.db.Create(project).Error; err != nil {
		return err
	}
	origin := &models.TrustedOrigin{
		ProjectID: project.ID,
		Origin:    util.NormalizeOrigin("http://localhost:3000"),
	}
	if err := s.db.Create(origin).Error; err != nil {
		return err
	}

	log.Printf("Created demo project: %s", project.ID)
	log.Printf("API Key (save this): %s", apiKey)
	return nil
}

// Health checks the database connection
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// DB returns the underlying gorm DB instance for advanced operations
func (s *Store) DB() *gorm.DB {
	return s.db
}

// notFound maps gorm's sentinel to the store's error type.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}
