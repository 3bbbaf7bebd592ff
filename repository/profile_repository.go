package repository

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"srhbot/engine"
	"srhbot/models"
)

// ProfileRepository defines the interface for interacting with stored user preferences.
type ProfileRepository interface {
	GetProfile(userID string) (*models.UserProfile, bool, error)
	SaveProfile(profile *models.UserProfile) (*models.UserProfile, error)
}

type profileRepository struct {
	db       *gorm.DB
	defaults engine.UserProfile
}

// NewProfileRepository creates a new instance of ProfileRepository. Users
// without a stored record get defaults, normalized to valid values.
func NewProfileRepository(db *gorm.DB, defaults engine.UserProfile) ProfileRepository {
	return &profileRepository{db: db, defaults: defaults.Normalized()}
}

// GetProfile retrieves the stored profile for a user. If none exists it
// returns a default profile, found=false and no error.
func (r *profileRepository) GetProfile(userID string) (*models.UserProfile, bool, error) {
	if userID == "" {
		return nil, false, errors.New("user ID cannot be empty")
	}

	var profile models.UserProfile
	err := r.db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("INFO: [ProfileRepository] No profile found for userID %s. Returning defaults.", userID)
			return &models.UserProfile{
				UserID:      userID,
				AgeGroup:    string(r.defaults.AgeGroup),
				Personality: string(r.defaults.Personality),
				Language:    r.defaults.Language,
			}, false, nil
		}
		log.Printf("ERROR: [ProfileRepository] Failed to fetch profile for userID %s: %v", userID, err)
		return nil, false, fmt.Errorf("failed to fetch profile for userID %s: %w", userID, err)
	}
	return &profile, true, nil
}

// SaveProfile creates or replaces the profile of profile.UserID using an UPSERT.
func (r *profileRepository) SaveProfile(profile *models.UserProfile) (*models.UserProfile, error) {
	if profile == nil || profile.UserID == "" {
		return nil, errors.New("user ID cannot be empty")
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"age_group", "language", "personality", "nickname", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		log.Printf("ERROR: [ProfileRepository] Failed to save profile for userID %s: %v", profile.UserID, err)
		return nil, fmt.Errorf("failed to save profile for userID %s: %w", profile.UserID, err)
	}

	// Re-fetch so CreatedAt reflects the original insert.
	var stored models.UserProfile
	if err := r.db.First(&stored, "user_id = ?", profile.UserID).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch profile for userID %s after save: %w", profile.UserID, err)
	}
	log.Printf("INFO: [ProfileRepository] Saved profile for userID %s (age_group=%s, personality=%s)", stored.UserID, stored.AgeGroup, stored.Personality)
	return &stored, nil
}
