package models

import (
	"time"

	"srhbot/engine"
)

// UserProfile is the stored preference record of one user.
type UserProfile struct {
	UserID      string    `json:"user_id" gorm:"primaryKey"`
	AgeGroup    string    `json:"age_group"`
	Language    string    `json:"language"`
	Personality string    `json:"personality"`
	Nickname    string    `json:"nickname"`
	CreatedAt   time.Time `json:"created_at"` // Automatically managed by GORM
	UpdatedAt   time.Time `json:"updated_at"` // Automatically managed by GORM
}

// TableName specifies the table name for UserProfile model.
func (UserProfile) TableName() string {
	return "user_profiles"
}

// Engine converts the record to the profile the engine reads.
func (p UserProfile) Engine() engine.UserProfile {
	return engine.UserProfile{
		AgeGroup:    engine.AgeGroup(p.AgeGroup),
		Language:    p.Language,
		Personality: engine.PersonalityID(p.Personality),
		Nickname:    p.Nickname,
	}
}

// ProfileRequest is the body of PUT /api/profile/:userID. Empty fields keep
// their stored value.
type ProfileRequest struct {
	AgeGroup    string `json:"age_group"`
	Language    string `json:"language"`
	Personality string `json:"personality"`
	Nickname    string `json:"nickname"`
}
