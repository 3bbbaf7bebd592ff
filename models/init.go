package models

import "srhbot/content"

// PersonalityOption describes one selectable tone profile.
type PersonalityOption struct {
	ID       string `json:"id"`
	UseEmoji bool   `json:"use_emoji"`
}

// InitResponse defines the structure for the /api/init endpoint response.
type InitResponse struct {
	UserType       string              `json:"user_type"` // "guest" or "returning"
	UserID         string              `json:"user_id"`
	Profile        UserProfile         `json:"profile"`
	AgeGroups      []string            `json:"age_groups"`
	Personalities  []PersonalityOption `json:"personalities"`
	Suggestions    []string            `json:"suggestions"`
	Hotlines       []content.Hotline   `json:"hotlines"`
	ContentVersion string              `json:"content_version"`
}

// TopicSummary is one entry of the GET /api/topics catalogue.
type TopicSummary struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	AgeGroups []string `json:"age_groups"`
}

// CategorySummary groups TopicSummary values by taxonomy key.
type CategorySummary struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Topics []TopicSummary `json:"topics"`
}
