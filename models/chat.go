package models

import (
	"time"

	"srhbot/content"
	"srhbot/engine"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Response sources.
const (
	SourceEngine    = "engine"
	SourceResponder = "responder"
)

// ChatMessage is one persisted transcript entry. Bot messages carry the
// response type and intent they were produced with.
type ChatMessage struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"index"`
	Role         string    `json:"role"` // "user" or "assistant"
	Content      string    `json:"content"`
	ResponseType string    `json:"response_type,omitempty"`
	Intent       string    `json:"intent,omitempty"`
	Severity     string    `json:"severity,omitempty"`
	Source       string    `json:"source,omitempty"`
	Timestamp    time.Time `json:"timestamp" gorm:"index"`
}

// ChatRequest is the body of POST /api/chat. Profile fields override the
// stored profile for this message only.
type ChatRequest struct {
	UserID      string `json:"user_id"`
	Message     string `json:"message" binding:"required"`
	AgeGroup    string `json:"age_group,omitempty"`
	Personality string `json:"personality,omitempty"`
	Language    string `json:"language,omitempty"`
}

// ChatResult is what the chat service returns for one message.
type ChatResult struct {
	engine.Response
	UserID   string            `json:"user_id"`
	Source   string            `json:"source"`
	Hotlines []content.Hotline `json:"hotlines,omitempty"`
}

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Message string `json:"message" binding:"required"`
}

// AnalyzeResponse reports the detection stages without resolving content.
type AnalyzeResponse struct {
	Crisis engine.CrisisResult `json:"crisis"`
	Help   engine.HelpResult   `json:"help"`
	Intent engine.Topic        `json:"intent"`
}
