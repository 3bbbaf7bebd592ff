package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"srhbot/content"
	"srhbot/engine"
	"srhbot/models"
	"srhbot/repository"
)

// ErrEmptyMessage is returned for blank chat messages.
var ErrEmptyMessage = errors.New("message cannot be empty")

// SnapshotSource supplies the current content generation; *content.Library implements it.
type SnapshotSource interface {
	Snapshot() *content.Snapshot
}

// Observer receives response and responder outcomes; *metrics.Collector implements it.
type Observer interface {
	ObserveResponse(resp engine.Response)
	ObserveResponder(err error)
}

// ChatService answers chat messages and keeps their transcript.
type ChatService interface {
	ProcessMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResult, error)
	Analyze(message string) models.AnalyzeResponse
	GetChatHistory(userID string, limit int) ([]models.ChatMessage, error)
}

type chatService struct {
	content   SnapshotSource
	profiles  repository.ProfileRepository
	chats     repository.ChatRepository
	responder Responder
	observer  Observer
	now       func() time.Time
}

// NewChatService creates a ChatService. responder and observer may be nil.
func NewChatService(src SnapshotSource, profiles repository.ProfileRepository, chats repository.ChatRepository, responder Responder, observer Observer) ChatService {
	return &chatService{
		content:   src,
		profiles:  profiles,
		chats:     chats,
		responder: responder,
		observer:  observer,
		now:       time.Now,
	}
}

// NewGuestID returns a fresh identifier for an anonymous user.
func NewGuestID() string {
	return "guest_" + uuid.NewString()
}

// ProcessMessage runs the engine over one message. Once the engine reports a
// crisis the crisis response is returned no matter what fails afterwards; the
// external responder is never consulted for crisis or facility responses and
// its failures fall back to the engine's own answer.
func (s *chatService) ProcessMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResult, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	userID := req.UserID
	if userID == "" {
		userID = NewGuestID()
	}

	profile := s.profileFor(userID, req)
	snap := s.content.Snapshot()
	e := snap.Engine

	history := s.history(userID)
	s.save(models.ChatMessage{UserID: userID, Role: models.RoleUser, Content: message, Timestamp: s.now()})

	resp := e.GenerateResponse(message, profile)
	source := models.SourceEngine
	if resp.Type == engine.ResponseNormal && s.responder != nil {
		if reply, ok := s.respond(ctx, history, message, profile); ok {
			resp = s.responderResponse(e, resp.Intent, reply)
			source = models.SourceResponder
		}
	}

	result := &models.ChatResult{Response: resp, UserID: userID, Source: source}
	if resp.Type == engine.ResponseCrisis {
		result.Hotlines = snap.Hotlines
		log.Printf("WARN: [ChatService] Crisis response (severity=%s) for userID %s", resp.Severity, userID)
	}

	s.save(models.ChatMessage{
		UserID:       userID,
		Role:         models.RoleAssistant,
		Content:      resp.Text(),
		ResponseType: string(resp.Type),
		Intent:       string(resp.Intent),
		Severity:     string(resp.Severity),
		Source:       source,
		Timestamp:    s.now(),
	})
	if s.observer != nil {
		s.observer.ObserveResponse(resp)
	}
	return result, nil
}

// responderResponse wraps an external reply. The reply goes through help
// detection so a mental health answer still offers the facility finder.
func (s *chatService) responderResponse(e *engine.Engine, intent engine.Topic, reply string) engine.Response {
	resp := engine.Response{Type: engine.ResponseNormal, Intent: intent, Response: reply}
	override := engine.HelpNone
	if help := e.DetectNeedForHelp(reply); help.Category == engine.HelpMentalHealth {
		override = engine.HelpMentalHealth
		resp.Category = help.Category
		resp.ShowFacilityFinder = true
	}
	resp.Suggestions = e.GenerateFollowUpSuggestions(intent, override)
	return resp
}

func (s *chatService) respond(ctx context.Context, history []models.ChatMessage, message string, profile engine.UserProfile) (string, bool) {
	reply, err := s.responder.Respond(ctx, history, message, profile)
	if s.observer != nil {
		s.observer.ObserveResponder(err)
	}
	if err != nil {
		log.Printf("WARN: [ChatService] Responder failed, using engine content: %v", err)
		return "", false
	}
	return reply, true
}

// profileFor merges valid per-request overrides into the stored profile.
// Repository failures fall back to engine defaults.
func (s *chatService) profileFor(userID string, req models.ChatRequest) engine.UserProfile {
	var profile engine.UserProfile
	stored, _, err := s.profiles.GetProfile(userID)
	if err != nil {
		log.Printf("WARN: [ChatService] Failed to load profile for userID %s, using defaults: %v", userID, err)
	} else {
		profile = stored.Engine()
	}

	if age := engine.AgeGroup(req.AgeGroup); age.Valid() {
		profile.AgeGroup = age
	}
	if p := engine.PersonalityID(req.Personality); p.Valid() {
		profile.Personality = p
	}
	if req.Language != "" {
		profile.Language = req.Language
	}
	return profile.Normalized()
}

func (s *chatService) history(userID string) []models.ChatMessage {
	if s.responder == nil {
		return nil
	}
	msgs, err := s.chats.GetMessagesByUserID(userID, 0)
	if err != nil {
		log.Printf("WARN: [ChatService] Failed to load history for userID %s: %v", userID, err)
		return nil
	}
	return msgs
}

func (s *chatService) save(msg models.ChatMessage) {
	if err := s.chats.SaveMessage(msg); err != nil {
		log.Printf("ERROR: [ChatService] Failed to save %s message for userID %s: %v", msg.Role, msg.UserID, err)
	}
}

// Analyze runs the detection stages only.
func (s *chatService) Analyze(message string) models.AnalyzeResponse {
	e := s.content.Snapshot().Engine
	return models.AnalyzeResponse{
		Crisis: e.DetectCrisis(message),
		Help:   e.DetectNeedForHelp(message),
		Intent: e.DetectIntent(message),
	}
}

func (s *chatService) GetChatHistory(userID string, limit int) ([]models.ChatMessage, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	return s.chats.GetMessagesByUserID(userID, limit)
}
