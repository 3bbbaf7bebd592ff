package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"srhbot/engine"
	"srhbot/models"
	"srhbot/repository"
	"srhbot/services"
	"srhbot/utils"
)

const maxHistoryLimit = 500

// APIHandler holds all dependencies for API handlers, such as repositories and services.
type APIHandler struct {
	chatService  services.ChatService
	profileRepo  repository.ProfileRepository
	content      services.SnapshotSource
	historyLimit int
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(chatService services.ChatService, profileRepo repository.ProfileRepository, src services.SnapshotSource, historyLimit int) *APIHandler {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &APIHandler{
		chatService:  chatService,
		profileRepo:  profileRepo,
		content:      src,
		historyLimit: historyLimit,
	}
}

// InitHandler returns the user's ID and profile plus everything a client needs
// to render the first screen. A guest ID is issued when none is supplied.
func (h *APIHandler) InitHandler(c *gin.Context) {
	userID := c.Query("userID")
	if userID == "" {
		userID = services.NewGuestID()
		log.Printf("INFO: [API] No userID provided, generated new guest ID: %s", userID)
	}

	profile, found, err := h.profileRepo.GetProfile(userID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Could not load your profile.", err)
		return
	}
	userType := "guest"
	if found {
		userType = "returning"
	}

	snap := h.content.Snapshot()
	tables := snap.Engine.Tables()

	ageGroups := make([]string, 0, len(engine.AgeGroups))
	for _, a := range engine.AgeGroups {
		ageGroups = append(ageGroups, string(a))
	}
	personalities := make([]models.PersonalityOption, 0, len(engine.Personalities))
	for _, p := range engine.Personalities {
		prof, _ := snap.Engine.Profile(p)
		personalities = append(personalities, models.PersonalityOption{ID: string(p), UseEmoji: prof.UseEmoji})
	}

	utils.SendJSONSuccess(c, models.InitResponse{
		UserType:       userType,
		UserID:         userID,
		Profile:        *profile,
		AgeGroups:      ageGroups,
		Personalities:  personalities,
		Suggestions:    snap.Engine.GenerateFollowUpSuggestions(engine.TopicGeneral, engine.HelpNone),
		Hotlines:       snap.Hotlines,
		ContentVersion: tables.Version,
	})
}

// ChatHandler answers one chat message.
func (h *APIHandler) ChatHandler(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	result, err := h.chatService.ProcessMessage(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			utils.SendJSONError(c, http.StatusBadRequest, "Message cannot be empty.", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to process your message.", err)
		return
	}
	utils.SendJSONSuccess(c, result)
}

// GetProfileHandler returns the stored (or default) profile of a user.
func (h *APIHandler) GetProfileHandler(c *gin.Context) {
	profile, _, err := h.profileRepo.GetProfile(c.Param("userID"))
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Could not load your profile.", err)
		return
	}
	utils.SendJSONSuccess(c, profile)
}

// UpdateProfileHandler validates and stores profile preferences.
func (h *APIHandler) UpdateProfileHandler(c *gin.Context) {
	userID := c.Param("userID")
	var req models.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}
	if req.AgeGroup != "" && !engine.AgeGroup(req.AgeGroup).Valid() {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid age group.", nil, fmt.Sprintf("allowed: %v", engine.AgeGroups))
		return
	}
	if req.Personality != "" && !engine.PersonalityID(req.Personality).Valid() {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid personality.", nil, fmt.Sprintf("allowed: %v", engine.Personalities))
		return
	}

	profile, _, err := h.profileRepo.GetProfile(userID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Could not load your profile.", err)
		return
	}
	if req.AgeGroup != "" {
		profile.AgeGroup = req.AgeGroup
	}
	if req.Personality != "" {
		profile.Personality = req.Personality
	}
	if req.Language != "" {
		profile.Language = req.Language
	}
	if req.Nickname != "" {
		profile.Nickname = strings.TrimSpace(req.Nickname)
	}

	saved, err := h.profileRepo.SaveProfile(profile)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Could not save your profile.", err)
		return
	}
	utils.SendJSONSuccess(c, saved)
}

// HistoryHandler returns the newest messages of a user's transcript.
func (h *APIHandler) HistoryHandler(c *gin.Context) {
	limit := utils.QueryLimit(c, "limit", h.historyLimit, maxHistoryLimit)
	messages, err := h.chatService.GetChatHistory(c.Param("userID"), limit)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Could not load chat history.", err)
		return
	}
	utils.SendJSONSuccess(c, messages)
}

// HotlinesHandler returns the emergency hotline directory.
func (h *APIHandler) HotlinesHandler(c *gin.Context) {
	utils.SendJSONSuccess(c, h.content.Snapshot().Hotlines)
}

// AnalyzeHandler runs crisis, help and intent detection without answering.
func (h *APIHandler) AnalyzeHandler(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}
	utils.SendJSONSuccess(c, h.chatService.Analyze(req.Message))
}

// SuggestionsHandler returns follow-up suggestions for an intent. Passing
// category=mentalHealth selects the mental health list.
func (h *APIHandler) SuggestionsHandler(c *gin.Context) {
	intent := engine.Topic(c.DefaultQuery("intent", string(engine.TopicGeneral)))
	category := engine.HelpCategory(c.DefaultQuery("category", string(engine.HelpNone)))
	utils.SendJSONSuccess(c, h.content.Snapshot().Engine.GenerateFollowUpSuggestions(intent, category))
}

// TopicsHandler returns the browsable content catalogue.
func (h *APIHandler) TopicsHandler(c *gin.Context) {
	tables := h.content.Snapshot().Engine.Tables()
	catalogue := make([]models.CategorySummary, 0, len(tables.Categories))
	for _, cat := range tables.Categories {
		summary := models.CategorySummary{ID: string(cat.ID), Name: cat.Category, Topics: []models.TopicSummary{}}
		for _, t := range cat.Topics {
			ages := make([]string, 0, len(t.AgeGroups))
			for _, a := range t.AgeGroups {
				ages = append(ages, string(a))
			}
			summary.Topics = append(summary.Topics, models.TopicSummary{ID: t.ID, Title: t.Title, AgeGroups: ages})
		}
		catalogue = append(catalogue, summary)
	}
	utils.SendJSONSuccess(c, catalogue)
}

// HealthHandler reports liveness and the loaded content generation.
func (h *APIHandler) HealthHandler(c *gin.Context) {
	snap := h.content.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"content_version": snap.Version,
		"topics":          snap.Engine.Tables().TopicCount(),
		"loaded_at":       snap.LoadedAt,
	})
}
