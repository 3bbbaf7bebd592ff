package engine

// Topic is the intent taxonomy used to route a message to a content category.
type Topic string

const (
	TopicContraception Topic = "contraception"
	TopicSTI           Topic = "sti"
	TopicMentalHealth  Topic = "mentalHealth"
	TopicConsent       Topic = "consent"
	TopicPregnancy     Topic = "pregnancy"
	TopicGeneral       Topic = "general"
)

// Topics lists the closed taxonomy in classification priority order, general last.
var Topics = []Topic{
	TopicContraception,
	TopicSTI,
	TopicMentalHealth,
	TopicConsent,
	TopicPregnancy,
	TopicGeneral,
}

// Valid reports whether t is part of the taxonomy.
func (t Topic) Valid() bool {
	for _, known := range Topics {
		if t == known {
			return true
		}
	}
	return false
}

// AgeGroup is one of the coarse age brackets used to pick content phrasing.
type AgeGroup string

const (
	AgeTeen       AgeGroup = "13-17"
	AgeYoungAdult AgeGroup = "18-25"
	AgeAdult      AgeGroup = "26+"
)

// AgeGroups lists the supported brackets.
var AgeGroups = []AgeGroup{AgeTeen, AgeYoungAdult, AgeAdult}

// DefaultAgeGroup is used when a profile carries no (or an unknown) bracket.
const DefaultAgeGroup = AgeYoungAdult

// Valid reports whether a is a supported bracket.
func (a AgeGroup) Valid() bool {
	return a == AgeTeen || a == AgeYoungAdult || a == AgeAdult
}

// PersonalityID names a tone profile.
type PersonalityID string

const (
	PersonalityFriendly     PersonalityID = "friendly"
	PersonalityProfessional PersonalityID = "professional"
	PersonalityCasual       PersonalityID = "casual"
	PersonalityEmpathetic   PersonalityID = "empathetic"
)

// Personalities lists the supported tone profiles.
var Personalities = []PersonalityID{
	PersonalityFriendly,
	PersonalityProfessional,
	PersonalityCasual,
	PersonalityEmpathetic,
}

// DefaultPersonality is used whenever the requested personality is missing or unknown.
const DefaultPersonality = PersonalityFriendly

// Valid reports whether p is a supported personality.
func (p PersonalityID) Valid() bool {
	for _, known := range Personalities {
		if p == known {
			return true
		}
	}
	return false
}

// Severity is the crisis tier a message fell into.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityNone   Severity = "none"
)

// HelpCategory classifies a help-needed match.
type HelpCategory string

const (
	HelpMentalHealth HelpCategory = "mentalHealth"
	HelpPhysical     HelpCategory = "physical"
	HelpGeneral      HelpCategory = "general"
	HelpNone         HelpCategory = "none"
)

// ResponseType is the branch the orchestrator terminated on.
type ResponseType string

const (
	ResponseCrisis                 ResponseType = "crisis"
	ResponseFacilityRecommendation ResponseType = "facility_recommendation"
	ResponseNormal                 ResponseType = "normal"
)

// UserProfile is supplied by the caller on every call; the engine never stores it.
type UserProfile struct {
	AgeGroup    AgeGroup      `json:"ageGroup,omitempty"`
	Language    string        `json:"language,omitempty"`
	Personality PersonalityID `json:"personality,omitempty"`
	Nickname    string        `json:"nickname,omitempty"`
}

// Normalized returns a copy with unknown or empty fields replaced by defaults.
func (p UserProfile) Normalized() UserProfile {
	if !p.AgeGroup.Valid() {
		p.AgeGroup = DefaultAgeGroup
	}
	if !p.Personality.Valid() {
		p.Personality = DefaultPersonality
	}
	return p
}

// CrisisResult is the outcome of DetectCrisis.
type CrisisResult struct {
	IsCrisis       bool     `json:"isCrisis"`
	Severity       Severity `json:"severity"`
	MatchedKeyword string   `json:"matchedKeyword,omitempty"`
}

// HelpResult is the outcome of DetectNeedForHelp.
type HelpResult struct {
	NeedsHelp      bool         `json:"needsHelp"`
	Category       HelpCategory `json:"category"`
	MatchedKeyword string       `json:"matchedKeyword,omitempty"`
}

// ResolvedContent is the outcome of ResolveContent. Suggestions is only set on
// the fallback paths, where it replaces the per-topic follow-up list.
type ResolvedContent struct {
	TopicID       string   `json:"topicId,omitempty"`
	Text          string   `json:"text"`
	Title         string   `json:"title,omitempty"`
	Sources       []string `json:"sources,omitempty"`
	RelatedTopics []string `json:"relatedTopics,omitempty"`
	Suggestions   []string `json:"suggestions,omitempty"`
}

// Response is the descriptor produced for one user message.
type Response struct {
	Type                  ResponseType `json:"type"`
	Severity              Severity     `json:"severity,omitempty"`
	Category              HelpCategory `json:"category,omitempty"`
	Message               string       `json:"message,omitempty"`
	Response              string       `json:"response,omitempty"`
	Title                 string       `json:"title,omitempty"`
	Sources               []string     `json:"sources,omitempty"`
	RelatedTopics         []string     `json:"relatedTopics,omitempty"`
	Intent                Topic        `json:"intent,omitempty"`
	ShowEmergencyHotlines bool         `json:"showEmergencyHotlines,omitempty"`
	ShowFacilityFinder    bool         `json:"showFacilityFinder,omitempty"`
	Suggestions           []string     `json:"suggestions,omitempty"`
}

// Text returns the user-visible body regardless of branch.
func (r Response) Text() string {
	if r.Type == ResponseNormal {
		return r.Response
	}
	return r.Message
}
