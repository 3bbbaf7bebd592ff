// Package engine classifies a free-text message and produces the chatbot's
// response descriptor: crisis detection, help-needed detection, intent
// classification, age-appropriate content lookup, tone rendering and follow-up
// suggestions.
//
// An Engine is immutable after New and safe for concurrent use. It performs no
// I/O and never returns an error; unmatched or malformed input degrades to the
// general/fallback branches.
package engine

import (
	"strings"

	"golang.org/x/text/cases"
)

// IntentClassifier maps a message to a taxonomy topic.
type IntentClassifier interface {
	DetectIntent(message string) Topic
}

// ContentResolver looks up the body text for a classified topic.
type ContentResolver interface {
	ResolveContent(topic Topic, ageGroup AgeGroup, query string) ResolvedContent
}

// Option customises an Engine.
type Option func(*Engine)

// WithRandom sets the source used to pick personality decorations.
func WithRandom(r RandomSource) Option {
	return func(e *Engine) {
		if r != nil {
			e.random = r
		}
	}
}

// WithClassifier replaces the intent classification stage of GenerateResponse.
func WithClassifier(c IntentClassifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

// WithResolver replaces the content resolution stage of GenerateResponse.
func WithResolver(r ContentResolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.resolver = r
		}
	}
}

// Engine runs the response pipeline over one set of Tables.
type Engine struct {
	tables *Tables

	tier1        []string
	tier2        []string
	helpUnion    []string
	helpMental   []string
	helpPhysical []string
	intents      []IntentRule
	topicKeys    map[Topic][][]string

	random     RandomSource
	classifier IntentClassifier
	resolver   ContentResolver
}

// New builds an Engine. Keywords are case-folded once here so that content
// authors can write them in any case.
func New(t *Tables, opts ...Option) *Engine {
	if t == nil {
		t = &Tables{}
	}
	e := &Engine{
		tables:       t,
		tier1:        foldAll(t.Crisis.Tier1),
		tier2:        foldAll(t.Crisis.Tier2),
		helpMental:   foldAll(t.Help.MentalHealth),
		helpPhysical: foldAll(t.Help.Physical),
		topicKeys:    make(map[Topic][][]string, len(t.Categories)),
		random:       globalRandom{},
	}
	e.helpUnion = append(append(foldAll(t.Help.General), e.helpMental...), e.helpPhysical...)

	e.intents = make([]IntentRule, 0, len(t.Intents))
	for _, rule := range t.Intents {
		e.intents = append(e.intents, IntentRule{Topic: rule.Topic, Keywords: foldAll(rule.Keywords)})
	}
	for _, cat := range t.Categories {
		keys := make([][]string, len(cat.Topics))
		for i, topic := range cat.Topics {
			keys[i] = foldAll(topic.Keywords)
		}
		e.topicKeys[cat.ID] = keys
	}

	e.classifier = e
	e.resolver = e
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tables returns the tables the engine was built from. Callers must not modify them.
func (e *Engine) Tables() *Tables {
	return e.tables
}

// GenerateResponse runs the full pipeline for one message. The first matching
// branch is terminal: crisis, then facility recommendation, then normal content.
func (e *Engine) GenerateResponse(message string, profile UserProfile) Response {
	p := profile.Normalized()

	if crisis := e.DetectCrisis(message); crisis.IsCrisis {
		return Response{
			Type:                  ResponseCrisis,
			Severity:              crisis.Severity,
			Message:               e.crisisCopy(crisis.Severity),
			ShowEmergencyHotlines: true,
		}
	}

	if help := e.DetectNeedForHelp(message); help.NeedsHelp {
		intent := e.classifier.DetectIntent(message)
		override := HelpNone
		if help.Category == HelpMentalHealth {
			override = HelpMentalHealth
		}
		return Response{
			Type:               ResponseFacilityRecommendation,
			Category:           help.Category,
			Message:            e.ApplyPersonality(e.facilityCopy(help.Category), p.Personality),
			ShowFacilityFinder: true,
			Intent:             intent,
			Suggestions:        e.GenerateFollowUpSuggestions(intent, override),
		}
	}

	intent := e.classifier.DetectIntent(message)
	content := e.resolver.ResolveContent(intent, p.AgeGroup, message)
	suggestions := content.Suggestions
	if len(suggestions) == 0 {
		suggestions = e.GenerateFollowUpSuggestions(intent, HelpNone)
	}
	return Response{
		Type:          ResponseNormal,
		Intent:        intent,
		Response:      e.ApplyPersonality(content.Text, p.Personality),
		Title:         content.Title,
		Sources:       content.Sources,
		RelatedTopics: content.RelatedTopics,
		Suggestions:   suggestions,
	}
}

func (e *Engine) crisisCopy(s Severity) string {
	if s == SeverityMedium && e.tables.Copy.CrisisMedium != "" {
		return e.tables.Copy.CrisisMedium
	}
	return e.tables.Copy.CrisisHigh
}

func (e *Engine) facilityCopy(c HelpCategory) string {
	if text, ok := e.tables.Copy.Facility[c]; ok && text != "" {
		return text
	}
	return e.tables.Copy.Facility[HelpGeneral]
}

// fold is the case folding applied to both messages and keywords. A fresh
// Caser is used per call because Casers are not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}

func foldAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = fold(strings.TrimSpace(k)); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// firstMatch returns the first keyword, in list order, contained in text.
// Matching is plain substring containment, not word-boundary matching.
func firstMatch(text string, keywords []string) (string, bool) {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return k, true
		}
	}
	return "", false
}
