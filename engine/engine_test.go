package engine

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testTables() *Tables {
	return &Tables{
		Version: "test",
		Crisis: CrisisKeywords{
			Tier1: []string{"kill myself", "suicide", "rape"},
			Tier2: []string{"hopeless", "worthless"},
		},
		Help: HelpKeywords{
			General:      []string{"need help", "get help", "clinic"},
			MentalHealth: []string{"anxious", "hopeless", "lonely"},
			Physical:     []string{"pain", "bleeding"},
		},
		Intents: []IntentRule{
			{Topic: TopicContraception, Keywords: []string{"Condom", "birth control"}},
			{Topic: TopicSTI, Keywords: []string{"hiv", "test"}},
			{Topic: TopicMentalHealth, Keywords: []string{"mood"}},
			{Topic: TopicConsent, Keywords: []string{"consent"}},
			{Topic: TopicPregnancy, Keywords: []string{"pregnan"}},
		},
		Categories: []ContentCategory{
			{ID: TopicContraception, Category: "Contraception", Topics: []ContentTopic{
				{ID: "basics", Title: "Contraception Basics", Content: map[AgeGroup]string{
					AgeTeen: "basics teen", AgeYoungAdult: "basics young adult", AgeAdult: "basics adult",
				}},
				{ID: "condoms", Title: "Condoms", Keywords: []string{"CONDOM"}, Sources: []string{"WHO", "CDC"}, Content: map[AgeGroup]string{
					AgeYoungAdult: "condoms young adult",
				}},
				{ID: "ec", Title: "Emergency Contraception", Keywords: []string{"plan b"}, Content: map[AgeGroup]string{AgeYoungAdult: "ec"}},
				{ID: "pill", Title: "The Pill", Keywords: []string{"pill"}, Content: map[AgeGroup]string{AgeYoungAdult: "pill"}},
				{ID: "larc", Title: "Long-acting Methods", Keywords: []string{"iud"}, Content: map[AgeGroup]string{AgeYoungAdult: "larc"}},
			}},
			{ID: TopicSTI, Category: "STIs", Topics: []ContentTopic{
				{ID: "hiv", Title: "HIV", Keywords: []string{"hiv"}, Content: map[AgeGroup]string{AgeYoungAdult: "hiv text"}},
			}},
			{ID: TopicConsent, Category: "Consent"},
			{ID: TopicGeneral, Category: "General", Topics: []ContentTopic{
				{ID: "welcome", Title: "Welcome", Keywords: []string{"hello"}, Content: map[AgeGroup]string{AgeYoungAdult: "Hi! Ask me anything."}},
			}},
		},
		Personalities: map[PersonalityID]PersonalityProfile{
			PersonalityFriendly:     {Prefixes: []string{"", "Great question! "}, Suffixes: []string{"", " 😊"}, UseEmoji: true},
			PersonalityProfessional: {Prefixes: []string{"Thank you. "}, Suffixes: []string{" Regards."}},
			PersonalityCasual:       {Prefixes: []string{"Hey! "}, Suffixes: []string{""}},
			PersonalityEmpathetic:   {Prefixes: []string{""}, Suffixes: []string{" You're not alone."}},
		},
		Suggestions: SuggestionTable{
			ByTopic: map[Topic][]string{
				TopicContraception: {"c1", "c2", "c3", "c4"},
				TopicSTI:           {"s1", "s2", "s3", "s4"},
				TopicGeneral:       {"g1", "g2", "g3", "g4"},
			},
			MentalHealth: []string{"m1", "m2", "m3", "m4", "m5"},
		},
		Copy: Copy{
			CrisisHigh:   "crisis high copy",
			CrisisMedium: "crisis medium copy",
			Facility: map[HelpCategory]string{
				HelpMentalHealth: "facility mental",
				HelpPhysical:     "facility physical",
				HelpGeneral:      "facility general",
			},
			UnknownCategory:            "unknown category",
			UnknownCategorySuggestions: []string{"Contraception", "STI prevention", "Mental health", "Consent"},
			EmptyCategory:              "need more details",
			EmptyCategorySuggestions:   []string{"Tell me more", "Ask another question"},
		},
	}
}

// fixedRandom always picks the same index.
type fixedRandom int

func (f fixedRandom) IntN(n int) int { return int(f) % n }

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) DetectIntent(message string) Topic {
	args := m.Called(message)
	return args.Get(0).(Topic)
}

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolveContent(topic Topic, ageGroup AgeGroup, query string) ResolvedContent {
	args := m.Called(topic, ageGroup, query)
	return args.Get(0).(ResolvedContent)
}

func TestEngine_DetectCrisis(t *testing.T) {
	e := New(testTables())

	t.Run("Tier1 keyword is high severity regardless of casing", func(t *testing.T) {
		res := e.DetectCrisis("I want to KILL MYSELF today")
		assert.True(t, res.IsCrisis)
		assert.Equal(t, SeverityHigh, res.Severity)
		assert.Equal(t, "kill myself", res.MatchedKeyword)
	})

	t.Run("Tier2 only is medium severity", func(t *testing.T) {
		res := e.DetectCrisis("I feel worthless")
		assert.True(t, res.IsCrisis)
		assert.Equal(t, SeverityMedium, res.Severity)
		assert.Equal(t, "worthless", res.MatchedKeyword)
	})

	t.Run("Tier1 dominates tier2 regardless of position", func(t *testing.T) {
		res := e.DetectCrisis("hopeless and worthless, thinking about suicide")
		assert.Equal(t, SeverityHigh, res.Severity)
		assert.Equal(t, "suicide", res.MatchedKeyword)
	})

	t.Run("No match", func(t *testing.T) {
		res := e.DetectCrisis("how do condoms work?")
		assert.False(t, res.IsCrisis)
		assert.Equal(t, SeverityNone, res.Severity)
		assert.Empty(t, res.MatchedKeyword)
	})

	t.Run("Empty message", func(t *testing.T) {
		assert.False(t, e.DetectCrisis("").IsCrisis)
	})

	t.Run("Substring matching flags rape inside grape", func(t *testing.T) {
		// Known false positive of substring matching.
		res := e.DetectCrisis("I ate a grape")
		assert.True(t, res.IsCrisis)
		assert.Equal(t, SeverityHigh, res.Severity)
	})
}

func TestEngine_DetectNeedForHelp(t *testing.T) {
	e := New(testTables())

	t.Run("General keyword only", func(t *testing.T) {
		res := e.DetectNeedForHelp("Where is the nearest clinic?")
		assert.True(t, res.NeedsHelp)
		assert.Equal(t, HelpGeneral, res.Category)
		assert.Equal(t, "clinic", res.MatchedKeyword)
	})

	t.Run("Mental health keyword", func(t *testing.T) {
		res := e.DetectNeedForHelp("I am so lonely")
		assert.True(t, res.NeedsHelp)
		assert.Equal(t, HelpMentalHealth, res.Category)
	})

	t.Run("Physical keyword", func(t *testing.T) {
		res := e.DetectNeedForHelp("there is some bleeding")
		assert.Equal(t, HelpPhysical, res.Category)
	})

	t.Run("Category follows set membership, not the triggering keyword", func(t *testing.T) {
		// "need help" (general) triggers the match; "pain" reclassifies as physical.
		res := e.DetectNeedForHelp("I need help with pain")
		assert.True(t, res.NeedsHelp)
		assert.Equal(t, "need help", res.MatchedKeyword)
		assert.Equal(t, HelpPhysical, res.Category)
	})

	t.Run("Mental health wins over physical", func(t *testing.T) {
		res := e.DetectNeedForHelp("pain makes me anxious")
		assert.Equal(t, HelpMentalHealth, res.Category)
	})

	t.Run("No match", func(t *testing.T) {
		res := e.DetectNeedForHelp("what is consent")
		assert.False(t, res.NeedsHelp)
		assert.Equal(t, HelpNone, res.Category)
	})
}

func TestEngine_DetectIntent(t *testing.T) {
	e := New(testTables())

	t.Run("Contraception wins over STI", func(t *testing.T) {
		assert.Equal(t, TopicContraception, e.DetectIntent("do condoms protect against hiv"))
		assert.Equal(t, TopicContraception, e.DetectIntent("hiv and condom"))
	})

	t.Run("Keywords are case-folded", func(t *testing.T) {
		assert.Equal(t, TopicContraception, e.DetectIntent("CONDOMS?"))
		assert.Equal(t, TopicSTI, e.DetectIntent("HIV"))
	})

	t.Run("Substring recall", func(t *testing.T) {
		assert.Equal(t, TopicSTI, e.DetectIntent("where is testing available"))
		assert.Equal(t, TopicPregnancy, e.DetectIntent("could I be pregnant"))
	})

	t.Run("Defaults to general", func(t *testing.T) {
		assert.Equal(t, TopicGeneral, e.DetectIntent("hello"))
		assert.Equal(t, TopicGeneral, e.DetectIntent(""))
	})
}

func TestEngine_ResolveContent(t *testing.T) {
	e := New(testTables())

	t.Run("Keyword selects topic", func(t *testing.T) {
		rc := e.ResolveContent(TopicContraception, AgeYoungAdult, "where can I get condoms")
		assert.Equal(t, "condoms", rc.TopicID)
		assert.Equal(t, "Condoms", rc.Title)
		assert.Equal(t, "condoms young adult", rc.Text)
		assert.Equal(t, []string{"WHO", "CDC"}, rc.Sources)
		assert.Equal(t, []string{"Contraception Basics", "Emergency Contraception", "The Pill"}, rc.RelatedTopics)
		assert.Empty(t, rc.Suggestions)
	})

	t.Run("No keyword match uses first topic", func(t *testing.T) {
		rc := e.ResolveContent(TopicContraception, AgeAdult, "tell me things")
		assert.Equal(t, "basics", rc.TopicID)
		assert.Equal(t, "basics adult", rc.Text)
		assert.Equal(t, []string{"Condoms", "Emergency Contraception", "The Pill"}, rc.RelatedTopics)
	})

	t.Run("Missing bracket falls back to 18-25 verbatim", func(t *testing.T) {
		rc := e.ResolveContent(TopicContraception, AgeTeen, "condom")
		assert.Equal(t, "condoms young adult", rc.Text)
	})

	t.Run("Single topic category has no related topics", func(t *testing.T) {
		rc := e.ResolveContent(TopicSTI, AgeYoungAdult, "hiv")
		assert.Equal(t, "HIV", rc.Title)
		assert.Empty(t, rc.RelatedTopics)
	})

	t.Run("Unknown category returns fallback with four suggestions", func(t *testing.T) {
		rc := e.ResolveContent(TopicPregnancy, AgeYoungAdult, "pregnant")
		assert.Equal(t, "unknown category", rc.Text)
		assert.Len(t, rc.Suggestions, 4)
		assert.Empty(t, rc.Title)
	})

	t.Run("Empty category asks for more details", func(t *testing.T) {
		rc := e.ResolveContent(TopicConsent, AgeYoungAdult, "consent")
		assert.Equal(t, "need more details", rc.Text)
		assert.Equal(t, []string{"Tell me more", "Ask another question"}, rc.Suggestions)
	})

	t.Run("Returned slices do not alias the tables", func(t *testing.T) {
		rc := e.ResolveContent(TopicContraception, AgeYoungAdult, "condom")
		rc.Sources[0] = "changed"
		again := e.ResolveContent(TopicContraception, AgeYoungAdult, "condom")
		assert.Equal(t, "WHO", again.Sources[0])
	})
}

func TestEngine_ApplyPersonality(t *testing.T) {
	tables := testTables()

	t.Run("Output contains the original text for every personality", func(t *testing.T) {
		e := New(tables, WithRandom(NewSeededRandom(7)))
		inputs := []string{"Condoms help.", "", "  padded  ", "multi\nline"}
		for _, p := range append(Personalities, "unknown") {
			for _, in := range inputs {
				for i := 0; i < 20; i++ {
					out := e.ApplyPersonality(in, p)
					assert.Contains(t, out, in, "personality %s", p)
				}
			}
		}
	})

	t.Run("Decorations come from the profile", func(t *testing.T) {
		e := New(tables, WithRandom(fixedRandom(0)))
		assert.Equal(t, "Thank you. Body text. Regards.", e.ApplyPersonality("Body text.", PersonalityProfessional))
		assert.Equal(t, "Hey! Body text.", e.ApplyPersonality("Body text.", PersonalityCasual))
		assert.Equal(t, "Body text. You're not alone.", e.ApplyPersonality("Body text.", PersonalityEmpathetic))
	})

	t.Run("Trims whitespace left by empty decorations", func(t *testing.T) {
		e := New(tables, WithRandom(fixedRandom(0)))
		assert.Equal(t, "Body", e.ApplyPersonality("Body", PersonalityFriendly))
	})

	t.Run("Unknown personality falls back to friendly", func(t *testing.T) {
		e := New(tables, WithRandom(fixedRandom(1)))
		assert.Equal(t, "Great question! Body 😊", e.ApplyPersonality("Body", "pirate"))
		assert.Equal(t, "Great question! Body 😊", e.ApplyPersonality("Body", ""))
	})

	t.Run("Starts and ends with allowed decorations", func(t *testing.T) {
		e := New(tables)
		for i := 0; i < 50; i++ {
			out := e.ApplyPersonality("Body", PersonalityFriendly)
			assert.True(t, strings.HasPrefix(out, "Body") || strings.HasPrefix(out, "Great question! Body"), out)
			assert.True(t, strings.HasSuffix(out, "Body") || strings.HasSuffix(out, "Body 😊"), out)
		}
	})

	t.Run("Same seed renders the same sequence", func(t *testing.T) {
		a := New(tables, WithRandom(NewSeededRandom(42)))
		b := New(tables, WithRandom(NewSeededRandom(42)))
		for i := 0; i < 10; i++ {
			assert.Equal(t, a.ApplyPersonality("x", PersonalityFriendly), b.ApplyPersonality("x", PersonalityFriendly))
		}
	})
}

func TestEngine_GenerateFollowUpSuggestions(t *testing.T) {
	e := New(testTables())

	t.Run("Mental health override ignores intent", func(t *testing.T) {
		want := []string{"m1", "m2", "m3", "m4", "m5"}
		for _, topic := range append(Topics, "bogus") {
			assert.Equal(t, want, e.GenerateFollowUpSuggestions(topic, HelpMentalHealth))
		}
	})

	t.Run("Per-topic list", func(t *testing.T) {
		assert.Equal(t, []string{"s1", "s2", "s3", "s4"}, e.GenerateFollowUpSuggestions(TopicSTI, HelpNone))
	})

	t.Run("Other override categories are ignored", func(t *testing.T) {
		assert.Equal(t, []string{"s1", "s2", "s3", "s4"}, e.GenerateFollowUpSuggestions(TopicSTI, HelpPhysical))
	})

	t.Run("Unknown intent gets the general list", func(t *testing.T) {
		assert.Equal(t, []string{"g1", "g2", "g3", "g4"}, e.GenerateFollowUpSuggestions("bogus", HelpNone))
		assert.Equal(t, []string{"g1", "g2", "g3", "g4"}, e.GenerateFollowUpSuggestions(TopicConsent, HelpNone))
	})

	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, e.GenerateFollowUpSuggestions(TopicContraception, HelpNone), e.GenerateFollowUpSuggestions(TopicContraception, HelpNone))
	})
}

func TestEngine_GenerateResponse(t *testing.T) {
	tables := testTables()

	t.Run("Crisis never reaches classifier or resolver", func(t *testing.T) {
		classifier := new(mockClassifier)
		resolver := new(mockResolver)
		e := New(tables, WithClassifier(classifier), WithResolver(resolver))

		resp := e.GenerateResponse("I want to kill myself", UserProfile{})

		assert.Equal(t, ResponseCrisis, resp.Type)
		assert.Equal(t, SeverityHigh, resp.Severity)
		assert.True(t, resp.ShowEmergencyHotlines)
		assert.Equal(t, "crisis high copy", resp.Message)
		assert.Empty(t, resp.Suggestions)
		classifier.AssertNotCalled(t, "DetectIntent", mock.Anything)
		resolver.AssertNotCalled(t, "ResolveContent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Tier2 crisis takes precedence over help", func(t *testing.T) {
		resp := New(tables).GenerateResponse("I feel anxious and hopeless, where can I get help", UserProfile{})
		assert.Equal(t, ResponseCrisis, resp.Type)
		assert.Equal(t, SeverityMedium, resp.Severity)
		assert.Equal(t, "crisis medium copy", resp.Message)
	})

	t.Run("Facility recommendation classifies but never resolves", func(t *testing.T) {
		classifier := new(mockClassifier)
		resolver := new(mockResolver)
		classifier.On("DetectIntent", "I am anxious, I need help").Return(TopicMentalHealth).Once()
		e := New(tables, WithClassifier(classifier), WithResolver(resolver), WithRandom(fixedRandom(0)))

		resp := e.GenerateResponse("I am anxious, I need help", UserProfile{})

		assert.Equal(t, ResponseFacilityRecommendation, resp.Type)
		assert.Equal(t, HelpMentalHealth, resp.Category)
		assert.Equal(t, "facility mental", resp.Message)
		assert.True(t, resp.ShowFacilityFinder)
		assert.Equal(t, TopicMentalHealth, resp.Intent)
		assert.Equal(t, []string{"m1", "m2", "m3", "m4", "m5"}, resp.Suggestions)
		classifier.AssertExpectations(t)
		resolver.AssertNotCalled(t, "ResolveContent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Physical facility recommendation uses intent suggestions", func(t *testing.T) {
		e := New(tables, WithRandom(fixedRandom(0)))
		resp := e.GenerateResponse("bleeding after birth control", UserProfile{Personality: PersonalityProfessional})
		assert.Equal(t, ResponseFacilityRecommendation, resp.Type)
		assert.Equal(t, HelpPhysical, resp.Category)
		assert.Equal(t, "Thank you. facility physical Regards.", resp.Message)
		assert.Equal(t, TopicContraception, resp.Intent)
		assert.Equal(t, []string{"c1", "c2", "c3", "c4"}, resp.Suggestions)
	})

	t.Run("Normal path", func(t *testing.T) {
		e := New(tables, WithRandom(fixedRandom(0)))
		resp := e.GenerateResponse("where can I get condoms", UserProfile{AgeGroup: AgeYoungAdult})
		assert.Equal(t, ResponseNormal, resp.Type)
		assert.Equal(t, TopicContraception, resp.Intent)
		assert.Equal(t, "Condoms", resp.Title)
		assert.Contains(t, resp.Sources, "WHO")
		assert.Equal(t, "condoms young adult", resp.Response)
		assert.Equal(t, resp.Response, resp.Text())
		assert.Equal(t, []string{"c1", "c2", "c3", "c4"}, resp.Suggestions)
		assert.False(t, resp.ShowEmergencyHotlines)
		assert.False(t, resp.ShowFacilityFinder)
	})

	t.Run("Normal path passes the normalized age group", func(t *testing.T) {
		classifier := new(mockClassifier)
		resolver := new(mockResolver)
		classifier.On("DetectIntent", "tell me").Return(TopicSTI).Once()
		resolver.On("ResolveContent", TopicSTI, AgeYoungAdult, "tell me").Return(ResolvedContent{Text: "resolved"}).Once()
		e := New(tables, WithClassifier(classifier), WithResolver(resolver), WithRandom(fixedRandom(0)))

		resp := e.GenerateResponse("tell me", UserProfile{AgeGroup: "99+", Personality: "robot"})

		assert.Equal(t, "resolved", resp.Response)
		classifier.AssertExpectations(t)
		resolver.AssertExpectations(t)
	})

	t.Run("Fallback suggestions replace topic suggestions", func(t *testing.T) {
		resp := New(tables).GenerateResponse("is this consent?", UserProfile{})
		assert.Equal(t, ResponseNormal, resp.Type)
		assert.Equal(t, TopicConsent, resp.Intent)
		assert.Contains(t, resp.Response, "need more details")
		assert.Equal(t, []string{"Tell me more", "Ask another question"}, resp.Suggestions)
	})

	t.Run("Greeting", func(t *testing.T) {
		resp := New(tables).GenerateResponse("hello", UserProfile{})
		assert.Equal(t, ResponseNormal, resp.Type)
		assert.Equal(t, TopicGeneral, resp.Intent)
		assert.Equal(t, "Welcome", resp.Title)
		assert.Equal(t, []string{"g1", "g2", "g3", "g4"}, resp.Suggestions)
	})

	t.Run("Empty tables never panic", func(t *testing.T) {
		e := New(nil)
		require.NotPanics(t, func() {
			resp := e.GenerateResponse("anything at all", UserProfile{})
			assert.Equal(t, ResponseNormal, resp.Type)
			assert.Equal(t, TopicGeneral, resp.Intent)
		})
	})
}

func TestEngine_ConcurrentUse(t *testing.T) {
	e := New(testTables(), WithRandom(NewSeededRandom(1)))
	messages := []string{"I want to kill myself", "I need help", "condom", "hello", ""}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				msg := messages[(i+j)%len(messages)]
				resp := e.GenerateResponse(msg, UserProfile{})
				assert.NotEmpty(t, resp.Type)
			}
		}(i)
	}
	wg.Wait()
}
