package engine

// Tables holds every static table the engine reads. A Tables value is built once
// (normally by the content package from YAML) and never mutated afterwards.
type Tables struct {
	Version       string                               `yaml:"version" json:"version"`
	Crisis        CrisisKeywords                       `yaml:"crisis" json:"crisis"`
	Help          HelpKeywords                         `yaml:"help" json:"help"`
	Intents       []IntentRule                         `yaml:"intents" json:"intents"`
	Categories    []ContentCategory                    `yaml:"categories" json:"categories"`
	Personalities map[PersonalityID]PersonalityProfile `yaml:"personalities" json:"personalities"`
	Suggestions   SuggestionTable                      `yaml:"suggestions" json:"suggestions"`
	Copy          Copy                                 `yaml:"copy" json:"copy"`
}

// CrisisKeywords are the two severity tiers. Tier1 always dominates Tier2.
type CrisisKeywords struct {
	Tier1 []string `yaml:"tier1" json:"tier1"`
	Tier2 []string `yaml:"tier2" json:"tier2"`
}

// HelpKeywords are scanned as one union in the order General, MentalHealth, Physical.
type HelpKeywords struct {
	General      []string `yaml:"general" json:"general"`
	MentalHealth []string `yaml:"mentalHealth" json:"mentalHealth"`
	Physical     []string `yaml:"physical" json:"physical"`
}

// IntentRule maps a taxonomy key to its trigger keywords. Rules are evaluated in
// list order and the first rule with a match wins.
type IntentRule struct {
	Topic    Topic    `yaml:"topic" json:"topic"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// ContentCategory groups the answerable topics of one taxonomy key. The first
// topic is the overview returned when no topic keyword matches.
type ContentCategory struct {
	ID       Topic          `yaml:"id" json:"id"`
	Category string         `yaml:"category" json:"category"`
	Topics   []ContentTopic `yaml:"topics" json:"topics"`
}

// ContentTopic is one answerable subject with age-stratified body text.
type ContentTopic struct {
	ID        string              `yaml:"id" json:"id"`
	Title     string              `yaml:"title" json:"title"`
	AgeGroups []AgeGroup          `yaml:"ageGroups" json:"ageGroups"`
	Content   map[AgeGroup]string `yaml:"content" json:"content"`
	Sources   []string            `yaml:"sources" json:"sources"`
	Keywords  []string            `yaml:"keywords" json:"keywords"`
}

// PersonalityProfile is a tone profile. Both option lists must be non-empty;
// an empty string is a valid option.
type PersonalityProfile struct {
	Prefixes []string `yaml:"prefixes" json:"prefixes"`
	Suffixes []string `yaml:"suffixes" json:"suffixes"`
	UseEmoji bool     `yaml:"useEmoji" json:"useEmoji"`
}

// SuggestionTable holds the follow-up suggestion lists.
type SuggestionTable struct {
	ByTopic      map[Topic][]string `yaml:"byTopic" json:"byTopic"`
	MentalHealth []string           `yaml:"mentalHealth" json:"mentalHealth"`
}

// Copy is the fixed response text used outside of topic content.
type Copy struct {
	CrisisHigh                 string                  `yaml:"crisisHigh" json:"crisisHigh"`
	CrisisMedium               string                  `yaml:"crisisMedium" json:"crisisMedium"`
	Facility                   map[HelpCategory]string `yaml:"facility" json:"facility"`
	UnknownCategory            string                  `yaml:"unknownCategory" json:"unknownCategory"`
	UnknownCategorySuggestions []string                `yaml:"unknownCategorySuggestions" json:"unknownCategorySuggestions"`
	EmptyCategory              string                  `yaml:"emptyCategory" json:"emptyCategory"`
	EmptyCategorySuggestions   []string                `yaml:"emptyCategorySuggestions" json:"emptyCategorySuggestions"`
}

// Category returns the category registered for topic, if any.
func (t *Tables) Category(topic Topic) (*ContentCategory, bool) {
	for i := range t.Categories {
		if t.Categories[i].ID == topic {
			return &t.Categories[i], true
		}
	}
	return nil, false
}

// TopicCount returns the number of content topics across all categories.
func (t *Tables) TopicCount() int {
	n := 0
	for _, c := range t.Categories {
		n += len(c.Topics)
	}
	return n
}
