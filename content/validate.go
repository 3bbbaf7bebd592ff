package content

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"srhbot/engine"
)

// ValidationError lists every problem found in a bundle.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("content invalid (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

type checker struct {
	problems []string
}

func (c *checker) addf(format string, args ...any) {
	c.problems = append(c.problems, fmt.Sprintf(format, args...))
}

func (c *checker) keywords(where string, list []string) {
	if len(list) == 0 {
		c.addf("%s: no keywords", where)
	}
	for i, k := range list {
		if strings.TrimSpace(k) == "" {
			c.addf("%s: keyword %d is blank", where, i)
		}
	}
}

// Validate checks the invariants the engine relies on: complete taxonomy
// coverage, 18-25 text on every topic, and at least one prefix and suffix
// option per personality.
func Validate(b *Bundle) error {
	c := &checker{}

	if b.Version == "" {
		c.addf("manifest: version missing")
	}

	c.keywords("crisis.tier1", b.Crisis.Tier1)
	c.keywords("crisis.tier2", b.Crisis.Tier2)
	c.keywords("help.general", b.Help.General)
	c.keywords("help.mentalHealth", b.Help.MentalHealth)
	c.keywords("help.physical", b.Help.Physical)

	validateIntents(c, b.Intents)
	validateCategories(c, b.Categories)
	validatePersonalities(c, b.Personalities)
	validateSuggestions(c, b.Suggestions)
	validateCopy(c, b.Copy)

	for i, h := range b.Hotlines {
		if h.Name == "" || h.Phone == "" {
			c.addf("hotlines[%d]: name and phone are required", i)
		}
	}

	if len(c.problems) > 0 {
		return &ValidationError{Problems: c.problems}
	}
	return nil
}

// Intent rules must follow the taxonomy priority order; general is implicit.
func validateIntents(c *checker, rules []engine.IntentRule) {
	last := -1
	seen := map[engine.Topic]bool{}
	for i, rule := range rules {
		where := fmt.Sprintf("intents[%d] (%s)", i, rule.Topic)
		rank := topicRank(rule.Topic)
		switch {
		case rank < 0:
			c.addf("%s: unknown topic", where)
			continue
		case rule.Topic == engine.TopicGeneral:
			c.addf("%s: general is the fallback and takes no rule", where)
			continue
		case seen[rule.Topic]:
			c.addf("%s: duplicate rule", where)
		case rank < last:
			c.addf("%s: out of priority order", where)
		}
		seen[rule.Topic] = true
		last = rank
		c.keywords(where, rule.Keywords)
	}
	for _, t := range engine.Topics {
		if t != engine.TopicGeneral && !seen[t] {
			c.addf("intents: no rule for %s", t)
		}
	}
}

func validateCategories(c *checker, cats []engine.ContentCategory) {
	seen := map[engine.Topic]bool{}
	topicIDs := map[string]bool{}
	for i, cat := range cats {
		where := fmt.Sprintf("categories[%d] (%s)", i, cat.ID)
		if !cat.ID.Valid() {
			c.addf("%s: unknown topic", where)
		}
		if seen[cat.ID] {
			c.addf("%s: duplicate category", where)
		}
		seen[cat.ID] = true
		if len(cat.Topics) == 0 {
			c.addf("%s: no topics", where)
		}
		for j, t := range cat.Topics {
			tw := fmt.Sprintf("%s.topics[%d] (%s)", where, j, t.ID)
			if t.ID == "" || t.Title == "" {
				c.addf("%s: id and title are required", tw)
			}
			if topicIDs[t.ID] {
				c.addf("%s: duplicate topic id", tw)
			}
			topicIDs[t.ID] = true
			if strings.TrimSpace(t.Content[engine.DefaultAgeGroup]) == "" {
				c.addf("%s: missing %s content", tw, engine.DefaultAgeGroup)
			}
			for _, age := range slices.Sorted(maps.Keys(t.Content)) {
				if !age.Valid() {
					c.addf("%s: unknown age group %q in content", tw, age)
				}
			}
			for _, age := range t.AgeGroups {
				if !age.Valid() {
					c.addf("%s: unknown age group %q", tw, age)
				}
			}
			for k, kw := range t.Keywords {
				if strings.TrimSpace(kw) == "" {
					c.addf("%s: keyword %d is blank", tw, k)
				}
			}
		}
	}
	for _, t := range engine.Topics {
		if !seen[t] {
			c.addf("categories: no category for %s", t)
		}
	}
}

func validatePersonalities(c *checker, profiles map[engine.PersonalityID]engine.PersonalityProfile) {
	for _, id := range slices.Sorted(maps.Keys(profiles)) {
		p := profiles[id]
		if !id.Valid() {
			c.addf("personalities.%s: unknown personality", id)
		}
		if len(p.Prefixes) == 0 {
			c.addf("personalities.%s: no prefix options", id)
		}
		if len(p.Suffixes) == 0 {
			c.addf("personalities.%s: no suffix options", id)
		}
	}
	for _, id := range engine.Personalities {
		if _, ok := profiles[id]; !ok {
			c.addf("personalities: %s missing", id)
		}
	}
}

func validateSuggestions(c *checker, s engine.SuggestionTable) {
	for _, t := range engine.Topics {
		if len(s.ByTopic[t]) == 0 {
			c.addf("suggestions.byTopic.%s: empty", t)
		}
	}
	for _, t := range slices.Sorted(maps.Keys(s.ByTopic)) {
		if !t.Valid() {
			c.addf("suggestions.byTopic.%s: unknown topic", t)
		}
	}
	if len(s.MentalHealth) == 0 {
		c.addf("suggestions.mentalHealth: empty")
	}
}

func validateCopy(c *checker, cp engine.Copy) {
	required := []struct{ key, value string }{
		{"crisisHigh", cp.CrisisHigh},
		{"crisisMedium", cp.CrisisMedium},
		{"unknownCategory", cp.UnknownCategory},
		{"emptyCategory", cp.EmptyCategory},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			c.addf("copy.%s: empty", r.key)
		}
	}
	for _, cat := range []engine.HelpCategory{engine.HelpMentalHealth, engine.HelpPhysical, engine.HelpGeneral} {
		if strings.TrimSpace(cp.Facility[cat]) == "" {
			c.addf("copy.facility.%s: empty", cat)
		}
	}
}

func topicRank(t engine.Topic) int {
	for i, known := range engine.Topics {
		if t == known {
			return i
		}
	}
	return -1
}
