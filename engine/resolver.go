package engine

const maxRelatedTopics = 3

// ResolveContent picks the topic inside topic's category whose keywords match
// the query, falling back to the category's first topic, and returns its text
// for ageGroup. A bracket without text falls back to 18-25.
func (e *Engine) ResolveContent(topic Topic, ageGroup AgeGroup, query string) ResolvedContent {
	cat, ok := e.tables.Category(topic)
	if !ok {
		return ResolvedContent{
			Text:        e.tables.Copy.UnknownCategory,
			Suggestions: clone(e.tables.Copy.UnknownCategorySuggestions),
		}
	}
	if len(cat.Topics) == 0 {
		return ResolvedContent{
			Text:        e.tables.Copy.EmptyCategory,
			Suggestions: clone(e.tables.Copy.EmptyCategorySuggestions),
		}
	}

	text := fold(query)
	selected := 0
	for i, keys := range e.topicKeys[cat.ID] {
		if _, hit := firstMatch(text, keys); hit {
			selected = i
			break
		}
	}

	t := cat.Topics[selected]
	body, ok := bodyFor(t, ageGroup)
	if !ok {
		return ResolvedContent{
			Text:        e.tables.Copy.EmptyCategory,
			Suggestions: clone(e.tables.Copy.EmptyCategorySuggestions),
		}
	}

	var related []string
	for i, other := range cat.Topics {
		if len(related) == maxRelatedTopics {
			break
		}
		if i != selected {
			related = append(related, other.Title)
		}
	}

	return ResolvedContent{
		TopicID:       t.ID,
		Text:          body,
		Title:         t.Title,
		Sources:       clone(t.Sources),
		RelatedTopics: related,
	}
}

// bodyFor returns the text for age, then the 18-25 text, then the first
// bracket that has any text at all.
func bodyFor(t ContentTopic, age AgeGroup) (string, bool) {
	if body, ok := t.Content[age]; ok && body != "" {
		return body, true
	}
	if body, ok := t.Content[DefaultAgeGroup]; ok && body != "" {
		return body, true
	}
	for _, g := range AgeGroups {
		if body := t.Content[g]; body != "" {
			return body, true
		}
	}
	return "", false
}
