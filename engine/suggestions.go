package engine

// GenerateFollowUpSuggestions returns the follow-up list for intent. The
// mental health override wins over any intent; an unknown intent gets the
// general list. The returned slice is a copy.
func (e *Engine) GenerateFollowUpSuggestions(intent Topic, override HelpCategory) []string {
	if override == HelpMentalHealth {
		return clone(e.tables.Suggestions.MentalHealth)
	}
	if list, ok := e.tables.Suggestions.ByTopic[intent]; ok {
		return clone(list)
	}
	return clone(e.tables.Suggestions.ByTopic[TopicGeneral])
}

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
