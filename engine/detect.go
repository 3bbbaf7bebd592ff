package engine

// DetectCrisis scans the message against tier1 first and tier2 second, so a
// tier1 keyword anywhere in the text always yields high severity.
func (e *Engine) DetectCrisis(message string) CrisisResult {
	text := fold(message)
	if k, ok := firstMatch(text, e.tier1); ok {
		return CrisisResult{IsCrisis: true, Severity: SeverityHigh, MatchedKeyword: k}
	}
	if k, ok := firstMatch(text, e.tier2); ok {
		return CrisisResult{IsCrisis: true, Severity: SeverityMedium, MatchedKeyword: k}
	}
	return CrisisResult{Severity: SeverityNone}
}

// DetectNeedForHelp matches the message against the union of the help keyword
// sets, then attributes the category by set membership of the whole message:
// mental health first, then physical, else general. The category therefore
// does not depend on which keyword triggered the match.
func (e *Engine) DetectNeedForHelp(message string) HelpResult {
	text := fold(message)
	k, ok := firstMatch(text, e.helpUnion)
	if !ok {
		return HelpResult{Category: HelpNone}
	}

	category := HelpGeneral
	if _, mental := firstMatch(text, e.helpMental); mental {
		category = HelpMentalHealth
	} else if _, physical := firstMatch(text, e.helpPhysical); physical {
		category = HelpPhysical
	}
	return HelpResult{NeedsHelp: true, Category: category, MatchedKeyword: k}
}

// DetectIntent returns the topic of the first intent rule with a keyword
// contained in the message. Rule order is the tie-break for ambiguous input.
func (e *Engine) DetectIntent(message string) Topic {
	text := fold(message)
	for _, rule := range e.intents {
		if _, ok := firstMatch(text, rule.Keywords); ok {
			return rule.Topic
		}
	}
	return TopicGeneral
}
