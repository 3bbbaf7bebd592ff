package engine

import (
	"math/rand/v2"
	"strings"
	"sync"
	"unicode"
)

// RandomSource picks decoration indexes. IntN must return a value in [0, n).
type RandomSource interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

type seededRandom struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededRandom returns a deterministic RandomSource that is safe for
// concurrent use.
func NewSeededRandom(seed uint64) RandomSource {
	return &seededRandom{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededRandom) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// Profile returns the tone profile for p, or the friendly profile when p is unknown.
func (e *Engine) Profile(p PersonalityID) (PersonalityProfile, bool) {
	if prof, ok := e.tables.Personalities[p]; ok {
		return prof, true
	}
	prof, ok := e.tables.Personalities[DefaultPersonality]
	return prof, ok
}

// ApplyPersonality decorates text with a randomly chosen prefix and suffix of
// the personality and trims the surrounding whitespace. When text itself has
// leading or trailing whitespace only the decorations are trimmed, so text
// always survives as a contiguous substring.
func (e *Engine) ApplyPersonality(text string, p PersonalityID) string {
	prof, ok := e.Profile(p)
	if !ok {
		return text
	}
	prefix, suffix := e.pick(prof.Prefixes), e.pick(prof.Suffixes)
	if strings.TrimSpace(text) == text {
		return strings.TrimSpace(prefix + text + suffix)
	}
	return strings.TrimLeftFunc(prefix, unicode.IsSpace) + text + strings.TrimRightFunc(suffix, unicode.IsSpace)
}

func (e *Engine) pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	i := e.random.IntN(len(options))
	if i < 0 || i >= len(options) {
		i = 0
	}
	return options[i]
}
