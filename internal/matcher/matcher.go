// Package matcher decides how a normalized question is answered: by a curated
// knowledge entry, by the generic app guide, or by the generative backend.
package matcher

import (
	"strings"

	"github.com/antoniostano/simhelper/internal/knowledge"
)

// Kind tags a classification result.
type Kind string

const (
	// KindNone is returned by a strategy that does not apply; the chain moves on.
	KindNone       Kind = ""
	KindKnowledge  Kind = "knowledge"
	KindFallback   Kind = "fallback"
	KindGenerative Kind = "generative"
)

// Result is the outcome of classifying one input. Answer is set for
// KindKnowledge and KindFallback. Strategy names the chain step that
// decided; it is empty when nothing applied.
type Result struct {
	Kind     Kind
	Question string
	Answer   string
	Score    float64
	Strategy string
}

const DefaultThreshold = 0.6

// DefaultKeywords mark a query as app-related.
var DefaultKeywords = []string{"app", "simhealth", "report", "result", "upload", "dashboard"}

// Strategy is one step of the classification chain. It always returns a
// Result; KindNone means "not mine".
type Strategy interface {
	Name() string
	Apply(normalized string) Result
}

// Options tunes the default chain.
type Options struct {
	Threshold float64
	Keywords  []string
}

// Matcher runs its strategies in fixed order. It holds no mutable state and
// is safe for concurrent use.
type Matcher struct {
	chain []Strategy
}

// New builds the fuzzy -> keyword -> generative chain over kb.
func New(kb *knowledge.Base, opts Options) *Matcher {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Keywords == nil {
		opts.Keywords = DefaultKeywords
	}
	return NewChain(
		NewFuzzyStrategy(kb, opts.Threshold),
		NewKeywordStrategy(opts.Keywords, kb.DefaultGuide()),
	)
}

// NewChain builds a matcher from explicit strategies. Anything left
// unclassified is KindGenerative.
func NewChain(strategies ...Strategy) *Matcher {
	return &Matcher{chain: strategies}
}

// Classify returns the first applicable result.
func (m *Matcher) Classify(normalized string) Result {
	for _, s := range m.chain {
		if r := s.Apply(normalized); r.Kind != KindNone {
			r.Strategy = s.Name()
			return r
		}
	}
	return Result{Kind: KindGenerative}
}

// FuzzyStrategy accepts the closest knowledge question scoring at or above
// the threshold. Equal scores keep the earliest declared question.
type FuzzyStrategy struct {
	kb        *knowledge.Base
	keys      []string
	threshold float64
}

func NewFuzzyStrategy(kb *knowledge.Base, threshold float64) *FuzzyStrategy {
	return &FuzzyStrategy{kb: kb, keys: kb.Keys(), threshold: threshold}
}

func (s *FuzzyStrategy) Name() string { return "fuzzy" }

func (s *FuzzyStrategy) Apply(normalized string) Result {
	if normalized == "" {
		return Result{}
	}
	best, bestScore := "", -1.0
	sm := newSequenceMatcher("", normalized)
	for _, key := range s.keys {
		sm.SetSeq1(splitRunes(key))
		if sm.RealQuickRatio() < s.threshold || sm.QuickRatio() < s.threshold {
			continue
		}
		score := sm.Ratio()
		if score >= s.threshold && score > bestScore {
			best, bestScore = key, score
		}
	}
	if best == "" {
		return Result{}
	}
	answer, _ := s.kb.Get(best)
	return Result{Kind: KindKnowledge, Question: best, Answer: answer, Score: bestScore}
}

// KeywordStrategy routes app-related queries to the generic guide.
type KeywordStrategy struct {
	keywords []string
	guide    string
}

func NewKeywordStrategy(keywords []string, guide string) *KeywordStrategy {
	kw := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = knowledge.Normalize(k); k != "" {
			kw = append(kw, k)
		}
	}
	return &KeywordStrategy{keywords: kw, guide: guide}
}

func (s *KeywordStrategy) Name() string { return "keyword" }

// Apply uses substring containment, so "reports" and "happy" both hit.
func (s *KeywordStrategy) Apply(normalized string) Result {
	for _, k := range s.keywords {
		if strings.Contains(normalized, k) {
			return Result{Kind: KindFallback, Answer: s.guide}
		}
	}
	return Result{}
}
