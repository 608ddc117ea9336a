// Package analyzer parses task prompts into structured requirement sets:
// task type, main topic, required semantic elements, and word-count
// bounds. Analysis never fails; absent information degrades to the
// configured defaults.
package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ahrav/go-essayscore/internal/domain"
)

// Fallback word-count bounds used when the prompt states no constraints.
const (
	DefaultMinimumWords = 150
	DefaultTargetWords  = 250
	DefaultMaximumWords = 300
)

// DefaultBounds returns the fallback word-count bounds.
func DefaultBounds() domain.WordCountBounds {
	return domain.WordCountBounds{
		Minimum: DefaultMinimumWords,
		Target:  DefaultTargetWords,
		Maximum: DefaultMaximumWords,
	}
}

// Cue words mapping prompt phrasing to task types. First match wins, in
// declaration order; descriptive is the fallback.
var taskCues = []struct {
	taskType domain.TaskType
	cues     []string
}{
	{domain.TaskArgumentative, []string{
		"argue", "argument", "opinion", "agree or disagree", "do you agree",
		"persuade", "convince", "to what extent", "discuss both",
	}},
	{domain.TaskNarrative, []string{
		"story", "narrate", "tell about a time", "write about a time",
		"describe an experience", "happened",
	}},
	{domain.TaskExpository, []string{
		"explain", "compare", "contrast", "causes", "effects", "process",
		"advantages and disadvantages",
	}},
	{domain.TaskDescriptive, []string{
		"describe", "description", "picture", "appearance",
	}},
}

// Word-count patterns, most specific first: explicit range, "at least",
// "at most"/"no more than", bare "in N words".
var (
	rangePattern   = regexp.MustCompile(`(\d+)\s*(?:-|–|to)\s*(\d+)\s+words`)
	minimumPattern = regexp.MustCompile(`at least\s+(\d+)\s+words|minimum(?: of)?\s+(\d+)\s+words`)
	maximumPattern = regexp.MustCompile(`(?:at most|no more than|maximum(?: of)?|up to)\s+(\d+)\s+words`)
	exactPattern   = regexp.MustCompile(`(?:in|about|around|approximately|write)\s+(\d+)\s+words`)
)

// elementCues maps question words in the prompt to required semantic slots.
var elementCues = map[string]domain.RequiredElement{
	"who":   domain.ElementWho,
	"what":  domain.ElementWhat,
	"where": domain.ElementWhere,
	"when":  domain.ElementWhen,
	"why":   domain.ElementWhy,
	"how":   domain.ElementHow,
}

// Analyzer derives a PromptSpec from prompt text. The zero value is not
// usable; construct with New.
type Analyzer struct {
	fallback domain.WordCountBounds
}

// New builds an analyzer with the given fallback bounds. Malformed
// fallbacks (non-positive or out of order) are replaced by the package
// defaults rather than rejected: the analyzer never fails.
func New(fallback domain.WordCountBounds) *Analyzer {
	if fallback.Minimum <= 0 || fallback.Target < fallback.Minimum || fallback.Maximum < fallback.Target {
		fallback = DefaultBounds()
	}
	return &Analyzer{fallback: fallback}
}

// Analyze parses the prompt into a structured requirement set. An empty
// or uninformative prompt yields the generic descriptive classification
// with fallback bounds. A caller-supplied hint overrides inference.
func (a *Analyzer) Analyze(prompt string, hint *domain.TaskMeta) domain.PromptSpec {
	lowered := strings.ToLower(prompt)

	spec := domain.PromptSpec{
		TaskType: a.taskType(lowered, hint),
		Topic:    extractTopic(prompt),
		Bounds:   a.bounds(lowered, hint),
	}
	spec.RequiredElements = requiredElements(lowered)
	return spec
}

func (a *Analyzer) taskType(lowered string, hint *domain.TaskMeta) domain.TaskType {
	if hint != nil && hint.Type != "" {
		return hint.Type
	}
	for _, group := range taskCues {
		for _, cue := range group.cues {
			if strings.Contains(lowered, cue) {
				return group.taskType
			}
		}
	}
	return domain.TaskDescriptive
}

func (a *Analyzer) bounds(lowered string, hint *domain.TaskMeta) domain.WordCountBounds {
	if hint != nil && hint.TargetWords > 0 {
		return boundsAroundTarget(hint.TargetWords)
	}

	if m := rangePattern.FindStringSubmatch(lowered); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if lo > 0 && hi >= lo {
			return domain.WordCountBounds{
				Minimum: lo,
				Target:  lo + (hi-lo)*2/3,
				Maximum: hi,
			}
		}
	}

	if m := minimumPattern.FindStringSubmatch(lowered); m != nil {
		minWords := firstSubmatchInt(m)
		if minWords > 0 {
			return domain.WordCountBounds{
				Minimum: minWords,
				Target:  minWords * 5 / 3,
				Maximum: minWords * 2,
			}
		}
	}

	if m := maximumPattern.FindStringSubmatch(lowered); m != nil {
		maxWords := firstSubmatchInt(m)
		if maxWords > 0 {
			return domain.WordCountBounds{
				Minimum: maxWords / 2,
				Target:  maxWords * 5 / 6,
				Maximum: maxWords,
			}
		}
	}

	if m := exactPattern.FindStringSubmatch(lowered); m != nil {
		target := firstSubmatchInt(m)
		if target > 0 {
			return boundsAroundTarget(target)
		}
	}

	return a.fallback
}

// boundsAroundTarget derives bounds from a single stated target:
// minimum 60% of target, maximum 120%.
func boundsAroundTarget(target int) domain.WordCountBounds {
	minWords := target * 3 / 5
	if minWords < 1 {
		minWords = 1
	}
	return domain.WordCountBounds{
		Minimum: minWords,
		Target:  target,
		Maximum: target * 6 / 5,
	}
}

func firstSubmatchInt(matches []string) int {
	for _, m := range matches[1:] {
		if m == "" {
			continue
		}
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return 0
}

func requiredElements(lowered string) []domain.RequiredElement {
	var elements []domain.RequiredElement
	seen := make(map[domain.RequiredElement]bool)
	for _, word := range strings.FieldsFunc(lowered, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	}) {
		if el, ok := elementCues[word]; ok && !seen[el] {
			seen[el] = true
			elements = append(elements, el)
		}
	}
	return elements
}

// extractTopic takes the first sentence of the prompt, preferring the
// clause after an "about" when one exists, as the free-text main topic.
func extractTopic(prompt string) string {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return ""
	}

	sentence := trimmed
	for _, sep := range []string{".", "?", "!", "\n"} {
		if idx := strings.Index(sentence, sep); idx > 0 {
			sentence = sentence[:idx]
		}
	}

	lowered := strings.ToLower(sentence)
	if idx := strings.Index(lowered, " about "); idx >= 0 {
		topic := strings.TrimSpace(sentence[idx+len(" about "):])
		if topic != "" {
			return topic
		}
	}
	return strings.TrimSpace(sentence)
}
