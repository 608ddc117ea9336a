// Package domain defines the data model for automated essay assessment:
// submissions, prompt specifications, relevance and quality assessments,
// word-count results, rubric criteria, and the final score report.
//
// Every entity is created and consumed within a single scoring invocation.
// Nothing here owns persistence or transport; adapters and the scoring
// pipeline compose these types and the pure numeric helpers they carry.
//
// Scoring Model:
//   - Sub-criterion scores are normalized to [0, 100]
//   - Confidence values are normalized to [0, 1]
//   - The overall score is reported on both a 0-100 and a 0-10 scale
//   - The 0-10 score maps to a CEFR band via a monotonic step table
package domain

// CEFRLevel is a Common European Framework of Reference proficiency code.
type CEFRLevel string

// CEFR proficiency bands, lowest to highest. PreA1 covers output below
// the A1 floor.
const (
	LevelPreA1 CEFRLevel = "Pre-A1"
	LevelA1    CEFRLevel = "A1"
	LevelA2    CEFRLevel = "A2"
	LevelB1    CEFRLevel = "B1"
	LevelB2    CEFRLevel = "B2"
	LevelC1    CEFRLevel = "C1"
	LevelC2    CEFRLevel = "C2"
)

// TaskType classifies the kind of writing a prompt asks for.
type TaskType string

// Recognized task types. Descriptive doubles as the generic fallback when
// a prompt carries no recognizable task cue.
const (
	TaskNarrative     TaskType = "narrative"
	TaskArgumentative TaskType = "argumentative"
	TaskDescriptive   TaskType = "descriptive"
	TaskExpository    TaskType = "expository"
)

// TaskMeta is an optional caller-supplied hint attached to a submission.
// When present it overrides what the prompt analyzer can infer from text.
type TaskMeta struct {
	// Type is the declared task type; empty means "infer from prompt".
	Type TaskType `json:"type,omitempty"`

	// TargetWords is the declared word target; zero means "infer or default".
	TargetWords int `json:"target_words,omitempty"`
}

// Submission is the immutable input to one scoring request: the essay
// text, the prompt it responds to, and the writer's declared level.
type Submission struct {
	// Text is the raw essay text. May be empty; an empty essay
	// short-circuits to a floor report rather than an error.
	Text string `json:"text"`

	// Prompt is the task prompt the essay responds to.
	Prompt string `json:"prompt"`

	// Level is the writer's declared CEFR level, used to calibrate the
	// quality judgment.
	Level CEFRLevel `json:"level" validate:"required"`

	// TaskMeta optionally carries the caller's task-type and word-target
	// hints.
	TaskMeta *TaskMeta `json:"task_meta,omitempty"`
}

// Validate checks the submission against its structural constraints.
func (s *Submission) Validate() error { return validate.Struct(s) }

// WordCountBounds holds the minimum, target, and maximum word counts a
// prompt imposes. Minimum <= Target <= Maximum is enforced by the prompt
// analyzer at construction.
type WordCountBounds struct {
	Minimum int `json:"minimum" validate:"min=1"`
	Target  int `json:"target" validate:"min=1"`
	Maximum int `json:"maximum" validate:"min=1"`
}

// RequiredElement is a semantic slot a prompt asks the writer to cover.
type RequiredElement string

// Standard required-element slots detected by the prompt analyzer.
const (
	ElementWho   RequiredElement = "who"
	ElementWhat  RequiredElement = "what"
	ElementWhere RequiredElement = "where"
	ElementWhen  RequiredElement = "when"
	ElementWhy   RequiredElement = "why"
	ElementHow   RequiredElement = "how"
)

// PromptSpec is the structured requirement set derived from a prompt.
// It is produced once by the prompt analyzer and consumed read-only by
// every downstream component.
type PromptSpec struct {
	// TaskType classifies the requested writing task.
	TaskType TaskType `json:"task_type" validate:"required"`

	// Topic is the prompt's main topic as free text. Empty when the
	// prompt gives nothing to extract.
	Topic string `json:"topic"`

	// RequiredElements lists the semantic slots the prompt asks for.
	RequiredElements []RequiredElement `json:"required_elements,omitempty"`

	// Bounds holds the word-count constraints, falling back to the
	// configured defaults when the prompt states none.
	Bounds WordCountBounds `json:"bounds" validate:"required"`
}

// Validate checks the prompt spec against its structural constraints.
func (p *PromptSpec) Validate() error { return validate.Struct(p) }
