package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match when set
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// Topic is one row of the topics table: a teachable topic and whether it
// is currently in the practice rotation.
type Topic struct {
	ID           int
	Name         string
	Subject      string
	GradeLevel   int
	Active       bool
	LastSeenDate string // YYYY-MM-DD, empty when never seen
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TopicFilter narrows TopicRepo.List.
type TopicFilter struct {
	Subject    string
	ActiveOnly bool
}

// TopicRepo manages the topics table.
type TopicRepo interface {
	// Upsert inserts the topic or updates the existing row with the same name.
	Upsert(ctx context.Context, t Topic) error
	List(ctx context.Context, f TopicFilter) ([]Topic, error)
	// Get returns ErrNotFound when no topic has that name.
	Get(ctx context.Context, name string) (*Topic, error)
	SetActive(ctx context.Context, name string, active bool) error
}

// ConceptMapEntry is one row of concept_map.
type ConceptMapEntry struct {
	ID            int
	Subject       string
	Category      string
	Topic         string
	QuestionFocus string
}

// JoinedConcept is the result of the join lookup: a concept-map row
// enriched with the grade from topics and the notes from concepts.
type JoinedConcept struct {
	ConceptMapEntry
	GradeLevel int
	Notes      string
}

// ConceptMapRepo manages concept_map and serves the resolver lookups.
// Variants passed to the Lookup methods must already be lowercased.
type ConceptMapRepo interface {
	Upsert(ctx context.Context, e ConceptMapEntry) error
	List(ctx context.Context, subject string) ([]ConceptMapEntry, error)

	// LookupExact matches LOWER(topic) against the variants.
	LookupExact(ctx context.Context, subject string, variants []string) (*ConceptMapEntry, error)
	// LookupFuzzy matches LOWER(topic) LIKE %variant% for any variant.
	LookupFuzzy(ctx context.Context, subject string, variants []string) (*ConceptMapEntry, error)
	// LookupJoined joins concept_map with topics and concepts.
	LookupJoined(ctx context.Context, subject string, variants []string) (*JoinedConcept, error)
}

// Concept types offered by the admin surface.
var ConceptTypes = []string{"vocab", "grammar", "reading", "math", "science", "other"}

// Concept is a weekly concept taught at school, entered by hand or from a newsletter.
type Concept struct {
	ID        int
	DateStart string // YYYY-MM-DD
	DateEnd   string // YYYY-MM-DD
	Subject   string
	Topic     string
	Type      string
	Notes     string
	CreatedAt time.Time
}

// ConceptRepo manages the concepts table.
type ConceptRepo interface {
	// Add stores c as given; an empty DateEnd stays empty.
	Add(ctx context.Context, c Concept) (int, error)
	// Exists reports whether a concept with this start date, subject and
	// topic is already logged.
	Exists(ctx context.Context, dateStart, subject, topic string) (bool, error)
	// Recent returns the newest concepts by date_start.
	Recent(ctx context.Context, limit int) ([]Concept, error)
	Delete(ctx context.Context, id int) error
	// ListRange returns concepts whose date_start falls in [from, to].
	// Empty bounds are open.
	ListRange(ctx context.Context, from, to string) ([]Concept, error)
}

// Attempt is one answered practice question.
type Attempt struct {
	ID        int
	RunID     string
	Sentence  string
	Topic     string
	Prompt    string
	Chosen    string
	Answer    string
	Correct   bool
	CreatedAt time.Time
}

// AttemptStats aggregates attempts for one topic.
type AttemptStats struct {
	Topic   string
	Total   int
	Correct int
}

// AttemptRepo manages the attempts table.
type AttemptRepo interface {
	Log(ctx context.Context, a Attempt) error
	Recent(ctx context.Context, limit int) ([]Attempt, error)
	// Stats returns per-topic totals; an empty topic returns every topic.
	Stats(ctx context.Context, topic string) ([]AttemptStats, error)
}

// ServedPrompt is a grammar question that was shown to the student.
type ServedPrompt struct {
	ID        int
	Subject   string
	Topic     string
	Sentence  string
	Prompt    string
	Options   []string
	Answer    string
	Source    string // "llm" or "fallback"
	CreatedAt time.Time
}

// PromptRepo manages the prompts table.
type PromptRepo interface {
	Record(ctx context.Context, p ServedPrompt) error
	// Recent returns the newest served prompts for subject/topic, newest
	// first, with only Sentence and Prompt loaded.
	Recent(ctx context.Context, subject, topic string, limit int) ([]ServedPrompt, error)
}

// Session groups the passages studied together.
type Session struct {
	ID        int
	Topic     string
	CreatedAt time.Time
	Passages  []Passage
}

// Passage is a reading passage and what was derived from it.
type Passage struct {
	ID             int
	SessionID      int // 0 when the passage is not attached to a session
	OriginalText   string
	SimplifiedText string
	Summary        string
	CreatedAt      time.Time
	Questions      []string
	Words          []Word
}

// Word is a vocabulary explanation attached to a passage.
type Word struct {
	Word        string
	Explanation string
}

// HistoryRepo manages sessions, passages, questions and words.
type HistoryRepo interface {
	// CreateSession stores a session; an empty topic becomes "Untitled".
	CreateSession(ctx context.Context, topic string) (int, error)
	// AddPassage stores a passage; sessionID 0 leaves it unattached.
	AddPassage(ctx context.Context, sessionID int, original, simplified string) (int, error)
	SetSimplified(ctx context.Context, passageID int, simplified string) error
	SetSummary(ctx context.Context, passageID int, summary string) error
	AddQuestions(ctx context.Context, passageID int, questions []string) error
	AddWord(ctx context.Context, passageID int, word, explanation string) error
	// LatestPassage returns ErrNotFound when no passage exists.
	LatestPassage(ctx context.Context) (*Passage, error)
	// ListSessions returns sessions newest first, without passages.
	ListSessions(ctx context.Context) ([]Session, error)
	// GetSession returns the session with its passages, questions and words.
	GetSession(ctx context.Context, id int) (*Session, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// UsageStat aggregates LLM usage by purpose or model.
type UsageStat struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)
	// GetLLMEvent returns nil when no event has that id.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]UsageStat, error)
	LLMUsageByModel(ctx context.Context) ([]UsageStat, error)
}
