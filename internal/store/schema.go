package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	TopicsTable      = "topics"
	ConceptMapTable  = "concept_map"
	ConceptsTable    = "concepts"
	AttemptsTable    = "attempts"
	PromptsTable     = "prompts"
	SessionsTable    = "sessions"
	PassagesTable    = "passages"
	QuestionsTable   = "questions"
	WordsTable       = "words"
	LLMRequestsTable = "llm_requests"
)

var (
	topicsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "subject", Type: field.TypeString, Default: "grammar"},
		{Name: "grade_level", Type: field.TypeInt, Default: 5},
		{Name: "active", Type: field.TypeBool, Default: false},
		{Name: "last_seen_date", Type: field.TypeString, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	topicsTable = &schema.Table{
		Name:       TopicsTable,
		Columns:    topicsColumns,
		PrimaryKey: []*schema.Column{topicsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "topics_subject_active", Columns: []*schema.Column{topicsColumns[2], topicsColumns[4]}},
		},
	}

	conceptMapColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "subject", Type: field.TypeString},
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "topic", Type: field.TypeString},
		{Name: "question_focus", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	conceptMapTable = &schema.Table{
		Name:       ConceptMapTable,
		Columns:    conceptMapColumns,
		PrimaryKey: []*schema.Column{conceptMapColumns[0]},
		Indexes: []*schema.Index{
			{Name: "concept_map_subject_topic", Unique: true, Columns: []*schema.Column{conceptMapColumns[1], conceptMapColumns[3]}},
		},
	}

	conceptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "date_start", Type: field.TypeString},
		{Name: "date_end", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString},
		{Name: "type", Type: field.TypeString, Default: "other"},
		{Name: "notes", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	conceptsTable = &schema.Table{
		Name:       ConceptsTable,
		Columns:    conceptsColumns,
		PrimaryKey: []*schema.Column{conceptsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "concepts_date_start", Columns: []*schema.Column{conceptsColumns[1]}},
		},
	}

	attemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "run_id", Type: field.TypeString},
		{Name: "sentence", Type: field.TypeString, Size: 2147483647},
		{Name: "topic", Type: field.TypeString},
		{Name: "prompt", Type: field.TypeString, Size: 2147483647},
		{Name: "chosen", Type: field.TypeString},
		{Name: "answer", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool},
		{Name: "created_at", Type: field.TypeTime},
	}
	attemptsTable = &schema.Table{
		Name:       AttemptsTable,
		Columns:    attemptsColumns,
		PrimaryKey: []*schema.Column{attemptsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "attempts_topic", Columns: []*schema.Column{attemptsColumns[3]}},
			{Name: "attempts_run_id", Columns: []*schema.Column{attemptsColumns[1]}},
		},
	}

	promptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "subject", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString},
		{Name: "sentence", Type: field.TypeString, Size: 2147483647},
		{Name: "prompt", Type: field.TypeString, Size: 2147483647},
		{Name: "options", Type: field.TypeString, Size: 2147483647},
		{Name: "answer", Type: field.TypeString},
		{Name: "source", Type: field.TypeString, Default: "llm"},
		{Name: "created_at", Type: field.TypeTime},
	}
	promptsTable = &schema.Table{
		Name:       PromptsTable,
		Columns:    promptsColumns,
		PrimaryKey: []*schema.Column{promptsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "prompts_subject_topic", Columns: []*schema.Column{promptsColumns[1], promptsColumns[2]}},
		},
	}

	sessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "topic", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	sessionsTable = &schema.Table{
		Name:       SessionsTable,
		Columns:    sessionsColumns,
		PrimaryKey: []*schema.Column{sessionsColumns[0]},
	}

	passagesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "original_text", Type: field.TypeString, Size: 2147483647},
		{Name: "simplified_text", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "summary", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeInt, Nullable: true},
	}
	passagesTable = &schema.Table{
		Name:       PassagesTable,
		Columns:    passagesColumns,
		PrimaryKey: []*schema.Column{passagesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "passages_sessions_passages",
				Columns:    []*schema.Column{passagesColumns[5]},
				RefColumns: []*schema.Column{sessionsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
	}

	questionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "question_text", Type: field.TypeString, Size: 2147483647},
		{Name: "passage_id", Type: field.TypeInt},
	}
	questionsTable = &schema.Table{
		Name:       QuestionsTable,
		Columns:    questionsColumns,
		PrimaryKey: []*schema.Column{questionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "questions_passages_questions",
				Columns:    []*schema.Column{questionsColumns[2]},
				RefColumns: []*schema.Column{passagesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	wordsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "word", Type: field.TypeString},
		{Name: "explanation", Type: field.TypeString, Size: 2147483647},
		{Name: "passage_id", Type: field.TypeInt},
	}
	wordsTable = &schema.Table{
		Name:       WordsTable,
		Columns:    wordsColumns,
		PrimaryKey: []*schema.Column{wordsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "words_passages_words",
				Columns:    []*schema.Column{wordsColumns[3]},
				RefColumns: []*schema.Column{passagesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	llmRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	llmRequestsTable = &schema.Table{
		Name:       LLMRequestsTable,
		Columns:    llmRequestsColumns,
		PrimaryKey: []*schema.Column{llmRequestsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llm_requests_purpose", Columns: []*schema.Column{llmRequestsColumns[3]}},
		},
	}

	// tables lists every table in creation order.
	tables = []*schema.Table{
		topicsTable,
		conceptMapTable,
		conceptsTable,
		attemptsTable,
		promptsTable,
		sessionsTable,
		passagesTable,
		questionsTable,
		wordsTable,
		llmRequestsTable,
	}
)

func init() {
	passagesTable.ForeignKeys[0].RefTable = sessionsTable
	questionsTable.ForeignKeys[0].RefTable = passagesTable
	wordsTable.ForeignKeys[0].RefTable = passagesTable
}
