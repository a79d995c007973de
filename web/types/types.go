package types

import (
	"time"

	"github.com/google/uuid"
)

// WordRow is one normalized row of the master vocabulary CSV.
type WordRow struct {
	Word     string   `json:"word"`
	POS      string   `json:"pos"`
	KoDef    string   `json:"ko_def"`
	EnDef    string   `json:"en_def"`
	Example  string   `json:"example"`
	Synonyms []string `json:"synonyms"`
	CEFR     string   `json:"cefr"`
}

// ImportStats summarizes a CSV import run.
type ImportStats struct {
	Created int `json:"created"`
	Errors  int `json:"errors"`
	Skipped int `json:"skipped"`
}

// Quiz question kinds.
const (
	QuizDefinition = "definition"
	QuizSynonym    = "synonym"
	QuizCloze      = "cloze"
)

// QuizItem is a multiple choice question.
type QuizItem struct {
	Type     string   `json:"type"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
	WordID   string   `json:"wordId"`
}

// QuizSubmission is the body posted after answering a question.
type QuizSubmission struct {
	WordID    string `json:"wordId" binding:"required"`
	IsCorrect *bool  `json:"isCorrect" binding:"required"`
}

// Attempt is one answered question as stored in the attempt log.
type Attempt struct {
	ID        uuid.UUID `json:"id"`
	LearnerID string    `json:"learner_id"`
	WordID    string    `json:"word_id"`
	QuizType  string    `json:"quiz_type"`
	Options   []string  `json:"options,omitempty"`
	IsCorrect bool      `json:"is_correct"`
	CreatedAt time.Time `json:"created_at"`
}

// LearnerProgress summarizes a learner's attempts.
type LearnerProgress struct {
	LearnerID   string   `json:"learner_id"`
	Total       int      `json:"total"`
	Correct     int      `json:"correct"`
	Accuracy    float64  `json:"accuracy"`
	RecentWords []string `json:"recent_words"`
}

// TutorContext is what the graph store knows about a word a learner struggles with.
type TutorContext struct {
	Word       string   `json:"word"`
	Definition string   `json:"definition"`
	Related    []string `json:"related"`
}

// Explanation is the tutor's structured answer.
type Explanation struct {
	Word            string `json:"word,omitempty"`
	Explanation     string `json:"explanation,omitempty"`
	ExplanationHTML string `json:"explanation_html,omitempty"`
	Mnemonic        string `json:"mnemonic,omitempty"`
	Sentence        string `json:"sentence,omitempty"`
	Message         string `json:"message,omitempty"`
	Error           string `json:"error,omitempty"`
}
