package models

// Priority is the user-assigned urgency of a flashcard set.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Rank orders priorities for sorting: high > medium > low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Flashcard is one question/answer unit. IsRead tracks per-card study
// progress and always starts false on creation.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	IsRead   bool   `json:"isRead"`
}

// FlashcardSet is a named, persisted collection of cards.
//
// The set-level IsRead flag predates the per-card flags and is kept
// independent of them: toggling one never touches the other.
type FlashcardSet struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Cards     []Flashcard `json:"cards"`
	Priority  Priority    `json:"priority"`
	IsRead    bool        `json:"isRead"`
	CreatedAt string      `json:"createdAt"`
}
