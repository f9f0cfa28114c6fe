package models

// CreateSetRequest creates a set from caller-supplied cards.
type CreateSetRequest struct {
	Name     string      `json:"name"`
	Cards    []Flashcard `json:"cards"`
	Priority Priority    `json:"priority"`
	IsRead   bool        `json:"isRead"`
}

// UpdateSetRequest carries a partial update. Nil fields are left
// untouched; a non-nil Cards replaces the whole list.
type UpdateSetRequest struct {
	Name     *string      `json:"name"`
	Cards    *[]Flashcard `json:"cards"`
	Priority *Priority    `json:"priority"`
	IsRead   *bool        `json:"isRead"`
}

// GenerateSetRequest asks for AI generation from pasted text. File
// uploads arrive as multipart fields alongside name/priority.
type GenerateSetRequest struct {
	Name     string   `json:"name"`
	Text     string   `json:"text"`
	Priority Priority `json:"priority"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
