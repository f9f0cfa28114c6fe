package services

import (
	"fmt"
	"regexp"
	"strings"

	"flashpro-backend/internal/models"
)

// RenderSetExport produces the plain-text download for one set: a
// header block followed by each card numbered with its question and
// answer.
func RenderSetExport(set models.FlashcardSet) string {
	var b strings.Builder

	b.WriteString(set.Name)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Created: %s\n", set.CreatedAt))
	b.WriteString(fmt.Sprintf("Priority: %s\n", set.Priority))
	b.WriteString(fmt.Sprintf("Cards: %d\n\n", len(set.Cards)))

	for i, card := range set.Cards {
		b.WriteString(fmt.Sprintf("%d. Q: %s\nA: %s\n\n", i+1, card.Question, card.Answer))
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// ExportFilename derives a download filename from the set name with
// non-alphanumeric runs replaced.
func ExportFilename(name string) string {
	base := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	base = strings.Trim(base, "_")
	if base == "" {
		base = "flashcards"
	}
	return base + ".txt"
}
