package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"google.golang.org/api/option"

	"flashpro-backend/internal/models"
)

// Fixed sampling configuration for every generation call.
const (
	geminiModelName       = "gemini-3-flash-preview"
	geminiTemperature     = 0.3
	geminiTopP            = 0.95
	geminiMaxOutputTokens = 2048

	minGeneratedCards = 5
	maxGeneratedCards = 10
)

// GeminiService turns a body of text into question/answer pairs via
// the Gemini API. It never touches the store; callers decide what to
// do with the generated cards.
type GeminiService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiService builds the client. An empty apiKey is not an error
// here: the service comes up in unconfigured mode and every generation
// call fails with a ConfigError before any network attempt.
func NewGeminiService(ctx context.Context, apiKey string) (*GeminiService, error) {
	s := &GeminiService{}
	if apiKey == "" {
		return s, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(geminiModelName)
	model.SetTemperature(geminiTemperature)
	model.SetTopP(geminiTopP)
	model.SetMaxOutputTokens(geminiMaxOutputTokens)

	s.client = client
	s.model = model
	return s, nil
}

func (s *GeminiService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *GeminiService) Configured() bool {
	return s.model != nil
}

// GenerateCards prompts the model once and parses the reply. There are
// no retries; a failed attempt surfaces directly to the caller.
func (s *GeminiService) GenerateCards(ctx context.Context, content string) ([]models.Flashcard, error) {
	if s.model == nil {
		return nil, &ConfigError{Message: "Gemini API key is not configured. Set GEMINI_API_KEY to enable generation."}
	}

	prompt := buildCardPrompt(content)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &GenerationError{Message: fmt.Sprintf("Gemini API error: %v", err)}
	}

	cards := parseCards(extractText(resp))
	if len(cards) == 0 {
		return nil, &GenerationError{Message: "no flashcards could be generated from the provided content"}
	}
	return cards, nil
}

func buildCardPrompt(content string) string {
	var b strings.Builder

	b.WriteString("You are an expert flashcard creator. Create flashcards from the content below.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON array. No preamble, no markdown, no backticks.\n\n")
	b.WriteString(fmt.Sprintf("Generate between %d and %d flashcards with clear questions and concise answers.\n", minGeneratedCards, maxGeneratedCards))

	b.WriteString(`
JSON schema per card:
{"question": "string", "answer": "string"}
`)

	b.WriteString("\n---CONTENT---\n")
	b.WriteString(content)
	b.WriteString("\n---END---\n")

	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

type cardJSON struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// parseCards understands the model reply in order of preference: the
// first bracketed JSON array in the text, then the whole reply as
// JSON, then a line-pair heuristic. An empty result means every
// strategy failed.
func parseCards(raw string) []models.Flashcard {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if start := strings.Index(text, "["); start >= 0 {
		if end := strings.LastIndex(text, "]"); end > start {
			var cards []cardJSON
			if json.Unmarshal([]byte(text[start:end+1]), &cards) == nil {
				return toFlashcards(cards)
			}
		}
	}

	var cards []cardJSON
	if json.Unmarshal([]byte(text), &cards) == nil {
		return toFlashcards(cards)
	}

	return parseCardLines(text)
}

func toFlashcards(cards []cardJSON) []models.Flashcard {
	out := make([]models.Flashcard, 0, len(cards))
	for _, c := range cards {
		out = append(out, models.Flashcard{Question: c.Question, Answer: c.Answer})
	}
	return out
}

var (
	ordinalPrefix = regexp.MustCompile(`^\d+[.)]\s*`)
	qaPrefix      = regexp.MustCompile(`(?i)^(question|answer|q|a)\s*[:.]\s*`)
)

// parseCardLines pairs up consecutive non-empty lines as question then
// answer, stripping ordinal markers and Q:/A: prefixes.
func parseCardLines(text string) []models.Flashcard {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}

	var out []models.Flashcard
	for i := 0; i+1 < len(lines); i += 2 {
		q := stripLinePrefixes(lines[i])
		a := stripLinePrefixes(lines[i+1])
		if q == "" || a == "" {
			continue
		}
		out = append(out, models.Flashcard{Question: q, Answer: a})
	}
	return out
}

func stripLinePrefixes(line string) string {
	line = ordinalPrefix.ReplaceAllString(line, "")
	line = qaPrefix.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}
