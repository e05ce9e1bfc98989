package gemini

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"github.com/phrazzld/recall-api/internal/generation"
)

// defaultPromptTemplate is used when no template path is configured.
// It instructs the model to emit raw JSON matching the card payload
// shape the generation package parses.
const defaultPromptTemplate = `You are a flashcard author helping a software engineer retain what they study.

Read the source text below and produce spaced-repetition flashcards covering its key ideas.

Rules:
- Each card has a single clear question (front) and a concise answer (back).
- Choose type from: concept, definition, code, problem, fact.
- Choose difficulty from: easy, medium, hard.
- Add short lowercase tags.
- Respond with a raw JSON array only. No prose, no markdown fences.

JSON shape:
[{"front": "...", "back": "...", "type": "concept", "difficulty": "medium", "tags": ["..."]}]
{{if .MaxCards}}
Produce at most {{.MaxCards}} cards.
{{end}}
Source text:
{{.SourceText}}`

// promptData is the template input for a generation request.
type promptData struct {
	SourceText string
	MaxCards   int
}

// loadPromptTemplate parses the template at path, or the built-in
// default when path is empty.
func loadPromptTemplate(path string) (*template.Template, error) {
	content := defaultPromptTemplate
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading prompt template from %s: %v",
				generation.ErrInvalidConfig, path, err)
		}
		content = string(raw)
	}

	tmpl, err := template.New("flashcard").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing prompt template: %v", generation.ErrInvalidConfig, err)
	}
	return tmpl, nil
}

// renderPrompt executes the template for a request.
func renderPrompt(tmpl *template.Template, req generation.Request) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, promptData{
		SourceText: req.SourceText,
		MaxCards:   req.MaxCards,
	})
	if err != nil {
		return "", fmt.Errorf("executing prompt template: %w", err)
	}
	return buf.String(), nil
}
