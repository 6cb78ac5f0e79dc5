// Package insight turns note content into a validated model.Insight using a
// generative model.
package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/medsentinel/encounter-log/internal/model"
)

var (
	ErrEmptyContent = goerr.New("note content is empty")
	ErrGeneration   = goerr.New("insight generation failed")
)

// Generator produces one JSON completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Analyzer extracts structured insights from clinical notes.
type Analyzer struct {
	gen Generator
}

// NewAnalyzer creates an Analyzer backed by gen.
func NewAnalyzer(gen Generator) (*Analyzer, error) {
	if gen == nil {
		return nil, goerr.New("generator is required")
	}
	return &Analyzer{gen: gen}, nil
}

// Analyze summarizes content and extracts medications, diagnoses, vitals,
// risks, and a checklist. The response must match the insight schema.
func (a *Analyzer) Analyze(ctx context.Context, content string) (*model.Insight, error) {
	if strings.TrimSpace(content) == "" {
		return nil, goerr.Wrap(ErrEmptyContent, "analyze")
	}

	text, err := a.gen.Generate(ctx, buildPrompt(content))
	if err != nil {
		return nil, goerr.Wrap(errors.Join(ErrGeneration, err), "generate insight")
	}
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(ErrGeneration, "empty response")
	}

	in, err := model.ParseInsight([]byte(text))
	if err != nil {
		return nil, goerr.Wrap(err, "parse insight", goerr.V("response_bytes", len(text)))
	}
	return in, nil
}

const systemPrompt = "You are the MedSentinel Edge Clinical Engine. You operate at the edge to support clinicians in low-resource environments. Provide high-accuracy structured medical data. Be concise."

func buildPrompt(content string) string {
	return fmt.Sprintf(`Analyze the following clinical encounter. Provide a summary, extract medications/diagnoses/vitals, list risks with severity (low, medium, or high), and suggest a checklist.

CONTENT: %s`, content)
}
