package llm

import (
	"context"
	"fmt"
	"strings"
)

// DefaultImprovePrompt is used when no prompt template is configured.
// Templates may reference the transcript through the {text} placeholder.
const DefaultImprovePrompt = "Refine and correct the following transcribed text. " +
	"Maintain the original meaning but improve grammar, punctuation and clarity. " +
	"Output ONLY the refined text, nothing else.\n\nText: {text}"

// Improver rewrites transcribed text through a Completer. On any failure the
// input text is returned unchanged alongside the error, so callers can always
// keep their prior state.
type Improver struct {
	completer Completer
}

// NewImprover creates an Improver backed by the given completer.
func NewImprover(c Completer) *Improver {
	return &Improver{completer: c}
}

// Improve rewrites text using the prompt template ("" selects the default).
func (i *Improver) Improve(ctx context.Context, text, promptTemplate string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if i.completer == nil {
		return text, fmt.Errorf("improver not configured")
	}

	if promptTemplate == "" {
		promptTemplate = DefaultImprovePrompt
	}
	prompt := strings.ReplaceAll(promptTemplate, "{text}", text)

	out, err := i.completer.Complete(ctx, []Message{{Role: "user", Content: prompt}})
	if err != nil {
		return text, fmt.Errorf("improve text: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		// An empty rewrite is useless; keep what we had.
		return text, nil
	}
	return out, nil
}
