package studio

import (
	"context"

	"github.com/ZameerHP/clipscript/internal/library"
	"github.com/ZameerHP/clipscript/pkg/enums"
)

// Generator writes content from a prompt. prior is the content being
// rewritten or continued and is empty for new work.
type Generator interface {
	Generate(ctx context.Context, prompt string, settings Settings, mode enums.GenMode, prior string) (library.Content, error)
}

// Synthesizer turns text into mono 16-bit PCM at the studio sample rate.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// PaymentCollector charges the user for a package and returns the
// processor's reference for the charge.
type PaymentCollector interface {
	Collect(ctx context.Context, userID string, pkg Package) (string, error)
}
