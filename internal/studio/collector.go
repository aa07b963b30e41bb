package studio

import (
	"context"
	"fmt"

	"github.com/ZameerHP/clipscript/pkg/security"
)

// SimulatedCollector approves every charge without contacting a processor.
type SimulatedCollector struct{}

func (SimulatedCollector) Collect(ctx context.Context, userID string, pkg Package) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	token, err := security.RandomToken(13)
	if err != nil {
		return "", fmt.Errorf("generate charge reference: %w", err)
	}
	return "ch_" + token, nil
}
