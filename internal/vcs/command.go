package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	aserrors "github.com/mrz1836/agentspace/internal/errors"
)

// DefaultBinary is the Jujutsu executable looked up on PATH.
const DefaultBinary = "jj"

// RunCommand executes a jj command in workDir and returns its trimmed stdout.
// Failures wrap ErrVCSOperation and include stderr for debugging.
func RunCommand(ctx context.Context, binary, workDir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //#nosec G204 -- args are constructed internally
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if stderr.Len() > 0 {
			return "", fmt.Errorf("jj %s failed: %s: %w", args[0], strings.TrimSpace(stderr.String()), aserrors.ErrVCSOperation)
		}
		return "", fmt.Errorf("jj %s failed: %v: %w", args[0], err, aserrors.ErrVCSOperation) //nolint:errorlint // keep the sentinel as the wrapped error
	}

	return strings.TrimSpace(stdout.String()), nil
}
