package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// ErrNoStylesCommand is returned when no CSS compilation command is
// configured.
var ErrNoStylesCommand = errors.New("no styles command configured")

// RunStyles runs the project's CSS compilation command in dir. Any failure
// is fatal to the styles build and carries the command's stderr.
func RunStyles(ctx context.Context, dir string, command []string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if len(command) == 0 || command[0] == "" {
		return ErrNoStylesCommand
	}
	start := time.Now()

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Dir = dir

	logger.Info("compiling styles", "command", strings.Join(command, " "))

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			logger.Warn("styles command stderr", "output", stderrStr)
		}
		return fmt.Errorf("styles command failed: %w (stderr: %s)", err, stderrStr)
	}

	if out := strings.TrimSpace(stdout.String()); out != "" {
		logger.Debug("styles command output", "output", out)
	}
	logger.Info("styles compiled", "ms", time.Since(start).Milliseconds())
	return nil
}
