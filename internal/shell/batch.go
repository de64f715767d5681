package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"

	"coreshell/pkg/shelltypes"
)

// BatchError reports the script line that stopped a batch run.
type BatchError struct {
	Line int
	Text string
	Err  error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Text, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// RunScript runs every line of path. See RunBatch.
func (e *Engine) RunScript(ctx context.Context, fs afero.Fs, path string) error {
	file, err := fs.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open script file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return e.RunBatch(ctx, file)
}

// RunBatch dispatches each non-empty line of r that does not start with '#'.
// A cancelled line is skipped; any other failure stops the run. The run also
// stops once the last shell has exited.
func (e *Engine) RunBatch(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		err := e.Dispatcher.Submit(ctx, line)
		switch {
		case err == nil, errors.Is(err, shelltypes.ErrCancelled):
		default:
			return &BatchError{Line: lineNum, Text: line, Err: err}
		}
		if e.Dispatcher.Closed() {
			e.logger.Debug("Batch stopped by exit", "line", lineNum)
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading script file: %w", err)
	}
	return nil
}
