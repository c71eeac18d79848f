// Package termpicker implements uploader.Dialog as a terminal prompt.
//
// The user types one path, or a comma separated list when the request
// allows several files. Ctrl+C or Ctrl+D dismiss the prompt, which the
// uploader reports as a canceled pick.
//
// A Dialog reads its input from one prompt at a time. A prompt abandoned
// because its pick was canceled or superseded keeps the input, and the next
// Open waits on that prompt instead of starting a second reader.
package termpicker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/manifoldco/promptui"

	"github.com/dmitrymomot/uploader"
)

// promptFunc shows a prompt and returns the entered line.
type promptFunc func(label string, validate promptui.ValidateFunc) (string, error)

// Dialog asks for file paths on the terminal.
type Dialog struct {
	prompt promptFunc

	mu      sync.Mutex
	pending *pendingPrompt
}

// pendingPrompt is a prompt still owning the input.
type pendingPrompt struct {
	done    chan struct{}
	answer  answer
	claimed bool
}

// Option configures a Dialog.
type Option func(*Dialog)

// WithIO reads from in and writes to out instead of the process terminal.
func WithIO(in io.ReadCloser, out io.WriteCloser) Option {
	return func(d *Dialog) {
		d.prompt = newPrompt(in, out)
	}
}

// New creates a Dialog bound to stdin and stdout.
func New(opts ...Option) *Dialog {
	d := &Dialog{prompt: newPrompt(nil, nil)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func newPrompt(in io.ReadCloser, out io.WriteCloser) promptFunc {
	return func(label string, validate promptui.ValidateFunc) (string, error) {
		p := promptui.Prompt{
			Label:    label,
			Validate: validate,
			Stdin:    in,
			Stdout:   out,
		}
		return p.Run()
	}
}

type answer struct {
	line string
	err  error
}

// Open prompts for paths and loads them. If ctx ends first the prompt is
// left running and the next Open takes over its answer.
func (d *Dialog) Open(ctx context.Context, req uploader.PickRequest) ([]uploader.File, error) {
	limit := req.Limit
	if !req.Multiple || limit < 1 {
		limit = 1
	}

	label := "File path"
	if limit > 1 {
		label = fmt.Sprintf("File paths (comma separated, up to %d)", limit)
	}
	if req.Accept != "" {
		label += " [" + req.Accept + "]"
	}

	a, err := d.await(ctx, label, limit)
	if err != nil {
		return nil, err
	}

	if a.err != nil {
		if dismissed(a.err) {
			return nil, nil
		}
		return nil, a.err
	}

	// The line may come from a prompt started for an earlier request.
	if err := validator(limit)(a.line); err != nil {
		return nil, err
	}

	paths := splitPaths(a.line)
	files := make([]uploader.File, 0, len(paths))
	for _, p := range paths {
		f, err := uploader.FromPath(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// await returns the answer of the pending prompt, starting one if none is
// running.
func (d *Dialog) await(ctx context.Context, label string, limit int) (answer, error) {
	for {
		d.mu.Lock()
		p := d.pending
		if p == nil {
			p = &pendingPrompt{done: make(chan struct{})}
			d.pending = p
			go func() {
				line, err := d.prompt(label, validator(limit))
				p.answer = answer{line: line, err: err}
				close(p.done)
			}()
		}
		d.mu.Unlock()

		select {
		case <-ctx.Done():
			return answer{}, ctx.Err()
		case <-p.done:
		}

		d.mu.Lock()
		taken := p.claimed
		p.claimed = true
		if d.pending == p {
			d.pending = nil
		}
		d.mu.Unlock()

		if !taken {
			return p.answer, nil
		}
	}
}

func dismissed(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) ||
		errors.Is(err, promptui.ErrEOF) ||
		errors.Is(err, promptui.ErrAbort)
}

// validator accepts up to limit existing regular files. An empty line is
// allowed and dismisses the dialog.
func validator(limit int) promptui.ValidateFunc {
	return func(line string) error {
		paths := splitPaths(line)
		if len(paths) > limit {
			return fmt.Errorf("at most %d file(s)", limit)
		}
		for _, p := range paths {
			info, err := os.Stat(p)
			if err != nil {
				return fmt.Errorf("%s: no such file", p)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", p)
			}
		}
		return nil
	}
}

// splitPaths splits a comma separated list, dropping blanks and
// surrounding quotes added by terminals on drag and drop.
func splitPaths(line string) []string {
	var out []string
	for _, p := range strings.Split(line, ",") {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
