package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tracetm "github.com/irobinett3/traceTM-iansntm"
	"github.com/irobinett3/traceTM-iansntm/internal/presentation/report"
	"github.com/irobinett3/traceTM-iansntm/internal/presentation/tui"
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

// Output formats accepted by Trace.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// RunOptions configures a trace from the command line.
type RunOptions struct {
	Machine  string
	Inputs   []string
	MaxDepth int
	// Out receives the plain-text report of every input, in order.
	Out    string
	Format string
}

// Trace runs every input on the machine and prints one report per input to stdout.
func Trace(ctx context.Context, eng *tracetm.Engine, opts RunOptions, stdout io.Writer) error {
	if len(opts.Inputs) == 0 {
		return fmt.Errorf("no input strings given")
	}

	m, err := eng.Machine(ctx, opts.Machine)
	if err != nil {
		return err
	}

	var render func(string) (string, error)
	if opts.Format == FormatPretty {
		render = tui.NewRenderer()
	}

	var reports strings.Builder
	enc := json.NewEncoder(stdout)
	for i, input := range opts.Inputs {
		res, err := eng.TraceDepth(ctx, opts.Machine, input, opts.MaxDepth)
		if err != nil {
			return err
		}

		if opts.Out != "" {
			if i > 0 {
				reports.WriteString("\n")
			}
			if err := report.WriteText(&reports, m, res); err != nil {
				return err
			}
		}

		switch opts.Format {
		case FormatJSON:
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
		case FormatPretty:
			out, err := render(report.Markdown(m, res))
			if err != nil {
				return err
			}
			fmt.Fprint(stdout, out)
			fmt.Fprintln(stdout, tui.Verdict(res.Accepted, res.FinalDepth(), res.Transitions))
		default:
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			if err := report.WriteText(stdout, m, res); err != nil {
				return err
			}
		}
	}

	if opts.Out != "" {
		if err := writeFile(opts.Out, reports.String()); err != nil {
			return err
		}
	}
	return nil
}

// ReadInputs returns the non-blank lines of r, trimmed of surrounding whitespace.
func ReadInputs(r io.Reader) ([]string, error) {
	var inputs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			inputs = append(inputs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inputs: %w", err)
	}
	return inputs, nil
}

// ResolveFormat picks pretty output only for interactive terminals.
func ResolveFormat(jsonMode, pretty bool, stdout io.Writer) string {
	switch {
	case jsonMode:
		return FormatJSON
	case pretty && tui.IsTerminal(stdout):
		return FormatPretty
	default:
		return FormatText
	}
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// describe renders a one-line verdict for listings.
func describe(s domain.Summary) string {
	if s.Accepted {
		return fmt.Sprintf("accepted at depth %d", s.Depth)
	}
	return fmt.Sprintf("rejected at depth %d", s.Depth)
}
