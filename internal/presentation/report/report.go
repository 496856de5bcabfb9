// Package report renders trace results for people: the plain text report
// file written by `tmtrace run` and a Markdown variant for terminal rendering.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

// WriteText writes the machine header, one line per depth and the verdict.
func WriteText(w io.Writer, m *domain.Machine, r *domain.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Input String: %s\n", r.Input)
	fmt.Fprintf(bw, "Machine Name: %s\n", m.Name)
	fmt.Fprintf(bw, "Machine States: %s\n", domain.FormatList(m.States))
	fmt.Fprintf(bw, "Input Alphabet: %s\n", domain.FormatList(m.InputAlphabet))
	fmt.Fprintf(bw, "Tape Alphabet: %s\n", domain.FormatList(m.TapeAlphabet))
	fmt.Fprintf(bw, "Start State: %s\n", m.StartState)
	fmt.Fprintf(bw, "Accept State: %s\n", m.AcceptState)
	fmt.Fprintf(bw, "Reject State: %s\n", m.RejectState)

	for _, snap := range r.Trace {
		fmt.Fprintf(bw, "Depth %d: %s\n", snap.Depth, snap)
	}

	if r.Accepted {
		fmt.Fprintf(bw, "String accepted at depth: %d\n", r.FinalDepth())
	} else {
		fmt.Fprintf(bw, "String was not accepted, proceeded to depth: %d\n", r.FinalDepth())
	}
	fmt.Fprintf(bw, "Number of transitions taken: %d\n", r.Transitions)

	return bw.Flush()
}

// Text is WriteText into a string.
func Text(m *domain.Machine, r *domain.Result) string {
	var sb strings.Builder
	_ = WriteText(&sb, m, r)
	return sb.String()
}

// Markdown renders the same content as a Markdown document.
func Markdown(m *domain.Machine, r *domain.Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", m.Name)
	sb.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Input | `%s` |\n", r.Input)
	fmt.Fprintf(&sb, "| States | %s |\n", codeList(m.States))
	fmt.Fprintf(&sb, "| Input alphabet | %s |\n", codeList(m.InputAlphabet))
	fmt.Fprintf(&sb, "| Tape alphabet | %s |\n", codeList(m.TapeAlphabet))
	fmt.Fprintf(&sb, "| Start / accept / reject | `%s` / `%s` / `%s` |\n\n", m.StartState, m.AcceptState, m.RejectState)

	sb.WriteString("## Trace\n\n")
	for _, snap := range r.Trace {
		fmt.Fprintf(&sb, "- **Depth %d** (%d configurations)\n", snap.Depth, len(snap.Configurations))
		for _, c := range snap.Configurations {
			fmt.Fprintf(&sb, "  - `%s`\n", c)
		}
	}
	sb.WriteString("\n")

	if r.Accepted {
		fmt.Fprintf(&sb, "**Accepted** at depth %d ", r.FinalDepth())
	} else {
		fmt.Fprintf(&sb, "**Not accepted**, proceeded to depth %d ", r.FinalDepth())
	}
	fmt.Fprintf(&sb, "after %d transitions.\n", r.Transitions)
	return sb.String()
}

func codeList(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return "`" + strings.Join(values, "` `") + "`"
}
