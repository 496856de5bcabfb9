package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ConfigView is the display form of a configuration: the tape left of the head,
// the current state, and the tape from the head onward with trailing blanks trimmed.
type ConfigView struct {
	Left  string `json:"left"`
	State string `json:"state"`
	Right string `json:"right"`
}

// String renders the view as a bracketed triple, e.g. ['a', 'q1', 'b'].
func (c ConfigView) String() string {
	return fmt.Sprintf("[%s, %s, %s]", quote(c.Left), quote(c.State), quote(c.Right))
}

// quote escapes backslashes and picks double quotes when s holds a single
// quote but no double quote.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// Snapshot holds every configuration recorded at one depth, in processing order.
type Snapshot struct {
	Depth          int          `json:"depth"`
	Configurations []ConfigView `json:"configurations"`

	// Transitions is the cumulative number of transitions considered once this depth was processed.
	Transitions int `json:"transitions"`
}

// String renders the snapshot's configurations as a bracketed list.
func (s Snapshot) String() string {
	parts := make([]string, len(s.Configurations))
	for i, c := range s.Configurations {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Trace is the append-only, per-depth record of a run.
type Trace []Snapshot

// Contains reports whether any recorded configuration is in state.
func (t Trace) Contains(state string) bool {
	for _, snap := range t {
		for _, c := range snap.Configurations {
			if c.State == state {
				return true
			}
		}
	}
	return false
}

// Result is the outcome of tracing one input on one machine.
type Result struct {
	ID          string    `json:"id"`
	Machine     string    `json:"machine"`
	Input       string    `json:"input"`
	MaxDepth    int       `json:"max_depth"`
	Trace       Trace     `json:"trace"`
	Accepted    bool      `json:"accepted"`
	Transitions int       `json:"transitions"`
	CreatedAt   time.Time `json:"created_at"`
}

// FinalDepth is the index of the last recorded snapshot.
func (r *Result) FinalDepth() int {
	if len(r.Trace) == 0 {
		return 0
	}
	return len(r.Trace) - 1
}

// Verdict returns "accepted" or "rejected".
func (r *Result) Verdict() string {
	if r.Accepted {
		return "accepted"
	}
	return "rejected"
}

// Summary is the trace-less view of a result used by listings.
type Summary struct {
	ID          string    `json:"id"`
	Machine     string    `json:"machine"`
	Input       string    `json:"input"`
	Accepted    bool      `json:"accepted"`
	Depth       int       `json:"depth"`
	Transitions int       `json:"transitions"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summarize drops the trace.
func (r *Result) Summarize() Summary {
	return Summary{
		ID:          r.ID,
		Machine:     r.Machine,
		Input:       r.Input,
		Accepted:    r.Accepted,
		Depth:       r.FinalDepth(),
		Transitions: r.Transitions,
		CreatedAt:   r.CreatedAt,
	}
}

// Clone returns a deep copy of the result.
func (r *Result) Clone() *Result {
	c := *r
	if r.Trace != nil {
		c.Trace = make(Trace, len(r.Trace))
		for i, s := range r.Trace {
			s.Configurations = slices.Clone(s.Configurations)
			c.Trace[i] = s
		}
	}
	return &c
}

// SortSummaries orders summaries newest first, breaking ties by ID.
func SortSummaries(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// FormatList renders values as a bracketed, quoted list, e.g. ['q0', 'q1'].
func FormatList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
