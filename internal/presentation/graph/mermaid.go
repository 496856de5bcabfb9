package graph

import (
	"fmt"
	"strings"

	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

// GraphOverlay contains run data to visualize on the state graph.
type GraphOverlay struct {
	VisitedStates []string
	// FinalStates are the states of the last recorded depth.
	FinalStates []string
}

// OverlayFromResult collects visited and final states from a trace.
func OverlayFromResult(r *domain.Result) *GraphOverlay {
	overlay := &GraphOverlay{}
	seen := make(map[string]bool)
	for _, snap := range r.Trace {
		for _, c := range snap.Configurations {
			if !seen[c.State] {
				seen[c.State] = true
				overlay.VisitedStates = append(overlay.VisitedStates, c.State)
			}
		}
	}
	if len(r.Trace) > 0 {
		last := r.Trace[len(r.Trace)-1]
		final := make(map[string]bool)
		for _, c := range last.Configurations {
			if !final[c.State] {
				final[c.State] = true
				overlay.FinalStates = append(overlay.FinalStates, c.State)
			}
		}
	}
	return overlay
}

// GenerateMermaid produces a Mermaid flowchart of the machine's state graph.
// It applies semantic styling:
// - Start: ((Circle))
// - Accept: (((Double circle)))
// - Reject: {{Hexagon}}
// - Default: [Rectangle]
// Rules sharing a source and target collapse into one edge whose label lists
// "read→write,move" per rule. It also applies overlay styles if provided.
func GenerateMermaid(m *domain.Machine, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, state := range m.States {
		opener, closer := "[", "]"
		switch state {
		case m.StartState:
			opener, closer = "((", "))"
		case m.AcceptState:
			opener, closer = "(((", ")))"
		case m.RejectState:
			opener, closer = "{{", "}}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(state), opener, escapeLabel(state), closer)
	}

	type edge struct{ from, to string }
	var order []edge
	labels := make(map[edge][]string)
	for _, t := range m.Transitions {
		e := edge{t.State, t.Next}
		if _, ok := labels[e]; !ok {
			order = append(order, e)
		}
		labels[e] = append(labels[e], fmt.Sprintf("%s→%s,%s", t.Read, t.Write, t.Move))
	}
	for _, e := range order {
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n",
			sanitizeMermaidID(e.from),
			escapeLabel(strings.Join(labels[e], "<br/>")),
			sanitizeMermaidID(e.to),
		)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		styled := make(map[string]bool)
		for _, state := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(state)
			if !styled[safeID] && safeID != "" {
				styled[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		for _, state := range overlay.FinalStates {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(state))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return "s_" + r.Replace(id)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
