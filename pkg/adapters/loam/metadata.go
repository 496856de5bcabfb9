package loam

// MachineMetadata is the frontmatter (or JSON body) of a machine document.
// Lists are kept untyped so they accept both sequences and comma-separated strings.
type MachineMetadata struct {
	Name          string `json:"name" mapstructure:"name"`
	States        any    `json:"states" mapstructure:"states"`
	InputAlphabet any    `json:"input_alphabet" mapstructure:"input_alphabet"`
	TapeAlphabet  any    `json:"tape_alphabet" mapstructure:"tape_alphabet"`
	StartState    string `json:"start_state" mapstructure:"start_state"`
	AcceptState   string `json:"accept_state" mapstructure:"accept_state"`
	RejectState   string `json:"reject_state" mapstructure:"reject_state"`
	Transitions   []any  `json:"transitions" mapstructure:"transitions"`
}

func (m MachineMetadata) raw() map[string]any {
	raw := map[string]any{
		"name":         m.Name,
		"start_state":  m.StartState,
		"accept_state": m.AcceptState,
		"reject_state": m.RejectState,
	}
	for key, v := range map[string]any{
		"states":         m.States,
		"input_alphabet": m.InputAlphabet,
		"tape_alphabet":  m.TapeAlphabet,
	} {
		if v != nil {
			raw[key] = v
		}
	}
	if len(m.Transitions) > 0 {
		raw["transitions"] = m.Transitions
	}
	return raw
}
