package fs

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/irobinett3/traceTM-iansntm/pkg/adapters/csvdef"
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

var transitionType = reflect.TypeOf(domain.Transition{})

// Decode converts a generic document (YAML, JSON or frontmatter) into a machine.
//
// Alphabets and state lists may be sequences or comma-separated strings.
// A transition may be a mapping with state/read/next/write/move keys, a
// five-element sequence, or a "state,read,next,write,move" string.
func Decode(raw map[string]any) (*domain.Machine, error) {
	var m domain.Machine
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			transitionHook,
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &m,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedMachine, err)
	}

	m.States = trimAll(m.States)
	m.InputAlphabet = trimAll(m.InputAlphabet)
	m.TapeAlphabet = trimAll(m.TapeAlphabet)
	for i := range m.Transitions {
		mv, err := domain.ParseMove(string(m.Transitions[i].Move))
		if err != nil {
			return nil, fmt.Errorf("transitions[%d]: %w", i, err)
		}
		m.Transitions[i].Move = mv
	}
	return &m, nil
}

// transitionHook rewrites the compact transition forms into the mapping form.
func transitionHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != transitionType {
		return data, nil
	}

	var fields []string
	switch v := data.(type) {
	case string:
		fields = strings.Split(v, ",")
	case []any:
		fields = make([]string, len(v))
		for i, f := range v {
			fields[i] = fmt.Sprint(f)
		}
	default:
		return data, nil
	}

	t, err := csvdef.ParseTransition(fields)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"state": t.State,
		"read":  t.Read,
		"next":  t.Next,
		"write": t.Write,
		"move":  string(t.Move),
	}, nil
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
