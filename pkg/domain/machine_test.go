package domain

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestInitialTape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "Empty Input", input: "", want: []string{"_"}},
		{name: "Blank Only", input: "_", want: []string{"_"}},
		{name: "Appends Blank", input: "ab", want: []string{"a", "b", "_"}},
		{name: "Keeps Trailing Blank", input: "ab_", want: []string{"a", "b", "_"}},
		{name: "Multibyte Runes", input: "é0", want: []string{"é", "0", "_"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InitialTape(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("InitialTape(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseMove(t *testing.T) {
	for in, want := range map[string]Move{"L": MoveLeft, " R ": MoveRight, "S": MoveStay} {
		got, err := ParseMove(in)
		if err != nil {
			t.Fatalf("ParseMove(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseMove(%q) = %q, want %q", in, got, want)
		}
	}

	_, err := ParseMove("X")
	if !errors.Is(err, ErrMalformedMachine) {
		t.Errorf("ParseMove(X) error = %v, want ErrMalformedMachine", err)
	}
}

func TestMoveDelta(t *testing.T) {
	if MoveLeft.Delta() != -1 || MoveRight.Delta() != 1 || MoveStay.Delta() != 0 {
		t.Error("unexpected move deltas")
	}
}

func TestMachineStates(t *testing.T) {
	m := &Machine{States: []string{"q0", "qa", "qr"}, AcceptState: "qa", RejectState: "qr"}

	if !m.HasState("q0") || m.HasState("q9") {
		t.Error("HasState mismatch")
	}
	if !m.IsHalting("qa") || !m.IsHalting("qr") || m.IsHalting("q0") {
		t.Error("IsHalting mismatch")
	}
}

func TestConfigViewString(t *testing.T) {
	snap := Snapshot{Configurations: []ConfigView{
		{Left: "", State: "q0", Right: "ab"},
		{Left: "a", State: "q1", Right: ""},
	}}
	want := "[['', 'q0', 'ab'], ['a', 'q1', '']]"
	if got := snap.String(); got != want {
		t.Errorf("Snapshot.String() = %s, want %s", got, want)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`ab`, `'ab'`},
		{`a\b`, `'a\\b'`},
		{`it's`, `"it's"`},
		{`\'`, `"\\'"`},
		{`'"`, `'\'"'`},
		{`\'"`, `'\\\'"'`},
	}
	for _, tt := range tests {
		if got := quote(tt.in); got != tt.want {
			t.Errorf("quote(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
	if got := FormatList([]string{`x\`}); got != `['x\\']` {
		t.Errorf("FormatList = %s", got)
	}
}

func TestTraceContains(t *testing.T) {
	tr := Trace{
		{Depth: 0, Configurations: []ConfigView{{State: "q0"}}},
		{Depth: 1, Configurations: []ConfigView{{State: "q1"}, {State: "qa"}}},
	}
	if !tr.Contains("qa") {
		t.Error("expected trace to contain qa")
	}
	if tr.Contains("qr") {
		t.Error("did not expect trace to contain qr")
	}
}

func TestResultHelpers(t *testing.T) {
	r := &Result{Trace: Trace{{Depth: 0}, {Depth: 1}, {Depth: 2}}, Accepted: true, Transitions: 4}
	if r.FinalDepth() != 2 {
		t.Errorf("FinalDepth() = %d, want 2", r.FinalDepth())
	}
	if r.Verdict() != "accepted" {
		t.Errorf("Verdict() = %s", r.Verdict())
	}
	if s := r.Summarize(); s.Depth != 2 || s.Transitions != 4 || !s.Accepted {
		t.Errorf("Summarize() = %+v", s)
	}
	if (&Result{}).FinalDepth() != 0 {
		t.Error("empty trace should report depth 0")
	}
}

func TestAggregateError(t *testing.T) {
	err := &AggregateError{Errors: []error{
		&ValidationError{Key: "start_state", Reason: "required"},
		&ValidationError{Key: "accept_state", Reason: "must differ from reject_state", Value: "q"},
	}}

	if !errors.Is(err, ErrMalformedMachine) {
		t.Error("AggregateError should match ErrMalformedMachine")
	}
	if got := ValidationErrors(err); len(got) != 2 {
		t.Errorf("ValidationErrors() returned %d errors, want 2", len(got))
	}
	if ValidationErrors(errors.New("plain")) != nil {
		t.Error("plain errors carry no validation errors")
	}
}

func TestLifecycleHooksMerge(t *testing.T) {
	var calls []string
	a := LifecycleHooks{OnDepth: func(_ context.Context, _ *DepthEvent) { calls = append(calls, "a") }}
	b := LifecycleHooks{
		OnDepth: func(_ context.Context, _ *DepthEvent) { calls = append(calls, "b") },
		OnHalt:  func(_ context.Context, _ *HaltEvent) { calls = append(calls, "halt") },
	}

	merged := a.Merge(b)
	merged.OnDepth(context.Background(), &DepthEvent{})
	merged.OnHalt(context.Background(), &HaltEvent{})

	if !reflect.DeepEqual(calls, []string{"a", "b", "halt"}) {
		t.Errorf("calls = %v", calls)
	}
	if merged.OnRunStart != nil {
		t.Error("OnRunStart should stay nil")
	}
}

func TestMachine_Clone(t *testing.T) {
	m := &Machine{Name: "m", States: []string{"q0"}, Transitions: []Transition{{State: "q0", Read: "a", Next: "q0", Write: "a", Move: MoveRight}}}
	c := m.Clone()
	c.States[0] = "changed"
	c.Transitions[0].Next = "changed"
	if m.States[0] != "q0" || m.Transitions[0].Next != "q0" {
		t.Fatal("clone shares storage with the original")
	}
}

func TestResult_Clone(t *testing.T) {
	r := &Result{ID: "x", Trace: Trace{{Configurations: []ConfigView{{State: "q0"}}}}}
	c := r.Clone()
	c.Trace[0].Configurations[0].State = "changed"
	if r.Trace[0].Configurations[0].State != "q0" {
		t.Fatal("clone shares trace storage with the original")
	}
}
