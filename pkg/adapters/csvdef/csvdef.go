// Package csvdef reads and writes the tabular machine definition format.
//
// The layout is positional: name, states, input alphabet, tape alphabet, start,
// accept and reject rows, then one five-field row per transition
// (state, read, next, write, move). Empty cells on header rows are ignored.
package csvdef

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

// header rows in file order
var headerRows = []string{
	"name",
	"states",
	"input_alphabet",
	"tape_alphabet",
	"start_state",
	"accept_state",
	"reject_state",
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) (*domain.Machine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open machine definition: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse reads a machine definition. It checks the shape of the file only;
// semantic checks (known states, accept != reject) belong to the validator.
func Parse(r io.Reader) (*domain.Machine, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header := make([][]string, 0, len(headerRows))
	for _, field := range headerRows {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil, &domain.ValidationError{Key: field, Reason: "missing header row"}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s row: %w", field, err)
		}
		header = append(header, nonEmpty(row))
	}

	m := &domain.Machine{
		States:        header[1],
		InputAlphabet: header[2],
		TapeAlphabet:  header[3],
	}

	var errs []error
	singles := map[int]*string{0: &m.Name, 4: &m.StartState, 5: &m.AcceptState, 6: &m.RejectState}
	for i := range headerRows {
		dst, ok := singles[i]
		if !ok {
			continue
		}
		if len(header[i]) == 0 {
			errs = append(errs, &domain.ValidationError{Key: headerRows[i], Reason: "required"})
			continue
		}
		*dst = header[i][0]
	}

	transitions, terrs, err := readTransitions(reader)
	if err != nil {
		return nil, err
	}
	m.Transitions = transitions
	errs = append(errs, terrs...)

	if len(errs) > 0 {
		return nil, &domain.AggregateError{Errors: errs}
	}
	return m, nil
}

// ParseTransitions reads transition rows only, without the header block.
func ParseTransitions(r io.Reader) ([]domain.Transition, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	transitions, errs, err := readTransitions(reader)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, &domain.AggregateError{Errors: errs}
	}
	return transitions, nil
}

func readTransitions(reader *csv.Reader) ([]domain.Transition, []error, error) {
	transitions := []domain.Transition{}
	var errs []error
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read transition row: %w", err)
		}
		row = trimTrailing(row)
		if len(row) == 0 {
			continue
		}
		t, err := ParseTransition(row)
		if err != nil {
			line, _ := reader.FieldPos(0)
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		transitions = append(transitions, t)
	}
	return transitions, errs, nil
}

// ParseTransition builds a transition from (state, read, next, write, move) fields.
func ParseTransition(row []string) (domain.Transition, error) {
	if len(row) != 5 {
		return domain.Transition{}, &domain.ValidationError{
			Key:    "transition",
			Reason: "expected 5 fields: state, read, next, write, move",
			Value:  strings.Join(row, ","),
		}
	}
	fields := make([]string, len(row))
	for i := range row {
		fields[i] = strings.TrimSpace(row[i])
	}

	mv, err := domain.ParseMove(fields[4])
	if err != nil {
		return domain.Transition{}, err
	}
	return domain.Transition{
		State: fields[0],
		Read:  fields[1],
		Next:  fields[2],
		Write: fields[3],
		Move:  mv,
	}, nil
}

// Encode writes m in the tabular format. Parse(Encode(m)) yields an equal machine.
func Encode(w io.Writer, m *domain.Machine) error {
	writer := csv.NewWriter(w)

	rows := [][]string{
		{m.Name},
		m.States,
		m.InputAlphabet,
		m.TapeAlphabet,
		{m.StartState},
		{m.AcceptState},
		{m.RejectState},
	}
	for _, t := range m.Transitions {
		rows = append(rows, []string{t.State, t.Read, t.Next, t.Write, string(t.Move)})
	}

	for i, row := range rows {
		if len(row) == 0 || (len(row) == 1 && row[0] == "") {
			// a bare newline would be skipped by the reader and shift the header
			rows[i] = []string{" "}
		}
	}

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write machine definition: %w", err)
	}
	return nil
}

func nonEmpty(row []string) []string {
	out := make([]string, 0, len(row))
	for _, cell := range row {
		if cell = strings.TrimSpace(cell); cell != "" {
			out = append(out, cell)
		}
	}
	return out
}

// trimTrailing drops empty cells at the end of a row, as produced by spreadsheet exports.
func trimTrailing(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	return row[:end]
}
