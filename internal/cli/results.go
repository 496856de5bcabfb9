package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	tracetm "github.com/irobinett3/traceTM-iansntm"
	"github.com/irobinett3/traceTM-iansntm/internal/presentation/report"
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

// ListResults prints stored summaries, newest first.
func ListResults(ctx context.Context, eng *tracetm.Engine, w io.Writer, jsonMode bool) error {
	summaries, err := eng.Results(ctx)
	if err != nil {
		return err
	}

	if jsonMode {
		if summaries == nil {
			summaries = []domain.Summary{}
		}
		return json.NewEncoder(w).Encode(summaries)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMACHINE\tINPUT\tVERDICT\tTRANSITIONS\tCREATED")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%q\t%s\t%d\t%s\n",
			s.ID, s.Machine, s.Input, describe(s), s.Transitions, s.CreatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

// ShowResult prints a stored result as the text report, or as JSON when asked
// or when its machine can no longer be loaded.
func ShowResult(ctx context.Context, eng *tracetm.Engine, id string, w io.Writer, jsonMode bool) error {
	res, err := eng.Result(ctx, id)
	if err != nil {
		return err
	}

	if !jsonMode {
		m, err := eng.Machine(ctx, res.Machine)
		switch {
		case err == nil:
			return report.WriteText(w, m, res)
		case !errors.Is(err, domain.ErrMachineNotFound):
			return err
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// DeleteResults removes each id; unknown ids are not an error.
func DeleteResults(ctx context.Context, eng *tracetm.Engine, ids []string) error {
	for _, id := range ids {
		if err := eng.DeleteResult(ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
	}
	return nil
}
