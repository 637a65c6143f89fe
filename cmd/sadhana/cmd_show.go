package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/nhle/sadhana/internal/model"
	"github.com/nhle/sadhana/internal/store"
	"github.com/nhle/sadhana/internal/ui/sections"
)

// showCmd prints one day's record without starting the screen.
var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Print the log for a date (default today)",
	Example: `
sadhana show
sadhana show 2026-01-02
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day := model.Today()
		if len(args) == 1 {
			var err error
			if day, err = model.ParseDay(args[0]); err != nil {
				return err
			}
		}

		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := contextWithTimeout(cmd)
		defer cancel()
		res := store.Lookup(ctx, s, day)
		if res.Outcome == store.OutcomeFailed {
			return res.Err
		}
		printLog(color.Output, day, res)
		return nil
	},
}

// printLog writes the record as a table grouped by section. A missing
// record prints as all unchecked.
func printLog(w io.Writer, day model.Day, res store.Result) {
	bold := color.New(color.Bold, color.Underline)
	faint := color.New(color.Faint, color.Italic)

	_, _ = fmt.Fprintln(w, bold.Sprint(day.Format("Monday, January 2 2006")))
	if res.Outcome == store.OutcomeNotFound {
		_, _ = fmt.Fprintln(w, faint.Sprint(" nothing logged yet"))
	}

	draft := res.Log.Draft()
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, k := range sections.Kinds {
		tbl.AddRow("", "")
		tbl.AddRow(color.New(color.Bold).Sprint(k.Icon()+" "+k.Title()), "")
		for _, row := range sections.Rows(k) {
			marks := make([]string, 0, len(row.Fields))
			for _, f := range row.Fields {
				marks = append(marks, mark(draft.Value(f)))
			}
			tbl.AddRow("  "+row.Label, strings.Join(marks, " "))
		}
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func mark(done bool) string {
	if done {
		return color.GreenString("✓")
	}
	return color.New(color.Faint).Sprint("·")
}
