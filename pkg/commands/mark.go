package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/crosscal/pkg/commands/options"
	"tableflip.dev/crosscal/pkg/runner/mark"
)

var now = time.Now

func addMark(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "mark [YYYY-MM-DD]",
		Short: "Toggle the mark on a day, today by default.",
		Example: `
crosscal mark
crosscal mark 2024-03-15
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, l, err := setup()
			if err != nil {
				return err
			}
			s := mark.Toggle{
				Persistence: p,
				Log:         l,
			}
			if len(args) == 1 {
				s.Date = args[0]
			}
			return s.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}

func addMarks(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "marks",
		Short: "Manage calendar marks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	addMarksClear(cmd)

	topLevel.AddCommand(cmd)
}

func addMarksClear(parent *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every calendar mark.",
		Example: `
crosscal marks clear
crosscal marks clear --yes
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, l, err := setup()
			if err != nil {
				return err
			}
			s := mark.Clear{
				Persistence: p,
				Log:         l,
				Confirm:     co.Confirmer(),
			}
			return s.Do(cmd.Context())
		},
	}
	options.AddConfirmArgs(cmd, co)

	parent.AddCommand(cmd)
}

func addCal(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	on := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:     "cal",
		Aliases: []string{"calendar"},
		Short:   "Print a month with its marked days.",
		Example: `
crosscal cal
crosscal cal --on 2024-02
crosscal cal --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, l, err := setup()
			if err != nil {
				return oo.HandleError(err)
			}
			s := mark.Calendar{
				Persistence: p,
				Log:         l,
				JSON:        oo.JSON,
			}
			if s.On, err = on.GetOn(now()); err != nil {
				return oo.HandleError(err)
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}
	options.AddOutputArg(cmd, oo)
	options.AddOnArgs(cmd, on)

	topLevel.AddCommand(cmd)
}
