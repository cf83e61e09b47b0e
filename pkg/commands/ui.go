package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/crosscal/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the calendar and task lists in a terminal UI.",
		Example: `
crosscal ui
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := setup()
			if err != nil {
				return err
			}
			s := ui.UI{
				Persistence: p,
			}
			return s.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
