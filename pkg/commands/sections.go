package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/crosscal/pkg/commands/options"
	"tableflip.dev/crosscal/pkg/runner/section"
)

func addSections(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List sections with their task counts.",
		Example: `
crosscal sections
crosscal sections --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, l, err := setup()
			if err != nil {
				return oo.HandleError(err)
			}
			s := section.List{
				Persistence: p,
				Log:         l,
				JSON:        oo.JSON,
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addSection(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Add or delete sections.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	addSectionAdd(cmd)
	addSectionDelete(cmd)

	topLevel.AddCommand(cmd)
}

func addSectionAdd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create an empty section.",
		Example: `
crosscal section add Groceries
crosscal section add "Side projects"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, l, err := setup()
			if err != nil {
				return err
			}
			s := section.Add{
				Persistence: p,
				Log:         l,
				Name:        args[0],
			}
			return s.Do(cmd.Context())
		},
	}

	parent.AddCommand(cmd)
}

func addSectionDelete(parent *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a section and every task in it.",
		Example: `
crosscal section delete Groceries
crosscal section delete Groceries --yes
`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return sectionCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return errors.New("section name required")
			}
			p, l, err := setup()
			if err != nil {
				return err
			}
			s := section.Delete{
				Persistence: p,
				Log:         l,
				Name:        args[0],
				Confirm:     co.Confirmer(),
			}
			return s.Do(cmd.Context())
		},
	}
	options.AddConfirmArgs(cmd, co)

	parent.AddCommand(cmd)
}
