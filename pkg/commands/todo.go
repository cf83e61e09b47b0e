package commands

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/crosscal/pkg/commands/options"
	"tableflip.dev/crosscal/pkg/runner/todo"
)

func completeSection(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("section", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return sectionCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

func addAdd(topLevel *cobra.Command) {
	so := &options.SectionOptions{}
	ido := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a pending task.",
		Example: `
crosscal add buy milk
crosscal add -s Groceries "oat milk"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, l, err := setup()
			if err != nil {
				return err
			}
			s := todo.Add{
				Persistence: p,
				Log:         l,
				Section:     so.Section,
				Text:        strings.Join(args, " "),
				ShowID:      ido.ShowID,
			}
			return s.Do(cmd.Context())
		},
	}
	options.AddSectionArgs(cmd, so)
	options.AddShowIDArgs(cmd, ido)
	completeSection(cmd)

	topLevel.AddCommand(cmd)
}

func addList(topLevel *cobra.Command) {
	so := &options.SectionOptions{}
	ido := &options.IDOptions{}
	oo := &options.OutputOptions{}
	follow := false

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "get"},
		Short:   "Print the tasks of a section.",
		Example: `
crosscal list
crosscal list -s Groceries --show-id
crosscal list --follow
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, l, err := setup()
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if follow {
				var stop context.CancelFunc
				ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()
			}
			s := todo.List{
				Persistence: p,
				Log:         l,
				Section:     so.Section,
				ShowID:      ido.ShowID,
				JSON:        oo.JSON,
				Follow:      follow,
			}
			return oo.HandleError(s.Do(ctx))
		},
	}
	options.AddSectionArgs(cmd, so)
	options.AddShowIDArgs(cmd, ido)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing as the tasks change.")
	completeSection(cmd)

	topLevel.AddCommand(cmd)
}

func addDone(topLevel *cobra.Command) {
	topLevel.AddCommand(completeCommand("done", "Mark a task completed.", true))
	topLevel.AddCommand(completeCommand("undo", "Mark a task pending again.", false))
}

func completeCommand(use, short string, done bool) *cobra.Command {
	so := &options.SectionOptions{}
	ido := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Example: `
crosscal ` + use + ` 1710000000000
crosscal ` + use + ` -s Groceries 1710000000000
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ido.ParseIDs(args); err != nil {
				return err
			}
			p, l, err := setup()
			if err != nil {
				return err
			}
			s := todo.Complete{
				Persistence: p,
				Log:         l,
				Section:     so.Section,
				ID:          ido.IDs[0],
				Done:        done,
				ShowID:      ido.ShowID,
			}
			return s.Do(cmd.Context())
		},
	}
	options.AddSectionArgs(cmd, so)
	options.AddShowIDArgs(cmd, ido)
	completeSection(cmd)
	return cmd
}

func addEdit(topLevel *cobra.Command) {
	so := &options.SectionOptions{}
	ido := &options.IDOptions{}
	var text, desc string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the text or description of a task.",
		Example: `
crosscal edit 1710000000000 --text "buy oat milk"
crosscal edit 1710000000000 --desc ""
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ido.ParseIDs(args); err != nil {
				return err
			}
			p, l, err := setup()
			if err != nil {
				return err
			}
			s := todo.Edit{
				Persistence: p,
				Log:         l,
				Section:     so.Section,
				ID:          ido.IDs[0],
				ShowID:      ido.ShowID,
			}
			if cmd.Flags().Changed("text") {
				s.Text = &text
			}
			if cmd.Flags().Changed("desc") {
				s.Desc = &desc
			}
			return s.Do(cmd.Context())
		},
	}
	options.AddSectionArgs(cmd, so)
	options.AddShowIDArgs(cmd, ido)
	cmd.Flags().StringVar(&text, "text", "", "New task text. Blank keeps the current text.")
	cmd.Flags().StringVar(&desc, "desc", "", "New description. Blank clears it.")
	completeSection(cmd)

	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command) {
	so := &options.SectionOptions{}
	ido := &options.IDOptions{}
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task.",
		Example: `
crosscal delete 1710000000000
crosscal delete -s Groceries 1710000000000 --yes
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ido.ParseIDs(args); err != nil {
				return err
			}
			p, l, err := setup()
			if err != nil {
				return err
			}
			s := todo.Delete{
				Persistence: p,
				Log:         l,
				Section:     so.Section,
				ID:          ido.IDs[0],
				Confirm:     co.Confirmer(),
				ShowID:      ido.ShowID,
			}
			return s.Do(cmd.Context())
		},
	}
	options.AddSectionArgs(cmd, so)
	options.AddShowIDArgs(cmd, ido)
	options.AddConfirmArgs(cmd, co)
	completeSection(cmd)

	topLevel.AddCommand(cmd)
}

func addOrder(topLevel *cobra.Command) {
	so := &options.SectionOptions{}
	ido := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "order <id> <id>...",
		Short: "Reorder the pending tasks of a section.",
		Long: base.Wrap80(`Pending tasks are rewritten in the given order and every pending task
must be named. Completed tasks stay after every pending task.`),
		Example: `
crosscal order 3 1 2
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ido.ParseIDs(args); err != nil {
				return err
			}
			p, l, err := setup()
			if err != nil {
				return err
			}
			s := todo.Order{
				Persistence: p,
				Log:         l,
				Section:     so.Section,
				IDs:         ido.IDs,
				ShowID:      ido.ShowID,
			}
			return s.Do(cmd.Context())
		},
	}
	options.AddSectionArgs(cmd, so)
	options.AddShowIDArgs(cmd, ido)
	completeSection(cmd)

	topLevel.AddCommand(cmd)
}
