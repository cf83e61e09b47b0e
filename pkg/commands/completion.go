package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/crosscal/pkg/app"
	"tableflip.dev/crosscal/pkg/logging"
	"tableflip.dev/crosscal/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(crosscal completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(crosscal completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(cmd.OutOrStdout())
		},
	}

	topLevel.AddCommand(cmd)
}

func sectionCompletions(cmd *cobra.Command, toComplete string) []string {
	p, err := store.Load(nil)
	if err != nil {
		return nil
	}
	st, err := app.Load(cmd.Context(), p, app.WithLogger(logging.Discard()))
	if err != nil {
		return nil
	}
	var out []string
	for _, s := range st.Sections() {
		if s.Special {
			continue
		}
		if strings.HasPrefix(strings.ToLower(s.Name), strings.ToLower(toComplete)) {
			out = append(out, s.Name)
		}
	}
	return out
}
