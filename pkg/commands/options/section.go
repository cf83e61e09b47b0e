// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/crosscal/pkg/task"
)

// SectionOptions selects the collection a command works on.
type SectionOptions struct {
	Section string
}

// AddSectionArgs wires the section flag on the provided command.
func AddSectionArgs(cmd *cobra.Command, o *SectionOptions) {
	cmd.Flags().StringVarP(&o.Section, "section", "s", task.AllName,
		`Specify the section, "all" for the unsectioned list.`)
}
