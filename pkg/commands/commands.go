package commands

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/crosscal/pkg/commands/options"
	"tableflip.dev/crosscal/pkg/logging"
	"tableflip.dev/crosscal/pkg/store"
)

var (
	output = &options.OutputOptions{}
	lo     = &options.LogOptions{}
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crosscal",
		Short: base.Wrap80("Mark days on a calendar and keep sectioned to-do lists from the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddLogArgs(cmd, lo)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addSections(topLevel)
	addSection(topLevel)
	addAdd(topLevel)
	addList(topLevel)
	addDone(topLevel)
	addEdit(topLevel)
	addDelete(topLevel)
	addOrder(topLevel)
	addMark(topLevel)
	addMarks(topLevel)
	addCal(topLevel)
	addKey(topLevel)
	addUI(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// setup loads the config once and returns the slot store and a logger at the
// configured level. --log-level wins over the config file.
func setup() (store.Persistence, *log.Logger, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel()
	if lo.Level != "" {
		level = lo.Level
	}
	logger := logging.New(level)
	p, err := store.Load(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("store ready", "path", cfg.BasePath())
	return p, logger, nil
}
