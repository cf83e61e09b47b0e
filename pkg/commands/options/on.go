package options

import (
	"time"

	"github.com/spf13/cobra"
)

const (
	layoutMonth      = "2006-01"
	layoutMonthShort = "1"
)

// OnOptions
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a month, example: --on="2024-03" or --on="3".`)
}

// GetOn returns the first day of the requested month, or the zero time when
// the flag is unset.
func (o *OnOptions) GetOn(now time.Time) (time.Time, error) {
	if o.OnString == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(layoutMonth, o.OnString, time.Local)
	if err != nil {
		// Let the year be the same.
		t, err = time.ParseInLocation(layoutMonthShort, o.OnString, time.Local)
		if err != nil {
			return time.Time{}, err
		}
		t = time.Date(now.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local)
	}
	return t, nil
}
