package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/padel-scheduler/internal/config"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

// errIncompleteConfig marks a run that cannot start because days, hours or
// duration are missing from both flags and the stored configuration.
var errIncompleteConfig = errors.New("incomplete configuration: days, hours and duration are required")

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "padelsched",
		Short: "Books padel courts on Playtomic matching your weekly schedule",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newReserveCmd())
	root.AddCommand(newScheduleCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, config.ErrNotInitialized) || errors.Is(err, errIncompleteConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
