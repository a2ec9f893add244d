// Command dbinspect prints what the book club server keeps per device:
// registered users and purchases. It opens the store read-only where the
// driver allows it, so it can run next to a live server.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bookclub/bookclub-server/internal/config"
)

type options struct {
	dataPath string
	driver   string
	device   string
	raw      bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	home, _ := os.UserHomeDir()

	cmd := &cobra.Command{
		Use:   "dbinspect",
		Short: "Dump stored users and purchases per device",
		Long: `Dump stored users and purchases per device.

Passwords are never printed. Use --device to limit the output to one
device namespace and --raw to print stored values as-is.

Example:
  dbinspect --data-path ~/.bookclub --driver sqlite --device dev_V1StGXR8_Z5jdHi6B-myT`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return inspect(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.dataPath, "data-path", filepath.Join(home, ".bookclub"), "server data directory")
	cmd.Flags().StringVar(&opts.driver, "driver", config.DriverBadger, "storage driver (badger, sqlite)")
	cmd.Flags().StringVar(&opts.device, "device", "", "only show this device id")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print stored values without decoding")

	return cmd
}
