package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command
func NewServeCommand(svc *Services, rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled catch-up passes until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if svc.Scheduler == nil {
				return errors.New("scheduler is not available")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := rootOpts.presenter(cmd).PrintMessage("Scheduler running, press Ctrl+C to stop"); err != nil {
				return err
			}
			return svc.Scheduler.Run(ctx)
		},
	}
}
