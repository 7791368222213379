package cli

import (
	"github.com/spf13/cobra"
)

// NewResolveCommand creates the resolve command
func NewResolveCommand(svc *Services, rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Catch every habit up to today and show the grace window",
		Long: `Replays every local day since each habit was last resolved, commits the
result, and lists the habits whose yesterday can still be redeemed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := svc.CatchUp.ResolveOwner(cmd.Context(), rootOpts.owner(svc), rootOpts.timezone(svc), rootOpts.ref(svc))
			if err != nil {
				return err
			}
			return rootOpts.presenter(cmd).PrintResolve(res)
		},
	}
}
