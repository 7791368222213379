package cli

import (
	"github.com/spf13/cobra"

	"github.com/ca-srg/habitflow/domain/entity"
)

const completionSource = "cli"

// NewDoneCommand creates the done command
func NewDoneCommand(svc *Services, rootOpts *RootOptions) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "done <habit>",
		Short: "Mark a habit done for today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := findHabit(cmd.Context(), svc, rootOpts.owner(svc), args[0])
			if err != nil {
				return err
			}
			res, err := svc.Completion.CompleteForToday(cmd.Context(), h.ID,
				entity.CompletionMeta{Note: note, Source: completionSource},
				rootOpts.timezone(svc), rootOpts.ref(svc))
			if err != nil {
				return err
			}
			return rootOpts.presenter(cmd).PrintCompletion(res)
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "note stored with the completion")
	return cmd
}

// NewRedeemCommand creates the redeem command
func NewRedeemCommand(svc *Services, rootOpts *RootOptions) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "redeem <habit>",
		Short: "Confirm yesterday's effort while the grace window is open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := findHabit(cmd.Context(), svc, rootOpts.owner(svc), args[0])
			if err != nil {
				return err
			}
			res, err := svc.Completion.CompleteForYesterday(cmd.Context(), h.ID,
				entity.CompletionMeta{Note: note, Source: completionSource},
				rootOpts.timezone(svc), rootOpts.ref(svc))
			if err != nil {
				return err
			}
			return rootOpts.presenter(cmd).PrintCompletion(res)
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "note stored with the completion")
	return cmd
}
