package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewAddCommand creates the add command
func NewAddCommand(svc *Services, rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a habit starting today",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := svc.Habits.Create(cmd.Context(),
				rootOpts.owner(svc), strings.Join(args, " "), rootOpts.timezone(svc), rootOpts.ref(svc))
			if err != nil {
				return err
			}
			return rootOpts.presenter(cmd).PrintHabit(h)
		},
	}
}

// NewListCommand creates the list command
func NewListCommand(svc *Services, rootOpts *RootOptions) *cobra.Command {
	var stored bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List habits, brought up to date with today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := rootOpts.presenter(cmd)
			if stored {
				habits, err := svc.Habits.List(cmd.Context(), rootOpts.owner(svc))
				if err != nil {
					return err
				}
				return p.PrintHabits(habits)
			}

			res, err := svc.CatchUp.ResolveOwner(cmd.Context(), rootOpts.owner(svc), rootOpts.timezone(svc), rootOpts.ref(svc))
			if err != nil {
				return err
			}
			return p.PrintHabits(res.Habits)
		},
	}

	cmd.Flags().BoolVar(&stored, "stored", false, "show stored snapshots without resolving")
	return cmd
}

// NewHistoryCommand creates the history command
func NewHistoryCommand(svc *Services, rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history <habit>",
		Short: "Show the completions recorded for a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := findHabit(cmd.Context(), svc, rootOpts.owner(svc), args[0])
			if err != nil {
				return err
			}
			completions, err := svc.Habits.History(cmd.Context(), h.ID)
			if err != nil {
				return err
			}
			return rootOpts.presenter(cmd).PrintHistory(h, completions)
		},
	}
}
