package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/entity"
	"github.com/ca-srg/habitflow/interface/presenter"
	usecase "github.com/ca-srg/habitflow/usecase/interface"
)

// Version is set at build time
var Version = "dev"

// Runner is a long-running mode such as the scheduler
type Runner interface {
	Run(ctx context.Context) error
}

// Services are the use cases the commands run against
type Services struct {
	Habits     usecase.HabitService
	CatchUp    usecase.CatchUpService
	Completion usecase.CompletionService
	Export     usecase.CSVExportService
	Config     usecase.ConfigService
	// Scheduler backs serve; nil makes serve fail
	Scheduler Runner
	// Now is the clock every command reads once
	Now func() time.Time
}

// RootOptions holds global flags for all commands
type RootOptions struct {
	Format   string
	Owner    string
	Timezone string
	Now      string
}

// NewRootCommand creates the habitflow command tree
func NewRootCommand(svc *Services, opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "habitflow",
		Short:         "Track habits by local calendar day",
		Long:          "habitflow keeps habit streaks correct across timezones and missed days, with a one-day grace window to redeem yesterday.",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := presenter.New(opts.Format, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			if opts.Now != "" {
				if _, err := time.Parse(time.RFC3339, opts.Now); err != nil {
					return domain.ErrInvalidInput("now", "must be an RFC3339 instant")
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", presenter.FormatText, "output format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.Owner, "owner", "", "owner ID (default from config)")
	cmd.PersistentFlags().StringVar(&opts.Timezone, "timezone", "", "IANA timezone (default from config)")
	cmd.PersistentFlags().StringVar(&opts.Now, "now", "", "pretend the current instant is this RFC3339 time")

	cmd.AddCommand(NewAddCommand(svc, opts))
	cmd.AddCommand(NewListCommand(svc, opts))
	cmd.AddCommand(NewResolveCommand(svc, opts))
	cmd.AddCommand(NewDoneCommand(svc, opts))
	cmd.AddCommand(NewRedeemCommand(svc, opts))
	cmd.AddCommand(NewHistoryCommand(svc, opts))
	cmd.AddCommand(NewExportCommand(svc, opts))
	cmd.AddCommand(NewServeCommand(svc, opts))
	cmd.AddCommand(NewConfigCommand(svc, opts))

	return cmd
}

// Execute runs the command line and returns the process exit code
func Execute(svc *Services, args []string, out, errOut io.Writer) int {
	opts := &RootOptions{}
	cmd := NewRootCommand(svc, opts)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	if err := cmd.Execute(); err != nil {
		p, perr := presenter.New(opts.Format, out, errOut)
		if perr != nil {
			p = presenter.NewConsolePresenter(out, errOut)
		}
		p.PrintError(err)
		return 1
	}
	return 0
}

func (o *RootOptions) presenter(cmd *cobra.Command) presenter.Presenter {
	p, err := presenter.New(o.Format, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return presenter.NewConsolePresenter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	}
	return p
}

func (o *RootOptions) owner(svc *Services) string {
	if o.Owner != "" {
		return o.Owner
	}
	return svc.Config.GetConfig().OwnerID
}

func (o *RootOptions) timezone(svc *Services) string {
	if o.Timezone != "" {
		return o.Timezone
	}
	return svc.Config.GetConfig().Timezone
}

// ref is the reference instant of the invocation
func (o *RootOptions) ref(svc *Services) time.Time {
	if o.Now != "" {
		if t, err := time.Parse(time.RFC3339, o.Now); err == nil {
			return t
		}
	}
	return svc.Now()
}

// findHabit matches arg against the owner's habits by ID, then name, then
// unique ID prefix
func findHabit(ctx context.Context, svc *Services, owner, arg string) (entity.Habit, error) {
	habits, err := svc.Habits.List(ctx, owner)
	if err != nil {
		return entity.Habit{}, err
	}

	for _, h := range habits {
		if h.ID == arg {
			return h, nil
		}
	}

	var byName, byPrefix []entity.Habit
	for _, h := range habits {
		if strings.EqualFold(h.Name, arg) {
			byName = append(byName, h)
		}
		if len(arg) >= 4 && strings.HasPrefix(h.ID, arg) {
			byPrefix = append(byPrefix, h)
		}
	}
	for _, matches := range [][]entity.Habit{byName, byPrefix} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return entity.Habit{}, domain.ErrInvalidInput("habit",
				fmt.Sprintf("%q matches %d habits, use the ID instead", arg, len(matches)))
		}
	}
	return entity.Habit{}, domain.ErrNotFound("habit", arg)
}
