package cli

import (
	"github.com/spf13/cobra"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/valueobject"
	usecase "github.com/ca-srg/habitflow/usecase/interface"
)

// ExportOptions holds the export flags
type ExportOptions struct {
	Output string
	From   string
	To     string
	Habits []string
}

// NewExportCommand creates the export command
func NewExportCommand(svc *Services, rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export completions to CSV",
		Long: `Writes one row per completion between --from and --to (local days, inclusive).
Without dates the configured window ending today is used. --output may be a
file or a directory; a generated file name is used for directories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, svc, rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file or directory")
	cmd.Flags().StringVar(&opts.From, "from", "", "first local day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "last local day (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&opts.Habits, "habit", nil, "limit to habits (ID, prefix or name; repeatable)")

	return cmd
}

func runExport(cmd *cobra.Command, svc *Services, rootOpts *RootOptions, opts *ExportOptions) error {
	owner := rootOpts.owner(svc)

	from, err := parseDay("from", opts.From)
	if err != nil {
		return err
	}
	to, err := parseDay("to", opts.To)
	if err != nil {
		return err
	}

	var ids []string
	for _, arg := range opts.Habits {
		h, err := findHabit(cmd.Context(), svc, owner, arg)
		if err != nil {
			return err
		}
		ids = append(ids, h.ID)
	}

	res, err := svc.Export.Export(cmd.Context(), usecase.CSVExportOptions{
		OwnerID:    owner,
		OutputPath: opts.Output,
		From:       from,
		To:         to,
		HabitIDs:   ids,
		Timezone:   rootOpts.timezone(svc),
		Ref:        rootOpts.ref(svc),
	})
	if err != nil {
		return err
	}
	return rootOpts.presenter(cmd).PrintExport(res)
}

func parseDay(field, value string) (valueobject.LocalDate, error) {
	if value == "" {
		return valueobject.LocalDate{}, nil
	}
	d, err := valueobject.ParseLocalDate(value)
	if err != nil {
		return valueobject.LocalDate{}, domain.ErrInvalidInput(field, "must be YYYY-MM-DD")
	}
	return d, nil
}
