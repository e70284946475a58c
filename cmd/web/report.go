package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"fashion-dashboard/internal/models"
)

type reportFlags struct {
	marketingGroup     string
	classifiedCategory string
	months             []string
	categories         []string
}

func newReportCmd() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard report for a filter as JSON",
		Long: `Loads the dataset and prints every dashboard section for the given
filter. Omitted flags fall back to the dashboard defaults; passing
--month="" selects no months.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, analytics, err := setup(cmd.Context())
			if err != nil {
				return err
			}

			spec := analytics.ResolveFilter(flags.request(cmd))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(analytics.Report(spec))
		},
	}

	cmd.Flags().StringVar(&flags.marketingGroup, "marketing-group", "", "marketing group (default: first in dataset)")
	cmd.Flags().StringVar(&flags.classifiedCategory, "classified-category", "", "classified category (default: first in dataset)")
	cmd.Flags().StringSliceVar(&flags.months, "month", nil, "months to include, repeatable (default: all available)")
	cmd.Flags().StringSliceVar(&flags.categories, "category", nil, "categories to include, repeatable (default: all available)")

	return cmd
}

// request maps the flags onto a filter request. A repeatable flag that was
// given selects exactly its non-empty values.
func (f reportFlags) request(cmd *cobra.Command) models.FilterRequest {
	req := models.FilterRequest{
		MarketingGroup:     f.marketingGroup,
		ClassifiedCategory: f.classifiedCategory,
	}
	if cmd.Flags().Changed("month") {
		req.Months = nonEmpty(f.months)
	}
	if cmd.Flags().Changed("category") {
		req.Categories = nonEmpty(f.categories)
	}
	return req
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
