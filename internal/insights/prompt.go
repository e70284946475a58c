package insights

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"fashion-dashboard/internal/models"
)

var tableHeader = []string{
	"Brand", "Category", "Classified_Category", "Marketing_Group", "Month_Name", "Quantity_Sold", "Quantity_In_Stock",
}

// BuildPrompt asks the model question about the records in view.
func BuildPrompt(question string, view []models.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a fashion retail expert. Based on the following data, %s\n", question)
	b.WriteString("Data:\n")
	b.WriteString(FormatTable(view))
	b.WriteString("Please provide a detailed analysis and recommendations.\n")
	return b.String()
}

// FormatTable renders records as a right-aligned plain-text table, one line
// per record under a header line.
func FormatTable(view []models.Record) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 1, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, strings.Join(tableHeader, "\t")+"\t")
	for _, r := range view {
		fmt.Fprintln(tw, strings.Join([]string{
			r.Brand,
			r.Category,
			r.ClassifiedCategory,
			r.MarketingGroup,
			r.MonthName,
			formatQuantity(r.QuantitySold),
			formatQuantity(r.QuantityInStock),
		}, "\t")+"\t")
	}
	tw.Flush()
	return b.String()
}

func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
