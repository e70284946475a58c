package services

import (
	"fashion-dashboard/internal/models"
)

// Filter returns the records matching every predicate of spec, in dataset
// order. The returned slice never aliases the dataset's backing array.
func Filter(dataset []models.Record, spec models.FilterSpec) []models.Record {
	months := toSet(spec.Months)
	categories := toSet(spec.Categories)

	view := make([]models.Record, 0)
	for _, r := range dataset {
		if r.MarketingGroup != spec.MarketingGroup || r.ClassifiedCategory != spec.ClassifiedCategory {
			continue
		}
		if _, ok := months[r.MonthName]; !ok {
			continue
		}
		if _, ok := categories[r.Category]; !ok {
			continue
		}
		view = append(view, r)
	}
	return view
}

// ResolveFilter fills the defaults of req against dataset: the first
// marketing group and classified category in the dataset, every month
// available under those, and every category available under the months.
func ResolveFilter(dataset []models.Record, req models.FilterRequest) models.FilterSpec {
	spec := models.FilterSpec{
		MarketingGroup:     req.MarketingGroup,
		ClassifiedCategory: req.ClassifiedCategory,
	}

	if spec.MarketingGroup == "" {
		if groups := uniqueValues(dataset, func(r models.Record) string { return r.MarketingGroup }); len(groups) > 0 {
			spec.MarketingGroup = groups[0]
		}
	}
	if spec.ClassifiedCategory == "" {
		if classes := uniqueValues(dataset, func(r models.Record) string { return r.ClassifiedCategory }); len(classes) > 0 {
			spec.ClassifiedCategory = classes[0]
		}
	}

	opts := Options(dataset, models.FilterSpec{
		MarketingGroup:     spec.MarketingGroup,
		ClassifiedCategory: spec.ClassifiedCategory,
		Months:             req.Months,
	})

	if req.Months == nil {
		spec.Months = opts.Months
	} else {
		spec.Months = req.Months
	}

	if req.Categories == nil {
		// Categories cascade from the resolved month selection.
		spec.Categories = Options(dataset, spec).Categories
	} else {
		spec.Categories = req.Categories
	}

	if spec.Months == nil {
		spec.Months = []string{}
	}
	if spec.Categories == nil {
		spec.Categories = []string{}
	}
	return spec
}

// Options lists the choices available to a user under spec. Marketing groups
// and classified categories cover the whole dataset; months are those present
// under the selected marketing group and classified category; categories are
// those present under the selected months as well. All lists keep
// first-appearance order.
func Options(dataset []models.Record, spec models.FilterSpec) models.FilterOptions {
	opts := models.FilterOptions{
		MarketingGroups:      uniqueValues(dataset, func(r models.Record) string { return r.MarketingGroup }),
		ClassifiedCategories: uniqueValues(dataset, func(r models.Record) string { return r.ClassifiedCategory }),
	}

	var base []models.Record
	for _, r := range dataset {
		if r.MarketingGroup == spec.MarketingGroup && r.ClassifiedCategory == spec.ClassifiedCategory {
			base = append(base, r)
		}
	}
	opts.Months = uniqueValues(base, func(r models.Record) string { return r.MonthName })

	months := opts.Months
	if spec.Months != nil {
		months = spec.Months
	}
	selected := toSet(months)

	var inMonths []models.Record
	for _, r := range base {
		if _, ok := selected[r.MonthName]; ok {
			inMonths = append(inMonths, r)
		}
	}
	opts.Categories = uniqueValues(inMonths, func(r models.Record) string { return r.Category })

	return opts
}

func uniqueValues(records []models.Record, field func(models.Record) string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, r := range records {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
