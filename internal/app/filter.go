package app

import (
	"sort"

	"marzi/internal/domain"
)

type BudgetTier string

const (
	BudgetAll    BudgetTier = "all"
	BudgetLow    BudgetTier = "budget"
	BudgetMid    BudgetTier = "mid"
	BudgetLuxury BudgetTier = "luxury"
)

type DurationTier string

const (
	DurationAll    DurationTier = "all"
	DurationShort  DurationTier = "short"
	DurationMedium DurationTier = "medium"
	DurationLong   DurationTier = "long"
)

type SortKey string

const (
	SortNone        SortKey = "none"
	SortPriceAsc    SortKey = "price-asc"
	SortPriceDesc   SortKey = "price-desc"
	SortDurationAsc SortKey = "duration-asc"
	SortRatingDesc  SortKey = "rating-desc"
)

// Criteria selects and orders packages. The zero value (or "all"/"none"
// everywhere) passes everything through in input order.
type Criteria struct {
	Budget   BudgetTier
	Duration DurationTier
	SortBy   SortKey
}

// Tier boundaries are inclusive on both sides at the seams: 50000 is both
// budget and mid, 150000 both mid and luxury, and likewise days 3/4 and
// 7/8 for durations. Callers rely on this overlap.
func (c Criteria) matches(p domain.Package) bool {
	switch c.Budget {
	case BudgetLow:
		if p.Price > 50000 {
			return false
		}
	case BudgetMid:
		if p.Price < 50000 || p.Price > 150000 {
			return false
		}
	case BudgetLuxury:
		if p.Price < 150000 {
			return false
		}
	}
	switch c.Duration {
	case DurationShort:
		if p.Days > 3 {
			return false
		}
	case DurationMedium:
		if p.Days < 4 || p.Days > 7 {
			return false
		}
	case DurationLong:
		if p.Days < 8 {
			return false
		}
	}
	return true
}

// FilterAndSort returns the packages passing every active criterion, in
// the requested order. Pure: the input slice is never mutated and equal
// sort keys keep their filtered relative order.
func FilterAndSort(pkgs []domain.Package, c Criteria) []domain.Package {
	out := make([]domain.Package, 0, len(pkgs))
	for _, p := range pkgs {
		if c.matches(p) {
			out = append(out, p)
		}
	}

	switch c.SortBy {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortDurationAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Days < out[j].Days })
	case SortRatingDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out
}

// ParseCriteria validates raw query values into Criteria. Empty strings
// mean "all"/"none"; anything else unknown is rejected so the HTTP edge
// can 400 instead of silently ignoring a typo.
func ParseCriteria(budget, duration, sortBy string) (Criteria, bool) {
	c := Criteria{Budget: BudgetAll, Duration: DurationAll, SortBy: SortNone}
	switch BudgetTier(budget) {
	case "", BudgetAll:
	case BudgetLow, BudgetMid, BudgetLuxury:
		c.Budget = BudgetTier(budget)
	default:
		return Criteria{}, false
	}
	switch DurationTier(duration) {
	case "", DurationAll:
	case DurationShort, DurationMedium, DurationLong:
		c.Duration = DurationTier(duration)
	default:
		return Criteria{}, false
	}
	switch SortKey(sortBy) {
	case "", SortNone:
	case SortPriceAsc, SortPriceDesc, SortDurationAsc, SortRatingDesc:
		c.SortBy = SortKey(sortBy)
	default:
		return Criteria{}, false
	}
	return c, true
}
