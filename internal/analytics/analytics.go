// Package analytics aggregates purchased items into the figures shown on
// the analytics page: spend totals and breakdowns, a six-month series, the
// rating histogram and the rolling purchase-success trend.
package analytics

import (
	"cmp"
	"slices"
	"strconv"
	"time"

	"github.com/erazemk/nakupi/internal/model"
)

const (
	// MonthsShown is the length of the monthly spend series.
	MonthsShown = 6
	// TopStores caps the store breakdown.
	TopStores = 5
	// SuccessRating is the lowest rating counted as a successful purchase.
	SuccessRating = 4
)

// GroupSum is the spend of one category, year or store.
type GroupSum struct {
	Name    string      `json:"name"`
	Value   model.Money `json:"value_cents"`
	Percent float64     `json:"percent"`
}

// MonthSum is the spend of one calendar month.
type MonthSum struct {
	Label string      `json:"label"`
	Start time.Time   `json:"start"`
	Value model.Money `json:"value_cents"`
	// Height is the bar height relative to the busiest month, 0–100.
	Height float64 `json:"height"`
}

// RatingBucket counts the items with one rating value.
type RatingBucket struct {
	Rating  int     `json:"rating"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Report is the full analytics result.
type Report struct {
	TotalSpend model.Money `json:"total_spend_cents"`
	TotalCount int         `json:"total_count"`

	ByCategory []GroupSum `json:"by_category"`
	ByYear     []GroupSum `json:"by_year"`
	ByStore    []GroupSum `json:"by_store"`

	Monthly    []MonthSum  `json:"monthly"`
	MonthlyMax model.Money `json:"monthly_max_cents"`

	// Ratings holds buckets for 5 down to 1.
	Ratings     []RatingBucket `json:"ratings"`
	RatedCount  int            `json:"rated_count"`
	SuccessRate float64        `json:"success_rate"`

	Trend []TrendPoint `json:"trend"`
}

// Compute builds the report for the given items as of now. Wishlist items
// are skipped.
func Compute(items []model.Item, now time.Time) *Report {
	purchased := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.Status != model.StatusWishlist {
			purchased = append(purchased, it)
		}
	}

	r := &Report{TotalCount: len(purchased)}
	for _, it := range purchased {
		r.TotalSpend += it.Price
	}

	r.ByCategory = groupByName(purchased, r.TotalSpend, func(it model.Item) string { return it.CategoryName })
	r.ByStore = groupByName(purchased, r.TotalSpend, func(it model.Item) string { return it.StoreName })
	if len(r.ByStore) > TopStores {
		r.ByStore = r.ByStore[:TopStores]
	}
	r.ByYear = groupByYear(purchased, r.TotalSpend)

	r.Monthly, r.MonthlyMax = monthlySeries(purchased, now)

	r.Ratings, r.RatedCount, r.SuccessRate = ratingDistribution(purchased)
	r.Trend = RollingSuccess(purchased)

	return r
}

func percentOf(part, total model.Money) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// groupByName sums spend per key, largest first. Ties sort by name so the
// order is stable between renders.
func groupByName(items []model.Item, total model.Money, key func(model.Item) string) []GroupSum {
	sums := map[string]model.Money{}
	for _, it := range items {
		sums[key(it)] += it.Price
	}

	groups := make([]GroupSum, 0, len(sums))
	for name, v := range sums {
		groups = append(groups, GroupSum{Name: name, Value: v, Percent: percentOf(v, total)})
	}
	slices.SortFunc(groups, func(a, b GroupSum) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return groups
}

// groupByYear sums spend per filing year, newest year first.
func groupByYear(items []model.Item, total model.Money) []GroupSum {
	sums := map[int]model.Money{}
	for _, it := range items {
		sums[it.YearValue] += it.Price
	}

	years := make([]int, 0, len(sums))
	for y := range sums {
		years = append(years, y)
	}
	slices.Sort(years)
	slices.Reverse(years)

	groups := make([]GroupSum, len(years))
	for i, y := range years {
		groups[i] = GroupSum{Name: strconv.Itoa(y), Value: sums[y], Percent: percentOf(sums[y], total)}
	}
	return groups
}

// monthlySeries sums spend for the MonthsShown calendar months ending with
// the month of now. Every month is present even when empty.
func monthlySeries(items []model.Item, now time.Time) ([]MonthSum, model.Money) {
	months := make([]MonthSum, MonthsShown)
	for i := range months {
		start := time.Date(now.Year(), now.Month()-time.Month(MonthsShown-1-i), 1, 0, 0, 0, 0, now.Location())
		months[i] = MonthSum{Label: start.Format("Jan 2006"), Start: start}
	}

	for _, it := range items {
		if it.PurchaseDate == nil {
			continue
		}
		d := it.PurchaseDate
		for i := range months {
			if d.Year() == months[i].Start.Year() && d.Month() == months[i].Start.Month() {
				months[i].Value += it.Price
				break
			}
		}
	}

	var maxValue model.Money = 1
	for _, m := range months {
		maxValue = max(maxValue, m.Value)
	}
	for i := range months {
		months[i].Height = float64(months[i].Value) / float64(maxValue) * 100
	}

	return months, maxValue
}

// ratingDistribution counts ratings 1–5 and the share rated SuccessRating or more.
func ratingDistribution(items []model.Item) ([]RatingBucket, int, float64) {
	var counts [6]int
	rated, successful := 0, 0
	for _, it := range items {
		if it.Rating == nil {
			continue
		}
		rated++
		r := *it.Rating
		if r >= 1 && r <= 5 {
			counts[r]++
		}
		if r >= SuccessRating {
			successful++
		}
	}

	buckets := make([]RatingBucket, 0, 5)
	for r := 5; r >= 1; r-- {
		b := RatingBucket{Rating: r, Count: counts[r]}
		if rated > 0 {
			b.Percent = float64(counts[r]) / float64(rated) * 100
		}
		buckets = append(buckets, b)
	}

	rate := 0.0
	if rated > 0 {
		rate = float64(successful) / float64(rated) * 100
	}
	return buckets, rated, rate
}
