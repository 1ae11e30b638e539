package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/erazemk/nakupi/internal/model"
)

// TrendWindow is the number of most recent rated purchases a score covers.
const TrendWindow = 20

// TrendPoint is the rolling success score after one rated purchase.
type TrendPoint struct {
	Label      string  `json:"label"`
	Score      float64 `json:"score"`
	WindowSize int     `json:"window_size"`
}

var epoch = time.Unix(0, 0).UTC()

func purchaseTime(it model.Item) time.Time {
	if it.PurchaseDate == nil {
		return epoch
	}
	return *it.PurchaseDate
}

// RollingSuccess returns one point per rated item in purchase order. The
// score at position i is the percentage of items[max(0,i-19)..i] rated
// SuccessRating or higher. Undated items sort as the Unix epoch.
func RollingSuccess(items []model.Item) []TrendPoint {
	rated := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.Rating != nil {
			rated = append(rated, it)
		}
	}
	slices.SortStableFunc(rated, func(a, b model.Item) int {
		return cmp.Compare(purchaseTime(a).UnixNano(), purchaseTime(b).UnixNano())
	})

	isSuccess := func(it model.Item) int {
		if *it.Rating >= SuccessRating {
			return 1
		}
		return 0
	}

	points := make([]TrendPoint, len(rated))
	successes := 0
	for i, it := range rated {
		successes += isSuccess(it)
		if i >= TrendWindow {
			successes -= isSuccess(rated[i-TrendWindow])
		}
		size := min(i+1, TrendWindow)

		label := "N/A"
		if it.PurchaseDate != nil {
			label = it.PurchaseDate.Format("Jan 06")
		}
		points[i] = TrendPoint{
			Label:      label,
			Score:      float64(successes) / float64(size) * 100,
			WindowSize: size,
		}
	}
	return points
}

// HasTrend reports whether there are enough points to draw a trend line.
func (r *Report) HasTrend() bool {
	return len(r.Trend) >= 2
}

// CurrentScore is the latest rolling score, 0 without rated items.
func (r *Report) CurrentScore() float64 {
	if len(r.Trend) == 0 {
		return 0
	}
	return r.Trend[len(r.Trend)-1].Score
}

// CurrentWindow is the number of purchases the current score is based on.
func (r *Report) CurrentWindow() int {
	if len(r.Trend) == 0 {
		return 0
	}
	return r.Trend[len(r.Trend)-1].WindowSize
}
