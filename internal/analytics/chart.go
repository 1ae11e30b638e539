package analytics

import (
	"strconv"
	"strings"
)

// ChartPoint is a trend point placed in SVG coordinates.
type ChartPoint struct {
	X, Y      float64
	Label     string
	ShowLabel bool
}

// TrendChart is the geometry of the trend line graph.
type TrendChart struct {
	Width, Height, Padding float64
	Path                   string
	Points                 []ChartPoint
}

// Chart lays the trend out in a width×height box. It returns nil when
// there are fewer than two points to connect.
func (r *Report) Chart(width, height, padding float64) *TrendChart {
	if !r.HasTrend() {
		return nil
	}

	c := &TrendChart{Width: width, Height: height, Padding: padding}
	step := (width - padding*2) / float64(len(r.Trend)-1)
	parts := make([]string, len(r.Trend))
	for i, p := range r.Trend {
		x := padding + float64(i)*step
		y := height - padding - (p.Score/100)*(height-padding*2)
		c.Points = append(c.Points, ChartPoint{
			X:         x,
			Y:         y,
			Label:     p.Label,
			ShowLabel: i == len(r.Trend)-1 || i%5 == 0,
		})
		parts[i] = formatCoord(x) + "," + formatCoord(y)
	}
	c.Path = "M " + strings.Join(parts, " L ")
	return c
}

// MidY is the y coordinate of the 50% grid line.
func (c *TrendChart) MidY() float64 { return c.Height / 2 }

// BottomY is the y coordinate of the 0% grid line.
func (c *TrendChart) BottomY() float64 { return c.Height - c.Padding }

// RightX is the x coordinate where grid lines end.
func (c *TrendChart) RightX() float64 { return c.Width - c.Padding }

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
