package catalog

// Page describes where a listing page sits within the filtered result.
type Page struct {
	Number     int
	TotalItems int
	TotalPages int
}

// NewPage computes pagination figures for a total count.
func NewPage(number, totalItems int) Page {
	if number < 1 {
		number = 1
	}
	return Page{
		Number:     number,
		TotalItems: totalItems,
		TotalPages: (totalItems + PageSize - 1) / PageSize,
	}
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.TotalPages }
func (p Page) Prev() int     { return p.Number - 1 }
func (p Page) Next() int     { return p.Number + 1 }

// Numbers returns the page numbers to link, at most five around the current page.
func (p Page) Numbers() []int {
	if p.TotalPages <= 1 {
		return nil
	}
	start := max(1, p.Number-2)
	end := min(p.TotalPages, start+4)
	start = max(1, end-4)

	nums := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		nums = append(nums, n)
	}
	return nums
}
