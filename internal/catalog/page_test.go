package catalog

import (
	"reflect"
	"testing"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		number, total  int
		wantPages      int
		hasPrev, hasNx bool
	}{
		{1, 0, 0, false, false},
		{1, 6, 1, false, false},
		{1, 7, 2, false, true},
		{2, 7, 2, true, false},
		{0, 13, 3, false, true},
	}
	for _, tt := range tests {
		p := NewPage(tt.number, tt.total)
		if p.TotalPages != tt.wantPages {
			t.Errorf("NewPage(%d, %d).TotalPages = %d, want %d", tt.number, tt.total, p.TotalPages, tt.wantPages)
		}
		if p.HasPrev() != tt.hasPrev || p.HasNext() != tt.hasNx {
			t.Errorf("NewPage(%d, %d) prev/next = %v/%v", tt.number, tt.total, p.HasPrev(), p.HasNext())
		}
	}
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		number, total int
		want          []int
	}{
		{1, 6, nil},
		{1, 18, []int{1, 2, 3}},
		{5, 60, []int{3, 4, 5, 6, 7}},
		{1, 60, []int{1, 2, 3, 4, 5}},
		{10, 60, []int{6, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		got := NewPage(tt.number, tt.total).Numbers()
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("page %d of %d items: Numbers() = %v, want %v", tt.number, tt.total, got, tt.want)
		}
	}
}
