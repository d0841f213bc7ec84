package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is one entry of a public catalog snapshot. Products are immutable
// for the lifetime of a catalog view and replaced wholesale on reload.
type Product struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Images []Image         `json:"images,omitempty"`
	Sizes  []string        `json:"sizes,omitempty"`
}

type Image struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// HasVariants reports whether a size must be chosen before the product can be
// added to a cart.
func (p Product) HasVariants() bool {
	return len(p.Sizes) > 0
}

// ParseSizes splits the catalog's comma-delimited size list, trimming blanks.
func ParseSizes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var sizes []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			sizes = append(sizes, s)
		}
	}
	return sizes
}

var sizeDisplayOrder = []string{"P", "M", "G", "GG", "Único"}

// SortSizes orders sizes for display: the standard Brazilian ladder first,
// anything else lexicographic after it.
func SortSizes(sizes []string) []string {
	rank := func(s string) int {
		for i, known := range sizeDisplayOrder {
			if known == s {
				return i
			}
		}
		return -1
	}
	sort.SliceStable(sizes, func(i, j int) bool {
		ri, rj := rank(sizes[i]), rank(sizes[j])
		switch {
		case ri != -1 && rj != -1:
			return ri < rj
		case ri != -1:
			return true
		case rj != -1:
			return false
		default:
			return sizes[i] < sizes[j]
		}
	})
	return sizes
}
