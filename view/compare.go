package view

import (
	"math"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator orders two non-null values. It compares numerically when both
// sides coerce to numbers and otherwise falls back to case-insensitive
// collation that orders runs of digits by numeric value.
//
// A Comparator holds collation buffers and must not be shared between goroutines.
type Comparator struct {
	collator *collate.Collator
}

// NewComparator creates a comparator using the root locale
func NewComparator() *Comparator {
	return &Comparator{
		collator: collate.New(language.Und, collate.IgnoreCase, collate.Numeric),
	}
}

// Compare returns -1, 0 or +1. Callers handle nulls before comparing.
func (c *Comparator) Compare(a, b Value) int {
	aNum := ToNumber(a)
	bNum := ToNumber(b)
	if !math.IsNaN(aNum) && !math.IsNaN(bNum) {
		switch {
		case aNum < bNum:
			return -1
		case aNum > bNum:
			return 1
		default:
			return 0
		}
	}
	return c.collator.CompareString(a.String(), b.String())
}

// compareNullsLast compares two values with nulls always placed after
// non-null values, whatever the direction. Only non-null pairs are
// affected by direction.
func (c *Comparator) compareNullsLast(a, b Value, dir Direction) int {
	aNull, bNull := a.IsNull(), b.IsNull()
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return 1
	case bNull:
		return -1
	}
	cmp := c.Compare(a, b)
	if dir == Desc {
		return -cmp
	}
	return cmp
}
