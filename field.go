// Copyright 2018 Changkun Ou. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package gosched

// FieldSet is a compact subset of {0..63} plus an "any" sentinel
// meaning the entire domain. It backs every calendar field of a
// Schedule (minute, hour, day-of-month, month, day-of-week). The
// bitmask shape (a single word, range/every construction) follows the
// example pack's BitSet idiom, narrowed to one fixed-width uint64
// since FieldSet's domain is always 0..63.
type FieldSet struct {
	mask uint64
	any  bool
}

// AnyField returns a FieldSet that matches every value.
func AnyField() FieldSet {
	return FieldSet{any: true}
}

// OnlyField returns a FieldSet matching exactly value. An
// out-of-range value (v<0 or v>63) yields the empty set, which later
// fails schedule validation rather than panicking.
func OnlyField(value int) FieldSet {
	if value < 0 || value > 63 {
		return FieldSet{}
	}
	return FieldSet{mask: 1 << uint(value)}
}

// RangeField returns a FieldSet matching [from, to] inclusive.
// Invalid bounds (negative, inverted, or to>63) yield the empty set.
func RangeField(from, to int) FieldSet {
	if from < 0 || to < 0 || from > to || to > 63 {
		return FieldSet{}
	}
	var mask uint64
	for i := from; i <= to; i++ {
		mask |= 1 << uint(i)
	}
	return FieldSet{mask: mask}
}

// EveryField returns a FieldSet matching 0, step, 2*step, ... up to
// 63. step<=0 yields the empty set.
func EveryField(step int) FieldSet {
	if step <= 0 {
		return FieldSet{}
	}
	var mask uint64
	for i := 0; i <= 63; i += step {
		mask |= 1 << uint(i)
	}
	return FieldSet{mask: mask}
}

// RangeEveryField returns the intersection of RangeField(from, to)
// and EveryField(step). Invalid arguments yield the empty set.
func RangeEveryField(from, to, step int) FieldSet {
	if step <= 0 || from < 0 || to < 0 || from > to || to > 63 {
		return FieldSet{}
	}
	var mask uint64
	for i := 0; i <= to; i += step {
		if i >= from {
			mask |= 1 << uint(i)
		}
	}
	return FieldSet{mask: mask}
}

// ListField returns a FieldSet matching exactly the given values.
// Construction is atomic: if any value is out of [0,63], the whole
// set clears to empty rather than partially applying the list.
func ListField(values []int) FieldSet {
	var mask uint64
	for _, v := range values {
		if v < 0 || v > 63 {
			return FieldSet{}
		}
		mask |= 1 << uint(v)
	}
	return FieldSet{mask: mask}
}

// Matches reports whether value is in the set.
func (f FieldSet) Matches(value int) bool {
	if f.any {
		return true
	}
	if value < 0 || value > 63 {
		return false
	}
	return f.mask&(1<<uint(value)) != 0
}

// IsAny reports whether f is the "any" sentinel.
func (f FieldSet) IsAny() bool { return f.any }

// Empty reports whether f is neither "any" nor has any bit set.
func (f FieldSet) Empty() bool { return !f.any && f.mask == 0 }

// RawMask exposes the underlying bitmask, used by schedule validation
// to test overlap against a field's legal range.
func (f FieldSet) RawMask() uint64 { return f.mask }
