// Copyright 2018 Changkun Ou. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package gosched_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tinyclock/gosched"
)

func TestAnyFieldMatchesEverything(t *testing.T) {
	f := gosched.AnyField()
	assert.True(t, f.IsAny())
	assert.False(t, f.Empty())
	for _, v := range []int{-1, 0, 5, 63, 64, 1000} {
		assert.True(t, f.Matches(v), "any field must match %d", v)
	}
}

func TestOnlyFieldRange(t *testing.T) {
	f := gosched.OnlyField(30)
	assert.True(t, f.Matches(30))
	assert.False(t, f.Matches(29))
	assert.False(t, f.Matches(31))

	assert.True(t, gosched.OnlyField(-1).Empty())
	assert.True(t, gosched.OnlyField(64).Empty())
}

func TestRangeField(t *testing.T) {
	f := gosched.RangeField(10, 15)
	for v := 10; v <= 15; v++ {
		assert.True(t, f.Matches(v))
	}
	assert.False(t, f.Matches(9))
	assert.False(t, f.Matches(16))

	assert.True(t, gosched.RangeField(5, 2).Empty())
	assert.True(t, gosched.RangeField(-1, 5).Empty())
	assert.True(t, gosched.RangeField(0, 64).Empty())
}

func TestEveryField(t *testing.T) {
	f := gosched.EveryField(15)
	for _, v := range []int{0, 15, 30, 45, 60} {
		assert.True(t, f.Matches(v))
	}
	assert.False(t, f.Matches(1))
	assert.True(t, gosched.EveryField(0).Empty())
	assert.True(t, gosched.EveryField(-3).Empty())
}

func TestRangeEveryField(t *testing.T) {
	f := gosched.RangeEveryField(0, 30, 10)
	for _, v := range []int{0, 10, 20, 30} {
		assert.True(t, f.Matches(v))
	}
	assert.False(t, f.Matches(15))
	assert.True(t, gosched.RangeEveryField(0, 30, 0).Empty())
}

func TestListFieldAtomicity(t *testing.T) {
	f := gosched.ListField([]int{1, 2, 3})
	assert.True(t, f.Matches(1))
	assert.True(t, f.Matches(2))
	assert.True(t, f.Matches(3))
	assert.False(t, f.Matches(4))

	// One bad value anywhere in the list clears the whole set, even
	// though earlier values were individually valid.
	bad := gosched.ListField([]int{1, 2, 64})
	assert.True(t, bad.Empty())
	assert.False(t, bad.Matches(1))
}

func TestRawMask(t *testing.T) {
	f := gosched.OnlyField(3)
	assert.Equal(t, uint64(1<<3), f.RawMask())
	assert.Equal(t, uint64(0), gosched.AnyField().RawMask())
}
