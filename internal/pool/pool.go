// Copyright 2018 Changkun Ou. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

// Package pool provides the scheduler's container allocator. It is a
// direct descendant of the original connection-pool wrapper (which
// managed a redis.Pool of network connections): the "acquire one
// previously-initialized resource, recycle it when the caller is done
// with it" shape is unchanged, but the managed resource is now a
// job-table backing slice rather than a redis.Conn, since this
// scheduler has no network store to pool.
package pool

import "sync"

// Allocator hands out and recycles slices used as job-table backing
// storage. SchedulerConfig.UsePSRAMBuffers selects a sync.Pool-backed
// allocator (Arena) instead of the default allocator (Default), the
// closest general-purpose-runtime analogue to routing a container
// into a separate, slower memory region: a dedicated, reused arena
// instead of relying on the regular allocator for every grow.
type Allocator[T any] interface {
	// Get returns a slot slice with at least capacityHint capacity
	// and zero length.
	Get(capacityHint int) []T
	// Put returns a slot slice for reuse. Callers must not touch buf
	// after calling Put.
	Put(buf []T)
}

// Default allocates directly from the Go heap and never recycles.
type Default[T any] struct{}

// Get implements Allocator.
func (Default[T]) Get(capacityHint int) []T { return make([]T, 0, capacityHint) }

// Put implements Allocator.
func (Default[T]) Put([]T) {}

// Arena is a sync.Pool-backed Allocator, used when the caller opts
// into SchedulerConfig.UsePSRAMBuffers. Buffers are recycled across
// Get/Put calls instead of being released to the garbage collector
// immediately, trading a little retained memory for fewer allocations
// on the scheduler's job-table growth path.
type Arena[T any] struct {
	pool sync.Pool
}

// NewArena constructs an Arena whose pooled slices start at
// capacityHint elements.
func NewArena[T any](capacityHint int) *Arena[T] {
	a := &Arena[T]{}
	a.pool.New = func() interface{} {
		return make([]T, 0, capacityHint)
	}
	return a
}

// Get implements Allocator.
func (a *Arena[T]) Get(capacityHint int) []T {
	buf := a.pool.Get().([]T)
	if cap(buf) < capacityHint {
		return make([]T, 0, capacityHint)
	}
	return buf[:0]
}

// Put implements Allocator.
func (a *Arena[T]) Put(buf []T) {
	if buf == nil {
		return
	}
	a.pool.Put(buf[:0])
}

// Select returns the Allocator a scheduler should use for the given
// config flag, sized with a small default capacity hint matching the
// typical number of concurrently registered jobs on a constrained
// device.
func Select[T any](usePSRAM bool) Allocator[T] {
	if usePSRAM {
		return NewArena[T](64)
	}
	return Default[T]{}
}
