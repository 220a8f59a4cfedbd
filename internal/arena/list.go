package arena

import "unsafe"

// Cell is a singly-linked list node living in a Pool. Cell itself also
// serves as the iterator ("program counter") type for any List built over
// it: deref is Value, pre-increment is Next(), and the zero value (nil) is
// the list's end().
type Cell[T any] struct {
	Value T
	next  *Cell[T]
}

// Next returns the following cell, or nil at the end of the list.
func (c *Cell[T]) Next() *Cell[T] { return c.next }

// FreeList recycles Cell[T] values of one type T, bump-allocating from a
// Pool only when nothing is available to reuse. One FreeList is shared by
// every List[T] that needs cells of that exact T, which is what makes the
// "live + free == total allocated for T" invariant meaningful: cells
// handed back by any List's PopFront are available to any other List's
// PushBack.
type FreeList[T any] struct {
	pool      *Pool
	head      *Cell[T]
	allocated int
	freed     int
}

// NewFreeList creates a FreeList drawing raw bytes from pool. pool may be
// nil, in which case the free-list still recycles cells but never reports
// ErrOutOfMemory.
func NewFreeList[T any](pool *Pool) *FreeList[T] {
	fl := &FreeList[T]{pool: pool}
	if pool != nil {
		pool.register(fl)
	}
	return fl
}

// Allocated reports the total number of cells ever bump-allocated (not
// counting reuses) by this free-list.
func (fl *FreeList[T]) Allocated() int { return fl.allocated }

// Freed reports the number of cells currently parked on the free-list.
func (fl *FreeList[T]) Freed() int { return fl.freed }

func (fl *FreeList[T]) freeBytes() int {
	var zero Cell[T]
	return fl.freed * int(unsafe.Sizeof(zero))
}

func (fl *FreeList[T]) reset() {
	fl.head = nil
	fl.allocated = 0
	fl.freed = 0
}

func (fl *FreeList[T]) get(value T) (*Cell[T], error) {
	if c := fl.head; c != nil {
		fl.head = c.next
		fl.freed--
		c.next = nil
		c.Value = value
		return c, nil
	}
	var zero Cell[T]
	if fl.pool != nil {
		if err := fl.pool.alloc(int(unsafe.Sizeof(zero))); err != nil {
			return nil, err
		}
	}
	fl.allocated++
	return &Cell[T]{Value: value}, nil
}

func (fl *FreeList[T]) put(c *Cell[T]) {
	var zero T
	c.Value = zero
	c.next = fl.head
	fl.head = c
	fl.freed++
}

// List is the only container the engine uses: an intrusive singly-linked
// list whose cells come from a FreeList. PushBack head-inserts (so a body
// built purely from PushBack calls comes out in reverse token order; see
// Reverse), and PopFront is LIFO over that same head, which is what makes
// List double as the data stack and the control-state stacks.
type List[T any] struct {
	free *FreeList[T]
	head *Cell[T]
	len  int
}

// NewList creates an empty List drawing cells from free.
func NewList[T any](free *FreeList[T]) *List[T] {
	return &List[T]{free: free}
}

// PushBack head-inserts v, returning the new cell.
func (l *List[T]) PushBack(v T) (*Cell[T], error) {
	c, err := l.free.get(v)
	if err != nil {
		return nil, err
	}
	c.next = l.head
	l.head = c
	l.len++
	return c, nil
}

// PopFront removes and returns the head value, returning ok=false on an
// empty list. The popped cell is returned to the free-list.
func (l *List[T]) PopFront() (v T, ok bool) {
	if l.head == nil {
		return v, false
	}
	c := l.head
	l.head = c.next
	l.len--
	v = c.Value
	l.free.put(c)
	return v, true
}

// Begin returns the head cell (nil if empty); it is also the list's
// front-peek and its program-counter start.
func (l *List[T]) Begin() *Cell[T] { return l.head }

// End is the sentinel "one past the last" iterator: always nil, since this
// is a singly-linked list with no tail sentinel cell.
func (l *List[T]) End() *Cell[T] { return nil }

// Empty reports whether the list has no elements.
func (l *List[T]) Empty() bool { return l.head == nil }

// Len reports the current element count.
func (l *List[T]) Len() int { return l.len }

// Clear returns every cell to the free-list, emptying the list.
func (l *List[T]) Clear() {
	for l.head != nil {
		next := l.head.next
		l.free.put(l.head)
		l.head = next
	}
	l.len = 0
}

// Reverse flips link direction in place. Because PushBack head-inserts, a
// body compiled by repeated PushBack calls comes out back-to-front; the
// parser calls Reverse once at ';' to restore natural execution order.
func (l *List[T]) Reverse() {
	var prev *Cell[T]
	cur := l.head
	for cur != nil {
		next := cur.next
		cur.next = prev
		prev = cur
		cur = next
	}
	l.head = prev
}

// Slice copies the list's values from front to back; used by display
// operations (like .S) that must not otherwise mutate the list.
func (l *List[T]) Slice() []T {
	out := make([]T, 0, l.len)
	for c := l.head; c != nil; c = c.next {
		out = append(out, c.Value)
	}
	return out
}
