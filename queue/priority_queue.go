// Package queue provides a generic priority queue implementation based on the internal heap
package queue

// Priority queue based on
// https://golang.org/pkg/container/heap/#example__priorityQueue

import (
	"container/heap"
)

// innerPriorityQueue implements heap.Interface and holds the values
type innerPriorityQueue[E any] struct {
	items   []E
	cmpFunc func(E, E) int
}

// PriorityQueue implemented using a heap.
// The smallest value according to the compare function is at the front.
type PriorityQueue[E any] struct {
	ipq innerPriorityQueue[E]
}

// NewPriorityQueue creates a new heap based PriorityQueue using cmpFunc as the comparison function.
// cmpFunc returns a negative number when a belongs in front of b.
func NewPriorityQueue[E any](cmpFunc func(a, b E) int) *PriorityQueue[E] {
	var pq PriorityQueue[E]
	pq.ipq.items = make([]E, 0)
	pq.ipq.cmpFunc = cmpFunc
	heap.Init(&pq.ipq)
	return &pq
}

// Len returns the number of items in the queue
func (pq *PriorityQueue[E]) Len() int {
	return pq.ipq.Len()
}

// Push adds x to the queue
func (pq *PriorityQueue[E]) Push(x E) {
	heap.Push(&pq.ipq, x)
}

// Pop removes and returns the next item in the queue
func (pq *PriorityQueue[E]) Pop() E {
	return heap.Pop(&pq.ipq).(E)
}

// Peek returns the next item in the queue without removing it.
// It panics on an empty queue.
func (pq *PriorityQueue[E]) Peek() E {
	return pq.ipq.items[0]
}

// PeekUpdate reorders the backing heap after the value returned by Peek changed
func (pq *PriorityQueue[E]) PeekUpdate() {
	heap.Fix(&pq.ipq, 0)
}

func (pq *innerPriorityQueue[E]) Len() int {
	return len(pq.items)
}

func (pq *innerPriorityQueue[E]) Less(i, j int) bool {
	return pq.cmpFunc(pq.items[i], pq.items[j]) < 0
}

func (pq *innerPriorityQueue[E]) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
}

func (pq *innerPriorityQueue[E]) Push(x any) {
	pq.items = append(pq.items, x.(E))
}

func (pq *innerPriorityQueue[E]) Pop() any {
	old := pq.items
	n := len(old)
	x := old[n-1]
	var zero E
	old[n-1] = zero // drop the reference
	pq.items = old[0 : n-1]
	return x
}
