package gen

import (
	"fmt"
	"math/rand"
)

// Const returns a strategy that always produces v. The value never shrinks.
func Const[V any](v V) Strategy[V] {
	return constStrategy[V]{v: v}
}

type constStrategy[V any] struct{ v V }

func (s constStrategy[V]) NewTree(*rand.Rand) (Tree[V], error) {
	return constTree[V]{v: s.v}, nil
}

type constTree[V any] struct{ v V }

func (t constTree[V]) Current() V       { return t.v }
func (t constTree[V]) Simplify() bool   { return false }
func (t constTree[V]) Complicate() bool { return false }

// Int64 returns a strategy producing a uniform value in [lo, hi], inclusive.
// Values shrink towards lo by binary search.
func Int64(lo, hi int64) Strategy[int64] {
	return int64Strategy{lo: lo, hi: hi}
}

// Int is Int64 for plain ints.
func Int(lo, hi int) Strategy[int] {
	return Map(Int64(int64(lo), int64(hi)), func(v int64) int { return int(v) })
}

type int64Strategy struct{ lo, hi int64 }

func (s int64Strategy) NewTree(rng *rand.Rand) (Tree[int64], error) {
	if s.hi < s.lo {
		return nil, fmt.Errorf("gen: invalid range [%d, %d]", s.lo, s.hi)
	}
	return &int64Tree{
		lo:   s.lo,
		curr: s.lo + rng.Int63n(s.hi-s.lo+1),
	}, nil
}

// int64Tree shrinks towards lo. Each Simplify halves the distance to lo and
// remembers the value it left; Complicate restores that value and raises lo
// past the rejected candidate so the same candidate is never offered twice.
type int64Tree struct {
	lo, curr int64
	prev     int64
	hasPrev  bool
}

func (t *int64Tree) Current() int64 { return t.curr }

func (t *int64Tree) Simplify() bool {
	if t.curr <= t.lo {
		return false
	}
	t.prev, t.hasPrev = t.curr, true
	t.curr = t.lo + (t.curr-t.lo)/2
	return true
}

func (t *int64Tree) Complicate() bool {
	if !t.hasPrev {
		return false
	}
	t.lo = t.curr + 1
	t.curr = t.prev
	t.hasPrev = false
	return true
}

// Map transforms the values produced by s with f. Shrinking happens on the
// underlying value; f must be deterministic.
func Map[A, B any](s Strategy[A], f func(A) B) Strategy[B] {
	return mapStrategy[A, B]{s: s, f: f}
}

type mapStrategy[A, B any] struct {
	s Strategy[A]
	f func(A) B
}

func (m mapStrategy[A, B]) NewTree(rng *rand.Rand) (Tree[B], error) {
	t, err := m.s.NewTree(rng)
	if err != nil {
		return nil, err
	}
	return mapTree[A, B]{t: t, f: m.f}, nil
}

type mapTree[A, B any] struct {
	t Tree[A]
	f func(A) B
}

func (t mapTree[A, B]) Current() B       { return t.f(t.t.Current()) }
func (t mapTree[A, B]) Simplify() bool   { return t.t.Simplify() }
func (t mapTree[A, B]) Complicate() bool { return t.t.Complicate() }

// Map2 combines values drawn from two strategies with f.
func Map2[A, B, C any](sa Strategy[A], sb Strategy[B], f func(A, B) C) Strategy[C] {
	return map2Strategy[A, B, C]{sa: sa, sb: sb, f: f}
}

type map2Strategy[A, B, C any] struct {
	sa Strategy[A]
	sb Strategy[B]
	f  func(A, B) C
}

func (m map2Strategy[A, B, C]) NewTree(rng *rand.Rand) (Tree[C], error) {
	ta, err := m.sa.NewTree(rng)
	if err != nil {
		return nil, err
	}
	tb, err := m.sb.NewTree(rng)
	if err != nil {
		return nil, err
	}
	return &map2Tree[A, B, C]{a: ta, b: tb, f: m.f}, nil
}

type map2Tree[A, B, C any] struct {
	a    Tree[A]
	b    Tree[B]
	f    func(A, B) C
	last int // 0: none, 1: a, 2: b
}

func (t *map2Tree[A, B, C]) Current() C { return t.f(t.a.Current(), t.b.Current()) }

func (t *map2Tree[A, B, C]) Simplify() bool {
	if t.a.Simplify() {
		t.last = 1
		return true
	}
	if t.b.Simplify() {
		t.last = 2
		return true
	}
	return false
}

func (t *map2Tree[A, B, C]) Complicate() bool {
	switch t.last {
	case 1:
		if t.a.Complicate() {
			return true
		}
	case 2:
		if t.b.Complicate() {
			return true
		}
	}
	t.last = 0
	return false
}

// OneOf draws uniformly between the given strategies. Shrinking stays within
// the chosen alternative.
func OneOf[V any](choices ...Strategy[V]) Strategy[V] {
	return oneOfStrategy[V]{choices: choices}
}

type oneOfStrategy[V any] struct{ choices []Strategy[V] }

func (s oneOfStrategy[V]) NewTree(rng *rand.Rand) (Tree[V], error) {
	if len(s.choices) == 0 {
		return nil, ErrNoChoices
	}
	return s.choices[rng.Intn(len(s.choices))].NewTree(rng)
}
