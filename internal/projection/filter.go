package projection

import (
	"cmp"
	"slices"

	"github.com/roach88/caasets/internal/model"
	"github.com/roach88/caasets/internal/queryir"
)

// Filter restricts a dataset dimension. The zero value (and Any) applies no
// restriction. Only applies an explicit set, which may be empty: an empty
// explicit set matches nothing.
type Filter[T cmp.Ordered] struct {
	values []T
	active bool
}

// Any returns a filter that matches everything.
func Any[T cmp.Ordered]() Filter[T] {
	return Filter[T]{}
}

// Only returns a filter matching exactly the given values. Duplicates
// collapse.
func Only[T cmp.Ordered](values ...T) Filter[T] {
	vals := slices.Clone(values)
	slices.Sort(vals)
	return Filter[T]{values: slices.Compact(vals), active: true}
}

// Active reports whether the filter restricts anything.
func (f Filter[T]) Active() bool {
	return f.active
}

// Values returns the distinct values of an active filter in ascending order.
func (f Filter[T]) Values() []T {
	return slices.Clone(f.values)
}

// Matches reports whether v passes the filter.
func (f Filter[T]) Matches(v T) bool {
	if !f.active {
		return true
	}
	_, found := slices.BinarySearch(f.values, v)
	return found
}

// predicate returns expr IN (values) for an active filter and nil otherwise.
func (f Filter[T]) predicate(expr queryir.Expr, lit func(T) model.Value) queryir.Predicate {
	if !f.active {
		return nil
	}
	vals := make([]model.Value, len(f.values))
	for i, v := range f.values {
		vals[i] = lit(v)
	}
	return queryir.In{Expr: expr, Values: vals}
}

func textValue(s string) model.Value { return model.Text(s) }

func intValue(i int64) model.Value { return model.Int(i) }
