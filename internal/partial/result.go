// Package partial provides the three-way result used when a batch may be
// served partially: every item succeeded, some did, or none did.
package partial

import "sort"

// Outcome tags the variant of a Result.
type Outcome string

const (
	FullSuccess    Outcome = "full_success"
	PartialSuccess Outcome = "partial_success"
	NoSuccess      Outcome = "no_success"
)

// Result is the outcome of processing every item of an entity identified by ID.
// Value is set on FullSuccess and PartialSuccess. Errors is keyed by the id of
// the item each error belongs to and is empty on FullSuccess.
type Result[T, E any] struct {
	Outcome Outcome        `json:"outcome"`
	ID      string         `json:"id"`
	Value   *T             `json:"value,omitempty"`
	Errors  map[string][]E `json:"errors,omitempty"`
}

func Full[T, E any](id string, value T) Result[T, E] {
	return Result[T, E]{Outcome: FullSuccess, ID: id, Value: &value}
}

func Partial[T, E any](id string, value T, errors map[string][]E) Result[T, E] {
	return Result[T, E]{Outcome: PartialSuccess, ID: id, Value: &value, Errors: errors}
}

func None[T, E any](id string, errors map[string][]E) Result[T, E] {
	return Result[T, E]{Outcome: NoSuccess, ID: id, Errors: errors}
}

// Of picks the variant from the number of succeeded items and the accumulated errors.
// An entity without any items and without errors is a full success.
func Of[T, E any](id string, value T, succeeded int, errors map[string][]E) Result[T, E] {
	switch {
	case len(errors) == 0:
		return Full[T, E](id, value)
	case succeeded > 0:
		return Partial(id, value, errors)
	default:
		return None[T](id, errors)
	}
}

// IsSuccess reports whether at least one item succeeded.
func (r Result[T, E]) IsSuccess() bool {
	return r.Outcome != NoSuccess
}

// FailedIDs returns the ids of the failed items in ascending order.
func (r Result[T, E]) FailedIDs() []string {
	ids := make([]string, 0, len(r.Errors))
	for id := range r.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Map transforms the value of a result, keeping its outcome and errors.
func Map[T, U, E any](r Result[T, E], f func(T) U) Result[U, E] {
	out := Result[U, E]{Outcome: r.Outcome, ID: r.ID, Errors: r.Errors}
	if r.Value != nil {
		v := f(*r.Value)
		out.Value = &v
	}
	return out
}

// MergeErrors combines error maps, concatenating the lists of shared keys.
func MergeErrors[E any](maps ...map[string][]E) map[string][]E {
	out := make(map[string][]E)
	for _, m := range maps {
		for id, errs := range m {
			out[id] = append(out[id], errs...)
		}
	}
	return out
}
