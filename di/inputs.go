package di

import (
	"reflect"
	"sort"
	"strconv"
)

// Named is a name-keyed set of inputs, the natural input of Explicit.
type Named map[string]any

// Positional is an ordered list of inputs, the natural input of Implicit.
type Positional []any

// Inputs is the normalized form of the value passed to Make.
type Inputs struct {
	names  []string
	values []any
	named  bool
}

// NormalizeInputs accepts a single value, a list or a map and returns the
// normalized Inputs:
//
//   - nil yields no inputs
//   - Named, map[string]any and any map with string keys are named
//   - Positional, []any and any other slice or array are positional
//   - anything else is a single positional value
//
// Named inputs are ordered by key so that every strategy sees them in a
// deterministic order. Wrap a slice in Positional{v} to pass it as a single
// value.
func NormalizeInputs(in any) Inputs {
	switch v := in.(type) {
	case nil:
		return Inputs{}
	case Inputs:
		return v
	case Named:
		return fromMap(v)
	case map[string]any:
		return fromMap(v)
	case Positional:
		return fromList(v)
	case []any:
		return fromList(v)
	}

	rv := reflect.ValueOf(in)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return fromMap(m)
	case reflect.Slice, reflect.Array:
		list := make([]any, rv.Len())
		for i := range list {
			list[i] = rv.Index(i).Interface()
		}
		return fromList(list)
	}
	return fromList([]any{in})
}

func fromMap(m map[string]any) Inputs {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	values := make([]any, len(names))
	for i, k := range names {
		values[i] = m[k]
	}
	return Inputs{names: names, values: values, named: true}
}

func fromList(list []any) Inputs {
	names := make([]string, len(list))
	for i := range list {
		names[i] = strconv.Itoa(i)
	}
	values := make([]any, len(list))
	copy(values, list)
	return Inputs{names: names, values: values}
}

// Named reports whether the inputs were keyed by name.
func (in Inputs) Named() bool { return in.named }

// Len returns the number of inputs.
func (in Inputs) Len() int { return len(in.values) }

// Values returns the input values in order.
func (in Inputs) Values() []any {
	out := make([]any, len(in.values))
	copy(out, in.values)
	return out
}

// Keys returns the input keys. Positional inputs are keyed by their index.
func (in Inputs) Keys() []string {
	out := make([]string, len(in.names))
	copy(out, in.names)
	return out
}
