package di

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeFor[error]()

// isProducer reports whether v is a zero-argument func returning a value, or
// a value and an error.
func isProducer(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case func() any, func() (any, error):
		return true
	}
	ft := reflect.TypeOf(v)
	if ft.Kind() != reflect.Func || ft.NumIn() != 0 {
		return false
	}
	switch ft.NumOut() {
	case 1:
		return true
	case 2:
		return ft.Out(1) == errorType
	}
	return false
}

// invoke calls the producer fn registered for slot name and converts both
// returned errors and panics into ProducerError. fn must satisfy isProducer.
func invoke(name string, fn any) (out any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = ProducerError{Name: name, Err: fmt.Errorf("%w: %v", ErrProducerPanic, rec)}
		}
	}()

	switch f := fn.(type) {
	case func() any:
		return f(), nil
	case func() (any, error):
		v, ferr := f()
		if ferr != nil {
			return nil, ProducerError{Name: name, Err: ferr}
		}
		return v, nil
	}

	results := reflect.ValueOf(fn).Call(nil)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, ProducerError{Name: name, Err: results[1].Interface().(error)}
	}
	return results[0].Interface(), nil
}
