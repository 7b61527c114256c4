package di

import (
	"sync"

	"go.uber.org/zap"
)

// entry is a slot value: either materialized, or a pending producer that is
// evaluated on first load and memoized.
type entry struct {
	value any
	lazy  bool

	once sync.Once
	err  error
}

func materialized(v any) *entry { return &entry{value: v} }

func pending(producer any) *entry { return &entry{value: producer, lazy: true} }

// raw returns the stored value without evaluating a pending producer.
func (e *entry) raw() any { return e.value }

// load returns the value, invoking a pending producer at most once.
func (e *entry) load(name string, logger *zap.Logger) (any, error) {
	if !e.lazy {
		return e.value, nil
	}
	e.once.Do(func() {
		producer := e.value
		e.value, e.err = invoke(name, producer)
		if e.err != nil {
			logger.Debug("deferred dependency failed", zap.String("slot", name), zap.Error(e.err))
			return
		}
		logger.Debug("deferred dependency evaluated", zap.String("slot", name), zap.String("type", typeName(e.value)))
	})
	return e.value, e.err
}
