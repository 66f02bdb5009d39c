// Package workflow orchestrates the multi-step shipment creation flow
// with compensation on failure.
package workflow

import (
	"context"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// CompensateFunc undoes one completed step.
type CompensateFunc func(ctx context.Context) error

type compensation struct {
	name string
	fn   CompensateFunc
}

// Saga collects compensations for completed steps and runs them in
// reverse order on rollback. Compensation failures are logged and never
// propagated: the original error is what the caller needs to see.
type Saga struct {
	logger        *otelzap.Logger
	compensations []compensation
}

// NewSaga creates an empty saga.
func NewSaga(logger *otelzap.Logger) *Saga {
	return &Saga{logger: logger}
}

// Add registers a compensation for a completed step.
func (s *Saga) Add(name string, fn CompensateFunc) {
	s.compensations = append(s.compensations, compensation{name: name, fn: fn})
}

// Rollback runs all registered compensations, newest first.
func (s *Saga) Rollback(ctx context.Context) {
	for i := len(s.compensations) - 1; i >= 0; i-- {
		c := s.compensations[i]
		if err := c.fn(ctx); err != nil {
			s.logger.Ctx(ctx).Error("Compensation failed",
				zap.String("step", c.name),
				zap.Error(err),
			)
		}
	}
	s.compensations = nil
}
