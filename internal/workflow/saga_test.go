package workflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/siamship/makesend-bridge/internal/workflow"
)

func TestSagaRollbackRunsInReverseOrder(t *testing.T) {
	saga := workflow.NewSaga(otelzap.New(zap.NewNop()))

	var order []string
	saga.Add("first", func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	saga.Add("second", func(context.Context) error {
		order = append(order, "second")
		return nil
	})

	saga.Rollback(context.Background())
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestSagaRollbackContinuesPastFailures(t *testing.T) {
	saga := workflow.NewSaga(otelzap.New(zap.NewNop()))

	var ran []string
	saga.Add("first", func(context.Context) error {
		ran = append(ran, "first")
		return nil
	})
	saga.Add("second", func(context.Context) error {
		ran = append(ran, "second")
		return errors.New("boom")
	})

	saga.Rollback(context.Background())
	assert.Equal(t, []string{"second", "first"}, ran)
}

func TestSagaRollbackIsIdempotent(t *testing.T) {
	saga := workflow.NewSaga(otelzap.New(zap.NewNop()))

	count := 0
	saga.Add("only", func(context.Context) error {
		count++
		return nil
	})

	saga.Rollback(context.Background())
	saga.Rollback(context.Background())
	assert.Equal(t, 1, count)
}
