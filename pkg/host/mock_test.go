package host_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamship/makesend-bridge/pkg/host"
)

func TestMockFulfillmentUpdater_FindByTracking(t *testing.T) {
	m := host.NewMockFulfillmentUpdater()
	m.Add(&host.Fulfillment{ID: "ful_01", TrackingNumber: "MS1", AliasID: "ful_01"})
	ctx := context.Background()

	f, err := m.FindByTracking(ctx, "MS1", "")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "ful_01", f.ID)

	// Alias fallback when the tracking number is unknown.
	f, err = m.FindByTracking(ctx, "MS-OTHER", "ful_01")
	require.NoError(t, err)
	require.NotNil(t, f)

	// No match is nil, not an error.
	f, err = m.FindByTracking(ctx, "MS-OTHER", "ful_99")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestMockFulfillmentUpdater_ShippedAtStampedOnce(t *testing.T) {
	m := host.NewMockFulfillmentUpdater()
	m.Add(&host.Fulfillment{ID: "ful_01"})
	ctx := context.Background()

	first := time.Date(2026, 8, 25, 11, 0, 0, 0, time.UTC)
	require.NoError(t, m.MarkShipped(ctx, "ful_01", first, host.TrackingUpdate{Status: "SHIPPED"}))
	require.NoError(t, m.MarkShipped(ctx, "ful_01", first.Add(time.Hour), host.TrackingUpdate{Status: "SHIPPED"}))

	assert.Equal(t, first, *m.Fulfillments["ful_01"].ShippedAt)
	assert.Len(t, m.ShippedIDs, 2)
}

func TestMockServices_NotFound(t *testing.T) {
	ctx := context.Background()

	_, err := host.NewMockStockLocationService().Retrieve(ctx, "loc_x")
	assert.True(t, host.IsType(err, host.ErrNotFound))

	_, err = host.NewMockShippingOptionService().Retrieve(ctx, "so_x")
	assert.True(t, host.IsType(err, host.ErrNotFound))
}
