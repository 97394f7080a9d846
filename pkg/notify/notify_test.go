package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/hastilong/storefront/pkg/enums"
	"github.com/hastilong/storefront/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedDrainEmpties(t *testing.T) {
	ctx := context.Background()
	feed := NewFeed(5)

	Success(ctx, feed, "Added Vase to cart")
	Error(ctx, feed, "Invalid coupon code")

	got := feed.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, enums.NotificationKindSuccess, got[0].Kind)
	assert.Equal(t, "Invalid coupon code", got[1].Message)
	assert.False(t, got[0].At.IsZero())

	assert.Empty(t, feed.Drain())
	assert.NotNil(t, feed.Drain(), "drain returns an empty slice rather than nil")
}

func TestFeedDropsOldest(t *testing.T) {
	ctx := context.Background()
	feed := NewFeed(2)
	Info(ctx, feed, "one")
	Info(ctx, feed, "two")
	Info(ctx, feed, "three")

	got := feed.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[0].Message)
	assert.Equal(t, "three", got[1].Message)
}

func TestMultiSkipsNilAndFansOut(t *testing.T) {
	ctx := context.Background()
	a, b := NewFeed(3), NewFeed(3)
	n := Multi(a, nil, b)

	Success(ctx, n, "Cart cleared")

	assert.Len(t, a.Drain(), 1)
	assert.Len(t, b.Drain(), 1)
}

func TestLogNotifierWritesDebugEntry(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: buf, Format: "json"})

	Success(context.Background(), NewLogNotifier(logg), "Coupon applied! 10% off")

	assert.Contains(t, buf.String(), `"text":"Coupon applied! 10% off"`)
	assert.Contains(t, buf.String(), `"kind":"success"`)
}

func TestSendIgnoresNilNotifier(t *testing.T) {
	assert.NotPanics(t, func() { Info(context.Background(), nil, "ignored") })
}
