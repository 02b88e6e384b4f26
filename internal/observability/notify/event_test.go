package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiSkipsNilSinks(t *testing.T) {
	assert.Nil(t, Multi())
	assert.Nil(t, Multi(nil, nil))

	only := SinkFunc(func(context.Context, DeliveryPayload) error { return nil })
	assert.NotNil(t, Multi(nil, only))
}

func TestMultiDeliversToAllSinks(t *testing.T) {
	var first, second int
	sink := Multi(
		SinkFunc(func(context.Context, DeliveryPayload) error { first++; return nil }),
		SinkFunc(func(context.Context, DeliveryPayload) error { second++; return nil }),
	)

	require.NoError(t, sink.SendDelivery(context.Background(), DeliveryPayload{BatchID: "b1"}))
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestMultiFailureNeverSilencesSiblings(t *testing.T) {
	var delivered int
	boom := errors.New("webhook down")
	sink := Multi(
		SinkFunc(func(context.Context, DeliveryPayload) error { return boom }),
		SinkFunc(func(context.Context, DeliveryPayload) error { delivered++; return nil }),
	)

	err := sink.SendDelivery(context.Background(), DeliveryPayload{BatchID: "b1"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, delivered)
}
