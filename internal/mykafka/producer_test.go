package mykafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishEvent_WritesJSON(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w}

	event := map[string]any{"type": "product_created", "productID": 7, "name": "Lamp"}
	require.NoError(t, p.PublishEvent(context.Background(), TopicProductEvents, "7", event))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, TopicProductEvents, w.msgs[0].Topic)
	assert.Equal(t, []byte("7"), w.msgs[0].Key)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "product_created", got["type"])
	assert.EqualValues(t, 7, got["productID"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishEvent_Errors(t *testing.T) {
	p := &Producer{writer: &fakeWriter{err: errors.New("broker down")}}
	err := p.PublishEvent(context.Background(), TopicUserEvents, "1", map[string]any{"type": "user_registered"})
	assert.ErrorContains(t, err, "broker down")

	err = p.PublishEvent(context.Background(), TopicUserEvents, "1", make(chan int))
	assert.ErrorContains(t, err, "json.Marshal")
}

func TestNew_NopWithoutBrokers(t *testing.T) {
	pub := New(nil)
	_, ok := pub.(Nop)
	assert.True(t, ok)
	assert.NoError(t, pub.PublishEvent(context.Background(), TopicUserEvents, "1", nil))

	_, ok = New([]string{"localhost:9092"}).(*Producer)
	assert.True(t, ok)
}
