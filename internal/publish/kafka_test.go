package publish

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/datasnap/internal/config"
	"github.com/alexanderjulianmartinez/datasnap/pkg/types"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublish(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(w, "datasnap.compare", hclog.NewNullLogger())

	rep := types.CompareReport{Source: "shop", Status: types.StatusChanged, AddedTables: []string{"orders"}}
	require.NoError(t, p.Publish(context.Background(), rep))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "shop", string(msg.Key))
	assert.Equal(t, "status", msg.Headers[0].Key)
	assert.Equal(t, types.StatusChanged, string(msg.Headers[0].Value))

	var got types.CompareReport
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, []string{"orders"}, got.AddedTables)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishError(t *testing.T) {
	p := newPublisher(&fakeWriter{err: errors.New("broker down")}, "datasnap.compare", nil)

	err := p.Publish(context.Background(), types.CompareReport{Source: "shop"})
	assert.EqualError(t, err, "publish to datasnap.compare: broker down")
}

func TestNewKafka(t *testing.T) {
	p := NewKafka(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t"}, nil)
	w, ok := p.w.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "t", w.Topic)
	assert.Equal(t, "localhost:9092", w.Addr.String())
}
