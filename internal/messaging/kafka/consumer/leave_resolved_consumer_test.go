package consumer_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka/consumer"
	"go-leave/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		r.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type fakeHandler struct {
	failFor  string
	handled  []events.LeaveResolvedEvent
	requests []string
}

func (h *fakeHandler) HandleLeaveResolved(ctx context.Context, event events.LeaveResolvedEvent) error {
	if event.LeaveID == h.failFor {
		return errors.New("smtp timeout")
	}
	h.handled = append(h.handled, event)
	h.requests = append(h.requests, contextutil.GetRequestID(ctx))
	return nil
}

func TestConsumeLeaveResolved(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafkago.Message{
			{
				Offset:  1,
				Value:   []byte(`{"event_type":"leave_resolved","leave_id":"l1","status":"approved","employee_email":"eve@example.com"}`),
				Headers: []kafkago.Header{{Key: "request_id", Value: []byte("req-1")}},
			},
			{Offset: 2, Value: []byte(`not json`)},
			{Offset: 3, Value: []byte(`{"leave_id":"l3","employee_email":"eve@example.com"}`)},
			{Offset: 4, Value: []byte(`{"leave_id":"l4"}`)},
		},
	}
	handler := &fakeHandler{failFor: "l3"}

	consumer.ConsumeLeaveResolved(ctx, reader, handler, zap.NewNop())

	assert.Len(t, handler.handled, 1)
	assert.Equal(t, "approved", handler.handled[0].Status)
	assert.Equal(t, []string{"req-1"}, handler.requests)
	// 3 failed transiently and must stay uncommitted
	assert.Equal(t, []int64{1, 2, 4}, reader.committed)
}
