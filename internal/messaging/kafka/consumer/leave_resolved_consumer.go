package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-leave/internal/events"
	"go-leave/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type LeaveResolvedHandler interface {
	HandleLeaveResolved(ctx context.Context, event events.LeaveResolvedEvent) error
}

func ConsumeLeaveResolved(
	ctx context.Context,
	reader MessageReader,
	handler LeaveResolvedHandler,
	logger *zap.Logger,
) {
	Run(ctx, reader, "leave_resolved", LeaveResolvedHandleFunc(handler), logger)
}

// LeaveResolvedHandleFunc decodes the event and hands it to handler. The
// request id of the originating HTTP call is carried through the context.
func LeaveResolvedHandleFunc(handler LeaveResolvedHandler) HandleFunc {
	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.LeaveResolvedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("decode leave_resolved event: %v: %w", err, ErrSkipMessage)
		}
		if event.LeaveID == "" || event.EmployeeEmail == "" {
			return fmt.Errorf("leave_resolved event missing leave or recipient: %w", ErrSkipMessage)
		}

		if rid := header(msg, "request_id"); rid != "" {
			ctx = contextutil.WithRequestID(ctx, rid)
		}
		return handler.HandleLeaveResolved(ctx, event)
	}
}
