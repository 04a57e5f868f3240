package consumer

import (
	"context"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the loop needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ErrSkipMessage marks a message that can never succeed. It is committed and
// dropped instead of retried.
var ErrSkipMessage = errors.New("skip message")

type HandleFunc func(ctx context.Context, msg kafkago.Message) error

// Run fetches messages until ctx is cancelled and commits each one the
// handler accepts. Failed messages stay uncommitted so the group redelivers
// them after a restart or rebalance.
func Run(ctx context.Context, reader MessageReader, name string, handle HandleFunc, logger *zap.Logger) {
	if logger == nil {
		logger = zap.L()
	}
	log := logger.Named("kafka.consumer." + name)
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		if err := handle(ctx, msg); err != nil {
			if !errors.Is(err, ErrSkipMessage) {
				log.Error("handle message failed",
					zap.String("topic", msg.Topic),
					zap.Int("partition", msg.Partition),
					zap.Int64("offset", msg.Offset),
					zap.Error(err),
				)
				continue
			}
			log.Warn("message skipped",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
