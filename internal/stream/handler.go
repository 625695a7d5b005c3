package stream

import (
	"context"
	"errors"
	"time"

	"bncollector/internal/sink"
	"bncollector/pkg/binance"
	"bncollector/pkg/storage/postgres"

	"go.uber.org/zap"
)

const maxLoggedFrame = 512

// MakeMessageHandler returns a function that decodes frames of one
// subscription and hands every record to the sink. Frames that fail to
// decode are logged and dropped; the stream keeps going.
func MakeMessageHandler(logger *zap.Logger, sub binance.Subscription, decoder binance.Decoder,
	store sink.Sink, storeTimeout time.Duration) func(msg []byte) {
	logger = logger.With(zap.String("stream", sub.StreamName()))

	return func(msg []byte) {
		// Step 1: Decode the frame for the subscribed kind
		records, err := decoder.DecodeFrame(sub, msg)
		if err != nil {
			fields := []zap.Field{zap.ByteString("raw", truncate(msg)), zap.Error(err)}
			if kind, ok := binance.KindOf(err); ok {
				fields = append(fields, zap.Stringer("error_kind", kind))
			}
			logger.Warn("failed to decode frame", fields...)
			return
		}

		// Step 2: Persist each record
		for _, rec := range records {
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			err := store.Store(ctx, rec)
			cancel()

			switch {
			case err == nil:
			case errors.Is(err, postgres.ErrDuplicate):
				logger.Debug("record already stored", zap.Stringer("symbol", rec.RecordSymbol()), zap.Error(err))
			default:
				logger.Warn("failed to store record", zap.Stringer("symbol", rec.RecordSymbol()), zap.Error(err))
			}
		}
	}
}

func truncate(msg []byte) []byte {
	if len(msg) > maxLoggedFrame {
		return msg[:maxLoggedFrame]
	}
	return msg
}
