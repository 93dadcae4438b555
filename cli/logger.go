package cli

import (
	"context"

	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go.creack.net/intcode/vm"
)

// NewLogger creates the command logger. Debug level when verbose.
func NewLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		cfg.DisableStacktrace = true
	}
	return cfg.Build()
}

// LogMessages logs the messages coming from the computers until the channel is closed.
// Only the computer ID is read from the message, the computer keeps running concurrently.
func LogMessages(ctx context.Context, messages <-chan vm.Message) {
	for msg := range messages {
		fields := []zap.Field{zap.Stringer("type", msg.Type)}
		if msg.Computer != nil {
			fields = append(fields, zap.Int("computer", msg.Computer.ID))
		}
		switch msg.Type {
		case vm.MsgError:
			logctx.Error(ctx, msg.Message, fields...)
		case vm.MsgHalt, vm.MsgOutput:
			logctx.Info(ctx, msg.Message, fields...)
		default:
			logctx.Debug(ctx, msg.Message, fields...)
		}
	}
}
