package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/treescan/internal/types"
)

// NewApplicationLogger constructs a zap logger configured for human-readable console output.
func NewApplicationLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.LevelKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	return config.Build()
}

// pathFieldName labels the path attached to forwarded events.
const pathFieldName = "path"

// ZapEventSink forwards structured build events to a zap logger.
type ZapEventSink struct {
	Logger *zap.Logger
}

// NewZapEventSink wraps the provided logger in an event sink.
func NewZapEventSink(logger *zap.Logger) *ZapEventSink {
	return &ZapEventSink{Logger: logger}
}

// Emit logs the event at the level matching its classification.
func (sink *ZapEventSink) Emit(event types.Event) {
	if sink == nil || sink.Logger == nil {
		return
	}
	fields := make([]zap.Field, 0, 1)
	if event.Path != EmptyString {
		fields = append(fields, zap.String(pathFieldName, event.Path))
	}
	switch event.Level {
	case types.EventLevelDebug:
		sink.Logger.Debug(event.Message, fields...)
	case types.EventLevelInfo:
		sink.Logger.Info(event.Message, fields...)
	case types.EventLevelWarning:
		sink.Logger.Warn(event.Message, fields...)
	case types.EventLevelError:
		sink.Logger.Error(event.Message, fields...)
	case types.EventLevelCritical:
		// zap's console encoder has no critical level; error is the closest mapping.
		sink.Logger.Error(event.Message, fields...)
	default:
		sink.Logger.Info(event.Message, fields...)
	}
}
