// Package tracing builds the process-wide zap logger from TracingSettings,
// the Go analogue of original_source's CoreTracing::init (tracing-subscriber
// configuration) — grounded on go.uber.org/zap, already present (indirect)
// in the teacher's go.mod and promoted here to the ambient logging stack.
package tracing

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/web3-fighter/balance-aggregator/internal/config"
)

// New builds a *zap.SugaredLogger from settings. JSON selects a JSON
// encoder; otherwise a console encoder honoring WithAnsi for colorized
// level output. WithFile/WithLineNumber enable caller annotation.
func New(settings config.TracingSettings) (*zap.SugaredLogger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(settings.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if !settings.WithTarget {
		encoderCfg.NameKey = zapcore.OmitKey
	}
	if settings.WithAnsi {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var encoder zapcore.Encoder
	if settings.JSON {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(os.Stdout)), level)

	opts := []zap.Option{}
	if settings.WithFile || settings.WithLineNumber {
		opts = append(opts, zap.AddCaller())
	}

	logger := zap.New(core, opts...)
	return logger.Sugar(), nil
}
