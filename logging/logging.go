// Package logging builds the application logger: a console core on stdout and, optionally,
// a JSON core writing to a rotated log file.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level string
	File  string
	Debug bool
}

func New(options Options) (*zap.Logger, error) {
	level := zap.InfoLevel
	if options.Level != "" {
		if err := level.UnmarshalText([]byte(options.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level '%v' (%w)", options.Level, err)
		}
	}

	if options.Debug {
		level = zap.DebugLevel
	}

	console := zap.NewDevelopmentEncoderConfig()
	console.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(console), zapcore.Lock(os.Stdout), level),
	}

	if options.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   options.File,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}

		encoder := zap.NewProductionEncoderConfig()
		encoder.TimeKey = "timestamp"
		encoder.MessageKey = "message"
		encoder.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder.EncodeLevel = zapcore.CapitalLevelEncoder

		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoder), zapcore.AddSync(rotator), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
