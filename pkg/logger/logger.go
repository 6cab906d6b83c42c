package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	ServiceName string `yaml:"service_name" env:"LOGGER_SERVICE_NAME" env-default:"ipwarden" env-description:"Service name"`
	Level       string `yaml:"level" env:"LOGGER_LEVEL" env-default:"info" env-description:"Minimum level to log"`
	Pretty      bool   `yaml:"pretty" env:"LOGGER_PRETTY" env-default:"true" env-description:"Enables human readable logging. Otherwise, uses json output"`
	Directory   string `yaml:"directory" env:"LOGGER_DIRECTORY" env-default:"logs" env-description:"Directory for the rotating log file"`
}

// New builds the diagnostic logger: a rotating file plus the console.
// The console core writes to stderr so stdout stays free for primary output.
func New(cfg Config) *zap.SugaredLogger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	atomicLevel := zap.NewAtomicLevelAt(level)

	encoder := getEncoder(cfg.Pretty)

	fileWriter := getLogWriter(cfg.Directory, cfg.ServiceName)

	fileCore := zapcore.NewCore(encoder, fileWriter, atomicLevel)

	consoleWriter := zapcore.Lock(os.Stderr)
	consoleCore := zapcore.NewCore(encoder, consoleWriter, atomicLevel)

	core := zapcore.NewTee(fileCore, consoleCore)

	logger := zap.New(core, zap.AddCaller()).Sugar()

	return logger
}

func getEncoder(pretty bool) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
	}
	if pretty {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

func getLogWriter(directory, serviceName string) zapcore.WriteSyncer {
	lumberJackLogger := &lumberjack.Logger{
		Filename:   filepath.Join(directory, serviceName+".log"),
		MaxSize:    50, // MB
		MaxBackups: 10,
		MaxAge:     30, // days
		Compress:   true,
	}
	return zapcore.AddSync(lumberJackLogger)
}
