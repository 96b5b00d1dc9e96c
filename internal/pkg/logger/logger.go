package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLogger  = logrus.New()
	ErrorLogger = logrus.New()
)

func init() {
	dir := os.Getenv("LOG_DIR")
	if dir == "" {
		dir = "logs"
	}

	InfoLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	ErrorLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	InfoLogger.SetOutput(io.MultiWriter(os.Stdout, rotatedFile(filepath.Join(dir, "info.log"))))
	ErrorLogger.SetOutput(io.MultiWriter(os.Stderr, rotatedFile(filepath.Join(dir, "error.log"))))
	ErrorLogger.SetLevel(logrus.ErrorLevel)
}

func rotatedFile(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
}
