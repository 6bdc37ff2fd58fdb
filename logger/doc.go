// Package logger provides structured logging on top of zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers. Fields are passed as maps:
//
//	log := logger.WithComponent("coach")
//	log.Info("transcribed", logger.Fields("chars", 42))
//
// Request ids placed in a context with ContextWithRequestID are attached by
// Logger.WithContext.
package logger
