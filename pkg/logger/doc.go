// Package logger builds configured slog.Logger instances for the notification
// pipeline, plus attribute helpers that keep log keys consistent across
// components.
//
// # Usage
//
//	log := logger.New(logger.WithDevelopment("notifykit"))
//	log.Info("connected", logger.Component("realtime"))
package logger
