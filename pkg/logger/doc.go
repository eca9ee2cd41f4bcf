// Package logger builds the slog.Logger the SDK components log through.
//
// The SDK never logs through a global by default; every component accepts a
// *slog.Logger and falls back to slog.Default(). This package is for hosts
// that want the SDK's logs structured consistently with their own:
//
//	log := logger.New(
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithTextFormatter(),
//	    logger.WithAttr(slog.String("component", "lumeno")),
//	)
//
//	client, err := lumeno.New(cfg, lumeno.WithLogger(log))
package logger
