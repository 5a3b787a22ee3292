package main

import (
	"io"
	"log/slog"
	"os"
)

// logger writes progress to stderr with -v. It discards everything
// otherwise.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func setupLog(verbose bool) {
	if !verbose {
		return
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
