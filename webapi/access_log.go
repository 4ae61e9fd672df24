package webapi

import (
	"io"
	"log/slog"
	"strings"

	"github.com/amirasaad/cpfledger/pkg/app"
)

// slogWriter forwards access log lines to a structured logger.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Write(p []byte) (int, error) {
	w.logger.Info(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func loggerOutput(a *app.App) io.Writer {
	l := a.Deps.Logger
	if l == nil {
		l = slog.Default()
	}
	return slogWriter{logger: l.With("component", "http")}
}
