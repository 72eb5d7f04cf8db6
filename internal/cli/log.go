package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// newLogger returns a tint logger writing to w. Colors and timestamps are
// only used when w is a terminal.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	ll := &slog.LevelVar{}
	ll.Set(level)

	tty := false
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd())
		w = colorable.NewColorable(f)
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000", // Like time.TimeOnly plus milliseconds.
		NoColor:    !tty,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if !tty && a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}

			return a
		},
	}))
}
