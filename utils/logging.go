package utils

import (
	"fmt"
	"io"
	"log/slog"
)

// NewLogger builds the process logger. The text handler is meant for
// terminals; pass debug=true to see per-tick poller and probe chatter.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				level := a.Value.Any().(slog.Level)
				a.Value = slog.StringValue(addColorToLevel(level))
			}
			return a
		},
	}))
}

type Color uint8

const (
	Black Color = iota + 30
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

// Add wraps s with the ANSI escape for the color.
func (c Color) Add(s string) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", uint8(c), s)
}

var levelToColor = map[slog.Level]Color{
	slog.LevelDebug: Magenta,
	slog.LevelInfo:  Blue,
	slog.LevelWarn:  Yellow,
	slog.LevelError: Red,
}

func addColorToLevel(level slog.Level) string {
	color, ok := levelToColor[level]
	if !ok {
		color = Red
	}
	return color.Add(level.String())
}
