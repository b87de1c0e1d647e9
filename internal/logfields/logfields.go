package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field names shared by every package.
const (
	KeyKey      = "key"
	KeyMode     = "mode"
	KeyTimeLeft = "time_left"
	KeyMinutes  = "minutes"
	KeyTask     = "task"
	KeyOp       = "op"
	KeyPath     = "path"
	KeyDeadline = "deadline"
	KeyError    = "error"
)

func Key(k string) slog.Attr         { return slog.String(KeyKey, k) }
func Mode(m string) slog.Attr        { return slog.String(KeyMode, m) }
func TimeLeft(secs int) slog.Attr    { return slog.Int(KeyTimeLeft, secs) }
func Minutes(n int) slog.Attr        { return slog.Int(KeyMinutes, n) }
func Task(t string) slog.Attr        { return slog.String(KeyTask, t) }
func Op(name string) slog.Attr       { return slog.String(KeyOp, name) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func Deadline(t time.Time) slog.Attr { return slog.Time(KeyDeadline, t) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
