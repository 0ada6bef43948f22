package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyGroup      = "group"
	KeyGroupIndex = "group_index"
	KeyInstance   = "instance_id"
	KeyDayKey     = "day_key"
	KeyTrigger    = "trigger"
	KeySubject    = "subject"
	KeyFireAt     = "fire_at"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Group(g string) slog.Attr     { return slog.String(KeyGroup, g) }
func GroupIndex(i int) slog.Attr   { return slog.Int(KeyGroupIndex, i) }
func Instance(id string) slog.Attr { return slog.String(KeyInstance, id) }
func DayKey(k string) slog.Attr    { return slog.String(KeyDayKey, k) }
func Trigger(t string) slog.Attr   { return slog.String(KeyTrigger, t) }
func Subject(s string) slog.Attr   { return slog.String(KeySubject, s) }
func FireAt(ts string) slog.Attr   { return slog.String(KeyFireAt, ts) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
