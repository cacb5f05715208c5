package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// KeyModule is the attribute naming the component that emitted a record.
const KeyModule = "module"

const (
	timeLayout    = "2006-01-02 15:04:05,000"
	defaultModule = "main"
)

// Handler is a slog.Handler producing "[<timestamp>: <LEVEL>: <module>: <message> k=v...]" lines.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	module string
	prefix string
	attrs  string
}

// NewHandler returns a Handler writing to w.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{
		mu:     &sync.Mutex{},
		w:      w,
		level:  level,
		module: defaultModule,
	}
}

func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

// levelName spells slog.LevelWarn as WARNING, the name ParseLevel also accepts.
func levelName(l slog.Level) string {
	if l == slog.LevelWarn {
		return "WARNING"
	}
	return l.String()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	module := h.module
	var sb strings.Builder
	sb.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == KeyModule && h.prefix == "" {
			module = a.Value.String()
			return true
		}
		writeAttr(&sb, h.prefix, a)
		return true
	})

	var buf []byte
	buf = append(buf, '[')
	if !r.Time.IsZero() {
		buf = r.Time.AppendFormat(buf, timeLayout)
		buf = append(buf, ": "...)
	}
	buf = append(buf, levelName(r.Level)...)
	buf = append(buf, ": "...)
	buf = append(buf, module...)
	buf = append(buf, ": "...)
	buf = append(buf, r.Message...)
	buf = append(buf, sb.String()...)
	buf = append(buf, "]\n"...)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	var sb strings.Builder
	sb.WriteString(h.attrs)
	for _, a := range attrs {
		if a.Key == KeyModule && h.prefix == "" {
			h2.module = a.Value.String()
			continue
		}
		writeAttr(&sb, h.prefix, a)
	}
	h2.attrs = sb.String()
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	// Standardize 'error' key to 'err'
	if a.Key == "error" {
		a.Key = "err"
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(sb, p, ga)
		}
		return
	}

	sb.WriteByte(' ')
	sb.WriteString(prefix)
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprintf("%+v", v.Any())
		}
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=]") {
		return strconv.Quote(s)
	}
	return s
}
