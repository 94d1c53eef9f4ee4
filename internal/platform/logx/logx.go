// internal/platform/logx/logx.go
package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger es la interfaz de logging estructurado key/value usada en todo el
// proyecto. With retorna un logger hijo con campos fijos adicionales.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Err(err error, kv ...any)
	With(kv ...any) Logger
	SetLevel(lvl Level)
}

type kvLogger struct {
	mu    sync.Mutex
	lvl   Level
	scope []string // pares key=value fijos
	lg    *log.Logger
}

// New crea un logger a stderr con nivel tomado de KIRWADA_LOG_LEVEL.
func New() Logger {
	return NewWithWriter(os.Stderr, parseLevel(os.Getenv("KIRWADA_LOG_LEVEL")))
}

// NewWithLevel crea un logger a stderr con nivel explícito.
func NewWithLevel(lvl Level) Logger {
	return NewWithWriter(os.Stderr, lvl)
}

// NewWithWriter crea un logger sobre un writer arbitrario (útil en tests y
// cuando la terminal está ocupada por la UI interactiva).
func NewWithWriter(w io.Writer, lvl Level) Logger {
	return &kvLogger{
		lvl: lvl,
		lg:  log.New(w, "", 0),
	}
}

// NewSilent crea un logger que solo emite errores (modo UI).
func NewSilent() Logger {
	return NewWithLevel(LevelError)
}

func (s *kvLogger) With(kv ...any) Logger {
	return &kvLogger{
		lvl:   s.lvl,
		scope: append(append([]string{}, s.scope...), kvPairs(kv...)...),
		lg:    s.lg,
	}
}

func (s *kvLogger) SetLevel(lvl Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lvl = lvl
}

func (s *kvLogger) Debug(msg string, kv ...any) { s.log(LevelDebug, "DBG", msg, kv...) }
func (s *kvLogger) Info(msg string, kv ...any)  { s.log(LevelInfo, "INF", msg, kv...) }
func (s *kvLogger) Warn(msg string, kv ...any)  { s.log(LevelWarn, "WRN", msg, kv...) }
func (s *kvLogger) Err(err error, kv ...any) {
	if err == nil {
		return
	}
	kv = append([]any{"error", err.Error()}, kv...)
	s.log(LevelError, "ERR", "", kv...)
}

func (s *kvLogger) log(l Level, tag, msg string, kv ...any) {
	if l < s.lvl {
		return
	}
	ts := time.Now().Format("15:04:05")
	fields := append([]string{}, s.scope...)
	fields = append(fields, kvPairs(kv...)...)

	var b strings.Builder
	b.WriteString(ts)
	b.WriteByte(' ')
	b.WriteString(tag)
	if strings.TrimSpace(msg) != "" {
		b.WriteByte(' ')
		b.WriteString(msg)
	}
	if len(fields) > 0 {
		b.WriteByte(' ')
		b.WriteString(strings.Join(fields, " "))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lg.Println(b.String())
}

func kvPairs(kv ...any) []string {
	out := make([]string, 0, len(kv)/2+1)
	for i := 0; i < len(kv); i += 2 {
		k := kv[i]
		var v any = "(missing)"
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		out = append(out, fmt.Sprintf("%v=%v", k, v))
	}
	return out
}

func parseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return LevelDebug
	case "info", "inf", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "err", "error":
		return LevelError
	default:
		return LevelInfo
	}
}
