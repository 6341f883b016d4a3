package util

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	TraceHeader    = "X-Trace-Id"
	maxTraceLength = 128
)

type traceKey struct{}

// TraceMiddleware : берёт x-trace-id из запроса или генерирует новый,
// кладёт его в контекст вместе с логгером и возвращает в ответе.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if !ValidTraceID(traceID) {
			traceID = uuid.NewString()
			r.Header.Set(TraceHeader, traceID)
		}

		w.Header().Set(TraceHeader, traceID)

		logger := log.Logger.With().Str("trace_id", traceID).Logger()
		ctx := context.WithValue(r.Context(), traceKey{}, traceID)
		ctx = logger.WithContext(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ValidTraceID : непустая строка из видимых ASCII-символов разумной длины
func ValidTraceID(id string) bool {
	if id == "" || len(id) > maxTraceLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// Logger : логгер запроса с trace_id, либо глобальный
func Logger(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
