package util

import (
	"encoding/json"
	"net/http"
	"time"

	"lms-platform/internal/apperr"
	"lms-platform/internal/model/requestresponse"

	"github.com/go-chi/chi/v5/middleware"
)

// WriteJSON : успешный ответ в общем конверте
func WriteJSON(w http.ResponseWriter, r *http.Request, statusCode int, code, message string, data interface{}) {
	writeEnvelope(w, statusCode, requestresponse.Envelope{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		TraceID: TraceID(r.Context()),
	})
}

// HandleError : переводит ошибку в ответ по таксономии; детали пишутся только в лог
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.As(err)

	logger := Logger(r.Context())
	event := logger.Warn()
	if appErr.Kind == apperr.KindInternal || appErr.Kind == apperr.KindBadGateway {
		event = logger.Error()
	}
	event.Err(err).Int("status", appErr.Status()).Str("path", r.URL.Path).Msg("request failed")

	var data interface{}
	if len(appErr.Fields) > 0 {
		data = appErr.Fields
	}

	writeEnvelope(w, appErr.Status(), requestresponse.Envelope{
		Success: false,
		Code:    appErr.Code(),
		Message: appErr.PublicMessage(),
		Data:    data,
		TraceID: TraceID(r.Context()),
	})
}

func writeEnvelope(w http.ResponseWriter, statusCode int, envelope requestresponse.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(envelope)
}

// AccessLog : логирует завершение запроса со статусом и длительностью
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		logger := Logger(r.Context())
		event := logger.Info()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_ip", r.RemoteAddr).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	})
}
