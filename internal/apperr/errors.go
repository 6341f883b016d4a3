// Package apperr : таксономия ошибок, общая для всех сервисов,
// и перевод ошибок драйвера БД в эту таксономию.
package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindConflict
	KindNotFound
	KindRateLimited
	KindBadGateway
)

// pgUniqueViolation : SQLSTATE unique_violation
const pgUniqueViolation = "23505"

var kindInfo = map[Kind]struct {
	status int
	code   string
}{
	KindInternal:       {http.StatusInternalServerError, "INTERNAL_ERROR"},
	KindValidation:     {http.StatusBadRequest, "VALIDATION_ERROR"},
	KindAuthentication: {http.StatusUnauthorized, "UNAUTHORIZED"},
	KindAuthorization:  {http.StatusForbidden, "FORBIDDEN"},
	KindConflict:       {http.StatusConflict, "CONFLICT"},
	KindNotFound:       {http.StatusNotFound, "NOT_FOUND"},
	KindRateLimited:    {http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
	KindBadGateway:     {http.StatusBadGateway, "BAD_GATEWAY"},
}

// Error : ошибка с видом из таксономии. Message уходит клиенту,
// Err остаётся только в логах.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Status() int {
	return kindInfo[e.Kind].status
}

func (e *Error) Code() string {
	return kindInfo[e.Kind].code
}

// PublicMessage : для внутренних ошибок текст всегда обезличен
func (e *Error) PublicMessage() string {
	if e.Kind == KindInternal {
		return "internal server error"
	}
	return e.Message
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func Authentication(message string, cause error) *Error {
	return &Error{Kind: KindAuthentication, Message: message, Err: cause}
}

func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func Conflict(message string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: cause}
}

func NotFound(message string, cause error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: cause}
}

func RateLimited() *Error {
	return &Error{Kind: KindRateLimited, Message: "too many requests"}
}

func BadGateway(cause error) *Error {
	return &Error{Kind: KindBadGateway, Message: "upstream service unavailable", Err: cause}
}

func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// As : любую ошибку приводит к *Error, неизвестные считаются внутренними
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected error", err)
}

// Is : проверяет вид ошибки в цепочке
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// FromDB : переводит ошибку драйвера в таксономию.
// message описывает операцию и попадает клиенту только для Conflict/NotFound.
func FromDB(message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return NotFound(message, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return Conflict(message, err)
	}

	return Internal(message, err)
}
