package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	Invalid      Kind = "invalid"
	NotFound     Kind = "not_found"
	Unauthorized Kind = "unauthorized"
	Forbidden    Kind = "forbidden"
	Conflict     Kind = "conflict"
	RateLimited  Kind = "rate_limited"
	Config       Kind = "config"
	Internal     Kind = "internal"
)

const internalMsg = "Something went wrong. Please try again."

func (e *AppError) Error() string {
	head := string(e.Kind)
	if e.Code != "" {
		head = e.Code
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", head, e.Err)
	}
	if e.PublicMsg != "" {
		return head + ": " + e.PublicMsg
	}
	return head
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches on Code so sentinel errors keep matching after WithCause/WithFields.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e.Code == "" || t.Code == "" {
		return e == t
	}
	return e.Code == t.Code
}

// WithCause returns a copy carrying err as the internal cause.
func (e *AppError) WithCause(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// WithMessage returns a copy with a more specific public message.
func (e *AppError) WithMessage(msg string) *AppError {
	cp := *e
	cp.PublicMsg = msg
	return &cp
}

func (e *AppError) WithFields(fields map[string]string) *AppError {
	cp := *e
	cp.Fields = fields
	return &cp
}

func New(kind Kind, code, publicMsg string) *AppError {
	return &AppError{Kind: kind, Code: code, PublicMsg: publicMsg}
}

// Constructors (public messages must stay short and safe)
func InvalidErr(code, publicMsg string, fields map[string]string) *AppError {
	return &AppError{Kind: Invalid, Code: code, PublicMsg: publicMsg, Fields: fields}
}
func NotFoundErr(code, publicMsg string) *AppError {
	return &AppError{Kind: NotFound, Code: code, PublicMsg: publicMsg}
}
func UnauthorizedErr(publicMsg string) *AppError {
	return &AppError{Kind: Unauthorized, Code: "UNAUTHORIZED", PublicMsg: publicMsg}
}
func ForbiddenErr(publicMsg string) *AppError {
	return &AppError{Kind: Forbidden, Code: "FORBIDDEN", PublicMsg: publicMsg}
}
func ConflictErr(code, publicMsg string) *AppError {
	return &AppError{Kind: Conflict, Code: code, PublicMsg: publicMsg}
}
func ConfigErr(code, publicMsg string) *AppError {
	return &AppError{Kind: Config, Code: code, PublicMsg: publicMsg}
}

// Wrap: wrap an internal error without a public message (500)
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if ae, ok := As(err); ok {
		return ae
	}
	return &AppError{Kind: Internal, Code: "INTERNAL", PublicMsg: internalMsg, Err: err}
}

func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// CodeOf returns the stable code of err, or "" for non-AppErrors.
func CodeOf(err error) string {
	if ae, ok := As(err); ok {
		return ae.Code
	}
	return ""
}

func HTTPStatus(err error) int {
	if ae, ok := As(err); ok {
		switch ae.Kind {
		case Invalid:
			return http.StatusBadRequest
		case Unauthorized:
			return http.StatusUnauthorized
		case Forbidden:
			return http.StatusForbidden
		case NotFound:
			return http.StatusNotFound
		case Conflict:
			return http.StatusConflict
		case RateLimited:
			return http.StatusTooManyRequests
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" && ae.Kind != Internal {
		return ae.PublicMsg
	}
	return internalMsg
}

// PublicCode is the code rendered to clients; internal failures never leak theirs.
func PublicCode(err error) string {
	if ae, ok := As(err); ok && ae.Code != "" {
		return ae.Code
	}
	return "INTERNAL"
}
