package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// ErrorKind classifies why a remote call failed
type ErrorKind string

const (
	KindConnection     ErrorKind = "connection"
	KindTimeout        ErrorKind = "timeout"
	KindHostResolution ErrorKind = "host_resolution"
	KindCanceled       ErrorKind = "canceled"
	KindHTTP           ErrorKind = "http"
	KindDecode         ErrorKind = "decode"
	KindValidation     ErrorKind = "validation"
)

// APIError is the single failure type produced by the remote layer.
// Message is already human-readable and meant to be shown as-is.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is an HTTP 404 from a remote service
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// Message returns the displayable text of err
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// classifyTransportError turns a failed http.Client.Do into a diagnostic aimed at
// whoever is running the services locally.
func classifyTransportError(baseURL string, err error) *APIError {
	var dnsErr *net.DNSError
	var netErr net.Error

	switch {
	case errors.Is(err, context.Canceled):
		return &APIError{Kind: KindCanceled, Message: "La solicitud fue cancelada", Err: err}
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return &APIError{
			Kind:    KindTimeout,
			Message: fmt.Sprintf("Tiempo de espera agotado al conectar con %s. Verifica que el servicio esté respondiendo.", baseURL),
			Err:     err,
		}
	case errors.As(err, &dnsErr):
		return &APIError{
			Kind:    KindHostResolution,
			Message: fmt.Sprintf("No se pudo resolver el host de %s. Revisa la URL configurada (desde el emulador usa 10.0.2.2 para el equipo local).", baseURL),
			Err:     err,
		}
	case errors.Is(err, syscall.ECONNREFUSED):
		return &APIError{
			Kind:    KindConnection,
			Message: fmt.Sprintf("No se pudo conectar con %s. Verifica que el microservicio esté en ejecución y que el puerto sea el correcto.", baseURL),
			Err:     err,
		}
	default:
		return &APIError{
			Kind:    KindConnection,
			Message: fmt.Sprintf("Error de red al contactar %s: %v", baseURL, err),
			Err:     err,
		}
	}
}

func httpError(status int, code, serverMessage string) *APIError {
	msg := serverMessage
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{
		Kind:       KindHTTP,
		StatusCode: status,
		Code:       code,
		Message:    fmt.Sprintf("Error %d: %s", status, msg),
	}
}

// withMessage rewrites the displayable message of an HTTP failure, leaving
// transport failures (which already explain themselves) untouched.
func withMessage(err error, messages map[int]string) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != KindHTTP {
		return err
	}
	if msg, ok := messages[apiErr.StatusCode]; ok {
		out := *apiErr
		out.Message = msg
		return &out
	}
	return err
}

func validationError(msg string) *APIError {
	return NewValidationError(msg, nil)
}

// NewValidationError reports input rejected before any call was made
func NewValidationError(msg string, cause error) *APIError {
	return &APIError{Kind: KindValidation, Message: msg, Err: cause}
}
