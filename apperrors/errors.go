package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind is the closed set of lifecycle error codes. Controllers map kinds to
// HTTP statuses; the engine never returns an untyped error to a caller.
type Kind string

const (
	KindValidationFailed  Kind = "ValidationFailed"
	KindInsufficientStock Kind = "InsufficientStock"
	KindNotFound          Kind = "NotFound"
	KindNotInOrder        Kind = "NotInOrder"
	KindInvalidState      Kind = "InvalidState"
	KindPickerRequired    Kind = "PickerRequired"
	KindIncomplete        Kind = "Incomplete"
	KindConflict          Kind = "Conflict"
	KindInternal          Kind = "InternalError"
)

type AppError struct {
	Kind    Kind   `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches on Kind so callers can use errors.Is against the sentinels below.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidationFailed, KindPickerRequired, KindIncomplete:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindNotInOrder:
		return fiber.StatusUnprocessableEntity
	case KindInvalidState, KindInsufficientStock, KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Sentinels for errors.Is checks.
var (
	ErrValidationFailed  = &AppError{Kind: KindValidationFailed}
	ErrInsufficientStock = &AppError{Kind: KindInsufficientStock}
	ErrNotFound          = &AppError{Kind: KindNotFound}
	ErrNotInOrder        = &AppError{Kind: KindNotInOrder}
	ErrInvalidState      = &AppError{Kind: KindInvalidState}
	ErrPickerRequired    = &AppError{Kind: KindPickerRequired}
	ErrIncomplete        = &AppError{Kind: KindIncomplete}
	ErrConflict          = &AppError{Kind: KindConflict}
)

func ValidationFailed(message string) *AppError {
	return &AppError{Kind: KindValidationFailed, Message: message}
}

func InsufficientStock(sku string) *AppError {
	return &AppError{Kind: KindInsufficientStock, Message: "requested quantity exceeds available stock", Details: "sku: " + sku}
}

func NotFound(resource string, id string) *AppError {
	return &AppError{Kind: KindNotFound, Message: resource + " not found", Details: "id: " + id}
}

func NotInOrder(code string) *AppError {
	return &AppError{Kind: KindNotInOrder, Message: "scanned code does not belong to this order", Details: "code: " + code}
}

func InvalidState(message string) *AppError {
	return &AppError{Kind: KindInvalidState, Message: message}
}

func PickerRequired() *AppError {
	return &AppError{Kind: KindPickerRequired, Message: "order has no picker assigned"}
}

func Incomplete(message string) *AppError {
	return &AppError{Kind: KindIncomplete, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal error", Details: err.Error()}
}

// Respond writes err as a JSON error response, mapping AppError kinds to
// statuses and wrapping anything else as InternalError.
func Respond(ctx *fiber.Ctx, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Internal(err)
	}
	return ctx.Status(appErr.HTTPStatus()).JSON(fiber.Map{
		"success": false,
		"error":   appErr.Kind,
		"message": appErr.Message,
		"details": appErr.Details,
	})
}
