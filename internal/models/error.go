package models

import "errors"

var (
	// ErrUnauthorized means the actor lacks the required permission or is
	// not an active employee.
	ErrUnauthorized = errors.New("actor is not allowed to perform this action")
	// ErrInvalidTransition means the action is not valid from the order's
	// current status, including any action on a terminal order.
	ErrInvalidTransition = errors.New("action is not valid from current order status")
	// ErrGuardFailed means a business precondition is unmet, such as
	// delivering a cash-on-delivery order before the cash is collected.
	ErrGuardFailed = errors.New("transition precondition is not met")
	// ErrStaleOrder means the transition was attempted against an outdated
	// order revision; the caller should re-read and retry.
	ErrStaleOrder = errors.New("order was modified concurrently")

	ErrDataNotFound       = errors.New("data not found")
	ErrConflictData       = errors.New("data conflicts with existing data")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrInvalidRole        = errors.New("unknown employee role")
	ErrInvalidOrderData   = errors.New("invalid order data")
	ErrInvalidAction      = errors.New("unknown transition action")
	ErrInternalError      = errors.New("internal error")
)
