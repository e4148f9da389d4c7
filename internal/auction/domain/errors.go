package domain

import "errors"

var (
	ErrAuctionNotFound        = errors.New("auction not found")
	ErrAuctionNotLive         = errors.New("auction is not live")
	ErrAuctionNotStarted      = errors.New("auction has not started yet")
	ErrAuctionEnded           = errors.New("auction has already ended")
	ErrAmountTooLow           = errors.New("bid amount does not exceed the current highest bid")
	ErrInvalidAmount          = errors.New("bid amount must be a positive integer")
	ErrInvalidContent         = errors.New("comment content length is out of bounds")
	ErrInvalidStateTransition = errors.New("auction state transition is not allowed")

	// ErrStoreUnavailable marks transient store failures. Callers may retry;
	// the sweeper does, interactive bid placement surfaces it instead.
	ErrStoreUnavailable = errors.New("store temporarily unavailable")
)
