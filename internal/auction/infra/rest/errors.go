package rest

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	accdomain "github.com/openmotors/auctionhouse/internal/account/domain"
	"github.com/openmotors/auctionhouse/internal/auction/domain"
	"go.uber.org/zap"
)

// respondError maps a domain error to a status and symbolic reason code.
// Clients only ever see the code, never internal error text.
func respondError(c *fiber.Ctx, err error) error {
	status, code := statusAndCode(err)
	if status >= fiber.StatusInternalServerError {
		log.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(status).JSON(fiber.Map{"error": code})
}

func statusAndCode(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrAuctionNotFound):
		return fiber.StatusNotFound, "auction_not_found"
	case errors.Is(err, domain.ErrAuctionNotLive):
		return fiber.StatusBadRequest, "auction_not_live"
	case errors.Is(err, domain.ErrAuctionNotStarted):
		return fiber.StatusBadRequest, "auction_not_started"
	case errors.Is(err, domain.ErrAuctionEnded):
		return fiber.StatusBadRequest, "auction_ended"
	case errors.Is(err, domain.ErrAmountTooLow):
		// An expected concurrency loss, not a server error.
		return fiber.StatusBadRequest, "amount_too_low"
	case errors.Is(err, domain.ErrInvalidAmount):
		return fiber.StatusBadRequest, "invalid_amount"
	case errors.Is(err, domain.ErrInvalidContent):
		return fiber.StatusBadRequest, "invalid_content"
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return fiber.StatusBadRequest, "invalid_state"
	case errors.Is(err, accdomain.ErrAccountNotFound):
		return fiber.StatusUnauthorized, "unknown_account"
	case errors.Is(err, domain.ErrStoreUnavailable):
		// Retryable by the client; bids are never silently retried here.
		return fiber.StatusServiceUnavailable, "store_unavailable"
	default:
		return fiber.StatusInternalServerError, "internal_error"
	}
}
