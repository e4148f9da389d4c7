package rest

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	accdomain "github.com/openmotors/auctionhouse/internal/account/domain"
)

const accountLocalsKey = "account"

// RequireAccount resolves the caller's identity from the gateway-set
// X-Account-ID header and verifies the account exists. Authentication itself
// happens upstream; this boundary only trusts and resolves.
func RequireAccount(accounts accdomain.AccountRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-Account-ID")
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing_account"})
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_account"})
		}

		account, err := accounts.GetByID(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, accdomain.ErrAccountNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unknown_account"})
			}
			return respondError(c, err)
		}

		c.Locals(accountLocalsKey, account)
		return c.Next()
	}
}

// AccountFromCtx returns the account resolved by RequireAccount.
func AccountFromCtx(c *fiber.Ctx) *accdomain.Account {
	account, _ := c.Locals(accountLocalsKey).(*accdomain.Account)
	return account
}
