package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	accdomain "github.com/openmotors/auctionhouse/internal/account/domain"
	"github.com/openmotors/auctionhouse/internal/auction/application"
	"github.com/openmotors/auctionhouse/internal/auction/domain"
	"github.com/openmotors/auctionhouse/internal/auction/infra/fanout"
	"github.com/openmotors/auctionhouse/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Handler exposes the auction engine over HTTP. Role enforcement for the
// admin transitions happens at the gateway, like authentication.
type Handler struct {
	service  application.AuctionService
	fanout   *fanout.Service
	accounts accdomain.AccountRepository
}

func NewHandler(service application.AuctionService, fanoutSvc *fanout.Service, accounts accdomain.AccountRepository) *Handler {
	return &Handler{
		service:  service,
		fanout:   fanoutSvc,
		accounts: accounts,
	}
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	v1 := r.Group("/api/v1")
	requireAccount := RequireAccount(h.accounts)

	auctions := v1.Group("/auctions")
	auctions.Post("/", requireAccount, h.submitAuction)
	auctions.Get("/:id", h.getAuction)
	auctions.Get("/:id/feed", h.getFeed)
	auctions.Post("/:id/accept", requireAccount, h.acceptSubmitted)
	auctions.Post("/:id/resubmit", requireAccount, h.resubmit)
	auctions.Post("/:id/request-changes", requireAccount, h.requestChanges)
	auctions.Post("/:id/go-live", requireAccount, h.goLive)

	bids := v1.Group("/bids")
	bids.Post("/auction/:id", requireAccount, h.placeBid)
	bids.Get("/auction/:id/current", h.getCurrentBid)

	comments := v1.Group("/comments")
	comments.Post("/auction/:id", requireAccount, h.postComment)
}

func parseAuctionID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) submitAuction(c *fiber.Ctx) error {
	var req submitAuctionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body"})
	}
	if req.ModelYear <= 0 || req.CarBrand == "" || req.CarModel == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_car_information"})
	}

	account := AccountFromCtx(c)
	auction, err := h.service.Submit(c.UserContext(), account.ID, domain.CarInformation{
		ModelYear: req.ModelYear,
		Brand:     req.CarBrand,
		Model:     req.CarModel,
		Trim:      req.Trim,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mapAuction(auction))
}

func (h *Handler) getAuction(c *fiber.Ctx) error {
	id, ok := parseAuctionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_id"})
	}
	auction, err := h.service.GetAuction(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(mapAuction(auction))
}

func (h *Handler) getFeed(c *fiber.Ctx) error {
	id, ok := parseAuctionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_id"})
	}
	items, err := h.service.Feed(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.AccountID)
	}
	usernames, err := h.accounts.UsernamesByIDs(c.UserContext(), ids)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(mapFeed(items, usernames))
}

func (h *Handler) acceptSubmitted(c *fiber.Ctx) error {
	id, ok := parseAuctionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_id"})
	}
	if err := h.service.AcceptSubmitted(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) resubmit(c *fiber.Ctx) error {
	id, ok := parseAuctionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_id"})
	}
	account := AccountFromCtx(c)
	if err := h.service.Resubmit(c.UserContext(), id, account.ID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) requestChanges(c *fiber.Ctx) error {
	id, ok := parseAuctionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_id"})
	}
	if err := h.service.RequestChanges(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) goLive(c *fiber.Ctx) error {
	id, ok := parseAuctionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_id"})
	}
	var req goLiveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body"})
		}
	}
	if err := h.service.GoLive(c.UserContext(), id, req.Featured); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) placeBid(c *fiber.Ctx) error {
	id, ok := parseAuctionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_id"})
	}
	var req placeBidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body"})
	}

	account := AccountFromCtx(c)
	bid, err := h.service.PlaceBid(c.UserContext(), application.PlaceBidInput{
		AuctionID: id,
		BidderID:  account.ID,
		Amount:    req.Amount,
	})
	if err != nil {
		return respondError(c, err)
	}

	// The bid is committed; a fan-out hiccup must not turn it into a client
	// error.
	if err := h.fanout.Publish(c.UserContext(), fanout.NewBidEvent(bid, account.Username)); err != nil {
		log.Error("bid event publish failed",
			zap.String("auctionID", id.String()),
			zap.Error(err),
		)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *Handler) getCurrentBid(c *fiber.Ctx) error {
	id, ok := parseAuctionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_id"})
	}
	bid, err := h.service.CurrentBid(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if bid == nil {
		// No bids yet is common; null with 200 is correct.
		return c.JSON(nil)
	}

	usernames, err := h.accounts.UsernamesByIDs(c.UserContext(), []uuid.UUID{bid.BidderID})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bidResponse{
		ID:        bid.ID,
		AuctionID: bid.AuctionID,
		Amount:    bid.Amount,
		Bidder:    usernames[bid.BidderID],
		CreatedAt: bid.CreatedAt,
	})
}

func (h *Handler) postComment(c *fiber.Ctx) error {
	id, ok := parseAuctionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_id"})
	}
	var req postCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body"})
	}

	account := AccountFromCtx(c)
	comment, err := h.service.PostComment(c.UserContext(), id, account.ID, req.Content)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.fanout.Publish(c.UserContext(), fanout.NewCommentEvent(comment, account.Username)); err != nil {
		log.Error("comment event publish failed",
			zap.String("auctionID", id.String()),
			zap.Error(err),
		)
	}
	return c.SendStatus(fiber.StatusCreated)
}
