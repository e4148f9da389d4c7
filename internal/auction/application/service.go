package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/openmotors/auctionhouse/internal/auction/domain"
)

// AuctionService is the application interface of the auction bounded
// context, wiring every use case for the infra layer.
type AuctionService interface {
	PlaceBid(ctx context.Context, in PlaceBidInput) (*domain.Bid, error)

	Submit(ctx context.Context, sellerID uuid.UUID, car domain.CarInformation) (*domain.Auction, error)
	AcceptSubmitted(ctx context.Context, id uuid.UUID) error
	Resubmit(ctx context.Context, id, sellerID uuid.UUID) error
	RequestChanges(ctx context.Context, id uuid.UUID) error
	GoLive(ctx context.Context, id uuid.UUID, featured bool) error

	PostComment(ctx context.Context, auctionID, accountID uuid.UUID, content string) (*domain.Comment, error)

	GetAuction(ctx context.Context, id uuid.UUID) (*domain.Auction, error)
	Feed(ctx context.Context, auctionID uuid.UUID) ([]FeedItem, error)
	CurrentBid(ctx context.Context, auctionID uuid.UUID) (*domain.Bid, error)
}

type auctionService struct {
	store       domain.Store
	placeBidUC  *PlaceBidUseCase
	lifecycleUC *LifecycleUseCase
	commentUC   *PostCommentUseCase
	feedUC      *FeedUseCase
}

func NewAuctionService(
	store domain.Store,
	placeBidUC *PlaceBidUseCase,
	lifecycleUC *LifecycleUseCase,
	commentUC *PostCommentUseCase,
	feedUC *FeedUseCase,
) AuctionService {
	return &auctionService{
		store:       store,
		placeBidUC:  placeBidUC,
		lifecycleUC: lifecycleUC,
		commentUC:   commentUC,
		feedUC:      feedUC,
	}
}

func (s *auctionService) PlaceBid(ctx context.Context, in PlaceBidInput) (*domain.Bid, error) {
	return s.placeBidUC.Execute(ctx, in)
}

func (s *auctionService) Submit(ctx context.Context, sellerID uuid.UUID, car domain.CarInformation) (*domain.Auction, error) {
	return s.lifecycleUC.Submit(ctx, sellerID, car)
}

func (s *auctionService) AcceptSubmitted(ctx context.Context, id uuid.UUID) error {
	return s.lifecycleUC.AcceptSubmitted(ctx, id)
}

func (s *auctionService) Resubmit(ctx context.Context, id, sellerID uuid.UUID) error {
	return s.lifecycleUC.Resubmit(ctx, id, sellerID)
}

func (s *auctionService) RequestChanges(ctx context.Context, id uuid.UUID) error {
	return s.lifecycleUC.RequestChanges(ctx, id)
}

func (s *auctionService) GoLive(ctx context.Context, id uuid.UUID, featured bool) error {
	return s.lifecycleUC.GoLive(ctx, id, featured)
}

func (s *auctionService) PostComment(ctx context.Context, auctionID, accountID uuid.UUID, content string) (*domain.Comment, error) {
	return s.commentUC.Execute(ctx, auctionID, accountID, content)
}

func (s *auctionService) GetAuction(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	return s.store.AuctionByID(ctx, id)
}

func (s *auctionService) Feed(ctx context.Context, auctionID uuid.UUID) ([]FeedItem, error) {
	return s.feedUC.Feed(ctx, auctionID)
}

func (s *auctionService) CurrentBid(ctx context.Context, auctionID uuid.UUID) (*domain.Bid, error) {
	return s.feedUC.CurrentBid(ctx, auctionID)
}
