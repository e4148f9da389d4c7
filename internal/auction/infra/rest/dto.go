package rest

import (
	"time"

	"github.com/google/uuid"
	"github.com/openmotors/auctionhouse/internal/auction/application"
	"github.com/openmotors/auctionhouse/internal/auction/domain"
)

type submitAuctionRequest struct {
	ModelYear int    `json:"modelYear"`
	CarBrand  string `json:"carBrand"`
	CarModel  string `json:"carModel"`
	Trim      string `json:"trim"`
}

type placeBidRequest struct {
	// Amount in minor currency units (cents).
	Amount int64 `json:"amount"`
}

type postCommentRequest struct {
	Content string `json:"content"`
}

type goLiveRequest struct {
	Featured bool `json:"featured"`
}

type auctionResponse struct {
	ID        uuid.UUID  `json:"id"`
	State     string     `json:"state"`
	SellerID  uuid.UUID  `json:"sellerId"`
	PrettyID  string     `json:"prettyId,omitempty"`
	Featured  bool       `json:"featured"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	ModelYear int        `json:"modelYear"`
	CarBrand  string     `json:"carBrand"`
	CarModel  string     `json:"carModel"`
	Trim      string     `json:"trim,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func mapAuction(a *domain.Auction) auctionResponse {
	return auctionResponse{
		ID:        a.ID,
		State:     string(a.State),
		SellerID:  a.SellerID,
		PrettyID:  a.PrettyID,
		Featured:  a.Featured,
		StartDate: a.StartDate,
		EndDate:   a.EndDate,
		ModelYear: a.Car.ModelYear,
		CarBrand:  a.Car.Brand,
		CarModel:  a.Car.Model,
		Trim:      a.Car.Trim,
		CreatedAt: a.CreatedAt,
	}
}

type bidResponse struct {
	ID        uuid.UUID `json:"id"`
	AuctionID uuid.UUID `json:"auctionId"`
	Amount    int64     `json:"amount"`
	Bidder    string    `json:"bidder"`
	CreatedAt time.Time `json:"createdAt"`
}

type feedItemResponse struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Username  string    `json:"username"`
	Content   string    `json:"content,omitempty"`
	Amount    int64     `json:"amount,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func mapFeed(items []application.FeedItem, usernames map[uuid.UUID]string) []feedItemResponse {
	out := make([]feedItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, feedItemResponse{
			ID:        item.ID,
			Type:      string(item.Kind),
			Username:  usernames[item.AccountID],
			Content:   item.Content,
			Amount:    item.Amount,
			CreatedAt: item.CreatedAt,
		})
	}
	return out
}
