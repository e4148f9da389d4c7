package domain

import (
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of an auction. It only ever advances through
// the fixed transition graph below, never backwards.
type State string

const (
	StateSubmitted      State = "SUBMITTED"
	StateUnderReview    State = "UNDER_REVIEW"
	StatePendingChanges State = "PENDING_CHANGES"
	StateLive           State = "LIVE"
	StateEnded          State = "ENDED"
)

// transitions is the full lifecycle graph. SUBMITTED auctions are accepted by
// an admin into PENDING_CHANGES; sellers edit there and resubmit to
// UNDER_REVIEW, which can cycle back to PENDING_CHANGES or go LIVE. Only the
// sweeper moves LIVE to ENDED.
var transitions = map[State][]State{
	StateSubmitted:      {StatePendingChanges},
	StatePendingChanges: {StateUnderReview},
	StateUnderReview:    {StatePendingChanges, StateLive},
	StateLive:           {StateEnded},
	StateEnded:          {},
}

// CanTransition reports whether from -> to is a legal lifecycle step.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStates returns the legal successor states of from.
func NextStates(from State) []State {
	return transitions[from]
}

// CarInformation holds the denormalized display fields carried on the
// auction row; the pretty id is derived from them at go-live.
type CarInformation struct {
	ModelYear int
	Brand     string
	Model     string
	Trim      string
}

// Auction is the engine's aggregate root. The state field is mutated only
// through state-transition operations; the single exception is the end date,
// which the anti-sniping rule pushes forward while the auction is live.
type Auction struct {
	ID        uuid.UUID
	State     State
	SellerID  uuid.UUID
	PrettyID  string
	Featured  bool
	StartDate *time.Time
	EndDate   *time.Time
	Car       CarInformation
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSubmittedAuction creates an auction in the SUBMITTED state, with no
// schedule yet; start and end dates are assigned when it goes live.
func NewSubmittedAuction(sellerID uuid.UUID, car CarInformation) *Auction {
	return &Auction{
		ID:       uuid.New(),
		State:    StateSubmitted,
		SellerID: sellerID,
		Car:      car,
	}
}

// CanAcceptBidAt checks temporal containment: the auction must be LIVE and
// now must fall inside [StartDate, EndDate).
func (a *Auction) CanAcceptBidAt(now time.Time) error {
	if a.State != StateLive {
		return ErrAuctionNotLive
	}
	if a.StartDate == nil || now.Before(*a.StartDate) {
		return ErrAuctionNotStarted
	}
	if a.EndDate == nil || !now.Before(*a.EndDate) {
		return ErrAuctionEnded
	}
	return nil
}

// ExtendedDeadline applies the anti-sniping rule: when less than window
// remains before the deadline, the deadline moves to now+window. Returns the
// new deadline and true when an extension is due. Every near-deadline bid
// resets the clock, so an auction only closes once a full window elapses
// without a competitive bid.
func (a *Auction) ExtendedDeadline(now time.Time, window time.Duration) (time.Time, bool) {
	if a.EndDate == nil {
		return time.Time{}, false
	}
	if a.EndDate.Sub(now) >= window {
		return time.Time{}, false
	}
	return now.Add(window), true
}
