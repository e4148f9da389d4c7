package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	all := []State{StateSubmitted, StatePendingChanges, StateUnderReview, StateLive, StateEnded}
	legal := map[State]map[State]bool{
		StateSubmitted:      {StatePendingChanges: true},
		StatePendingChanges: {StateUnderReview: true},
		StateUnderReview:    {StatePendingChanges: true, StateLive: true},
		StateLive:           {StateEnded: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := legal[from][to]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}

	// ENDED is terminal.
	assert.Empty(t, NextStates(StateEnded))
	// Unknown states never transition anywhere.
	assert.False(t, CanTransition(State("BOGUS"), StateLive))
}

func TestCanAcceptBidAt(t *testing.T) {
	now := time.Now()
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)

	tests := []struct {
		name    string
		auction Auction
		at      time.Time
		wantErr error
	}{
		{
			name:    "live inside schedule",
			auction: Auction{State: StateLive, StartDate: &start, EndDate: &end},
			at:      now,
		},
		{
			name:    "not live",
			auction: Auction{State: StateUnderReview, StartDate: &start, EndDate: &end},
			at:      now,
			wantErr: ErrAuctionNotLive,
		},
		{
			name:    "ended state",
			auction: Auction{State: StateEnded, StartDate: &start, EndDate: &end},
			at:      now,
			wantErr: ErrAuctionNotLive,
		},
		{
			name:    "before start",
			auction: Auction{State: StateLive, StartDate: &start, EndDate: &end},
			at:      start.Add(-time.Second),
			wantErr: ErrAuctionNotStarted,
		},
		{
			name:    "exactly at start is accepted",
			auction: Auction{State: StateLive, StartDate: &start, EndDate: &end},
			at:      start,
		},
		{
			name:    "exactly at end is rejected",
			auction: Auction{State: StateLive, StartDate: &start, EndDate: &end},
			at:      end,
			wantErr: ErrAuctionEnded,
		},
		{
			name:    "after end",
			auction: Auction{State: StateLive, StartDate: &start, EndDate: &end},
			at:      end.Add(time.Second),
			wantErr: ErrAuctionEnded,
		},
		{
			name:    "live without schedule",
			auction: Auction{State: StateLive},
			at:      now,
			wantErr: ErrAuctionNotStarted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.auction.CanAcceptBidAt(tt.at)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExtendedDeadline(t *testing.T) {
	now := time.Now()
	window := 5 * time.Minute

	t.Run("far from deadline", func(t *testing.T) {
		end := now.Add(time.Hour)
		a := Auction{EndDate: &end}
		_, ok := a.ExtendedDeadline(now, window)
		assert.False(t, ok)
	})

	t.Run("exactly one window left", func(t *testing.T) {
		end := now.Add(window)
		a := Auction{EndDate: &end}
		_, ok := a.ExtendedDeadline(now, window)
		assert.False(t, ok)
	})

	t.Run("inside the window", func(t *testing.T) {
		end := now.Add(200 * time.Millisecond)
		a := Auction{EndDate: &end}
		newEnd, ok := a.ExtendedDeadline(now, window)
		require.True(t, ok)
		assert.Equal(t, now.Add(window), newEnd)
		assert.True(t, newEnd.After(end))
	})

	t.Run("already past the deadline", func(t *testing.T) {
		end := now.Add(-time.Second)
		a := Auction{EndDate: &end}
		newEnd, ok := a.ExtendedDeadline(now, window)
		require.True(t, ok)
		assert.Equal(t, now.Add(window), newEnd)
	})

	t.Run("no deadline", func(t *testing.T) {
		a := Auction{}
		_, ok := a.ExtendedDeadline(now, window)
		assert.False(t, ok)
	})
}

func TestNewSubmittedAuction(t *testing.T) {
	sellerID := uuid.New()
	car := CarInformation{ModelYear: 2004, Brand: "Volvo", Model: "V70", Trim: "R"}

	a := NewSubmittedAuction(sellerID, car)

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, StateSubmitted, a.State)
	assert.Equal(t, sellerID, a.SellerID)
	assert.Equal(t, car, a.Car)
	assert.Nil(t, a.StartDate)
	assert.Nil(t, a.EndDate)
	assert.Empty(t, a.PrettyID)
}
