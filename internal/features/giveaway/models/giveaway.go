package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"cs2-giveaway-backend/internal/utils/random"
)

var (
	ErrEmptyPrizes = errors.New("giveaway must have at least one prize")
	ErrPastEndTime = errors.New("end time must be in the future")
)

// GiveawayStatus represents the status of a giveaway
type GiveawayStatus string

const (
	GiveawayStatusActive GiveawayStatus = "active"
	GiveawayStatusEnded  GiveawayStatus = "ended"
)

// Giveaway represents a skin giveaway. The state machine has a single edge,
// active -> ended; ended is terminal. Participants and winners are frozen
// once the giveaway ends.
type Giveaway struct {
	ID     string  `json:"id"`
	Prizes []Prize `json:"prizes"`
	// EndTime is milliseconds since epoch, the wire format the Mini App
	// countdown works with.
	EndTime      int64          `json:"end_time"`
	Status       GiveawayStatus `json:"status"`
	Participants []string       `json:"participants"`
	// Winners has one entry per prize once ended; empty while active.
	Winners   []string  `json:"winners,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewGiveaway validates the input and produces a fresh active giveaway.
func NewGiveaway(prizes []Prize, endTime int64, now time.Time) (*Giveaway, error) {
	if len(prizes) == 0 {
		return nil, ErrEmptyPrizes
	}
	if endTime <= now.UnixMilli() {
		return nil, ErrPastEndTime
	}

	return &Giveaway{
		ID:           uuid.New().String(),
		Prizes:       prizes,
		EndTime:      endTime,
		Status:       GiveawayStatusActive,
		Participants: make([]string, 0),
		Winners:      make([]string, 0),
		CreatedAt:    now,
	}, nil
}

// EndsAt returns the end time as time.Time.
func (g *Giveaway) EndsAt() time.Time {
	return time.UnixMilli(g.EndTime)
}

// HasEnded reports whether the giveaway is past its end time at now.
func (g *Giveaway) HasEnded(now time.Time) bool {
	return now.UnixMilli() >= g.EndTime
}

// IsParticipant reports whether userID has already joined.
func (g *Giveaway) IsParticipant(userID string) bool {
	for _, p := range g.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// Join appends userID to the participant set. Joining twice, or joining an
// ended giveaway, is a no-op. Returns whether the giveaway changed.
func (g *Giveaway) Join(userID string) bool {
	if g.Status != GiveawayStatusActive {
		return false
	}
	if g.IsParticipant(userID) {
		return false
	}
	g.Participants = append(g.Participants, userID)
	return true
}

// Leave removes userID from the participant set while the giveaway is
// active. Returns whether the giveaway changed.
func (g *Giveaway) Leave(userID string) bool {
	if g.Status != GiveawayStatusActive {
		return false
	}
	for i, p := range g.Participants {
		if p == userID {
			g.Participants = append(g.Participants[:i], g.Participants[i+1:]...)
			return true
		}
	}
	return false
}

// Tick transitions the giveaway to ended when its end time has passed,
// drawing one winner per prize. Ticking an already ended giveaway is a
// no-op, which keeps concurrent sweeps idempotent. Returns whether the
// transition happened.
func (g *Giveaway) Tick(now time.Time, organizerID string) bool {
	if g.Status != GiveawayStatusActive {
		return false
	}
	if !g.HasEnded(now) {
		return false
	}

	g.Status = GiveawayStatusEnded
	g.Winners = drawWinners(g.Participants, len(g.Prizes), organizerID)
	return true
}

// ForceEnd pulls the end time to now and ends the giveaway immediately.
// Allowed only while active. Returns whether the transition happened.
func (g *Giveaway) ForceEnd(now time.Time, organizerID string) bool {
	if g.Status != GiveawayStatusActive {
		return false
	}
	g.EndTime = now.UnixMilli()
	return g.Tick(now, organizerID)
}

// drawWinners picks count winners from participants without replacement via
// a crypto-seeded shuffle. When participants run short the remaining slots
// are filled with the organizer placeholder.
func drawWinners(participants []string, count int, organizerID string) []string {
	pool := make([]string, len(participants))
	copy(pool, participants)
	if err := random.Shuffle(pool); err != nil {
		// The shuffle only fails when the system entropy source does;
		// creation order is still a valid draw pool.
		pool = participants
	}

	winners := make([]string, count)
	for i := 0; i < count; i++ {
		if i < len(pool) {
			winners[i] = pool[i]
		} else {
			winners[i] = organizerID
		}
	}
	return winners
}
