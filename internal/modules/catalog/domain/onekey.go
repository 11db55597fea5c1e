package domain

import "time"

// Loyalty tiers of a OneKey account.
const (
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
	TierDiamond  = "diamond"
)

// Tiers lists the loyalty tiers in ascending order.
var Tiers = []string{TierSilver, TierGold, TierPlatinum, TierDiamond}

type OneKeyAccount struct {
	ID           string    `json:"id"`
	User         string    `json:"user"`
	UserEmail    string    `json:"user_email,omitempty"`
	OneKeyNumber string    `json:"onekey_number,omitempty"`
	Tier         string    `json:"tier"`
	TotalPoints  int       `json:"total_points"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a OneKeyAccount) EntityID() string { return a.ID }

type OneKeyReward struct {
	ID            string    `json:"id"`
	OneKeyAccount string    `json:"onekey_account"`
	Points        int       `json:"points"`
	RewardType    string    `json:"reward_type"`
	Description   string    `json:"description,omitempty"`
	ExpiresAt     string    `json:"expires_at,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (r OneKeyReward) EntityID() string { return r.ID }

type OneKeyPromotion struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Multiplier  string    `json:"points_multiplier,omitempty"`
	StartDate   string    `json:"start_date,omitempty"`
	EndDate     string    `json:"end_date,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p OneKeyPromotion) EntityID() string { return p.ID }

type OneKeyTransaction struct {
	ID              string    `json:"id"`
	OneKeyAccount   string    `json:"onekey_account"`
	TransactionType string    `json:"transaction_type"`
	Points          int       `json:"points"`
	BookingID       string    `json:"booking_id,omitempty"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (t OneKeyTransaction) EntityID() string { return t.ID }
