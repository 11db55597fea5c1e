package domain

import "time"

type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name,omitempty"`
	LastName      string    `json:"last_name,omitempty"`
	DateOfBirth   string    `json:"date_of_birth,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Status        string    `json:"status"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (u User) EntityID() string { return u.ID }

// Address is a user address (billing, shipping, home, work, other).
type Address struct {
	ID          string    `json:"id"`
	User        string    `json:"user"`
	UserEmail   string    `json:"user_email,omitempty"`
	AddressType string    `json:"address_type"`
	Street      string    `json:"street,omitempty"`
	City        string    `json:"city,omitempty"`
	PostalCode  string    `json:"postal_code,omitempty"`
	Country     string    `json:"country,omitempty"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a Address) EntityID() string { return a.ID }

type PaymentMethod struct {
	ID           string    `json:"id"`
	User         string    `json:"user"`
	UserEmail    string    `json:"user_email,omitempty"`
	PaymentType  string    `json:"payment_type"`
	CardLastFour string    `json:"card_last_four,omitempty"`
	CardBrand    string    `json:"card_brand,omitempty"`
	ExpiryDate   string    `json:"expiry_date,omitempty"`
	IsDefault    bool      `json:"is_default"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (p PaymentMethod) EntityID() string { return p.ID }

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by the backend login endpoint.
type LoginResponse struct {
	User         User   `json:"user"`
	Token        string `json:"token"`
	SessionToken string `json:"session_token,omitempty"`
}
