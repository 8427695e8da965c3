package domain

import (
	"errors"
	"time"
)

var ErrFeeNotFound = errors.New("monthly fee not found")
var ErrDuplicateFee = errors.New("fee already exists for this resident and month")

// FeeStatus marks whether a monthly fee has been paid.
type FeeStatus string

const (
	FeeUnpaid FeeStatus = "unpaid"
	FeePaid   FeeStatus = "paid"
)

// MonthlyFee is a charge against a resident for one calendar month.
// Exactly one fee may exist per (resident, month, year); the store enforces
// the triple with a unique compound index.
type MonthlyFee struct {
	ID          string     `json:"id" bson:"-"`
	Resident    UserRef    `json:"resident" bson:"resident"`
	Month       int        `json:"month" bson:"month"`
	Year        int        `json:"year" bson:"year"`
	Amount      float64    `json:"amount" bson:"amount"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Status      FeeStatus  `json:"status" bson:"status"`
	DueDate     *time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	CommunityID string     `json:"community_id,omitempty" bson:"community_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}
