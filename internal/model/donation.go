package model

import (
	"strconv"
	"time"
)

// DonationStatus is the payment state of a donation
type DonationStatus string

const (
	DonationPending   DonationStatus = "Pending"
	DonationConfirmed DonationStatus = "Confirmed"
	DonationFailed    DonationStatus = "Failed"
)

// CoinUSDC is the stablecoin donations are settled in
const CoinUSDC = "USDC"

// Donation is a single contribution to a project
type Donation struct {
	ID              uint           `json:"donation_id" gorm:"primaryKey"`
	UserID          *uint          `json:"user_id" gorm:"index"`
	ProjectID       uint           `json:"project_id" gorm:"not null;index"`
	FiatAmount      *string        `json:"fiat_amount" gorm:"type:numeric(20,2)"`
	FiatCurrency    *string        `json:"fiat_currency" gorm:"type:varchar(10)"`
	CoinAmount      string         `json:"coin_amount" gorm:"type:numeric(20,8);not null"`
	CoinType        string         `json:"coin_type" gorm:"type:varchar(10);not null"`
	ConversionRate  *string        `json:"conversion_rate" gorm:"type:numeric(20,8)"`
	TransactionHash string         `json:"transaction_hash" gorm:"type:varchar(255);uniqueIndex;not null"`
	DonationDate    time.Time      `json:"donation_date" gorm:"autoCreateTime;index"`
	IsAnonymous     bool           `json:"is_anonymous" gorm:"not null"`
	Status          DonationStatus `json:"status" gorm:"type:varchar(20);not null;index"`

	User    *User    `json:"-" gorm:"foreignKey:UserID"`
	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

// USDValue converts the coin amount to USD; USDC is pegged 1:1.
func (d *Donation) USDValue() float64 {
	amount, err := strconv.ParseFloat(d.CoinAmount, 64)
	if err != nil {
		return 0
	}
	if d.CoinType == CoinUSDC {
		return amount
	}
	if d.ConversionRate != nil {
		rate, err := strconv.ParseFloat(*d.ConversionRate, 64)
		if err == nil {
			return amount * rate
		}
	}
	return 0
}

// VisibleUserID hides the donor for anonymous donations
func (d *Donation) VisibleUserID() *uint {
	if d.IsAnonymous {
		return nil
	}
	return d.UserID
}
