package models

import (
	"context"
	"time"

	"github.com/limansoft/liman_backend/config"
	"github.com/shopspring/decimal"
)

// CurrencyRate is the daily TCMB rate snapshot the tariff and billing
// collaborators write; the portal only reads the latest row per currency.
type CurrencyRate struct {
	ID           int             `gorm:"primary_key" json:"id"`
	CurrencyCode string          `gorm:"size:3;index" json:"currencyCode"`
	RateDate     time.Time       `json:"rateDate"`
	Buying       decimal.Decimal `gorm:"type:decimal(18,6)" json:"buying"`
	Selling      decimal.Decimal `gorm:"type:decimal(18,6)" json:"selling"`
}

func LatestCurrencyRate(ctx context.Context, currencyCode string) (*CurrencyRate, error) {
	db := config.GetDB()
	var rate CurrencyRate
	err := db.WithContext(ctx).
		Where("currency_code = ?", currencyCode).
		Order("rate_date DESC, id DESC").
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}
