package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文。価格4項目は作成時点のカートのスナップショットで以後不変。
// is_paid は一度 true になったら戻さない。
type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64           `gorm:"not null;index" json:"user_id"`
	ShippingAddress ShippingAddress `gorm:"type:jsonb;not null" json:"shipping_address"`
	PaymentMethod   string          `gorm:"type:varchar(50);not null" json:"payment_method"`
	ItemsPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"items_price"`
	ShippingPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping_price"`
	TaxPrice        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax_price"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	IsPaid          bool            `gorm:"not null;default:false" json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at"`
	PaymentResult   *PaymentResult  `gorm:"type:jsonb" json:"payment_result"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
