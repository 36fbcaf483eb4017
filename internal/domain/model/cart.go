package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 1オーナー（ユーザー or 匿名セッション）につきカートは1つ。
// 価格4項目は常に現在の明細から再計算した値を保存する。
// 注文確定時は明細と価格をゼロに戻すだけで、行そのものは消さない。
type Cart struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        *int64          `gorm:"index" json:"user_id"`
	SessionCartID string          `gorm:"type:varchar(64);not null;index" json:"session_cart_id"`
	ItemsPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"items_price"`
	ShippingPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping_price"`
	TaxPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax_price"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
