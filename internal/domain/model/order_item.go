package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。注文作成時点のカート明細のスナップショットで、書き込み後は不変。
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64           `gorm:"not null;index" json:"order_id"`
	ProductID int64           `gorm:"not null;index" json:"product_id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Slug      string          `gorm:"type:varchar(255);not null" json:"slug"`
	Image     string          `gorm:"type:varchar(255);not null" json:"image"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity  int64           `gorm:"not null" json:"qty"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
