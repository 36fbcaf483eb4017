package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Category    string          `gorm:"type:varchar(255);not null" json:"category"`
	Brand       string          `gorm:"type:varchar(255);not null" json:"brand"`
	Description string          `gorm:"type:text" json:"description"`
	Images      pq.StringArray  `gorm:"type:text[]" json:"images"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Stock       int64           `gorm:"not null" json:"stock"`
	IsFeatured  bool            `gorm:"not null;default:false" json:"is_featured"`
	Banner      *string         `gorm:"type:varchar(255)" json:"banner"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
