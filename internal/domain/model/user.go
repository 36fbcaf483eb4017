package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           int64            `gorm:"primaryKey;autoIncrement"`
	Name         string           `gorm:"type:varchar(255);not null"`
	Email        string           `gorm:"uniqueIndex;not null"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	Role         Role             `gorm:"type:varchar(20);not null;default:'USER'"`
	Address      *ShippingAddress `gorm:"type:jsonb"`
	//未設定なら空文字（注文確定の前提条件チェックで使う）
	PaymentMethod string `gorm:"type:varchar(50)"`
	IsActive      bool   `gorm:"not null;default:true"`
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
