package repository

import (
	"context"
	"time"

	"ezstore/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	// 新しい順で返す
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)

	Create(ctx context.Context, order model.Order) (int64, error)

	// intent作成時のプレースホルダ保存（status等は空のまま）
	SetPaymentResult(ctx context.Context, orderID int64, result model.PaymentResult) error

	// 支払済みへの遷移。is_paid=false の行だけを対象にする。
	// 既に支払済みなら false を返す。
	MarkPaidIfUnpaid(ctx context.Context, orderID int64, paidAt time.Time, result model.PaymentResult) (bool, error)

	// 管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
