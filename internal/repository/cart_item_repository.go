package repository

import (
	"context"

	"ezstore/internal/domain/model"
)

type CartItemRepository interface {
	// 追加順（id昇順）で明細を返す
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)

	FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error)

	Create(ctx context.Context, item model.CartItem) error
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
}
