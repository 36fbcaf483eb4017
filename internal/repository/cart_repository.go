package repository

import (
	"context"

	"ezstore/internal/domain/model"
)

type CartRepository interface {
	// オーナーのカートを1件取得（無ければ ErrNotFound）
	FindByOwner(ctx context.Context, owner OwnerKey) (model.Cart, error)

	// 新規カート作成（IDが埋まったものを返す）
	Create(ctx context.Context, cart model.Cart) (model.Cart, error)

	// 価格4項目を保存し直す
	UpdatePrices(ctx context.Context, cart model.Cart) error

	// 明細を全削除して価格をゼロに戻す。カート行は消さない。
	Clear(ctx context.Context, cartID int64) error
}
