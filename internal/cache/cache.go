package cache

import (
	"context"
	"errors"

	"ezstore/internal/domain/model"
)

// 商品詳細のキャッシュ。
// カート操作で在庫表示が変わるので、対象商品のキャッシュは都度無効化する。
type ProductCache interface {
	Get(ctx context.Context, slug string) (*model.Product, error)
	Set(ctx context.Context, product model.Product) error
	Invalidate(ctx context.Context, slug string) error
}

var ErrCacheMiss = errors.New("cache miss")
