package repository

import (
	"context"
	"errors"

	"ezstore/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//最終ログインなどの更新
	Update(ctx context.Context, user *model.User) error
	//配送先住所の保存
	UpdateAddress(ctx context.Context, userID int64, address model.ShippingAddress) error
	//支払い方法の保存
	UpdatePaymentMethod(ctx context.Context, userID int64, method string) error
}
