package repository

import "context"

type InventoryRepository interface {
	// 在庫が足りるときだけ減算（stock >= qty の行だけ更新）。
	// 足りなければ false。支払確定トランザクションの中でだけ呼ぶこと。
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)
}
