package repository

// カートの持ち主。ログイン済みなら UserID、匿名なら SessionCartID が入る。
// 両方あるときは UserID を優先して検索する。
type OwnerKey struct {
	UserID        *int64
	SessionCartID string
}

// Empty はどちらの識別子も無い状態（セッション未解決）かを返す。
func (k OwnerKey) Empty() bool {
	return k.UserID == nil && k.SessionCartID == ""
}
