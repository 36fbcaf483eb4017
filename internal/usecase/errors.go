package usecase

import "errors"

// 業務エラーの一覧。handler側でHTTPステータスとメッセージに変換する。
var (
	//セッションもログインも無い（カートの持ち主を特定できない）
	ErrNoSession = errors.New("cart session not found")
	//400系
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrCartNotFound      = errors.New("cart not found")
	ErrItemNotFound      = errors.New("item not found")
	//注文確定の前提条件
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoShippingAddress = errors.New("no shipping address")
	ErrNoPaymentMethod   = errors.New("no payment method")
	//支払い
	ErrOrderNotFound     = errors.New("order not found")
	ErrPaymentValidation = errors.New("error in payment capture")
	ErrAlreadyPaid       = errors.New("order is already paid")
)

// GatewayError は決済プロバイダ由来の失敗。
// メッセージは加工せずそのまま利用者へ返す（リトライもしない）。
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return e.Err.Error()
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// RedirectTarget は失敗時に誘導すべき画面を返す。無ければ空文字。
// リダイレクト指示はエラーではなくデータとしてそのまま上へ渡す。
func RedirectTarget(err error) string {
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "/cart"
	case errors.Is(err, ErrNoShippingAddress):
		return "/shipping-address"
	case errors.Is(err, ErrNoPaymentMethod):
		return "/payment-method"
	}
	return ""
}
