package usecase

// 一覧のデフォルトページサイズ
const PageSize = 10

// トップに出す新着商品の件数
const LatestProductsLimit = 4

const DefaultPaymentMethod = "PayPal"

// 選べる支払い方法
var PaymentMethods = []string{"PayPal", "Stripe", "CashOnDelivery"}

func isValidPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
