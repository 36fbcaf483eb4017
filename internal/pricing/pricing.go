package pricing

import (
	"ezstore/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 100を超えたら送料無料、それ以外は一律10。税率は15%。
var (
	freeShippingThreshold = decimal.NewFromInt(100)
	flatShippingPrice     = decimal.NewFromInt(10)
	taxRate               = decimal.RequireFromString("0.15")
)

// カートの価格内訳。各項目とも小数2桁に丸め済み。
type Breakdown struct {
	ItemsPrice    decimal.Decimal
	ShippingPrice decimal.Decimal
	TaxPrice      decimal.Decimal
	TotalPrice    decimal.Decimal
}

// Compute は明細から価格内訳を計算する純粋関数。
// 丸めは合計だけでなく各項目に個別にかける（四捨五入・2桁）。
func Compute(items []model.CartItem) Breakdown {
	itemsPrice := decimal.Zero
	for _, it := range items {
		itemsPrice = itemsPrice.Add(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)))
	}
	itemsPrice = round2(itemsPrice)

	shippingPrice := flatShippingPrice
	if itemsPrice.GreaterThan(freeShippingThreshold) {
		shippingPrice = decimal.Zero
	}
	shippingPrice = round2(shippingPrice)

	taxPrice := round2(taxRate.Mul(itemsPrice))

	totalPrice := round2(itemsPrice.Add(taxPrice).Add(shippingPrice))

	return Breakdown{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shippingPrice,
		TaxPrice:      taxPrice,
		TotalPrice:    totalPrice,
	}
}

// Round は正の値に対して四捨五入（round half up）になる。
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
