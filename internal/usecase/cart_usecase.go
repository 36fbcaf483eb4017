package usecase

import (
	"context"
	"errors"
	"fmt"

	"ezstore/internal/cache"
	"ezstore/internal/domain/model"
	"ezstore/internal/pricing"
	repo "ezstore/internal/repository"

	"github.com/rs/zerolog"
)

// CartUsecase はカートの業務ロジック。
// 明細の増減と価格4項目の再計算は必ず1トランザクションで行う。
type CartUsecase struct {
	tx           repo.TransactionManager
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productCache cache.ProductCache
	log          zerolog.Logger
}

func NewCartUsecase(
	tx repo.TransactionManager,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productCache cache.ProductCache,
	log zerolog.Logger,
) *CartUsecase {
	return &CartUsecase{
		tx:           tx,
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productCache: productCache,
		log:          log,
	}
}

type CartItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Image     string `json:"image"`
	Price     string `json:"price"`
	Quantity  int64  `json:"qty"`
}

// 価格は小数2桁の文字列で返す
type CartOutput struct {
	ID            int64            `json:"id"`
	Items         []CartItemOutput `json:"items"`
	ItemsPrice    string           `json:"items_price"`
	ShippingPrice string           `json:"shipping_price"`
	TaxPrice      string           `json:"tax_price"`
	TotalPrice    string           `json:"total_price"`
}

type CartMutationOutput struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Cart    CartOutput `json:"cart"`
}

type AddItemInput struct {
	ProductID int64
}

// GetMyCart はカートを取得する。まだ作られていなければ nil を返す（エラーではない）。
func (u *CartUsecase) GetMyCart(ctx context.Context, owner repo.OwnerKey) (*CartOutput, error) {
	if owner.Empty() {
		return nil, ErrNoSession
	}

	cart, err := u.cartRepo.FindByOwner(ctx, owner)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	out := buildCartOutput(cart, items)
	return &out, nil
}

// AddItem は商品をカートに1個追加する。
// 既存明細があれば数量+1、無ければ数量1の明細を末尾に足す。
// 在庫チェックはこの時点ではあくまで目安（確定時に改めて減算でチェックする）。
func (u *CartUsecase) AddItem(ctx context.Context, owner repo.OwnerKey, in AddItemInput) (CartMutationOutput, error) {
	if owner.Empty() {
		return CartMutationOutput{}, ErrNoSession
	}

	var (
		out     CartOutput
		product model.Product
		updated bool
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}
		product = p

		cart, err := r.Carts().FindByOwner(ctx, owner)
		if errors.Is(err, repo.ErrNotFound) {
			//初回追加：カートを作ってこの商品1件だけ入れる
			if p.Stock < 1 {
				return ErrInsufficientStock
			}

			cart, err = r.Carts().Create(ctx, model.Cart{
				UserID:        owner.UserID,
				SessionCartID: owner.SessionCartID,
			})
			if err != nil {
				return err
			}

			if err := r.CartItems().Create(ctx, newCartItem(cart.ID, p)); err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			existing, err := r.CartItems().FindByCartAndProduct(ctx, cart.ID, p.ID)
			switch {
			case err == nil:
				//既存明細は+1。ただし在庫を超えては増やせない
				if p.Stock < existing.Quantity+1 {
					return ErrInsufficientStock
				}
				if err := r.CartItems().UpdateQuantity(ctx, existing.ID, existing.Quantity+1); err != nil {
					return err
				}
				updated = true
			case errors.Is(err, repo.ErrNotFound):
				if p.Stock < 1 {
					return ErrInsufficientStock
				}
				if err := r.CartItems().Create(ctx, newCartItem(cart.ID, p)); err != nil {
					return err
				}
			default:
				return err
			}
		}

		return u.recalcAndBuild(ctx, r, owner, &out)
	})
	if err != nil {
		return CartMutationOutput{}, err
	}

	u.invalidateProduct(ctx, product.Slug)

	message := fmt.Sprintf("%s added to cart", product.Name)
	if updated {
		message = fmt.Sprintf("%s updated in cart", product.Name)
	}

	return CartMutationOutput{Success: true, Message: message, Cart: out}, nil
}

// RemoveItem は商品を1個減らす。数量1の明細は行ごと削除する。
// カートが空になってもカート行は消さない。
func (u *CartUsecase) RemoveItem(ctx context.Context, owner repo.OwnerKey, productID int64) (CartMutationOutput, error) {
	if owner.Empty() {
		return CartMutationOutput{}, ErrNoSession
	}

	var (
		out     CartOutput
		product model.Product
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}
		product = p

		cart, err := r.Carts().FindByOwner(ctx, owner)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCartNotFound
		}
		if err != nil {
			return err
		}

		item, err := r.CartItems().FindByCartAndProduct(ctx, cart.ID, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}

		if item.Quantity <= 1 {
			if err := r.CartItems().DeleteByID(ctx, item.ID); err != nil {
				return err
			}
		} else {
			if err := r.CartItems().UpdateQuantity(ctx, item.ID, item.Quantity-1); err != nil {
				return err
			}
		}

		return u.recalcAndBuild(ctx, r, owner, &out)
	})
	if err != nil {
		return CartMutationOutput{}, err
	}

	u.invalidateProduct(ctx, product.Slug)

	return CartMutationOutput{
		Success: true,
		Message: fmt.Sprintf("%s removed from cart", product.Name),
		Cart:    out,
	}, nil
}

// 現在の明細から価格を再計算して保存し、レスポンスも組み立てる。
func (u *CartUsecase) recalcAndBuild(ctx context.Context, r repo.TxRepos, owner repo.OwnerKey, out *CartOutput) error {
	cart, err := r.Carts().FindByOwner(ctx, owner)
	if err != nil {
		return err
	}

	items, err := r.CartItems().ListByCartID(ctx, cart.ID)
	if err != nil {
		return err
	}

	b := pricing.Compute(items)
	cart.ItemsPrice = b.ItemsPrice
	cart.ShippingPrice = b.ShippingPrice
	cart.TaxPrice = b.TaxPrice
	cart.TotalPrice = b.TotalPrice

	if err := r.Carts().UpdatePrices(ctx, cart); err != nil {
		return err
	}

	*out = buildCartOutput(cart, items)
	return nil
}

// 商品詳細キャッシュの無効化。失敗してもカート操作自体は成功扱い。
func (u *CartUsecase) invalidateProduct(ctx context.Context, slug string) {
	if err := u.productCache.Invalidate(ctx, slug); err != nil {
		u.log.Warn().Err(err).Str("slug", slug).Msg("product cache invalidation failed")
	}
}

func newCartItem(cartID int64, p model.Product) model.CartItem {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}

	return model.CartItem{
		CartID:    cartID,
		ProductID: p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Image:     image,
		UnitPrice: p.Price,
		Quantity:  1,
	}
}

func buildCartOutput(cart model.Cart, items []model.CartItem) CartOutput {
	outItems := make([]CartItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, CartItemOutput{
			ProductID: it.ProductID,
			Name:      it.Name,
			Slug:      it.Slug,
			Image:     it.Image,
			Price:     it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
		})
	}

	return CartOutput{
		ID:            cart.ID,
		Items:         outItems,
		ItemsPrice:    cart.ItemsPrice.StringFixed(2),
		ShippingPrice: cart.ShippingPrice.StringFixed(2),
		TaxPrice:      cart.TaxPrice.StringFixed(2),
		TotalPrice:    cart.TotalPrice.StringFixed(2),
	}
}
