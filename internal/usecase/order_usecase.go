package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ezstore/internal/domain/model"
	"ezstore/internal/paypal"
	repo "ezstore/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// 決済プロバイダへの約束。実装は internal/paypal。
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal) (paypal.Intent, error)
	CaptureIntent(ctx context.Context, intentID string) (paypal.Capture, error)
}

// OrderUsecase はカート→注文→支払いの一連の流れを持つ。
type OrderUsecase struct {
	tx           repo.TransactionManager
	orderRepo    repo.OrderRepository
	orderItems   repo.OrderItemRepository
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	userRepo     repo.UserRepository
	gateway      PaymentGateway
	log          zerolog.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orderRepo repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	userRepo repo.UserRepository,
	gateway PaymentGateway,
	log zerolog.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:           tx,
		orderRepo:    orderRepo,
		orderItems:   orderItems,
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		userRepo:     userRepo,
		gateway:      gateway,
		log:          log,
	}
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Image     string `json:"image"`
	Price     string `json:"price"`
	Quantity  int64  `json:"qty"`
}

type OrderOutput struct {
	ID              int64                 `json:"id"`
	UserID          int64                 `json:"user_id"`
	ShippingAddress model.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                `json:"payment_method"`
	ItemsPrice      string                `json:"items_price"`
	ShippingPrice   string                `json:"shipping_price"`
	TaxPrice        string                `json:"tax_price"`
	TotalPrice      string                `json:"total_price"`
	IsPaid          bool                  `json:"is_paid"`
	PaidAt          *time.Time            `json:"paid_at"`
	PaymentResult   *model.PaymentResult  `json:"payment_result"`
	CreatedAt       time.Time             `json:"created_at"`
	Items           []OrderItemOutput     `json:"items"`
}

type CreateOrderOutput struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	OrderID    int64  `json:"order_id"`
	RedirectTo string `json:"redirect_to"`
}

type OrderListOutput struct {
	Data       []OrderOutput `json:"data"`
	TotalPages int64         `json:"total_pages"`
}

// CreateOrder はカートを注文に変換する。
// 前提条件（カートが空でない・住所と支払い方法が登録済み）を先に確認し、
// 注文＋明細の作成とカートのクリアは1トランザクションで行う。
func (u *OrderUsecase) CreateOrder(ctx context.Context, userID int64) (CreateOrderOutput, error) {
	owner := repo.OwnerKey{UserID: &userID}

	cart, err := u.cartRepo.FindByOwner(ctx, owner)
	if errors.Is(err, repo.ErrNotFound) {
		return CreateOrderOutput{}, ErrEmptyCart
	}
	if err != nil {
		return CreateOrderOutput{}, err
	}

	cartItems, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CreateOrderOutput{}, err
	}
	if len(cartItems) == 0 {
		return CreateOrderOutput{}, ErrEmptyCart
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return CreateOrderOutput{}, err
	}
	if user.Address == nil {
		return CreateOrderOutput{}, ErrNoShippingAddress
	}
	if user.PaymentMethod == "" {
		return CreateOrderOutput{}, ErrNoPaymentMethod
	}

	var orderID int64

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カートの価格をそのままスナップショット
		id, err := r.Orders().Create(ctx, model.Order{
			UserID:          userID,
			ShippingAddress: *user.Address,
			PaymentMethod:   user.PaymentMethod,
			ItemsPrice:      cart.ItemsPrice,
			ShippingPrice:   cart.ShippingPrice,
			TaxPrice:        cart.TaxPrice,
			TotalPrice:      cart.TotalPrice,
		})
		if err != nil {
			return err
		}
		orderID = id

		items := make([]model.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			items = append(items, model.OrderItem{
				ProductID: ci.ProductID,
				Name:      ci.Name,
				Slug:      ci.Slug,
				Image:     ci.Image,
				UnitPrice: ci.UnitPrice,
				Quantity:  ci.Quantity,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return err
		}

		//カートは空に戻して再利用する
		return r.Carts().Clear(ctx, cart.ID)
	})
	if err != nil {
		return CreateOrderOutput{}, err
	}

	u.log.Info().Int64("order_id", orderID).Int64("user_id", userID).Msg("order created")

	return CreateOrderOutput{
		Success:    true,
		Message:    "order created",
		OrderID:    orderID,
		RedirectTo: fmt.Sprintf("/order/%d", orderID),
	}, nil
}

// GetOrder は注文詳細。本人か管理者以外には存在しない扱いにする。
func (u *OrderUsecase) GetOrder(ctx context.Context, userID int64, isAdmin bool, orderID int64) (OrderOutput, error) {
	order, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, ErrOrderNotFound
	}
	if err != nil {
		return OrderOutput{}, err
	}

	if order.UserID != userID && !isAdmin {
		return OrderOutput{}, ErrOrderNotFound
	}

	items, err := u.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, err
	}

	return toOrderOutput(order, items), nil
}

// CreatePaymentIntent はプロバイダ側に支払いintentを作り、
// そのIDをプレースホルダとして注文に記録する（capture時の照合に使う）。
func (u *OrderUsecase) CreatePaymentIntent(ctx context.Context, orderID int64) (string, error) {
	order, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", err
	}

	intent, err := u.gateway.CreateIntent(ctx, order.TotalPrice)
	if err != nil {
		return "", &GatewayError{Err: err}
	}

	placeholder := model.PaymentResult{
		ID:           intent.ID,
		Status:       "",
		EmailAddress: "",
		PricePaid:    "0",
	}
	if err := u.orderRepo.SetPaymentResult(ctx, orderID, placeholder); err != nil {
		return "", err
	}

	return intent.ID, nil
}

// CapturePayment はプロバイダ側でcaptureし、検証が通れば支払済みへ遷移させる。
// 検証NG（ID不一致・COMPLETED以外）のときは注文を一切変更しない。
func (u *OrderUsecase) CapturePayment(ctx context.Context, orderID int64, providerIntentID string) error {
	order, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	capture, err := u.gateway.CaptureIntent(ctx, providerIntentID)
	if err != nil {
		return &GatewayError{Err: err}
	}

	//intent作成時に記録したIDと一致し、かつCOMPLETEDであること
	if order.PaymentResult == nil ||
		capture.ID != order.PaymentResult.ID ||
		capture.Status != paypal.StatusCompleted {
		return ErrPaymentValidation
	}

	return u.markPaid(ctx, orderID, model.PaymentResult{
		ID:           capture.ID,
		Status:       capture.Status,
		EmailAddress: capture.PayerEmail,
		PricePaid:    capture.AmountPaid,
	})
}

// 支払済みへの遷移。在庫減算と is_paid の更新を1トランザクションにまとめる。
// どれか1つでも在庫が足りなければ全体を取り消し、注文は未払いのまま残す。
func (u *OrderUsecase) markPaid(ctx context.Context, orderID int64, result model.PaymentResult) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		//二重capture（webhook再送など）はここで止める
		if order.IsPaid {
			return ErrAlreadyPaid
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}

		for _, it := range items {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				u.log.Warn().
					Int64("order_id", orderID).
					Int64("product_id", it.ProductID).
					Int64("qty", it.Quantity).
					Msg("stock decrement failed on paid transition")
				return ErrInsufficientStock
			}
		}

		ok, err := r.Orders().MarkPaidIfUnpaid(ctx, orderID, time.Now(), result)
		if err != nil {
			return err
		}
		if !ok {
			//同時captureで先を越されたケース
			return ErrAlreadyPaid
		}

		u.log.Info().Int64("order_id", orderID).Msg("order paid")
		return nil
	})
}

// ListMyOrders は自分の注文一覧（新しい順・1始まりのページ番号）。
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) (OrderListOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = PageSize
	}

	orders, total, err := u.orderRepo.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return OrderListOutput{}, err
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItems.ListByOrderID(ctx, o.ID)
		if err != nil {
			return OrderListOutput{}, err
		}
		outs = append(outs, toOrderOutput(o, items))
	}

	return OrderListOutput{
		Data:       outs,
		TotalPages: totalPages(total, int64(limit)),
	}, nil
}

// ListAdminOrders は管理者用の全注文一覧。
func (u *OrderUsecase) ListAdminOrders(ctx context.Context, f repo.AdminOrderListFilter) (OrderListOutput, error) {
	if f.Limit <= 0 {
		f.Limit = PageSize
	}

	orders, total, err := u.orderRepo.ListAdmin(ctx, f)
	if err != nil {
		return OrderListOutput{}, err
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItems.ListByOrderID(ctx, o.ID)
		if err != nil {
			return OrderListOutput{}, err
		}
		outs = append(outs, toOrderOutput(o, items))
	}

	return OrderListOutput{
		Data:       outs,
		TotalPages: totalPages(total, int64(f.Limit)),
	}, nil
}

// 切り上げ
func totalPages(total int64, limit int64) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.Name,
			Slug:      it.Slug,
			Image:     it.Image,
			Price:     it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		UserID:          o.UserID,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		ItemsPrice:      o.ItemsPrice.StringFixed(2),
		ShippingPrice:   o.ShippingPrice.StringFixed(2),
		TaxPrice:        o.TaxPrice.StringFixed(2),
		TotalPrice:      o.TotalPrice.StringFixed(2),
		IsPaid:          o.IsPaid,
		PaidAt:          o.PaidAt,
		PaymentResult:   o.PaymentResult,
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
	}
}
