package usecase

import (
	"context"
	"testing"

	"ezstore/internal/domain/model"
	repo "ezstore/internal/repository"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testOwner() repo.OwnerKey {
	uid := int64(1)
	return repo.OwnerKey{UserID: &uid}
}

func testProduct(stock int64) model.Product {
	return model.Product{
		ID:     10,
		Name:   "Polo Shirt",
		Slug:   "polo-shirt",
		Images: pq.StringArray{"/images/polo.jpg"},
		Price:  decimal.RequireFromString("50.00"),
		Stock:  stock,
	}
}

func newCartUsecaseForTest(tm *txManagerFake, carts *cartRepoMock, items *cartItemRepoMock, cacheMock *productCacheMock) *CartUsecase {
	return NewCartUsecase(tm, carts, items, cacheMock, zerolog.Nop())
}

func TestCartUsecase_GetMyCart_NoSession(t *testing.T) {
	tm, _ := newTxFakes()
	uc := newCartUsecaseForTest(tm, new(cartRepoMock), new(cartItemRepoMock), new(productCacheMock))

	_, err := uc.GetMyCart(context.Background(), repo.OwnerKey{})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCartUsecase_GetMyCart_NoCartYet(t *testing.T) {
	tm, _ := newTxFakes()
	carts := new(cartRepoMock)
	carts.On("FindByOwner", mock.Anything, testOwner()).Return(model.Cart{}, repo.ErrNotFound)

	uc := newCartUsecaseForTest(tm, carts, new(cartItemRepoMock), new(productCacheMock))

	out, err := uc.GetMyCart(context.Background(), testOwner())
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestCartUsecase_AddItem_FirstItemCreatesCart(t *testing.T) {
	tm, repos := newTxFakes()
	owner := testOwner()
	product := testProduct(5)
	created := model.Cart{ID: 7, UserID: owner.UserID}

	repos.products.On("FindByID", mock.Anything, int64(10)).Return(product, nil)
	repos.carts.On("FindByOwner", mock.Anything, owner).Return(model.Cart{}, repo.ErrNotFound).Once()
	repos.carts.On("Create", mock.Anything, mock.Anything).Return(created, nil)
	repos.cartItems.On("Create", mock.Anything, mock.MatchedBy(func(it model.CartItem) bool {
		return it.CartID == 7 && it.ProductID == 10 && it.Quantity == 1
	})).Return(nil)
	repos.carts.On("FindByOwner", mock.Anything, owner).Return(created, nil)
	repos.cartItems.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{CartID: 7, ProductID: 10, Name: product.Name, Slug: product.Slug, UnitPrice: product.Price, Quantity: 1},
	}, nil)
	// 50 + 送料10 + 税7.50 = 67.50
	repos.carts.On("UpdatePrices", mock.Anything, mock.MatchedBy(func(c model.Cart) bool {
		return c.ItemsPrice.Equal(decimal.RequireFromString("50")) &&
			c.ShippingPrice.Equal(decimal.RequireFromString("10")) &&
			c.TaxPrice.Equal(decimal.RequireFromString("7.5")) &&
			c.TotalPrice.Equal(decimal.RequireFromString("67.5"))
	})).Return(nil)

	cacheMock := new(productCacheMock)
	cacheMock.On("Invalidate", mock.Anything, "polo-shirt").Return(nil)

	uc := newCartUsecaseForTest(tm, new(cartRepoMock), new(cartItemRepoMock), cacheMock)

	out, err := uc.AddItem(context.Background(), owner, AddItemInput{ProductID: 10})
	assert.NoError(t, err)
	assert.Equal(t, "Polo Shirt added to cart", out.Message)
	assert.Equal(t, "67.50", out.Cart.TotalPrice)
	assert.Len(t, out.Cart.Items, 1)

	repos.carts.AssertExpectations(t)
	repos.cartItems.AssertExpectations(t)
	cacheMock.AssertExpectations(t)
}

func TestCartUsecase_AddItem_ExistingLineIncrements(t *testing.T) {
	tm, repos := newTxFakes()
	owner := testOwner()
	product := testProduct(5)
	cart := model.Cart{ID: 7, UserID: owner.UserID}

	repos.products.On("FindByID", mock.Anything, int64(10)).Return(product, nil)
	repos.carts.On("FindByOwner", mock.Anything, owner).Return(cart, nil)
	repos.cartItems.On("FindByCartAndProduct", mock.Anything, int64(7), int64(10)).Return(model.CartItem{
		ID: 3, CartID: 7, ProductID: 10, Quantity: 2, UnitPrice: product.Price,
	}, nil)
	repos.cartItems.On("UpdateQuantity", mock.Anything, int64(3), int64(3)).Return(nil)
	repos.cartItems.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 3, CartID: 7, ProductID: 10, Name: product.Name, Slug: product.Slug, UnitPrice: product.Price, Quantity: 3},
	}, nil)
	repos.carts.On("UpdatePrices", mock.Anything, mock.Anything).Return(nil)

	cacheMock := new(productCacheMock)
	cacheMock.On("Invalidate", mock.Anything, "polo-shirt").Return(nil)

	uc := newCartUsecaseForTest(tm, new(cartRepoMock), new(cartItemRepoMock), cacheMock)

	out, err := uc.AddItem(context.Background(), owner, AddItemInput{ProductID: 10})
	assert.NoError(t, err)
	assert.Equal(t, "Polo Shirt updated in cart", out.Message)
	// 150 → 送料無料、税 22.50
	assert.Equal(t, "150.00", out.Cart.ItemsPrice)
	assert.Equal(t, "0.00", out.Cart.ShippingPrice)
	assert.Equal(t, "22.50", out.Cart.TaxPrice)
	assert.Equal(t, "172.50", out.Cart.TotalPrice)

	repos.cartItems.AssertExpectations(t)
}

func TestCartUsecase_AddItem_OutOfStock(t *testing.T) {
	tm, repos := newTxFakes()
	owner := testOwner()

	repos.products.On("FindByID", mock.Anything, int64(10)).Return(testProduct(0), nil)
	repos.carts.On("FindByOwner", mock.Anything, owner).Return(model.Cart{}, repo.ErrNotFound)

	uc := newCartUsecaseForTest(tm, new(cartRepoMock), new(cartItemRepoMock), new(productCacheMock))

	_, err := uc.AddItem(context.Background(), owner, AddItemInput{ProductID: 10})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	repos.cartItems.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCartUsecase_AddItem_StockCapsQuantity(t *testing.T) {
	tm, repos := newTxFakes()
	owner := testOwner()
	product := testProduct(2)
	cart := model.Cart{ID: 7, UserID: owner.UserID}

	repos.products.On("FindByID", mock.Anything, int64(10)).Return(product, nil)
	repos.carts.On("FindByOwner", mock.Anything, owner).Return(cart, nil)
	//既に在庫上限まで入っている
	repos.cartItems.On("FindByCartAndProduct", mock.Anything, int64(7), int64(10)).Return(model.CartItem{
		ID: 3, CartID: 7, ProductID: 10, Quantity: 2,
	}, nil)

	uc := newCartUsecaseForTest(tm, new(cartRepoMock), new(cartItemRepoMock), new(productCacheMock))

	_, err := uc.AddItem(context.Background(), owner, AddItemInput{ProductID: 10})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	repos.cartItems.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_AddItem_ProductNotFound(t *testing.T) {
	tm, repos := newTxFakes()

	repos.products.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	uc := newCartUsecaseForTest(tm, new(cartRepoMock), new(cartItemRepoMock), new(productCacheMock))

	_, err := uc.AddItem(context.Background(), testOwner(), AddItemInput{ProductID: 99})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartUsecase_RemoveItem_LastUnitDeletesLine(t *testing.T) {
	tm, repos := newTxFakes()
	owner := testOwner()
	product := testProduct(5)
	cart := model.Cart{ID: 7, UserID: owner.UserID}

	repos.products.On("FindByID", mock.Anything, int64(10)).Return(product, nil)
	repos.carts.On("FindByOwner", mock.Anything, owner).Return(cart, nil)
	repos.cartItems.On("FindByCartAndProduct", mock.Anything, int64(7), int64(10)).Return(model.CartItem{
		ID: 3, CartID: 7, ProductID: 10, Quantity: 1,
	}, nil)
	repos.cartItems.On("DeleteByID", mock.Anything, int64(3)).Return(nil)
	repos.cartItems.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{}, nil)
	//空カートでも100以下なので送料10はかかる（全ゼロになるのはClearだけ）
	repos.carts.On("UpdatePrices", mock.Anything, mock.MatchedBy(func(c model.Cart) bool {
		return c.ItemsPrice.IsZero() &&
			c.TaxPrice.IsZero() &&
			c.ShippingPrice.Equal(decimal.RequireFromString("10")) &&
			c.TotalPrice.Equal(decimal.RequireFromString("10"))
	})).Return(nil)

	cacheMock := new(productCacheMock)
	cacheMock.On("Invalidate", mock.Anything, "polo-shirt").Return(nil)

	uc := newCartUsecaseForTest(tm, new(cartRepoMock), new(cartItemRepoMock), cacheMock)

	out, err := uc.RemoveItem(context.Background(), owner, 10)
	assert.NoError(t, err)
	assert.Equal(t, "Polo Shirt removed from cart", out.Message)
	assert.Empty(t, out.Cart.Items)
	assert.Equal(t, "0.00", out.Cart.ItemsPrice)
	assert.Equal(t, "10.00", out.Cart.ShippingPrice)
	assert.Equal(t, "10.00", out.Cart.TotalPrice)

	repos.cartItems.AssertExpectations(t)
}

func TestCartUsecase_RemoveItem_DecrementsQuantity(t *testing.T) {
	tm, repos := newTxFakes()
	owner := testOwner()
	product := testProduct(5)
	cart := model.Cart{ID: 7, UserID: owner.UserID}

	repos.products.On("FindByID", mock.Anything, int64(10)).Return(product, nil)
	repos.carts.On("FindByOwner", mock.Anything, owner).Return(cart, nil)
	repos.cartItems.On("FindByCartAndProduct", mock.Anything, int64(7), int64(10)).Return(model.CartItem{
		ID: 3, CartID: 7, ProductID: 10, Quantity: 3,
	}, nil)
	repos.cartItems.On("UpdateQuantity", mock.Anything, int64(3), int64(2)).Return(nil)
	repos.cartItems.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 3, CartID: 7, ProductID: 10, Name: product.Name, Slug: product.Slug, UnitPrice: product.Price, Quantity: 2},
	}, nil)
	repos.carts.On("UpdatePrices", mock.Anything, mock.Anything).Return(nil)

	cacheMock := new(productCacheMock)
	cacheMock.On("Invalidate", mock.Anything, "polo-shirt").Return(nil)

	uc := newCartUsecaseForTest(tm, new(cartRepoMock), new(cartItemRepoMock), cacheMock)

	out, err := uc.RemoveItem(context.Background(), owner, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.Cart.Items[0].Quantity)

	repos.cartItems.AssertExpectations(t)
}

func TestCartUsecase_RemoveItem_CartNotFound(t *testing.T) {
	tm, repos := newTxFakes()
	owner := testOwner()

	repos.products.On("FindByID", mock.Anything, int64(10)).Return(testProduct(5), nil)
	repos.carts.On("FindByOwner", mock.Anything, owner).Return(model.Cart{}, repo.ErrNotFound)

	uc := newCartUsecaseForTest(tm, new(cartRepoMock), new(cartItemRepoMock), new(productCacheMock))

	_, err := uc.RemoveItem(context.Background(), owner, 10)
	assert.ErrorIs(t, err, ErrCartNotFound)
}
