package usecase

import (
	"context"
	"errors"
	"testing"

	"ezstore/internal/cache"
	"ezstore/internal/domain/model"
	repo "ezstore/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProductUsecase_List_InvalidSort(t *testing.T) {
	uc := NewProductUsecase(new(productRepoMock), new(productCacheMock), zerolog.Nop())

	_, err := uc.List(context.Background(), ProductListInput{Page: 1, Limit: 10, Sort: "rating"})
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestProductUsecase_List_NormalizesPaging(t *testing.T) {
	products := new(productRepoMock)
	products.On("List", mock.Anything, repo.ProductListQuery{Page: 1, Limit: PageSize}).
		Return([]model.Product{}, int64(0), nil)

	uc := NewProductUsecase(products, new(productCacheMock), zerolog.Nop())

	out, err := uc.List(context.Background(), ProductListInput{Page: -1, Limit: 1000})
	assert.NoError(t, err)
	assert.Empty(t, out.Data)
	products.AssertExpectations(t)
}

func TestProductUsecase_List_TotalPages(t *testing.T) {
	products := new(productRepoMock)
	products.On("List", mock.Anything, mock.Anything).
		Return([]model.Product{testProduct(3)}, int64(21), nil)

	uc := NewProductUsecase(products, new(productCacheMock), zerolog.Nop())

	out, err := uc.List(context.Background(), ProductListInput{Page: 1, Limit: 10})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), out.TotalPages)
	assert.Equal(t, "50.00", out.Data[0].Price)
}

func TestProductUsecase_GetBySlug_CacheHitSkipsRepo(t *testing.T) {
	product := testProduct(3)

	cacheMock := new(productCacheMock)
	cacheMock.On("Get", mock.Anything, "polo-shirt").Return(&product, nil)

	products := new(productRepoMock)
	uc := NewProductUsecase(products, cacheMock, zerolog.Nop())

	out, err := uc.GetBySlug(context.Background(), "polo-shirt")
	assert.NoError(t, err)
	assert.Equal(t, "polo-shirt", out.Slug)
	products.AssertNotCalled(t, "FindBySlug", mock.Anything, mock.Anything)
}

func TestProductUsecase_GetBySlug_CacheMissFillsCache(t *testing.T) {
	product := testProduct(3)

	cacheMock := new(productCacheMock)
	cacheMock.On("Get", mock.Anything, "polo-shirt").Return(nil, cache.ErrCacheMiss)
	cacheMock.On("Set", mock.Anything, product).Return(nil)

	products := new(productRepoMock)
	products.On("FindBySlug", mock.Anything, "polo-shirt").Return(product, nil)

	uc := NewProductUsecase(products, cacheMock, zerolog.Nop())

	out, err := uc.GetBySlug(context.Background(), "polo-shirt")
	assert.NoError(t, err)
	assert.Equal(t, "Polo Shirt", out.Name)
	cacheMock.AssertExpectations(t)
}

func TestProductUsecase_GetBySlug_CacheFailureFallsBackToRepo(t *testing.T) {
	product := testProduct(3)

	cacheMock := new(productCacheMock)
	cacheMock.On("Get", mock.Anything, "polo-shirt").Return(nil, errors.New("redis down"))
	cacheMock.On("Set", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	products := new(productRepoMock)
	products.On("FindBySlug", mock.Anything, "polo-shirt").Return(product, nil)

	uc := NewProductUsecase(products, cacheMock, zerolog.Nop())

	out, err := uc.GetBySlug(context.Background(), "polo-shirt")
	assert.NoError(t, err)
	assert.Equal(t, "polo-shirt", out.Slug)
}

func TestProductUsecase_GetBySlug_NotFound(t *testing.T) {
	cacheMock := new(productCacheMock)
	cacheMock.On("Get", mock.Anything, "nope").Return(nil, cache.ErrCacheMiss)

	products := new(productRepoMock)
	products.On("FindBySlug", mock.Anything, "nope").Return(model.Product{}, repo.ErrNotFound)

	uc := NewProductUsecase(products, cacheMock, zerolog.Nop())

	_, err := uc.GetBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductUsecase_Create_RejectsBadPrice(t *testing.T) {
	uc := NewProductUsecase(new(productRepoMock), new(productCacheMock), zerolog.Nop())

	_, err := uc.Create(context.Background(), SaveProductInput{Price: "abc"})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = uc.Create(context.Background(), SaveProductInput{Price: "-1.00"})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestProductUsecase_Update_InvalidatesBothSlugs(t *testing.T) {
	current := testProduct(3)

	products := new(productRepoMock)
	products.On("FindByID", mock.Anything, int64(10)).Return(current, nil)
	products.On("Update", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ID == 10 && p.Slug == "polo-shirt-v2"
	})).Return(nil)

	cacheMock := new(productCacheMock)
	cacheMock.On("Invalidate", mock.Anything, "polo-shirt").Return(nil)
	cacheMock.On("Invalidate", mock.Anything, "polo-shirt-v2").Return(nil)

	uc := NewProductUsecase(products, cacheMock, zerolog.Nop())

	_, err := uc.Update(context.Background(), 10, SaveProductInput{
		Name:   "Polo Shirt v2",
		Slug:   "polo-shirt-v2",
		Images: []string{"/images/polo.jpg"},
		Price:  "55.00",
		Stock:  3,
	})
	assert.NoError(t, err)
	cacheMock.AssertExpectations(t)
}

func TestProductUsecase_Delete_InvalidatesCache(t *testing.T) {
	products := new(productRepoMock)
	products.On("FindByID", mock.Anything, int64(10)).Return(testProduct(3), nil)
	products.On("SoftDelete", mock.Anything, int64(10)).Return(nil)

	cacheMock := new(productCacheMock)
	cacheMock.On("Invalidate", mock.Anything, "polo-shirt").Return(nil)

	uc := NewProductUsecase(products, cacheMock, zerolog.Nop())

	err := uc.Delete(context.Background(), 10)
	assert.NoError(t, err)
	cacheMock.AssertExpectations(t)
}
