package usecase

import (
	"context"
	"errors"

	"ezstore/internal/cache"
	"ezstore/internal/domain/model"
	repo "ezstore/internal/repository"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// 一覧で許可するソート指定
var productSorts = map[string]bool{
	"":           true,
	"newest":     true,
	"price_asc":  true,
	"price_desc": true,
}

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	productCache cache.ProductCache
	log          zerolog.Logger
}

func NewProductUsecase(productRepo repo.ProductRepository, productCache cache.ProductCache, log zerolog.Logger) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		productCache: productCache,
		log:          log,
	}
}

type ProductOutput struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Price       string   `json:"price"`
	Stock       int64    `json:"stock"`
	IsFeatured  bool     `json:"is_featured"`
	Banner      *string  `json:"banner"`
}

type ProductListInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	Sort     string
}

type ProductListOutput struct {
	Data       []ProductOutput `json:"data"`
	TotalPages int64           `json:"total_pages"`
}

var ErrInvalidSort = errors.New("invalid sort")

func (u *ProductUsecase) List(ctx context.Context, in ProductListInput) (ProductListOutput, error) {
	if !productSorts[in.Sort] {
		return ProductListOutput{}, ErrInvalidSort
	}
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = PageSize
	}

	products, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        in.Q,
		Category: in.Category,
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, err
	}

	outs := make([]ProductOutput, 0, len(products))
	for _, p := range products {
		outs = append(outs, toProductOutput(p))
	}

	return ProductListOutput{
		Data:       outs,
		TotalPages: totalPages(total, int64(in.Limit)),
	}, nil
}

// ListLatest はトップページ用の新着商品。
func (u *ProductUsecase) ListLatest(ctx context.Context) ([]ProductOutput, error) {
	products, err := u.productRepo.ListLatest(ctx, LatestProductsLimit)
	if err != nil {
		return nil, err
	}

	outs := make([]ProductOutput, 0, len(products))
	for _, p := range products {
		outs = append(outs, toProductOutput(p))
	}
	return outs, nil
}

// GetBySlug は商品詳細。キャッシュを先に引き、外れたらDBから読んで書き戻す。
// キャッシュの失敗は商品取得の失敗にしない（ログだけ残す）。
func (u *ProductUsecase) GetBySlug(ctx context.Context, slug string) (ProductOutput, error) {
	cached, err := u.productCache.Get(ctx, slug)
	if err == nil {
		return toProductOutput(*cached), nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		u.log.Warn().Err(err).Str("slug", slug).Msg("product cache read failed")
	}

	product, err := u.productRepo.FindBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, ErrProductNotFound
	}
	if err != nil {
		return ProductOutput{}, err
	}

	if err := u.productCache.Set(ctx, product); err != nil {
		u.log.Warn().Err(err).Str("slug", slug).Msg("product cache write failed")
	}

	return toProductOutput(product), nil
}

type SaveProductInput struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Slug        string   `json:"slug" validate:"required,max=255"`
	Category    string   `json:"category" validate:"required,max=255"`
	Brand       string   `json:"brand" validate:"required,max=255"`
	Description string   `json:"description"`
	Images      []string `json:"images" validate:"required,min=1"`
	Price       string   `json:"price" validate:"required"`
	Stock       int64    `json:"stock" validate:"gte=0"`
	IsFeatured  bool     `json:"is_featured"`
	Banner      *string  `json:"banner"`
}

var ErrInvalidPrice = errors.New("invalid price")

// Create は管理者用の商品登録。
func (u *ProductUsecase) Create(ctx context.Context, in SaveProductInput) (ProductOutput, error) {
	price, err := decimal.NewFromString(in.Price)
	if err != nil || price.IsNegative() {
		return ProductOutput{}, ErrInvalidPrice
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		Name:        in.Name,
		Slug:        in.Slug,
		Category:    in.Category,
		Brand:       in.Brand,
		Description: in.Description,
		Images:      pq.StringArray(in.Images),
		Price:       price,
		Stock:       in.Stock,
		IsFeatured:  in.IsFeatured,
		Banner:      in.Banner,
	})
	if err != nil {
		return ProductOutput{}, err
	}

	u.log.Info().Int64("product_id", created.ID).Str("slug", created.Slug).Msg("product created")
	return toProductOutput(created), nil
}

// Update は管理者用の商品更新。更新後は旧slugと新slug両方のキャッシュを消す。
func (u *ProductUsecase) Update(ctx context.Context, productID int64, in SaveProductInput) (ProductOutput, error) {
	price, err := decimal.NewFromString(in.Price)
	if err != nil || price.IsNegative() {
		return ProductOutput{}, ErrInvalidPrice
	}

	current, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, ErrProductNotFound
	}
	if err != nil {
		return ProductOutput{}, err
	}

	next := current
	next.Name = in.Name
	next.Slug = in.Slug
	next.Category = in.Category
	next.Brand = in.Brand
	next.Description = in.Description
	next.Images = pq.StringArray(in.Images)
	next.Price = price
	next.Stock = in.Stock
	next.IsFeatured = in.IsFeatured
	next.Banner = in.Banner

	if err := u.productRepo.Update(ctx, next); err != nil {
		return ProductOutput{}, err
	}

	u.invalidate(ctx, current.Slug)
	if next.Slug != current.Slug {
		u.invalidate(ctx, next.Slug)
	}

	return toProductOutput(next), nil
}

// Delete は管理者用の商品削除（論理削除）。
func (u *ProductUsecase) Delete(ctx context.Context, productID int64) error {
	product, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}

	if err := u.productRepo.SoftDelete(ctx, productID); err != nil {
		return err
	}

	u.invalidate(ctx, product.Slug)
	u.log.Info().Int64("product_id", productID).Msg("product deleted")
	return nil
}

func (u *ProductUsecase) invalidate(ctx context.Context, slug string) {
	if err := u.productCache.Invalidate(ctx, slug); err != nil {
		u.log.Warn().Err(err).Str("slug", slug).Msg("product cache invalidation failed")
	}
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Category:    p.Category,
		Brand:       p.Brand,
		Description: p.Description,
		Images:      []string(p.Images),
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		IsFeatured:  p.IsFeatured,
		Banner:      p.Banner,
	}
}
