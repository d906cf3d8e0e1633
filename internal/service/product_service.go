package service

import (
	"strings"

	"github.com/hatstore-next/internal/models"
	"github.com/hatstore-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品业务服务
type ProductService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{repo: repo, categoryRepo: categoryRepo}
}

// SaveProductInput 创建/更新商品输入
type SaveProductInput struct {
	Name        string
	Slug        string
	Description string
	Price       string
	CategoryID  uint
	Stock       int
	IsActive    bool
	ImageURLs   []string
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.List(filter)
}

// GetBySlug 根据 slug 获取商品
func (s *ProductService) GetBySlug(slug string, onlyActive bool) (*models.Product, error) {
	product, err := s.repo.GetBySlug(slug, onlyActive)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetByID 根据 ID 获取商品
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(input SaveProductInput) (*models.Product, error) {
	name, slug, price, err := s.normalizeInput(input, nil)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCategory(input.CategoryID); err != nil {
		return nil, err
	}

	product := models.Product{
		CategoryID:  input.CategoryID,
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		Price:       models.NewMoneyFromDecimal(price),
		Stock:       input.Stock,
		IsActive:    input.IsActive,
	}
	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}
	if len(input.ImageURLs) > 0 {
		if err := s.repo.ReplaceImages(product.ID, buildProductImages(input.ImageURLs)); err != nil {
			return nil, err
		}
	}
	return s.GetByID(product.ID)
}

// Update 更新商品
func (s *ProductService) Update(id uint, input SaveProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	name, slug, price, err := s.normalizeInput(input, &id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCategory(input.CategoryID); err != nil {
		return nil, err
	}

	product.CategoryID = input.CategoryID
	product.Name = name
	product.Slug = slug
	product.Description = strings.TrimSpace(input.Description)
	product.Price = models.NewMoneyFromDecimal(price)
	product.Stock = input.Stock
	product.IsActive = input.IsActive

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	if input.ImageURLs != nil {
		if err := s.repo.ReplaceImages(product.ID, buildProductImages(input.ImageURLs)); err != nil {
			return nil, err
		}
	}
	return s.GetByID(product.ID)
}

// Delete 删除商品。历史订单项已断开引用，不受影响
func (s *ProductService) Delete(id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.repo.Delete(id)
}

func (s *ProductService) normalizeInput(input SaveProductInput, excludeID *uint) (name, slug string, price decimal.Decimal, err error) {
	name = strings.TrimSpace(input.Name)
	if name == "" {
		return "", "", decimal.Zero, ErrProductNameRequired
	}

	price, err = decimal.NewFromString(strings.TrimSpace(input.Price))
	if err != nil || price.IsNegative() {
		return "", "", decimal.Zero, ErrInvalidPrice
	}

	slug = strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	count, err := s.repo.CountBySlug(slug, excludeID)
	if err != nil {
		return "", "", decimal.Zero, err
	}
	if count > 0 {
		return "", "", decimal.Zero, ErrSlugExists
	}
	return name, slug, price, nil
}

func (s *ProductService) ensureCategory(categoryID uint) error {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	return nil
}

func buildProductImages(urls []string) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(urls))
	order := 0
	for _, raw := range urls {
		url := strings.TrimSpace(raw)
		if url == "" {
			continue
		}
		images = append(images, models.ProductImage{
			ImageURL:     url,
			DisplayOrder: order,
			IsPrimary:    order == 0,
		})
		order++
	}
	return images
}
