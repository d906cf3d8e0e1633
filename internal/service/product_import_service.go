package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hatstore-next/internal/constants"
	"github.com/hatstore-next/internal/models"
	"github.com/hatstore-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductImportService CSV 批量导入商品。
// 列：name（必填）、description、price（必填）、category（不存在则创建）、
// stock（默认 0）、image_urls（逗号分隔）
type ProductImportService struct {
	productRepo     repository.ProductRepository
	categoryService *CategoryService
}

// NewProductImportService 创建商品导入服务
func NewProductImportService(productRepo repository.ProductRepository, categoryService *CategoryService) *ProductImportService {
	return &ProductImportService{
		productRepo:     productRepo,
		categoryService: categoryService,
	}
}

// ImportResult 导入结果统计
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

// Import 逐行导入。单行失败只记入 errors，不中断其余行
func (s *ProductImportService) Import(r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	result := &ImportResult{Errors: []string{}}
	// 表头占第 1 行，数据从第 2 行起
	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		created, err := s.processRow(columns, record)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

func (s *ProductImportService) processRow(columns map[string]int, record []string) (created bool, err error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := field("name")
	if name == "" {
		return false, fmt.Errorf("missing required field 'name'")
	}

	priceStr := field("price")
	if priceStr == "" {
		return false, fmt.Errorf("missing required field 'price'")
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil || price.IsNegative() {
		return false, fmt.Errorf("invalid price value '%s'", priceStr)
	}

	categoryName := field("category")
	if categoryName == "" {
		categoryName = constants.DefaultCategoryName
	}
	category, err := s.categoryService.GetOrCreateByName(categoryName)
	if err != nil {
		return false, err
	}

	stock := 0
	if stockStr := field("stock"); stockStr != "" {
		if parsed, parseErr := strconv.Atoi(stockStr); parseErr == nil && parsed > 0 {
			stock = parsed
		}
	}

	// 按名称幂等：存在则更新，不存在则创建
	product, err := s.productRepo.GetByName(name)
	if err != nil {
		return false, err
	}
	created = product == nil
	if created {
		product = &models.Product{
			Name:     name,
			Slug:     s.uniqueSlug(name),
			IsActive: true,
		}
	}
	product.Description = field("description")
	product.Price = models.NewMoneyFromDecimal(price)
	product.CategoryID = category.ID
	product.Stock = stock

	if created {
		if err := s.productRepo.Create(product); err != nil {
			return false, err
		}
	} else {
		if err := s.productRepo.Update(product); err != nil {
			return false, err
		}
	}

	if imageURLs := field("image_urls"); imageURLs != "" {
		urls := strings.Split(imageURLs, ",")
		if err := s.productRepo.ReplaceImages(product.ID, buildProductImages(urls)); err != nil {
			return created, err
		}
	}
	return created, nil
}

// uniqueSlug 由名称生成 slug，冲突时追加序号
func (s *ProductImportService) uniqueSlug(name string) string {
	base := Slugify(name)
	if base == "" {
		base = "product"
	}
	slug := base
	for i := 2; ; i++ {
		count, err := s.productRepo.CountBySlug(slug, nil)
		if err != nil || count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
