package main

import (
	"github.com/hatstore-next/internal/config"
	"github.com/hatstore-next/internal/logger"
	"github.com/hatstore-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Name: "Baseball Caps", Slug: "baseball-caps", Description: "Classic curved-brim caps for everyday wear"},
		{Name: "Beanies", Slug: "beanies", Description: "Warm knit hats for cold weather"},
		{Name: "Wide Brim", Slug: "wide-brim", Description: "Sun hats and fedoras with generous brims"},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"baseball-caps", "beanies", "wide-brim"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	// 添加商品
	products := []models.Product{
		{
			CategoryID:  categoryIDs["baseball-caps"],
			Name:        "Navy Twill Cap",
			Slug:        "navy-twill-cap",
			Description: "Six-panel cotton twill cap with adjustable strap",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(24.99)),
			Stock:       50,
			IsActive:    true,
			Images: []models.ProductImage{
				{ImageURL: "https://images.unsplash.com/photo-1588850561407-ed78c282e89b?w=800", DisplayOrder: 0, IsPrimary: true},
			},
		},
		{
			CategoryID:  categoryIDs["baseball-caps"],
			Name:        "Corduroy Dad Hat",
			Slug:        "corduroy-dad-hat",
			Description: "Unstructured corduroy cap with brass buckle",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(29.99)),
			Stock:       35,
			IsActive:    true,
			Images: []models.ProductImage{
				{ImageURL: "https://images.unsplash.com/photo-1534215754734-18e55d13e346?w=800", DisplayOrder: 0, IsPrimary: true},
			},
		},
		{
			CategoryID:  categoryIDs["beanies"],
			Name:        "Merino Wool Beanie",
			Slug:        "merino-wool-beanie",
			Description: "Ribbed merino knit, soft and breathable",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(34.50)),
			Stock:       40,
			IsActive:    true,
			Images: []models.ProductImage{
				{ImageURL: "https://images.unsplash.com/photo-1576871337622-98d48d1cf531?w=800", DisplayOrder: 0, IsPrimary: true},
			},
		},
		{
			CategoryID:  categoryIDs["wide-brim"],
			Name:        "Straw Sun Hat",
			Slug:        "straw-sun-hat",
			Description: "Hand-woven straw hat with grosgrain band",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(45.00)),
			Stock:       20,
			IsActive:    true,
			Images: []models.ProductImage{
				{ImageURL: "https://images.unsplash.com/photo-1529958030586-3aae4ca485ff?w=800", DisplayOrder: 0, IsPrimary: true},
			},
		},
		{
			CategoryID:  categoryIDs["wide-brim"],
			Name:        "Felt Fedora",
			Slug:        "felt-fedora",
			Description: "Wool felt fedora, limited run",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(68.00)),
			Stock:       0,
			IsActive:    true,
			Images: []models.ProductImage{
				{ImageURL: "https://images.unsplash.com/photo-1514327605112-b887c0e61c0a?w=800", DisplayOrder: 0, IsPrimary: true},
			},
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	stdLog.Println("Seed completed")
}
