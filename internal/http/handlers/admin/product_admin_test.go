package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hatstore-next/internal/models"
	"github.com/hatstore-next/internal/provider"
	"github.com/hatstore-next/internal/queue"
	"github.com/hatstore-next/internal/repository"
	"github.com/hatstore-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type adminTestEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

func newAdminTestEnv(t *testing.T) *adminTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.ShippingAddress{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	addressRepo := repository.NewShippingAddressRepository(db)
	categoryService := service.NewCategoryService(categoryRepo)
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("create queue client failed: %v", err)
	}
	container := &provider.Container{
		ProductRepo:          productRepo,
		CategoryRepo:         categoryRepo,
		OrderRepo:            orderRepo,
		AddressRepo:          addressRepo,
		ProductService:       service.NewProductService(productRepo, categoryRepo),
		CategoryService:      categoryService,
		ProductImportService: service.NewProductImportService(productRepo, categoryService),
		OrderService:         service.NewOrderService(orderRepo, productRepo, addressRepo, queueClient),
	}
	handler := New(container)

	router := gin.New()
	router.GET("/api/admin/products", handler.ListProducts)
	router.GET("/api/admin/products/:id", handler.GetProduct)
	router.POST("/api/admin/products", handler.CreateProduct)
	router.PUT("/api/admin/products/:id", handler.UpdateProduct)
	router.DELETE("/api/admin/products/:id", handler.DeleteProduct)
	router.POST("/api/admin/products/import", handler.ImportProducts)
	router.POST("/api/admin/categories", handler.CreateCategory)
	router.DELETE("/api/admin/categories/:id", handler.DeleteCategory)
	router.GET("/api/admin/orders", handler.ListOrders)
	router.GET("/api/admin/orders/:id", handler.GetOrder)
	router.PATCH("/api/admin/orders/:id/status", handler.UpdateOrderStatus)

	if err := db.Create(&models.Category{Name: "Caps", Slug: "caps"}).Error; err != nil {
		t.Fatalf("seed category failed: %v", err)
	}
	return &adminTestEnv{router: router, db: db}
}

func (env *adminTestEnv) doJSON(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestAdminCreateProduct(t *testing.T) {
	env := newAdminTestEnv(t)

	body := `{"name":"Navy Twill Cap","price":"24.99","category_id":1,"stock":10,"is_active":true,"image_urls":["https://img.example/a.jpg"]}`
	w := env.doJSON(t, http.MethodPost, "/api/admin/products", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
	}

	var product models.Product
	if err := env.db.Where("slug = ?", "navy-twill-cap").First(&product).Error; err != nil {
		t.Fatalf("load created product failed: %v", err)
	}
	if !product.Price.Decimal.Equal(decimal.RequireFromString("24.99")) {
		t.Fatalf("unexpected price: %s", product.Price.Decimal)
	}
}

func TestAdminCreateProductValidation(t *testing.T) {
	env := newAdminTestEnv(t)

	// 绑定失败：缺 price
	w := env.doJSON(t, http.MethodPost, "/api/admin/products", `{"name":"Hat","category_id":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing price, got %d", w.Code)
	}

	w = env.doJSON(t, http.MethodPost, "/api/admin/products", `{"name":"Hat","price":"free","category_id":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad price, got %d", w.Code)
	}

	w = env.doJSON(t, http.MethodPost, "/api/admin/products", `{"name":"Hat","price":"1.00","category_id":42}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown category, got %d", w.Code)
	}
}

func TestAdminGetProductNotFound(t *testing.T) {
	env := newAdminTestEnv(t)

	w := env.doJSON(t, http.MethodGet, "/api/admin/products/999", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAdminDeleteCategoryWithProducts(t *testing.T) {
	env := newAdminTestEnv(t)

	body := `{"name":"Doomed Hat","price":"5.00","category_id":1,"is_active":true}`
	if w := env.doJSON(t, http.MethodPost, "/api/admin/products", body); w.Code != http.StatusCreated {
		t.Fatalf("create product failed: %d", w.Code)
	}

	w := env.doJSON(t, http.MethodDelete, "/api/admin/categories/1", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for category with products, got %d", w.Code)
	}
}

func TestAdminImportProductsCSV(t *testing.T) {
	env := newAdminTestEnv(t)

	csvData := strings.Join([]string{
		"name,description,price,category,stock,image_urls",
		"Navy Twill Cap,Six-panel twill,24.99,Baseball Caps,50,https://img.example/a.jpg",
		",10.00,Caps,1",
	}, "\n")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "products.csv")
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	if _, err := part.Write([]byte(csvData)); err != nil {
		t.Fatalf("write csv failed: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	var envelope struct {
		Data service.ImportResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if envelope.Data.Created != 1 || len(envelope.Data.Errors) != 1 {
		t.Fatalf("unexpected import result: %+v", envelope.Data)
	}
}

func TestAdminImportProductsRejectsNonCSV(t *testing.T) {
	env := newAdminTestEnv(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "products.xlsx")
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	part.Write([]byte("not a csv"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-CSV upload, got %d", w.Code)
	}
}

func TestAdminCreateProductActiveDefaults(t *testing.T) {
	env := newAdminTestEnv(t)

	// is_active 缺省 → 上架
	w := env.doJSON(t, http.MethodPost, "/api/admin/products", `{"name":"Default Active Cap","price":"20.00","category_id":1}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Product
	if err := env.db.Where("slug = ?", "default-active-cap").First(&created).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if !created.IsActive {
		t.Fatal("expected omitted is_active to default to active")
	}

	// is_active=false 必须如实落库
	w = env.doJSON(t, http.MethodPost, "/api/admin/products", `{"name":"Draft Cap","price":"20.00","category_id":1,"is_active":false}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	var draft models.Product
	if err := env.db.Where("slug = ?", "draft-cap").First(&draft).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if draft.IsActive {
		t.Fatal("expected is_active=false to persist")
	}
}
