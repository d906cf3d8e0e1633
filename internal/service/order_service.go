package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/hatstore-next/internal/constants"
	"github.com/hatstore-next/internal/logger"
	"github.com/hatstore-next/internal/models"
	"github.com/hatstore-next/internal/queue"
	"github.com/hatstore-next/internal/repository"
	"github.com/hatstore-next/internal/session"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务。负责把会话购物车固化成持久订单
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	addressRepo repository.ShippingAddressRepository
	queueClient *queue.Client

	// 同一会话的结算互斥，防止并发结算消费同一份购物车
	checkoutLocks sync.Map
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, addressRepo repository.ShippingAddressRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		addressRepo: addressRepo,
		queueClient: queueClient,
	}
}

// CheckoutInput 结算输入。必填项与邮箱格式由 HTTP 层校验
type CheckoutInput struct {
	Email        string
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	UserID       *uint
}

// CreateOrderFromCart 从购物车创建订单。
// 地址、订单、订单项与总价回写在同一事务内完成，任一步失败整体回滚；
// 购物车只在事务提交成功后清空，失败时保持原样供重试
func (s *OrderService) CreateOrderFromCart(sess *session.Session, input CheckoutInput) (*models.Order, error) {
	if sess.Cart.IsEmpty() {
		return nil, ErrCartEmpty
	}

	unlock, ok := s.lockCheckout(sess.ID)
	if !ok {
		return nil, ErrCheckoutInFlight
	}
	defer unlock()

	// 拿到锁后重查：并发的另一次结算可能已经消费了购物车
	if sess.Cart.IsEmpty() {
		return nil, ErrCartEmpty
	}

	address := buildShippingAddress(input)
	now := time.Now()
	order := &models.Order{
		OrderNo:    generateOrderNo(),
		UserID:     input.UserID,
		Email:      strings.TrimSpace(input.Email),
		Status:     constants.OrderStatusPending,
		TotalPrice: models.NewMoneyFromDecimal(decimal.Zero),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		txAddressRepo := s.addressRepo.WithTx(tx)
		txOrderRepo := s.orderRepo.WithTx(tx)
		txProductRepo := s.productRepo.WithTx(tx)

		// 地址与订单先于订单项写入（外键依赖）
		if err := txAddressRepo.Create(address); err != nil {
			return err
		}
		order.ShippingAddressID = address.ID
		if err := txOrderRepo.Create(order, nil); err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(sess.Cart.Items))
		total := decimal.Zero
		for _, line := range sess.Cart.Items {
			// 商品可能在加入购物车后被删除：订单项照常落库，仅断开商品引用
			var productID *uint
			product, err := txProductRepo.GetByID(line.ProductID)
			if err != nil {
				return err
			}
			if product != nil {
				id := product.ID
				productID = &id
			}

			// 名称与单价取购物车快照，顾客看到什么价就按什么价成交
			items = append(items, models.OrderItem{
				OrderID:         order.ID,
				ProductID:       productID,
				ProductName:     line.Name,
				Quantity:        line.Quantity,
				PriceAtPurchase: line.Price,
			})
			total = total.Add(line.Price.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		// 总价由服务端按快照价累加回写，不信任客户端
		order.TotalPrice = models.NewMoneyFromDecimal(total)
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("total_price", order.TotalPrice).Error; err != nil {
			return err
		}
		order.Items = items
		order.ShippingAddress = *address
		return nil
	})
	if err != nil {
		logger.Errorw("order_create_failed", "session_id", sess.ID, "error", err)
		return nil, ErrOrderCreateFailed
	}

	// 事务提交成功后清空购物车，由 HTTP 层提交会话
	sess.Cart.Clear()
	sess.MarkDirty()

	s.notifyOrderCreated(order)

	return order, nil
}

// GetByID 根据 ID 获取订单，未找到返回 ErrOrderNotFound
func (s *OrderService) GetByID(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetByOrderNo 根据订单编号获取订单
func (s *OrderService) GetByOrderNo(orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetByIDForUser 用户订单详情。订单不存在或不属于该用户都按未找到处理
func (s *OrderService) GetByIDForUser(id uint, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListByUser 用户订单列表
func (s *OrderService) ListByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// ListAdmin 后台订单列表
func (s *OrderService) ListAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// UpdateStatus 后台更新订单状态
func (s *OrderService) UpdateStatus(id uint, status string) (*models.Order, error) {
	if !constants.IsValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}

// lockCheckout 获取会话级结算锁。已有结算在途时立即失败而不是排队。
// 锁对象不回收，避免删除与获取竞态导致两次结算同时放行
func (s *OrderService) lockCheckout(sessionID string) (func(), bool) {
	value, _ := s.checkoutLocks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	if !mu.TryLock() {
		return nil, false
	}
	return mu.Unlock, true
}

// notifyOrderCreated 下单通知（尽力而为）：失败只记日志，不影响结算结果
func (s *OrderService) notifyOrderCreated(order *models.Order) {
	if err := s.queueClient.EnqueueOrderNotificationEmail(queue.OrderNotificationEmailPayload{OrderID: order.ID}); err != nil {
		logger.Warnw("order_notification_enqueue_failed", "order_id", order.ID, "order_no", order.OrderNo, "error", err)
	}
}

func buildShippingAddress(input CheckoutInput) *models.ShippingAddress {
	country := strings.TrimSpace(input.Country)
	if country == "" {
		country = constants.DefaultShippingCountry
	}
	return &models.ShippingAddress{
		Name:         strings.TrimSpace(input.Name),
		AddressLine1: strings.TrimSpace(input.AddressLine1),
		AddressLine2: strings.TrimSpace(input.AddressLine2),
		City:         strings.TrimSpace(input.City),
		State:        strings.TrimSpace(input.State),
		PostalCode:   strings.TrimSpace(input.PostalCode),
		Country:      country,
	}
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("HS%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
