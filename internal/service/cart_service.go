package service

import (
	"github.com/hatstore-next/internal/repository"
	"github.com/hatstore-next/internal/session"
)

// CartService 购物车服务。操作请求级会话中的购物车，
// 每次修改后标脏，由 HTTP 层在请求结束前提交会话
type CartService struct {
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(productRepo repository.ProductRepository) *CartService {
	return &CartService{productRepo: productRepo}
}

// AddItem 加入商品。只允许上架商品；快照当前名称/单价/主图
func (s *CartService) AddItem(sess *session.Session, productID uint, quantity int) (session.CartLine, error) {
	if quantity <= 0 {
		return session.CartLine{}, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetActiveByID(productID)
	if err != nil {
		return session.CartLine{}, err
	}
	if product == nil {
		return session.CartLine{}, ErrProductNotAvailable
	}

	imageURL := ""
	if primary := product.PrimaryImage(); primary != nil {
		imageURL = primary.ImageURL
	}

	line := sess.Cart.Add(session.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		ImageURL:  imageURL,
		Quantity:  quantity,
	})
	sess.MarkDirty()
	return line, nil
}

// UpdateQuantity 覆盖数量。数量 ≤ 0 等价删除，行不存在时也视为删除成功；
// 正数数量下行不存在返回 ErrCartItemNotFound
func (s *CartService) UpdateQuantity(sess *session.Session, productID uint, quantity int) (session.CartLine, error) {
	line, ok := sess.Cart.UpdateQuantity(productID, quantity)
	if !ok {
		if quantity <= 0 {
			return session.CartLine{}, nil
		}
		return session.CartLine{}, ErrCartItemNotFound
	}
	sess.MarkDirty()
	return line, nil
}

// RemoveItem 删除商品行。行不存在返回 ErrCartItemNotFound，购物车不变
func (s *CartService) RemoveItem(sess *session.Session, productID uint) (session.CartLine, error) {
	line, ok := sess.Cart.Remove(productID)
	if !ok {
		return session.CartLine{}, ErrCartItemNotFound
	}
	sess.MarkDirty()
	return line, nil
}

// Clear 清空购物车
func (s *CartService) Clear(sess *session.Session) {
	if sess.Cart.IsEmpty() {
		return
	}
	sess.Cart.Clear()
	sess.MarkDirty()
}

// Snapshot 导出购物车投影
func (s *CartService) Snapshot(sess *session.Session) session.CartSnapshot {
	return sess.Cart.Snapshot()
}
