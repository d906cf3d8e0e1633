package session

import (
	"github.com/hatstore-next/internal/models"

	"github.com/shopspring/decimal"
)

// CartLine 购物车行：加入时快照商品名称/单价/主图，后续商品变动不影响已有行
type CartLine struct {
	ProductID uint         `json:"product_id"` // 商品ID
	Name      string       `json:"name"`       // 商品名称快照
	Price     models.Money `json:"price"`      // 单价快照
	ImageURL  string       `json:"image_url"`  // 主图快照（可为空）
	Quantity  int          `json:"quantity"`   // 数量（始终 ≥ 1）
}

// LineSubtotal 行小计 = 单价 × 数量
func (l *CartLine) LineSubtotal() models.Money {
	return models.NewMoneyFromDecimal(l.Price.Decimal.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// Cart 会话购物车。行按加入顺序保存，同一商品只占一行
type Cart struct {
	Items []CartLine `json:"items"`
}

// CartSnapshot 购物车投影（给前端展示用）
type CartSnapshot struct {
	Items      []CartLine   `json:"items"`
	TotalItems int          `json:"total_items"`
	Subtotal   models.Money `json:"subtotal"`
}

// Add 加入商品：已存在则累加数量（保留原快照），否则追加新行。返回结果行
func (c *Cart) Add(line CartLine) CartLine {
	for i := range c.Items {
		if c.Items[i].ProductID == line.ProductID {
			c.Items[i].Quantity += line.Quantity
			return c.Items[i]
		}
	}
	c.Items = append(c.Items, line)
	return line
}

// UpdateQuantity 覆盖数量。数量 ≤ 0 等价于删除；商品不存在时返回 false
func (c *Cart) UpdateQuantity(productID uint, quantity int) (CartLine, bool) {
	if quantity <= 0 {
		return c.Remove(productID)
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return c.Items[i], true
		}
	}
	return CartLine{}, false
}

// Remove 删除商品行，幂等：不存在时返回 false 且购物车不变
func (c *Cart) Remove(productID uint) (CartLine, bool) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			removed := c.Items[i]
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return removed, true
		}
	}
	return CartLine{}, false
}

// Clear 清空购物车
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty 判断购物车是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Line 按商品ID查找行
func (c *Cart) Line(productID uint) (CartLine, bool) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return c.Items[i], true
		}
	}
	return CartLine{}, false
}

// TotalItems 商品总件数（数量之和，非行数）
func (c *Cart) TotalItems() int {
	total := 0
	for i := range c.Items {
		total += c.Items[i].Quantity
	}
	return total
}

// Subtotal 全车小计，十进制精确累加
func (c *Cart) Subtotal() models.Money {
	sum := decimal.Zero
	for i := range c.Items {
		sum = sum.Add(c.Items[i].Price.Decimal.Mul(decimal.NewFromInt(int64(c.Items[i].Quantity))))
	}
	return models.NewMoneyFromDecimal(sum)
}

// Snapshot 导出完整投影：行列表 + 总件数 + 小计
func (c *Cart) Snapshot() CartSnapshot {
	items := make([]CartLine, len(c.Items))
	copy(items, c.Items)
	return CartSnapshot{
		Items:      items,
		TotalItems: c.TotalItems(),
		Subtotal:   c.Subtotal(),
	}
}
