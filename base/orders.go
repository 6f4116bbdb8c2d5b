package base

import (
	"sync"

	"github.com/lemconn/venuelink/model"
)

// OrderCache 按订单ID缓存，下单与查询时写入，不淘汰
type OrderCache struct {
	mu     sync.RWMutex
	orders map[string]*model.Order
}

// NewOrderCache 创建订单缓存
func NewOrderCache() *OrderCache {
	return &OrderCache{orders: make(map[string]*model.Order)}
}

// Put 写入订单副本
func (c *OrderCache) Put(o *model.Order) {
	if o == nil || o.ID == "" {
		return
	}
	cp := *o
	c.mu.Lock()
	c.orders[o.ID] = &cp
	c.mu.Unlock()
}

// Get 读取订单副本
func (c *OrderCache) Get(id string) (*model.Order, bool) {
	c.mu.RLock()
	o, ok := c.orders[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	cp := *o
	return &cp, true
}

// Len 缓存数量
func (c *OrderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.orders)
}
