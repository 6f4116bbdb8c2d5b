package auth

import (
	"strconv"
	"sync"
	"time"
)

// NonceUnit nonce 时间单位
type NonceUnit string

const (
	NonceSeconds      NonceUnit = "s"
	NonceMilliseconds NonceUnit = "ms"
	NonceMicroseconds NonceUnit = "us"
)

// Nonce 单调递增的 nonce 生成器，并发调用返回严格递增的值
type Nonce struct {
	mu   sync.Mutex
	unit NonceUnit
	last int64
	now  func() time.Time
}

// NewNonce 创建生成器，未知单位按毫秒处理
func NewNonce(unit NonceUnit) *Nonce {
	return &Nonce{unit: unit, now: time.Now}
}

// Next 返回 max(now, last+1)
func (n *Nonce) Next() int64 {
	if n == nil {
		return time.Now().UnixMilli()
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.clock()
	if now <= n.last {
		now = n.last + 1
	}
	n.last = now
	return now
}

// NextString 字符串形式
func (n *Nonce) NextString() string {
	return strconv.FormatInt(n.Next(), 10)
}

func (n *Nonce) clock() int64 {
	t := n.now()
	switch n.unit {
	case NonceSeconds:
		return t.Unix()
	case NonceMicroseconds:
		return t.UnixMicro()
	default:
		return t.UnixMilli()
	}
}
