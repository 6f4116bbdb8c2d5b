package common

// StatusMap 交易所状态到统一状态的映射，未收录的状态原样返回
type StatusMap[T ~string] map[string]T

// Lookup 查询状态
func (m StatusMap[T]) Lookup(raw string) T {
	if v, ok := m[raw]; ok {
		return v
	}
	return T(raw)
}
