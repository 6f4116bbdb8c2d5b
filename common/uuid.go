package common

import (
	"strings"

	"github.com/google/uuid"
)

// UUID16 16 位十六进制随机串
func UUID16() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
