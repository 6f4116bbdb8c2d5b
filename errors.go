package venuelink

import "errors"

// ErrExchangeNotSupported 不支持的交易所
var ErrExchangeNotSupported = errors.New("exchange not supported")
