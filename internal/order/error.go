package order

import "github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/errorutil"

var (
	ErrNotFound      = errorutil.New("order not found")
	ErrInvalidStatus = errorutil.New("invalid order status")
)
