package merchant

import "github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/errorutil"

var ErrNotConfigured = errorutil.New("PayNow settings have not been configured")
