package payment

import (
	"github.com/shopspring/decimal"

	"github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/domain"
)

// Rail moves value out of the engine's custody.
type Rail interface {
	// Send reports false when the transfer was rejected, funds stay in custody and the call may be retried
	Send(c ctx.Ctx, to domain.Address, amount decimal.Decimal) bool
}
