// Package paymentrail is an in-process payment.Rail crediting balances in memory.
package paymentrail

import (
	"sync"

	"github.com/shopspring/decimal"

	bCtx "github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/base/log"
	"github.com/x-xyz/settlement/base/metrics"
	"github.com/x-xyz/settlement/domain"
)

type Rail struct {
	mu       sync.RWMutex
	met      metrics.Service
	balances map[domain.Address]decimal.Decimal
	total    decimal.Decimal
	refused  map[domain.Address]bool
	onSend   func(ctx bCtx.Ctx, to domain.Address, amount decimal.Decimal)
}

func New(met metrics.Service) *Rail {
	if met == nil {
		met = metrics.NewLogMetrics("paymentrail")
	}
	return &Rail{
		met:      met,
		balances: map[domain.Address]decimal.Decimal{},
		refused:  map[domain.Address]bool{},
	}
}

// Send runs the receive callback first, the way a receiving contract executes before the
// transfer completes, then credits to unless it is refused.
func (r *Rail) Send(ctx bCtx.Ctx, to domain.Address, amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		ctx.WithFields(log.Fields{"to": to, "amount": amount}).Warn("non-positive send rejected")
		r.met.BumpSum("send.err", 1, "reason", "amount")
		return false
	}

	r.mu.RLock()
	hook := r.onSend
	r.mu.RUnlock()
	if hook != nil {
		hook(ctx, to, amount)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	key := to.ToLower()
	if r.refused[key] {
		ctx.WithFields(log.Fields{"to": to, "amount": amount}).Warn("send refused")
		r.met.BumpSum("send.err", 1, "reason", "refused")
		return false
	}
	r.balances[key] = r.balances[key].Add(amount)
	r.total = r.total.Add(amount)
	r.met.BumpSum("send", 1)
	return true
}

func (r *Rail) BalanceOf(account domain.Address) decimal.Decimal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.balances[account.ToLower()]
}

// TotalSent is the sum of every accepted Send
func (r *Rail) TotalSent() decimal.Decimal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total
}

// Refuse makes sends to account fail until called again with false
func (r *Rail) Refuse(account domain.Address, refuse bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if refuse {
		r.refused[account.ToLower()] = true
		return
	}
	delete(r.refused, account.ToLower())
}

func (r *Rail) OnSend(fn func(ctx bCtx.Ctx, to domain.Address, amount decimal.Decimal)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onSend = fn
}
