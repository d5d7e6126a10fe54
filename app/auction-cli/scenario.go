package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	"github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/base/log"
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/auction"
)

const (
	opCreate  = "create"
	opBid     = "bid"
	opSettle  = "settle"
	opAdvance = "advance"
	opShow    = "show"
	opHistory = "history"
)

// step is one scenario line. Amounts are decimal strings.
type step struct {
	Op          string        `mapstructure:"op"`
	Account     string        `mapstructure:"account"`
	Auction     int64         `mapstructure:"auction"`
	Value       string        `mapstructure:"value"`
	StartPrice  string        `mapstructure:"start_price"`
	Duration    time.Duration `mapstructure:"duration"`
	MetadataUri string        `mapstructure:"metadata_uri"`
	// Expect is the error an op must fail with, empty when it must succeed
	Expect string `mapstructure:"expect"`
}

type outcome struct {
	Step   int
	Op     string
	Err    error
	Result interface{}
}

func loadScenario(path string) ([]step, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	steps := []step{}
	if err := v.UnmarshalKey("steps", &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, xerrors.Errorf("%w: amount %q: %v", domain.ErrInvalidInput, s, err)
	}
	return d, nil
}

func (e *engine) apply(c ctx.Ctx, s step) (interface{}, error) {
	account := domain.Address(s.Account)
	id := auction.Id(s.Auction)
	switch s.Op {
	case opCreate:
		price, err := parseAmount(s.StartPrice)
		if err != nil {
			return nil, err
		}
		return e.house.CreateAuction(c, &auction.CreateParams{
			Creator:     account,
			StartPrice:  price,
			Duration:    s.Duration,
			MetadataUri: s.MetadataUri,
		})
	case opBid:
		value, err := parseAmount(s.Value)
		if err != nil {
			return nil, err
		}
		return e.house.Bid(c, id, account, value)
	case opSettle:
		return e.house.Settle(c, id, account)
	case opAdvance:
		e.clock.Advance(s.Duration)
		return e.clock.Now(), nil
	case opShow:
		return e.house.GetAuction(c, id)
	case opHistory:
		return e.house.History(c, id)
	}
	return nil, xerrors.Errorf("%w: unknown op %q", domain.ErrInvalidInput, s.Op)
}

// run applies every step in order. A step whose error differs from its expectation stops the run.
func (e *engine) run(c ctx.Ctx, steps []step) ([]outcome, error) {
	res := []outcome{}
	for i, s := range steps {
		result, err := e.apply(c, s)
		res = append(res, outcome{Step: i + 1, Op: s.Op, Err: err, Result: result})

		logger := c.WithFields(log.Fields{"step": i + 1, "op": s.Op, "auction": s.Auction, "account": s.Account})
		switch {
		case err == nil && s.Expect == "":
			logger.WithField("result", fmt.Sprintf("%+v", result)).Info("ok")
		case err != nil && s.Expect != "" && xerrors.Is(err, expectedErr(s.Expect)):
			logger.WithField("err", err).Info("rejected as expected")
		case err != nil:
			logger.WithFields(log.Fields{"err": err, "expect": s.Expect}).Error("step failed")
			return res, xerrors.Errorf("step %d %s: %w", i+1, s.Op, err)
		default:
			logger.WithField("expect", s.Expect).Error("step succeeded, expected a failure")
			return res, xerrors.Errorf("step %d %s: expected %s", i+1, s.Op, s.Expect)
		}
	}
	return res, nil
}

var namedErrors = map[string]error{
	"invalid_input":          domain.ErrInvalidInput,
	"not_found":              domain.ErrNotFound,
	"auction_still_open":     domain.ErrAuctionStillOpen,
	"auction_already_closed": domain.ErrAuctionAlreadyClosed,
	"bid_too_low":            domain.ErrBidTooLow,
	"not_eligible":           domain.ErrNotEligible,
	"already_settled":        domain.ErrAlreadySettled,
	"nothing_to_withdraw":    domain.ErrNothingToWithdraw,
	"payout_failed":          domain.ErrPayoutFailed,
	"asset_transfer_failed":  domain.ErrAssetTransferFailed,
	"reentrant_call":         domain.ErrReentrantCall,
}

func expectedErr(name string) error {
	if err, ok := namedErrors[name]; ok {
		return err
	}
	return xerrors.Errorf("unknown error name %q", name)
}
