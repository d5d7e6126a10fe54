package domain

import "errors"

var (
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrInvalidInput will throw if creation or bid parameters are malformed
	ErrInvalidInput = errors.New("invalid input")

	// phase errors
	ErrAuctionStillOpen     = errors.New("auction still open")
	ErrAuctionAlreadyClosed = errors.New("auction already closed")

	// bidding errors
	ErrBidTooLow = errors.New("bid too low")

	// settlement errors
	ErrNotEligible         = errors.New("caller not eligible")
	ErrAlreadySettled      = errors.New("already settled")
	ErrNothingToWithdraw   = errors.New("nothing to withdraw")
	ErrPayoutFailed        = errors.New("payout failed")
	ErrAssetTransferFailed = errors.New("asset transfer failed")
	ErrReentrantCall       = errors.New("reentrant call")
)
