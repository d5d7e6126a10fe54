package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

// Address is an account id, a hex address compared case-insensitively
type Address string

const EmptyAddress = Address("")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

func (a Address) IsValid() bool {
	return common.IsHexAddress(string(a))
}

func (a Address) String() string {
	return string(a)
}

// ItemId identifies an asset minted by the asset registry
type ItemId string

func (i ItemId) String() string {
	return string(i)
}
