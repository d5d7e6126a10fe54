package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	req := require.New(t)
	a := Address("0x939ae6A4C8dfDBB1f7085189574F0A938013952A")
	req.True(a.Equals("0x939ae6a4c8dfdbb1f7085189574f0a938013952a"))
	req.Equal(Address("0x939ae6a4c8dfdbb1f7085189574f0a938013952a"), a.ToLower())
	req.True(a.IsValid())
	req.False(Address("bob").IsValid())
	req.True(EmptyAddress.IsEmpty())
	req.False(a.Equals(EmptyAddress))
}
