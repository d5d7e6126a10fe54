package ctx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/settlement/base/log"
)

type testsuite struct {
	suite.Suite
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestWithValue() {
	c := WithValue(Background(), "auctionId", int64(3))
	ts.Equal(int64(3), c.Value("auctionId"))
}

func (ts *testsuite) TestWithValues() {
	c := WithValues(Background(), map[string]interface{}{
		"caller": "0xabc",
		"branch": "loser",
	})
	ts.Equal("0xabc", c.Value("caller"))
	ts.Equal("loser", c.Value("branch"))
}

func (ts *testsuite) TestWithLogFieldsKeepsContext() {
	parent := WithValue(Background(), "auctionId", int64(7))
	c := WithLogFields(parent, log.Fields{"bidder": "0xdef"})
	ts.Equal(int64(7), c.Value("auctionId"))
	ts.Nil(c.Value("bidder"))
}

func (ts *testsuite) TestWithCancel() {
	c, cancel := WithCancel(Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		ts.Fail("context not cancelled")
	}
}

func (ts *testsuite) TestTimeout() {
	c, cancel := WithTimeout(Background(), 10*time.Millisecond)
	defer cancel()
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		ts.Fail("context not timed out")
	}
	ts.Equal("context deadline exceeded", c.Err().Error())
}
