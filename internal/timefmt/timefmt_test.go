package timefmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNiceOffset(t *testing.T) {
	cases := []struct {
		secs int64
		want string
	}{
		{-9223372036854775, "0 seconds"},
		{-1, "0 seconds"},
		{0, "0 seconds"},
		{1, "1 second"},
		{59, "59 seconds"},
		{60, "1 minute"},
		{4800, "80 minutes"},
		{2 * hourSeconds, "2 hours"},
		{2*daySeconds - 1, "47 hours"},
		{2 * daySeconds, "2 days"},
		{2 * weekSeconds, "2 weeks"},
		{yearSeconds - 1, "52 weeks"},
		{yearSeconds + 3*weekSeconds, "1 year and 3 weeks"},
		{2*yearSeconds + weekSeconds, "2 years and 1 week"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NiceOffset(c.secs), "secs=%d", c.secs)
	}
}
