package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUptime(t *testing.T) {
	testCases := []struct {
		description string
		seconds     uint64
		expected    string
	}{
		{description: "zero", seconds: 0, expected: "0s"},
		{description: "seconds", seconds: 42, expected: "42s"},
		{description: "minutes", seconds: 120, expected: "2m"},
		{description: "hours minutes seconds", seconds: 3723, expected: "1h 2m 3s"},
		{description: "one day", seconds: 86400, expected: "1day"},
		{description: "days", seconds: 2*86400 + 5, expected: "2days 5s"},
		{description: "month", seconds: 2630016, expected: "1month"},
		{description: "year", seconds: 31557600 + 2*2630016 + 86400 + 60, expected: "1year 2months 1day 1m"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatUptime(tc.seconds))
		})
	}
}
