// Package timer parses the block-hold duration syntax: an integer
// immediately followed by a single unit suffix d, h, m or s.
package timer

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidDuration = errors.New("invalid duration syntax")

const (
	secondsPerDay    = 86400
	secondsPerHour   = 3600
	secondsPerMinute = 60
)

// Parse converts one token like "2d", "3h", "4m" or "5s" into seconds.
// Fractional numbers and compound suffixes are rejected.
func Parse(token string) (int64, error) {
	if len(token) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, token)
	}

	digits := token[:len(token)-1]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, token)
		}
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, token)
	}

	switch token[len(token)-1] {
	case 'd':
		return n * secondsPerDay, nil
	case 'h':
		return n * secondsPerHour, nil
	case 'm':
		return n * secondsPerMinute, nil
	case 's':
		return n, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, token)
}

// Sum parses every token and adds the results, so "1h 30m" holds for
// 5400 seconds. Any malformed token fails the whole set.
func Sum(tokens []string) (int64, error) {
	var total int64
	for _, t := range tokens {
		sec, err := Parse(t)
		if err != nil {
			return 0, err
		}
		total += sec
	}
	return total, nil
}
