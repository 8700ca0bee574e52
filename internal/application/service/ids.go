package service

import (
	"strconv"
	"strings"

	"github.com/sangkips/cactus-admin-api/pkg/apperror"
)

// ParseOrderID accepts a decimal positive integer, optionally surrounded by spaces.
// Signs, fractions and leading "0x"-style prefixes are rejected.
func ParseOrderID(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, apperror.NewInvalidInputError("Order id is required")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, apperror.NewInvalidInputError("Order id must be a positive integer")
		}
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewInvalidInputError("Order id must be a positive integer")
	}
	return id, nil
}
