package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidOptionType is returned when an option type tag is neither call nor put.
	ErrInvalidOptionType = errors.New("option type must be 'put' or 'call'")
	// ErrInvalidParameter is returned for non-positive or non-finite model inputs.
	ErrInvalidParameter = errors.New("invalid model parameter")
)

type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

func (t OptionType) Valid() bool {
	return t == Call || t == Put
}

func (t OptionType) String() string {
	return string(t)
}

// ParseOptionType accepts "call"/"put" in any case, plus the exchange
// shorthands "ce"/"pe" and "c"/"p".
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "ce", "c":
		return Call, nil
	case "put", "pe", "p":
		return Put, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidOptionType, s)
}
