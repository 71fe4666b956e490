package offer

import (
	"errors"
	"fmt"
)

// Kind names the first guard a raw record failed
type Kind uint8

const (
	// InvalidID means the id is not an unsigned 64 bit integer
	InvalidID Kind = iota + 1
	// InvalidAsset means selling or buying did not parse
	InvalidAsset
	// RatioOutOfRange means price_r does not fit in int32
	RatioOutOfRange
	// InvalidSeller means the seller is not a G... account of 56 chars
	InvalidSeller
	// InvalidAmount means the amount is not a positive decimal
	InvalidAmount
	// InvalidPrice means the price is not a positive decimal
	InvalidPrice
	// ZeroDenominator means price_r.d is zero
	ZeroDenominator
	// SameAsset means selling equals buying
	SameAsset
)

var kindNames = map[Kind]string{
	InvalidID:       "invalid_id",
	InvalidAsset:    "invalid_asset",
	RatioOutOfRange: "ratio_out_of_range",
	InvalidSeller:   "invalid_seller",
	InvalidAmount:   "invalid_amount",
	InvalidPrice:    "invalid_price",
	ZeroDenominator: "zero_denominator",
	SameAsset:       "same_asset",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// sentinels, one per Kind, for errors.Is
var (
	ErrInvalidID       = errors.New("offer: invalid id")
	ErrInvalidAsset    = errors.New("offer: invalid asset")
	ErrRatioOutOfRange = errors.New("offer: price ratio out of int32 range")
	ErrInvalidSeller   = errors.New("offer: invalid seller")
	ErrInvalidAmount   = errors.New("offer: invalid amount")
	ErrInvalidPrice    = errors.New("offer: invalid price")
	ErrZeroDenominator = errors.New("offer: zero price denominator")
	ErrSameAsset       = errors.New("offer: selling and buying are the same asset")
)

var sentinels = map[Kind]error{
	InvalidID:       ErrInvalidID,
	InvalidAsset:    ErrInvalidAsset,
	RatioOutOfRange: ErrRatioOutOfRange,
	InvalidSeller:   ErrInvalidSeller,
	InvalidAmount:   ErrInvalidAmount,
	InvalidPrice:    ErrInvalidPrice,
	ZeroDenominator: ErrZeroDenominator,
	SameAsset:       ErrSameAsset,
}

// Error is a rejected record with enough context to log or persist
type Error struct {
	Kind  Kind
	RawID string // id as received, may be unparseable
	Field string // failing field name
	Value string // offending value, truncated
	Err   error  // inner cause, e.g. *asset.ParseError
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("offer %q: %s", e.RawID, e.Kind)
	if e.Field != "" {
		msg += " (" + e.Field
		if e.Value != "" {
			msg += "=" + e.Value
		}
		msg += ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the inner cause
func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Kind
func (e *Error) Is(target error) bool { return sentinels[e.Kind] == target }

// KindOf returns the Kind of err or 0 when err is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

const maxValueLen = 64

func reject(k Kind, rawID, field, value string, cause error) *Error {
	if len(value) > maxValueLen {
		value = value[:maxValueLen] + "..."
	}
	return &Error{Kind: k, RawID: rawID, Field: field, Value: value, Err: cause}
}
