package maths

import "errors"

// Error taxonomy shared by the math and helper packages. A wrong numeric
// result is a financial-integrity bug, so every failure is surfaced as an
// explicit error instead of a clamped or defaulted value.
var (
	// ErrInvalidRange reports a sqrt price, liquidity, or amount outside its
	// defined domain.
	ErrInvalidRange = errors.New("value outside its valid range")

	// ErrArithmeticOverflow reports a value that cannot be narrowed to its
	// fixed-width wire representation without truncation.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")

	// ErrZeroAmount reports a zero amount where a positive one is required.
	ErrZeroAmount = errors.New("amount cannot be zero")
)
