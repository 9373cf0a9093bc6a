package maths

import (
	"math/big"

	"github.com/MeteoraAg/cp-amm-sdk/constants"
)

// One is the Q64.64 representation of 1.
//
//	One = new(big.Int).Lsh(big.NewInt(1), constants.ScaleOffset)
var One = new(big.Int).Lsh(big.NewInt(1), constants.ScaleOffset)

// Pow raises a Q64.64 base to a non-negative integer exponent by squaring,
// shifting back to Q64.64 after every multiply. Matches the ledger program's
// fixed-point pow bit for bit, including its truncation per step.
func Pow(base, exp *big.Int) *big.Int {
	result := new(big.Int).Set(One)
	if exp.Sign() <= 0 {
		return result
	}

	b := new(big.Int).Set(base)
	e := new(big.Int).Set(exp)
	for e.Sign() > 0 {
		if e.Bit(0) == 1 {
			result.Mul(result, b)
			result.Rsh(result, constants.ScaleOffset)
		}
		e.Rsh(e, 1)
		if e.Sign() > 0 {
			b.Mul(b, b)
			b.Rsh(b, constants.ScaleOffset)
		}
	}
	return result
}
