package maths

import (
	"math/big"

	"github.com/MeteoraAg/cp-amm-sdk/types"
)

func MulDiv(x, y, denominator *big.Int, rounding types.Rounding) *big.Int {
	div, mod := new(big.Int).QuoRem(
		new(big.Int).Mul(x, y),
		denominator,
		new(big.Int))

	if rounding == types.RoundingUp && mod.Sign() != 0 {
		return div.Add(div, big.NewInt(1))
	}

	return div
}

func MinBigInt(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}
