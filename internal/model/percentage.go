package model

import (
	"math/big"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Percentage is an exact fraction in [0, 1]. The zero value is "not set".
type Percentage struct {
	r *big.Rat
}

func newPercentage(numerator, denominator int64) Percentage {
	return Percentage{r: big.NewRat(numerator, denominator)}
}

func (p Percentage) IsSet() bool {
	return p.r != nil
}

// Rat returns a copy of the fraction, or nil when not set.
func (p Percentage) Rat() *big.Rat {
	if p.r == nil {
		return nil
	}
	return new(big.Rat).Set(p.r)
}

// Equal compares two percentages exactly.
func (p Percentage) Equal(other Percentage) bool {
	if p.r == nil || other.r == nil {
		return p.r == nil && other.r == nil
	}
	return p.r.Cmp(other.r) == 0
}

// Float64 returns the percentage in the range [0, 100]; 0 when not set.
func (p Percentage) Float64() float64 {
	if p.r == nil {
		return 0
	}
	f, _ := new(big.Rat).Mul(p.r, big.NewRat(100, 1)).Float64()
	return f
}

// hundredths rounds the percentage to two decimals, halves away from zero.
func (p Percentage) hundredths() int64 {
	scaled := new(big.Rat).Mul(p.r, big.NewRat(10000, 1))
	num, den := scaled.Num(), scaled.Denom()
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if new(big.Int).Mul(r, big.NewInt(2)).Cmp(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Int64()
}

// Format renders the percentage with two decimals and the decimal separator
// of the given locale, e.g. "76.25%" or "76,25%". Unset values render as "-".
func (p Percentage) Format(tag language.Tag) string {
	if p.r == nil {
		return "-"
	}
	return message.NewPrinter(tag).Sprintf("%.2f%%", float64(p.hundredths())/100)
}

func (p Percentage) String() string {
	return p.Format(language.English)
}
