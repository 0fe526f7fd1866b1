package css

import (
	"strconv"
)

// Unit is CSS length unit.
type Unit string

const (
	UnitEm      Unit = "em"
	UnitRem     Unit = "rem"
	UnitPercent Unit = "%"
)

// Length is a CSS dimension with explicit unit.
type Length struct {
	Value float64
	Unit  Unit
}

func Em(v float64) Length      { return Length{v, UnitEm} }
func Rem(v float64) Length     { return Length{v, UnitRem} }
func Percent(v float64) Length { return Length{v, UnitPercent} }

// Number is a unitless factor, Readium CSS uses those for margins, line
// height and type scale.
func Number(v float64) Length { return Length{Value: v} }

// String returns CSS notation, shortest representation of the number
// immediately followed by the unit.
func (l Length) String() string {
	return formatNumber(l.Value) + string(l.Unit)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
