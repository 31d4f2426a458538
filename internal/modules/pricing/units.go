package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Unit string

const (
	UnitGram     Unit = "g"
	UnitKilogram Unit = "kg"
	UnitPiece    Unit = "pc"
)

type family int

const (
	familyWeight family = iota + 1
	familyCount
)

var unitAliases = map[string]Unit{
	"g": UnitGram, "gm": UnitGram, "gms": UnitGram, "gram": UnitGram, "grams": UnitGram,
	"kg": UnitKilogram, "kgs": UnitKilogram, "kilo": UnitKilogram, "kilogram": UnitKilogram, "kilograms": UnitKilogram,
	"pc": UnitPiece, "pcs": UnitPiece, "piece": UnitPiece, "pieces": UnitPiece,
	"unit": UnitPiece, "units": UnitPiece, "nos": UnitPiece,
}

// NormalizeUnit maps the spellings found in catalog data to a canonical unit.
func NormalizeUnit(raw string) (Unit, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", ErrInvalidUnit
	}
	u, ok := unitAliases[s]
	if !ok {
		return "", ErrUnsupportedUnit
	}
	return u, nil
}

func (u Unit) family() family {
	if u == UnitPiece {
		return familyCount
	}
	return familyWeight
}

// grams per unit for weight units, 1 for count
func (u Unit) scale() decimal.Decimal {
	if u == UnitKilogram {
		return decimal.NewFromInt(1000)
	}
	return decimal.NewFromInt(1)
}

// Convert expresses qty of unit from in unit to.
func Convert(qty decimal.Decimal, from, to Unit) (decimal.Decimal, error) {
	if from.family() != to.family() {
		return decimal.Zero, ErrConversionUnsupported
	}
	if from == to {
		return qty, nil
	}
	return qty.Mul(from.scale()).Div(to.scale()), nil
}
