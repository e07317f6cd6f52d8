package store

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erazemk/nepremicnine/internal/model"
)

var priceFactor = decimal.New(1, model.PriceScale)

// priceUnits converts a price to its stored integer form. Prices are
// validated to PriceScale before they reach the store.
func priceUnits(p decimal.Decimal) int64 {
	return p.Mul(priceFactor).IntPart()
}

// priceFromUnits converts a stored integer price back to a decimal.
func priceFromUnits(units int64) decimal.Decimal {
	return decimal.New(units, -model.PriceScale)
}

var (
	maxUnits = decimal.NewFromInt(math.MaxInt64)
	minUnits = decimal.NewFromInt(math.MinInt64)
)

// clampUnits converts a whole number of price units to int64, saturating
// bounds that don't fit.
func clampUnits(d decimal.Decimal) int64 {
	if d.GreaterThan(maxUnits) {
		return math.MaxInt64
	}
	if d.LessThan(minUnits) {
		return math.MinInt64
	}
	return d.IntPart()
}

// fold lower-cases s for case-insensitive matching.
func fold(s string) string {
	return strings.ToLower(s)
}

// likeContains returns a LIKE pattern that matches s anywhere, with LIKE
// metacharacters escaped by '\'.
func likeContains(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// buildFilter returns the WHERE clause and arguments for a property filter.
// Conditions are only added for filters that are set; with none set the
// clause matches every row.
func buildFilter(f model.PropertyFilter) (string, []any) {
	where := ` WHERE 1=1`
	var args []any

	if f.Name != "" {
		where += ` AND name_fold LIKE ? ESCAPE '\'`
		args = append(args, likeContains(fold(f.Name)))
	}
	if f.Address != "" {
		where += ` AND address_fold LIKE ? ESCAPE '\'`
		args = append(args, likeContains(fold(f.Address)))
	}
	if f.MinPrice != nil {
		// Smallest stored value that is >= MinPrice.
		where += ` AND price >= ?`
		args = append(args, clampUnits(f.MinPrice.Mul(priceFactor).Ceil()))
	}
	if f.MaxPrice != nil {
		// Largest stored value that is <= MaxPrice.
		where += ` AND price <= ?`
		args = append(args, clampUnits(f.MaxPrice.Mul(priceFactor).Floor()))
	}

	return where, args
}
