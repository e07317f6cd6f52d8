package store

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/erazemk/nepremicnine/internal/model"
)

func TestBuildFilterEmpty(t *testing.T) {
	where, args := buildFilter(model.PropertyFilter{Page: 1, PageSize: 10})
	if where != ` WHERE 1=1` {
		t.Errorf("unexpected clause %q", where)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestBuildFilterAll(t *testing.T) {
	where, args := buildFilter(model.PropertyFilter{
		Name:     "Casa",
		Address:  "50%",
		MinPrice: decimalPtr("1.5"),
		MaxPrice: decimalPtr("2"),
	})
	want := ` WHERE 1=1 AND name_fold LIKE ? ESCAPE '\' AND address_fold LIKE ? ESCAPE '\' AND price >= ? AND price <= ?`
	if where != want {
		t.Errorf("clause:\n got %s\nwant %s", where, want)
	}
	if len(args) != 4 {
		t.Fatalf("expected 4 args, got %d", len(args))
	}
	if args[0] != "%casa%" {
		t.Errorf("name arg: got %v", args[0])
	}
	if args[1] != `%50\%%` {
		t.Errorf("address arg: got %v", args[1])
	}
	if args[2] != int64(15000) || args[3] != int64(20000) {
		t.Errorf("price args: got %v %v", args[2], args[3])
	}
}

func TestPriceUnitsRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1", "450000000", "0.0001", "123.4567"} {
		d := decimal.RequireFromString(s)
		if got := priceFromUnits(priceUnits(d)); !got.Equal(d) {
			t.Errorf("%s: round trip gave %s", s, got)
		}
	}
}

func TestClampUnits(t *testing.T) {
	if got := clampUnits(decimal.RequireFromString("1e30")); got != math.MaxInt64 {
		t.Errorf("expected MaxInt64, got %d", got)
	}
	if got := clampUnits(decimal.RequireFromString("-1e30")); got != math.MinInt64 {
		t.Errorf("expected MinInt64, got %d", got)
	}
	if got := clampUnits(decimal.NewFromInt(42)); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestLikeContains(t *testing.T) {
	tests := map[string]string{
		"casa": "%casa%",
		"a_b":  `%a\_b%`,
		`c:\x`: `%c:\\x%`,
		"":     "%%",
	}
	for in, want := range tests {
		if got := likeContains(in); got != want {
			t.Errorf("likeContains(%q) = %q, want %q", in, got, want)
		}
	}
}
