package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFloorPercent(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		percent  string
		expected int64
	}{
		{name: "whole result", amount: 10000, percent: "20", expected: 2000},
		{name: "rounds down", amount: 999, percent: "10", expected: 99},
		{name: "fractional percent rounds down", amount: 10000, percent: "12.5", expected: 1250},
		{name: "fractional percent with remainder", amount: 1001, percent: "12.5", expected: 125},
		{name: "zero percent", amount: 10000, percent: "0", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			percent, err := decimal.NewFromString(tt.percent)
			if err != nil {
				t.Fatalf("bad percent: %v", err)
			}

			got := FloorPercent(decimal.NewFromInt(tt.amount), percent)
			if !got.Equal(decimal.NewFromInt(tt.expected)) {
				t.Errorf("FloorPercent(%d, %s) = %s, want %d", tt.amount, tt.percent, got, tt.expected)
			}
		})
	}
}

func TestFloorRemainder(t *testing.T) {
	got := FloorRemainder(decimal.NewFromInt(10000), decimal.NewFromInt(20))
	if !got.Equal(decimal.NewFromInt(8000)) {
		t.Errorf("expected 8000, got %s", got)
	}

	// 999 * 85 / 100 = 849.15, floors to 849
	got = FloorRemainder(decimal.NewFromInt(999), decimal.NewFromInt(15))
	if !got.Equal(decimal.NewFromInt(849)) {
		t.Errorf("expected 849, got %s", got)
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(decimal.NewFromInt(1)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateAmount(decimal.Zero); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}

	if err := ValidateAmount(decimal.NewFromInt(-5)); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestValidatePercentage(t *testing.T) {
	for _, p := range []int64{0, 50, 100} {
		if err := ValidatePercentage(decimal.NewFromInt(p)); err != nil {
			t.Errorf("unexpected error for %d: %v", p, err)
		}
	}

	for _, p := range []int64{-1, 101} {
		if err := ValidatePercentage(decimal.NewFromInt(p)); err != ErrInvalidPercentage {
			t.Errorf("expected ErrInvalidPercentage for %d, got %v", p, err)
		}
	}
}
