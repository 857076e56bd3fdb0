package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"0.01", 1, true},
		{"1000.00", 100000, true},
		{"1.005", 101, true}, // half-up rounding
		{"12.346", 1235, true},
		{"12.344", 1234, true},
		{" 2.50 ", 250, true},
		{"-1", -100, true},
		{"-12.34", -1234, true},
		{"+3.50", 350, true},
		{"0", 0, true},
		{".5", 50, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"1,23", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimal(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.cents {
				t.Fatalf("%q expected %d cents, got %d (err=%v)", tc.in, tc.cents, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error, got %d cents", tc.in, got.Cents)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{100000, "1000.00"},
		{123, "1.23"},
		{5, "0.05"},
		{0, "0.00"},
		{-1234, "-12.34"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Errorf("%d cents: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 500000}
	b := Money{Cents: 300000}

	if got := a.Add(b); got.Cents != 800000 {
		t.Errorf("Add: expected 800000, got %d", got.Cents)
	}
	if got := a.Sub(b); got.Cents != 200000 {
		t.Errorf("Sub: expected 200000, got %d", got.Cents)
	}
	if !a.IsPositive() {
		t.Error("5000.00 should be positive")
	}
	if (Money{}).IsPositive() {
		t.Error("zero should not be positive")
	}
	if (Money{Cents: -1}).IsPositive() {
		t.Error("negative should not be positive")
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(Money{Cents: 123456})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Plain JSON number with exactly two decimals, never quoted.
	if string(out) != "1234.56" {
		t.Fatalf("expected 1234.56, got %s", out)
	}

	var fromNumber Money
	if err := json.Unmarshal([]byte("1000.00"), &fromNumber); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if fromNumber.Cents != 100000 {
		t.Errorf("expected 100000 cents, got %d", fromNumber.Cents)
	}

	var fromString Money
	if err := json.Unmarshal([]byte(`"42.50"`), &fromString); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if fromString.Cents != 4250 {
		t.Errorf("expected 4250 cents, got %d", fromString.Cents)
	}
}
