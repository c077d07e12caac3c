package core

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1.00", true},
		{"1.0", "1.00", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "1.01", true}, // half-up rounding
		{".5", "0.50", true},
		{" 2.50 ", "2.50", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.001", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error, got %s", tc.in, got)
		}
	}
}

func TestMoneyJSONIsANumber(t *testing.T) {
	var v struct {
		Amount Money `json:"amount"`
	}
	if err := json.Unmarshal([]byte(`{"amount":12.5}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"amount":12.5}` {
		t.Fatalf("unexpected json: %s", out)
	}

	if err := json.Unmarshal([]byte(`{"amount":"7.25"}`), &v); err != nil {
		t.Fatalf("unmarshal quoted: %v", err)
	}
	if v.Amount.String() != "7.25" {
		t.Fatalf("expected 7.25, got %s", v.Amount)
	}
}

func TestPercentGuardsZero(t *testing.T) {
	if _, ok := Percent(NewMoney(10), Money{}); ok {
		t.Fatalf("expected ok=false for zero whole")
	}
	pct, ok := Percent(NewMoney(850), NewMoney(1000))
	if !ok || pct != 85 {
		t.Fatalf("expected 85, got %v (ok=%v)", pct, ok)
	}
}

func TestMoneyDivByZero(t *testing.T) {
	if got := NewMoney(12).Div(0); !got.IsZero() {
		t.Fatalf("expected zero, got %s", got)
	}
	if got := NewMoney(12).Div(4); got.String() != "3.00" {
		t.Fatalf("expected 3.00, got %s", got)
	}
}
