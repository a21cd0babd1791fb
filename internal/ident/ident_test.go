package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreserveCase(t *testing.T) {
	tests := []struct {
		name   string
		native NativeCase
		ident  string
		want   bool
	}{
		{"lower native, lower name", Lower, "customer_id", false},
		{"lower native, mixed name", Lower, "CustomerId", true},
		{"upper native, upper name", Upper, "CUSTOMER_ID", false},
		{"upper native, lower name", Upper, "customer_id", true},
		{"digits only", Upper, "123", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PreserveCase(tt.native, tt.ident))
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name   string
		native NativeCase
		ident  string
		quote  string
		want   string
	}{
		{"plain", Lower, "amount", `"`, "amount"},
		{"mixed case", Lower, "Amount", `"`, `"Amount"`},
		{"reserved word", Lower, "user", `"`, `"user"`},
		{"space", Lower, "first name", "`", "`first name`"},
		{"oracle plain", Upper, "AMOUNT", `"`, "AMOUNT"},
		{"oracle lower", Upper, "amount", `"`, `"amount"`},
		{"brackets", Lower, "Order Date", "[]", "[Order Date]"},
		{"embedded quote", Lower, `a"b`, `"`, `"a""b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.native, tt.ident, tt.quote))
		})
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "EMP", Upper.Fold("emp"))
	assert.Equal(t, "emp", Lower.Fold("EMP"))
}
