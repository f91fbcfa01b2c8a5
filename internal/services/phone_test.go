package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDigits(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "hyphenated", in: "010-1234-5678", want: "01012345678"},
		{name: "spaces and parens", in: "(02) 123 4567", want: "021234567"},
		{name: "plus prefix", in: "+82 10-1234-5678", want: "821012345678"},
		{name: "already digits", in: "01012345678", want: "01012345678"},
		{name: "no digits", in: "abc- ", want: ""},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDigits(tt.in))
		})
	}
}

func TestNormalizeNullablePhone(t *testing.T) {
	str := func(s string) *string { return &s }

	assert.Nil(t, NormalizeNullablePhone(nil))

	// Blank or digit-free input collapses to nil, never an empty string.
	assert.Nil(t, NormalizeNullablePhone(str("")))
	assert.Nil(t, NormalizeNullablePhone(str("  -  ")))

	got := NormalizeNullablePhone(str("010-1234-5678"))
	if assert.NotNil(t, got) {
		assert.Equal(t, "01012345678", *got)
	}
}

func TestIsValidOptionalPhone(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name string
		in   *string
		want bool
	}{
		{name: "absent", in: nil, want: true},
		{name: "empty", in: str(""), want: true},
		{name: "ten digits", in: str("0212345678"), want: true},
		{name: "eleven digits", in: str("010-1234-5678"), want: true},
		{name: "too short", in: str("123456789"), want: false},
		{name: "too long", in: str("010123456789"), want: false},
		{name: "letters rejected", in: str("0101234567a"), want: false},
		{name: "formatting allowed", in: str("(010) 1234-5678"), want: true},
		{name: "country code too long", in: str("+82 10-1234-5678"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidOptionalPhone(tt.in))
		})
	}
}
