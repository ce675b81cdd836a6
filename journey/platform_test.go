package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlatform(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		want     string
	}{
		{name: "dash passes through", platform: "-", want: "-"},
		{name: "plain number passes through", platform: "12", want: "12"},
		{name: "single roman numeral", platform: "IV", want: "4"},
		{name: "nine is not one-ten", platform: "IX", want: "9"},
		{name: "nineteen", platform: "XIX", want: "19"},
		{name: "twenty", platform: "XX", want: "20"},
		{name: "tronco suffix collapses to slash", platform: "II TR", want: "2 /"},
		{name: "numeric tronco", platform: "4 TR", want: "4 /"},
		{name: "other suffix kept", platform: "III EST", want: "3 EST"},
		{name: "only leading token converted", platform: "V OVEST", want: "5 OVEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePlatform(tt.platform))
		})
	}
}

func TestCapitalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "MILANO CENTRALE", want: "Milano Centrale"},
		{in: "milano p.ta garibaldi", want: "Milano P.Ta Garibaldi"},
		{in: "REGGIO EMILIA AV", want: "Reggio Emilia Av"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, capitalizeName(tt.in))
	}
}
