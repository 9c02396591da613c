package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCents(t *testing.T) {
	tests := []struct {
		in      string
		want    Cents
		wantErr bool
	}{
		{in: "12", want: 1200},
		{in: "12.5", want: 1250},
		{in: "12.05", want: 1205},
		{in: "0.07", want: 7},
		{in: ".5", want: 50},
		{in: "3.", want: 300},
		{in: " 7 ", want: 700},
		{in: "-3.07", want: -307},
		{in: "+4", want: 400},
		{in: "", wantErr: true},
		{in: "-", wantErr: true},
		{in: ".", wantErr: true},
		{in: "1.234", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.x", wantErr: true},
		{in: "1.+5", wantErr: true},
		{in: "1.-5", wantErr: true},
		{in: "++5", wantErr: true},
		{in: "-+5", wantErr: true},
		{in: "+-5", wantErr: true},
		{in: "1_000", wantErr: true},
		{in: "92233720368547758", want: 9223372036854775800},
		{in: "92233720368547758.07", want: 9223372036854775807},
		{in: "92233720368547758.08", wantErr: true},
		{in: "92233720368547759", wantErr: true},
		{in: "99999999999999999999", wantErr: true},
		{in: "-92233720368547758", want: -9223372036854775800},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCents(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCentsString(t *testing.T) {
	assert.Equal(t, "0.00", Cents(0).String())
	assert.Equal(t, "12.05", Cents(1205).String())
	assert.Equal(t, "-3.07", Cents(-307).String())
	assert.Equal(t, "-0.50", Cents(-50).String())
}

func TestCentsMulRate(t *testing.T) {
	assert.Equal(t, Cents(50), Cents(1000).MulRate(0.05))
	assert.Equal(t, Cents(200), Cents(1999).MulRate(0.1))
	assert.Equal(t, Cents(0), Cents(24).MulRate(0.02))
}
