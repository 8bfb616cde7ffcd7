package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "0.50", want: 50},
		{in: "12.5", want: 1250},
		{in: " 32000 ", want: 3200000},
		{in: "0.005", want: 1},
		{in: "lol", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoney_Format(t *testing.T) {
	assert.Equal(t, "1.50", Money(150).String())
	assert.Equal(t, "-0.05", Money(-5).String())
	assert.Equal(t, "£1.50", Money(150).Format("GBP"))
	assert.Equal(t, "-£2.00", Money(-200).Format("GBP"))
	assert.Equal(t, "3.00", Money(300).Format("not-a-currency"))
	assert.Equal(t, Money(350), Money(50).Times(7))
}

func TestMoney_JSON(t *testing.T) {
	var v struct {
		Amount Money `json:"amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"amount": "12.30"}`), &v))
	assert.Equal(t, Money(1230), v.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"amount": 7.5}`), &v))
	assert.Equal(t, Money(750), v.Amount)

	assert.Error(t, json.Unmarshal([]byte(`{"amount": "abc"}`), &v))

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount": 7.50}`, string(data))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("10.25"))
	assert.Equal(t, Money(1025), m)
	require.NoError(t, m.Scan(int64(3)))
	assert.Equal(t, Money(300), m)
	require.NoError(t, m.Scan(0.5))
	assert.Equal(t, Money(50), m)
	require.NoError(t, m.Scan(nil))
	assert.Equal(t, Money(0), m)
	assert.Error(t, m.Scan(true))
}
