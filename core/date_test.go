package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	d := NewDate(2024, time.February, 28)
	assert.Equal(t, "2024-02-28", d.String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String()) // leap year
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.True(t, d.Equal(NewDate(2024, time.February, 28)))
	assert.Equal(t, "", Date{}.String())

	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 28, 0, 0, 0, 0, london), d.In(london))
}

func TestToday(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2024, time.March, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01", Today(now, time.UTC).String())
	assert.Equal(t, "2024-03-02", Today(now, tokyo).String())
}

func TestDate_JSON(t *testing.T) {
	var v struct {
		Due Date `json:"due"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due": "2024-09-05"}`), &v))
	assert.Equal(t, NewDate(2024, time.September, 5), v.Due)

	require.NoError(t, json.Unmarshal([]byte(`{"due": ""}`), &v))
	assert.True(t, v.Due.IsZero())

	err := json.Unmarshal([]byte(`{"due": "05/09/2024"}`), &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected YYYY-MM-DD")

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due": null}`, string(data))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-09-05"))
	assert.Equal(t, "2024-09-05", d.String())

	require.NoError(t, d.Scan([]byte("2024-09-06T00:00:00Z")))
	assert.Equal(t, "2024-09-06", d.String())

	require.NoError(t, d.Scan(time.Date(2024, time.September, 7, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-09-07", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, d.Scan(42))
}
