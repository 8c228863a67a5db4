package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("2026-03-14T08:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 8, 30, 0, 0, time.Local), *got)

	got, err = ParseDateTime("2026-03-14T08:30:00Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)))

	got, err = ParseDateTime("  ")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseDateTime("14/03/2026")
	assert.Error(t, err)
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2026, 3, 14, 8, 30, 0, 0, time.Local)
	assert.Equal(t, "2026-03-14T08:30", FormatDateTime(&ts))
	assert.Equal(t, "", FormatDateTime(nil))
}

func TestOptionalValues(t *testing.T) {
	assert.Nil(t, OptionalString(" "))
	assert.Equal(t, "Gdańsk", *OptionalString(" Gdańsk "))

	f, err := OptionalFloat("12,5")
	require.NoError(t, err)
	assert.Equal(t, 12.5, *f)

	f, err = OptionalFloat("")
	require.NoError(t, err)
	assert.Nil(t, f)

	for _, raw := range []string{"abc", "NaN", "Inf", "+Inf", "-inf"} {
		_, err = OptionalFloat(raw)
		assert.Error(t, err, raw)
	}

	i, err := OptionalInt("30")
	require.NoError(t, err)
	assert.Equal(t, 30, *i)
}

func TestParseIDs(t *testing.T) {
	ids, err := ParseIDs([]string{"3,1", "", "3", " 2 "})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids)

	_, err = ParseIDs([]string{"x"})
	assert.Error(t, err)

	_, err = ParseID("0")
	assert.Error(t, err)
}
