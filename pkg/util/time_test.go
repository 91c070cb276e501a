package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2026-02-05T10:00:00Z")
	require.NoError(t, err)
	assert.False(t, ts.Naive)
	assert.Equal(t, "2026-02-05T10:00:00+00:00", ts.String())

	ts, err = ParseTimestamp("2026-02-05T10:00:00.5+01:00")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-05T10:00:00.500000+01:00", ts.String())

	ts, err = ParseTimestamp("2026-02-05T10:00:00")
	require.NoError(t, err)
	assert.True(t, ts.Naive)
	assert.Equal(t, "2026-02-05T10:00:00", ts.String())

	ts, err = ParseTimestamp("2026-02-05")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-05T00:00:00", ts.String())

	_, err = ParseTimestamp("10:00:00")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestParseTimeOfDay(t *testing.T) {
	date := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)

	ts, err := ParseTimeOfDay("10:00:00", date)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-05T10:00:00", ts.String())

	ts, err = ParseTimeOfDay("10:00:00+01:00", date)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-05T10:00:00+01:00", ts.String())

	_, err = ParseTimeOfDay("nonsense", date)
	assert.Error(t, err)
}

func TestTimestampSub(t *testing.T) {
	aimed, _ := ParseTimestamp("2026-02-05T10:00:00Z")
	expected, _ := ParseTimestamp("2026-02-05T10:02:00Z")

	assert.Equal(t, 120, expected.Sub(aimed))
	assert.Equal(t, -120, aimed.Sub(expected))
}

func TestCompactDate(t *testing.T) {
	assert.Equal(t, "20260205", CompactDate("2026-02-05T10:00:00Z"))
	assert.Equal(t, "20260205", CompactDate("2026-02-05T10:00:00"))
	assert.Equal(t, "20260205", CompactDate("2026-02-05Tbroken"))
	assert.Equal(t, "00000000", CompactDate("10:00:00"))
	assert.Equal(t, "00000000", CompactDate(""))
}

func TestParseHelpers(t *testing.T) {
	assert.Nil(t, ParseFloat("", false))
	assert.Nil(t, ParseFloat("abc", true))
	assert.Equal(t, 51.5, *ParseFloat(" 51.5 ", true))

	assert.Nil(t, ParseSequence("-1", true))
	assert.Nil(t, ParseSequence("1a", true))
	assert.Equal(t, 12, *ParseSequence("12", true))

	assert.True(t, IsTrue("true"))
	assert.True(t, IsTrue("TRUE"))
	assert.False(t, IsTrue("false"))
	assert.False(t, IsTrue("1"))
	assert.False(t, IsTrue("yes"))
	assert.False(t, IsTrue(""))
}

func TestRemoveDuplicates(t *testing.T) {
	items := []string{"a", "", "b", "a", "c", "b"}

	assert.Equal(t, []string{"a", "b", "c"}, RemoveDuplicates(items, func(s string) string { return s }))

	InPlaceFilter(&items, func(s string) bool { return s != "" })
	assert.Equal(t, []string{"a", "b", "a", "c", "b"}, items)
}
