package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinuteOfDay(t *testing.T) {
	m, err := ParseMinuteOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, MinuteOfDay(570), m)
	assert.Equal(t, "09:30", m.String())

	midnight, err := ParseMinuteOfDay("00:00")
	require.NoError(t, err)
	assert.Equal(t, MinuteOfDay(0), midnight)

	_, err = ParseMinuteOfDay("25:00")
	assert.Error(t, err)
	_, err = ParseMinuteOfDay("9:30am")
	assert.Error(t, err)
}

func TestMinuteOfDay_JSON(t *testing.T) {
	type slot struct {
		Start MinuteOfDay `json:"start"`
	}

	data, err := json.Marshal(slot{Start: 810})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"13:30"}`, string(data))

	var decoded slot
	require.NoError(t, json.Unmarshal([]byte(`{"start":"07:45"}`), &decoded))
	assert.Equal(t, MinuteOfDay(465), decoded.Start)

	assert.Error(t, json.Unmarshal([]byte(`{"start":"noon"}`), &decoded))
}

func TestMinuteOfDay_OnDate(t *testing.T) {
	date := time.Date(2026, 1, 15, 23, 59, 0, 0, time.FixedZone("CET", 3600))
	at := MinuteOfDay(600).OnDate(date)
	assert.Equal(t, time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC), at)
}

func TestExamSession_Contains(t *testing.T) {
	s := ExamSession{
		StartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, s.Contains(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)), "start date is inclusive")
	assert.True(t, s.Contains(time.Date(2026, 2, 10, 15, 30, 0, 0, time.UTC)), "end date is inclusive")
	assert.True(t, s.Contains(time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)))
	assert.False(t, s.Contains(time.Date(2026, 1, 4, 23, 0, 0, 0, time.UTC)))
	assert.False(t, s.Contains(time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)))
}

func TestTermStatus_Valid(t *testing.T) {
	for _, s := range []TermStatus{
		TermStatusDraft, TermStatusProposedByLecturer, TermStatusProposedByStudent,
		TermStatusConflict, TermStatusApproved, TermStatusFinalized, TermStatusRejected,
	} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, TermStatus("PENDING").Valid())
	assert.False(t, TermStatus("").Valid())
}
