package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniterm/terminarz-backend/internal/apperr"
	"github.com/uniterm/terminarz-backend/internal/model"
)

func TestSessionRangeValidator(t *testing.T) {
	f := newFixture()
	v := NewSessionRangeValidator(func() time.Time { return testNow })
	ctx := context.Background()

	t.Run("date inside range", func(t *testing.T) {
		session, err := v.Validate(ctx, f.stores.Sessions, f.session.ID, time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, f.session.ID, session.ID)
	})

	t.Run("today is allowed", func(t *testing.T) {
		_, err := v.Validate(ctx, f.stores.Sessions, f.session.ID, testNow)
		assert.NoError(t, err)
	})

	t.Run("session end date is inclusive", func(t *testing.T) {
		_, err := v.Validate(ctx, f.stores.Sessions, f.session.ID, f.session.EndDate)
		assert.NoError(t, err)
	})

	t.Run("past date rejected", func(t *testing.T) {
		_, err := v.Validate(ctx, f.stores.Sessions, f.session.ID, testNow.AddDate(0, 0, -1))
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
		assert.Contains(t, err.Error(), "past")
	})

	t.Run("date after session end rejected", func(t *testing.T) {
		_, err := v.Validate(ctx, f.stores.Sessions, f.session.ID, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
		assert.Equal(t, "date outside session range 2026-01-05 to 2026-02-10", err.Error())
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := v.Validate(ctx, f.stores.Sessions, uuid.New(), testNow)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestValidateTimeRange(t *testing.T) {
	tests := []struct {
		name    string
		start   model.MinuteOfDay
		end     model.MinuteOfDay
		wantErr bool
	}{
		{"valid window", mustMinute("09:00"), mustMinute("11:00"), false},
		{"one minute window", mustMinute("09:00"), mustMinute("09:01"), false},
		{"equal times rejected", mustMinute("09:00"), mustMinute("09:00"), true},
		{"inverted window rejected", mustMinute("11:00"), mustMinute("09:00"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTimeRange(tc.start, tc.end)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
