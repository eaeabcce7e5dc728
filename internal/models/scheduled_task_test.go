package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDueAfter(t *testing.T) {
	due := time.Date(2025, 3, 1, 2, 0, 0, 0, time.UTC)
	daily := "FREQ=DAILY"
	twice := "FREQ=DAILY;COUNT=2"
	broken := "FREQ=SOMETIMES"

	tests := []struct {
		name   string
		task   ScheduledTask
		now    time.Time
		want   time.Time
		wantOK bool
	}{
		{
			name:   "one time",
			task:   ScheduledTask{Due: due, TaskType: ScheduledTaskTypeOneTime, RecurringInterval: &daily},
			now:    due,
			wantOK: false,
		},
		{
			name:   "daily skips missed runs",
			task:   ScheduledTask{Due: due, TaskType: ScheduledTaskTypeRecurring, RecurringInterval: &daily},
			now:    due.Add(50 * time.Hour),
			want:   time.Date(2025, 3, 4, 2, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "exactly on an occurrence moves to the next one",
			task:   ScheduledTask{Due: due, TaskType: ScheduledTaskTypeRecurring, RecurringInterval: &daily},
			now:    due,
			want:   due.Add(24 * time.Hour),
			wantOK: true,
		},
		{
			name:   "exhausted rule",
			task:   ScheduledTask{Due: due, TaskType: ScheduledTaskTypeRecurring, RecurringInterval: &twice},
			now:    due.Add(24 * time.Hour),
			wantOK: false,
		},
		{
			name:   "invalid rule",
			task:   ScheduledTask{Due: due, TaskType: ScheduledTaskTypeRecurring, RecurringInterval: &broken},
			now:    due,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.task.NextDueAfter(tt.now)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestAttempts(t *testing.T) {
	assert.Equal(t, 1, ScheduledTask{}.Attempts())
	assert.Equal(t, 3, ScheduledTask{MaxAttempt: 3}.Attempts())
}
