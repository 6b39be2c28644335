package courseapi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Eddy-Prime/SE-Complete-Project/core/schedule"
)

func TestDetectConflicts(t *testing.T) {
	schedules := []schedule.Schedule{
		{ID: 1, DayOfWeek: "Monday", TimeSlot: "09:00 - 12:00", IsEnrolled: true},
		{ID: 2, DayOfWeek: "Monday", TimeSlot: "11:00 - 13:00"},
		{ID: 3, DayOfWeek: "Monday", TimeSlot: "12:00 - 14:00"},
		{ID: 4, DayOfWeek: "Tuesday", TimeSlot: "09:00 - 12:00"},
	}

	got := detectConflicts(schedules)

	assert.False(t, got[0].HasConflict, "enrolled schedules are never flagged")
	assert.True(t, got[1].HasConflict)
	assert.False(t, got[2].HasConflict, "adjacent slots do not overlap")
	assert.False(t, got[3].HasConflict)
	assert.False(t, schedules[1].HasConflict, "input must not be modified")
}
