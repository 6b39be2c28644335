package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtures() []Schedule {
	return []Schedule{
		{ID: 1, Name: "Software Engineering", Professor: "Prof. Thompson", DayOfWeek: "Monday", TimeSlot: "09:00 - 12:00", EnrolledStudents: 25, MaxCapacity: 30, IsEnrolled: true},
		{ID: 2, Name: "Database Design", Professor: "Prof. Garcia", DayOfWeek: "Tuesday", TimeSlot: "14:00 - 17:00", EnrolledStudents: 20, MaxCapacity: 30, IsEnrolled: true},
		{ID: 3, Name: "Web Development", Professor: "Prof. Johnson", DayOfWeek: "Wednesday", TimeSlot: "09:00 - 12:00", EnrolledStudents: 28, MaxCapacity: 30},
		{ID: 4, Name: "Mobile App Development", Professor: "Prof. Chen", DayOfWeek: "Thursday", TimeSlot: "13:00 - 16:00", EnrolledStudents: 30, MaxCapacity: 30},
		{ID: 5, Name: "Artificial Intelligence", Professor: "Prof. Williams", DayOfWeek: "Monday", TimeSlot: "09:00 - 12:00", EnrolledStudents: 22, MaxCapacity: 25, HasConflict: true},
	}
}

func ids(schedules []Schedule) []int {
	out := make([]int, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, s.ID)
	}
	return out
}

func TestBoard_buckets(t *testing.T) {
	board := NewBoard(fixtures())

	assert.Equal(t, []int{3, 4, 5}, ids(board.Available()))
	assert.Equal(t, []int{1, 2}, ids(board.Enrolled()))
}

func TestReduce_enrolled(t *testing.T) {
	board := NewBoard(fixtures())
	alex := Student{User: User{FirstName: "Alex", LastName: "Student", Username: "student.alex"}, StudentNumber: "r0785099"}

	next := Reduce(board, Enrolled{ScheduleID: 3, Student: alex})

	s, ok := next.Find(3)
	require.True(t, ok)
	assert.Equal(t, 29, s.EnrolledStudents)
	assert.True(t, s.IsEnrolled)
	assert.True(t, s.HasStudent("r0785099"))
	assert.Equal(t, []int{4, 5}, ids(next.Available()))
	assert.Equal(t, []int{1, 2, 3}, ids(next.Enrolled()))

	// the previous state is untouched
	prev, _ := board.Find(3)
	assert.Equal(t, 28, prev.EnrolledStudents)
	assert.False(t, prev.IsEnrolled)
	assert.Empty(t, prev.Students)
}

func TestReduce_neverExceedsCapacity(t *testing.T) {
	board := NewBoard(fixtures())
	next := Reduce(board, Enrolled{ScheduleID: 4, Student: Student{StudentNumber: "x"}})

	s, _ := next.Find(4)
	assert.Equal(t, 30, s.EnrolledStudents)
	assert.False(t, s.IsEnrolled)
}

func TestSchedule_Control(t *testing.T) {
	tests := []struct {
		name     string
		schedule Schedule
		want     Control
	}{
		{name: "open", schedule: Schedule{EnrolledStudents: 28, MaxCapacity: 30}, want: Control{Label: "Enroll", Capacity: "28/30"}},
		{name: "one seat left", schedule: Schedule{EnrolledStudents: 29, MaxCapacity: 30}, want: Control{Label: "Enroll", Capacity: "29/30"}},
		{name: "full", schedule: Schedule{EnrolledStudents: 30, MaxCapacity: 30}, want: Control{Label: "Full", Disabled: true, Capacity: "30/30"}},
		{name: "conflict", schedule: Schedule{EnrolledStudents: 22, MaxCapacity: 25, HasConflict: true}, want: Control{Label: "Enroll", Disabled: true, Capacity: "22/25"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.schedule.Control())
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Schedule
		want bool
	}{
		{name: "same slot", a: Schedule{DayOfWeek: "Monday", TimeSlot: "09:00 - 12:00"}, b: Schedule{DayOfWeek: "monday", TimeSlot: "09:00 - 12:00"}, want: true},
		{name: "partial", a: Schedule{DayOfWeek: "Monday", TimeSlot: "09:00 - 12:00"}, b: Schedule{DayOfWeek: "Monday", TimeSlot: "11:00 - 13:00"}, want: true},
		{name: "adjacent", a: Schedule{DayOfWeek: "Monday", TimeSlot: "09:00 - 12:00"}, b: Schedule{DayOfWeek: "Monday", TimeSlot: "12:00 - 13:00"}},
		{name: "other day", a: Schedule{DayOfWeek: "Monday", TimeSlot: "09:00 - 12:00"}, b: Schedule{DayOfWeek: "Friday", TimeSlot: "09:00 - 12:00"}},
		{name: "unparsable equal", a: Schedule{DayOfWeek: "Monday", TimeSlot: "morning"}, b: Schedule{DayOfWeek: "Monday", TimeSlot: "morning"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
		})
	}
}
