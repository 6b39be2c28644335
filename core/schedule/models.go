package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
)

const (
	labelEnroll = "Enroll"
	labelFull   = "Full"
)

type User struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
}

// Student is identified by its student number.
type Student struct {
	User          User   `json:"user"`
	StudentNumber string `json:"studentnumber"`
}

// StudentFromSession builds the enrollment identity of the logged-in user.
// The username stands in for a missing student number.
func StudentFromSession(sess session.Session) Student {
	first, last := sess.FullName, ""
	if i := strings.LastIndex(sess.FullName, " "); i > 0 {
		first, last = sess.FullName[:i], sess.FullName[i+1:]
	}
	return Student{
		User:          User{FirstName: first, LastName: last, Username: sess.Username, Email: sess.Email},
		StudentNumber: sess.Identifier(),
	}
}

type Schedule struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Professor        string    `json:"professor"`
	DayOfWeek        string    `json:"dayOfWeek"`
	TimeSlot         string    `json:"timeSlot"`
	EnrolledStudents int       `json:"enrolledStudents"`
	MaxCapacity      int       `json:"maxCapacity"`
	IsEnrolled       bool      `json:"isEnrolled"`
	HasConflict      bool      `json:"hasConflict"`
	Students         []Student `json:"students,omitempty"`
}

func (s Schedule) IsFull() bool { return s.EnrolledStudents >= s.MaxCapacity }

func (s Schedule) CapacityLabel() string {
	return fmt.Sprintf("%d/%d", s.EnrolledStudents, s.MaxCapacity)
}

func (s Schedule) HasStudent(studentNumber string) bool {
	for _, st := range s.Students {
		if st.StudentNumber == studentNumber {
			return true
		}
	}
	return false
}

// Control is the state of the enroll button of a schedule.
type Control struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
	Capacity string `json:"capacity"`
}

func (s Schedule) Control() Control {
	label := labelEnroll
	if s.IsFull() {
		label = labelFull
	}
	return Control{
		Label:    label,
		Disabled: s.IsFull() || s.HasConflict,
		Capacity: s.CapacityLabel(),
	}
}

// NewSchedule contains information needed to create a new Schedule.
type NewSchedule struct {
	Name        string `json:"name" validate:"notblank"`
	Professor   string `json:"professor" validate:"notblank"`
	DayOfWeek   string `json:"dayOfWeek" validate:"notblank,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	TimeSlot    string `json:"timeSlot" validate:"notblank,timeslot"`
	MaxCapacity int    `json:"maxCapacity" validate:"gt=0"`
}

func (ns *NewSchedule) Clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Professor = core.CleanString(ns.Professor)
	ns.DayOfWeek = core.CleanString(ns.DayOfWeek)
	ns.TimeSlot = core.CleanString(ns.TimeSlot)
}

// slot is a parsed "09:00 - 12:00" time slot, in minutes since midnight.
type slot struct {
	start, end int
}

func parseSlot(s string) (slot, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return slot{}, false
	}
	start, ok := parseClock(parts[0])
	if !ok {
		return slot{}, false
	}
	end, ok := parseClock(parts[1])
	if !ok || end <= start {
		return slot{}, false
	}
	return slot{start: start, end: end}, true
}

func parseClock(s string) (int, bool) {
	hm := strings.Split(strings.TrimSpace(s), ":")
	if len(hm) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hm[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(hm[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func (a slot) overlaps(b slot) bool { return a.start < b.end && b.start < a.end }

// Overlaps reports whether two schedules take place at overlapping times on the same day.
func Overlaps(a, b Schedule) bool {
	if !strings.EqualFold(a.DayOfWeek, b.DayOfWeek) {
		return false
	}
	sa, okA := parseSlot(a.TimeSlot)
	sb, okB := parseSlot(b.TimeSlot)
	if !okA || !okB {
		return a.TimeSlot == b.TimeSlot
	}
	return sa.overlaps(sb)
}
