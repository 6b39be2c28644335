package schedule

// Board is the list of schedules shown to a user. Available and Enrolled are always
// derived from the same list, so a schedule is in exactly one of them.
type Board struct {
	Schedules []Schedule `json:"-"`
}

func NewBoard(schedules []Schedule) Board {
	return Reduce(Board{}, Loaded{Schedules: schedules})
}

func (b Board) Available() []Schedule { return b.filter(false) }
func (b Board) Enrolled() []Schedule  { return b.filter(true) }

func (b Board) filter(enrolled bool) []Schedule {
	out := make([]Schedule, 0, len(b.Schedules))
	for _, s := range b.Schedules {
		if s.IsEnrolled == enrolled {
			out = append(out, s)
		}
	}
	return out
}

func (b Board) Find(id int) (Schedule, bool) {
	for _, s := range b.Schedules {
		if s.ID == id {
			return s, true
		}
	}
	return Schedule{}, false
}

// Action is a state transition of a Board.
type Action interface {
	isAction()
}

type (
	// Loaded replaces the board with freshly fetched schedules.
	Loaded struct {
		Schedules []Schedule
	}

	// Enrolled records a successful enrollment confirmed by the courses API.
	Enrolled struct {
		ScheduleID int
		Student    Student
	}
)

func (Loaded) isAction()   {}
func (Enrolled) isAction() {}

// Reduce returns the board resulting from applying action to b. b is left untouched.
func Reduce(b Board, action Action) Board {
	switch a := action.(type) {
	case Loaded:
		schedules := make([]Schedule, len(a.Schedules))
		copy(schedules, a.Schedules)
		return Board{Schedules: schedules}

	case Enrolled:
		schedules := make([]Schedule, len(b.Schedules))
		copy(schedules, b.Schedules)
		for i, s := range schedules {
			if s.ID != a.ScheduleID || s.IsEnrolled || s.IsFull() {
				continue
			}
			roster := make([]Student, len(s.Students), len(s.Students)+1)
			copy(roster, s.Students)
			s.Students = append(roster, a.Student)
			s.EnrolledStudents++
			s.IsEnrolled = true
			schedules[i] = s
		}
		return Board{Schedules: schedules}
	}
	return b
}
