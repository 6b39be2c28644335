package courseapi

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
	"github.com/Eddy-Prime/SE-Complete-Project/core/schedule"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
)

type user struct {
	schedule.User
	passwordHash  []byte
	role          string
	studentNumber string
}

func (u user) fullName() string { return u.FirstName + " " + u.LastName }

func (u user) student() schedule.Student {
	return schedule.Student{User: u.User, StudentNumber: u.studentNumber}
}

// Passwords of the seeded users.
const (
	PasswordAdmin    = "admin123"
	PasswordDefault  = "password123"
	PasswordJohan    = "johanp123"
	UsernameAdmin    = "admin"
	UsernameLecturer = "professor.thompson"
	UsernameStudent  = "student.alex"
)

type dataset struct {
	users       map[string]user
	schedules   []schedule.Schedule
	assignments []assignment.Assignment
	submissions map[int][]submission.Submission // by assignment id
}

func newUser(username, first, last, email, password, role, number string) user {
	// MinCost keeps resets fast; these are fixture passwords.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return user{
		User:          schedule.User{FirstName: first, LastName: last, Username: username, Email: email},
		passwordHash:  hash,
		role:          role,
		studentNumber: number,
	}
}

func seed() *dataset {
	users := map[string]user{}
	for _, u := range []user{
		newUser(UsernameAdmin, "admin", "admin", "administration@courses.test", PasswordAdmin, session.RoleAdmin, ""),
		newUser(UsernameLecturer, "Professor", "Thompson", "professor.thompson@courses.test", PasswordDefault, session.RoleLecturer, ""),
		newUser("johanp", "Johan", "Pieck", "johan.pieck@courses.test", PasswordJohan, session.RoleLecturer, ""),
		newUser(UsernameStudent, "Alex", "Student", "alex.student@courses.test", PasswordDefault, session.RoleStudent, "r0785099"),
		newUser("sarah.johnson", "Sarah", "Johnson", "sarah.johnson@courses.test", PasswordDefault, session.RoleStudent, "r0785100"),
	} {
		users[u.Username] = u
	}
	alex, sarah := users[UsernameStudent].student(), users["sarah.johnson"].student()

	schedules := []schedule.Schedule{
		{ID: 1, Name: "Software Engineering", Professor: "Prof. Thompson", DayOfWeek: "Monday", TimeSlot: "09:00 - 12:00", EnrolledStudents: 25, MaxCapacity: 30, Students: []schedule.Student{alex, sarah}},
		{ID: 2, Name: "Database Design", Professor: "Prof. Garcia", DayOfWeek: "Tuesday", TimeSlot: "14:00 - 17:00", EnrolledStudents: 20, MaxCapacity: 30, Students: []schedule.Student{alex}},
		{ID: 3, Name: "Web Development", Professor: "Prof. Johnson", DayOfWeek: "Wednesday", TimeSlot: "09:00 - 12:00", EnrolledStudents: 29, MaxCapacity: 30},
		{ID: 4, Name: "Mobile App Development", Professor: "Prof. Chen", DayOfWeek: "Thursday", TimeSlot: "13:00 - 16:00", EnrolledStudents: 30, MaxCapacity: 30},
		{ID: 5, Name: "Artificial Intelligence", Professor: "Prof. Williams", DayOfWeek: "Monday", TimeSlot: "10:00 - 13:00", EnrolledStudents: 22, MaxCapacity: 25},
	}

	rubric := assignment.Criteria{Items: map[string]assignment.Criterion{
		"Code quality":  {MaxScore: 30, Weight: 0.3},
		"Functionality": {MaxScore: 40, Weight: 0.4},
		"Documentation": {MaxScore: 30, Weight: 0.3},
	}}
	assignments := []assignment.Assignment{
		{
			ID: 1, Title: "Final Project", Description: "Build a complete web application using the technologies covered in this course.",
			DueDate: core.MustParseDate("2025-05-15"), ScheduleID: 1, Schedule: "Software Engineering", EstimatedTime: "20 hours",
			GradingCriteria: rubric, Status: assignment.StatusNotStarted, IsPublished: true, HasSubmissions: true,
			Attachments: []assignment.Attachment{{Name: "project-requirements.pdf", URL: "/files/project-requirements.pdf"}},
		},
		{
			ID: 2, Title: "Midterm Assessment", Description: "Answer the questions on software design principles.",
			DueDate: core.MustParseDate("2025-04-01"), ScheduleID: 1, Schedule: "Software Engineering", EstimatedTime: "3 hours",
			GradingCriteria: assignment.Criteria{Text: "Correctness: 70%, Clarity: 30%"}, Status: assignment.StatusSubmitted, IsPublished: true,
		},
		{
			ID: 3, Title: "Database Design Project", Description: "Design a normalized schema for a library system.",
			DueDate: core.MustParseDate("2025-05-20"), ScheduleID: 2, Schedule: "Database Design", EstimatedTime: "10 hours",
			Status: assignment.StatusInProgress, IsPublished: true,
		},
		{
			ID: 4, Title: "SQL Query Optimization", Description: "Optimize the given queries and explain your choices.",
			DueDate: core.MustParseDate("2025-04-25"), ScheduleID: 2, Schedule: "Database Design",
			Status: assignment.StatusGraded, IsPublished: true,
		},
	}

	submissions := map[int][]submission.Submission{
		1: {{
			ID:             1,
			AssignmentID:   1,
			StudentName:    sarah.User.FirstName + " " + sarah.User.LastName,
			StudentNumber:  sarah.StudentNumber,
			SubmissionDate: core.MustParseDate("2025-05-10").Time(),
			Content:        "I have completed the final project as requested. The application includes all the required features.",
			Attachments: []assignment.Attachment{
				{Name: "project.zip", URL: "/files/project.zip"},
				{Name: "documentation.pdf", URL: "/files/documentation.pdf"},
			},
			Status: submission.StatusSubmitted,
		}},
	}

	return &dataset{users: users, schedules: schedules, assignments: assignments, submissions: submissions}
}
