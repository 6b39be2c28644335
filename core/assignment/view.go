package assignment

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
)

type (
	SortOption string
	ViewMode   string
)

var errMissingToday = errors.New("view options need the current date")

const (
	SortDueDate  SortOption = "dueDate"
	SortTitle    SortOption = "title"
	SortSchedule SortOption = "schedule"

	ViewAll        ViewMode = "all"
	ViewBySchedule ViewMode = "bySchedule"
)

// ViewOptions are the dashboard controls. An empty Schedule or Status does not filter.
type ViewOptions struct {
	Schedule string     `query:"schedule" json:"schedule"`
	Status   string     `query:"status" json:"status"`
	Sort     SortOption `query:"sort" json:"sort"`
	View     ViewMode   `query:"view" json:"view"`
	Today    core.Date  `query:"-" json:"-"`
}

// Clean applies the defaults: sorted by due date, flat list.
func (o *ViewOptions) Clean() {
	o.Schedule = core.CleanString(o.Schedule)
	o.Status = core.CleanString(o.Status)
	if o.Sort == "" {
		o.Sort = SortDueDate
	}
	if o.View == "" {
		o.View = ViewAll
	}
}

func (o ViewOptions) Validate() error {
	var flds []core.FieldError
	if o.Status != "" && !Status(o.Status).Valid() {
		flds = append(flds, core.FieldError{Field: "status", Error: "unknown status " + o.Status})
	}
	switch o.Sort {
	case SortDueDate, SortTitle, SortSchedule:
	default:
		flds = append(flds, core.FieldError{Field: "sort", Error: "unknown sort option " + string(o.Sort)})
	}
	switch o.View {
	case ViewAll, ViewBySchedule:
	default:
		flds = append(flds, core.FieldError{Field: "view", Error: "unknown view mode " + string(o.View)})
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

type Group struct {
	Schedule    string       `json:"schedule"`
	Assignments []Assignment `json:"assignments"`
}

type View struct {
	Mode        ViewMode     `json:"viewMode"`
	Assignments []Assignment `json:"assignments"`
	Groups      []Group      `json:"groups,omitempty"`
	Schedules   []string     `json:"schedules"`
}

// DeriveView filters, sorts and groups assignments for display.
// It never modifies its input and returns the same view for the same arguments.
// opts.Today must be set; past-due flags are computed against it.
func DeriveView(assignments []Assignment, opts ViewOptions) (View, error) {
	opts.Clean()
	if err := opts.Validate(); err != nil {
		return View{}, err
	}
	if opts.Today.IsZero() {
		return View{}, errMissingToday
	}

	filtered := make([]Assignment, 0, len(assignments))
	for _, a := range assignments {
		if opts.Schedule != "" && a.Schedule != opts.Schedule {
			continue
		}
		if opts.Status != "" && string(a.Status) != opts.Status {
			continue
		}
		filtered = append(filtered, a.Decorate(opts.Today))
	}

	sort.SliceStable(filtered, lessFunc(filtered, opts.Sort))

	view := View{Mode: opts.View, Assignments: filtered, Schedules: scheduleNames(assignments)}
	if opts.View == ViewBySchedule {
		view.Groups = groupBySchedule(filtered)
	}
	return view, nil
}

func lessFunc(list []Assignment, by SortOption) func(i, j int) bool {
	switch by {
	case SortTitle:
		return func(i, j int) bool { return list[i].Title < list[j].Title }
	case SortSchedule:
		return func(i, j int) bool { return list[i].Schedule < list[j].Schedule }
	default:
		return func(i, j int) bool { return list[i].DueDate.Before(list[j].DueDate) }
	}
}

// groupBySchedule keeps the order of first appearance; empty groups cannot occur.
func groupBySchedule(list []Assignment) []Group {
	groups := make([]Group, 0)
	index := make(map[string]int)
	for _, a := range list {
		i, ok := index[a.Schedule]
		if !ok {
			i = len(groups)
			index[a.Schedule] = i
			groups = append(groups, Group{Schedule: a.Schedule})
		}
		groups[i].Assignments = append(groups[i].Assignments, a)
	}
	return groups
}

func scheduleNames(list []Assignment) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, a := range list {
		if a.Schedule != "" && !seen[a.Schedule] {
			seen[a.Schedule] = true
			names = append(names, a.Schedule)
		}
	}
	sort.Strings(names)
	return names
}
