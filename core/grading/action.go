package grading

import (
	"sort"
	"strings"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
)

// Action is what a lecturer does with a submission: Grade or RequestRevision.
type Action interface {
	action()
}

type Grade struct {
	CriteriaGrades map[string]string `json:"criteriaGrades"`
	Overall        string            `json:"overallGrade"`
	Feedback       string            `json:"feedback"`
}

// RequestRevision sends feedback only, no grade is recorded.
type RequestRevision struct {
	Feedback string `json:"feedback"`
}

func (Grade) action()           {}
func (RequestRevision) action() {}

// Policy is the valid range of a manually entered overall grade.
type Policy struct {
	Min float64
	Max float64
}

func NewPolicy(conf *core.Config) Policy {
	return Policy{Min: conf.Grading.MinGrade, Max: conf.Grading.MaxGrade}
}

// Validate checks the grade against the assignment criteria and returns it with
// the overall grade recomputed from the criteria when any were scored.
func (p Policy) Validate(g Grade, criteria assignment.Criteria) (Grade, error) {
	g.Feedback = strings.TrimSpace(g.Feedback)
	g.Overall = strings.TrimSpace(g.Overall)

	// scores for criteria outside the rubric are dropped
	scored := make(map[string]string, len(g.CriteriaGrades))
	for name, v := range g.CriteriaGrades {
		if _, ok := criteria.Items[name]; criteria.IsStructured() && !ok {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			scored[name] = v
		}
	}
	g.CriteriaGrades = scored

	fromCriteria := false
	if criteria.IsStructured() {
		if overall, ok := RecomputeOverallGrade(scored, criteria.Items); ok {
			g.Overall = overall
			fromCriteria = true
		}
	}

	if g.Overall == "" {
		return g, core.NewFieldError("overallGrade", errOverallRequired)
	}
	if g.Feedback == "" {
		return g, &MissingFeedbackError{}
	}

	if fromCriteria {
		names := make([]string, 0, len(scored))
		for name := range scored {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			v, c := scored[name], criteria.Items[name]
			score, ok := parseScore(v)
			if !ok || score < 0 || score > c.MaxScore {
				return g, &InvalidGradeError{Grade: v, Criterion: name, Min: 0, Max: c.MaxScore}
			}
			scored[name] = formatNumber(score) + "/" + formatNumber(c.MaxScore)
		}
		return g, nil
	}

	score, total, err := parseFraction(g.Overall)
	if err != nil {
		return g, &InvalidGradeError{Grade: g.Overall, Min: p.Min, Max: p.Max}
	}
	if total > 0 {
		if score < 0 || score > total {
			return g, &InvalidGradeError{Grade: g.Overall, Min: 0, Max: total}
		}
		return g, nil
	}
	if score < p.Min || score > p.Max {
		return g, &InvalidGradeError{Grade: g.Overall, Min: p.Min, Max: p.Max}
	}
	return g, nil
}
