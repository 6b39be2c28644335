package grading

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
)

// RecomputeOverallGrade sums the scores of the criteria present both in criteriaGrades ("score/max")
// and in criteria. The possible total uses each criterion's declared MaxScore, never the stored max.
// It returns false when nothing has been scored yet. Malformed scores are skipped.
func RecomputeOverallGrade(criteriaGrades map[string]string, criteria map[string]assignment.Criterion) (string, bool) {
	names := make([]string, 0, len(criteriaGrades))
	for name := range criteriaGrades {
		names = append(names, name)
	}
	sort.Strings(names)

	var total, possible float64
	for _, name := range names {
		c, ok := criteria[name]
		if !ok {
			continue
		}
		score, ok := parseScore(criteriaGrades[name])
		if !ok {
			continue
		}
		total += score
		possible += c.MaxScore
	}
	if possible <= 0 {
		return "", false
	}
	return formatNumber(total) + "/" + formatNumber(possible), true
}

// Sheet is the state of the grading form.
type Sheet struct {
	CriteriaGrades map[string]string `json:"criteriaGrades"`
	Overall        string            `json:"overallGrade"`
}

// SetCriterionScore applies a single criterion edit and recomputes the overall grade.
// The overall grade is left untouched when nothing is scored.
func SetCriterionScore(s Sheet, criteria map[string]assignment.Criterion, name, value string) Sheet {
	grades := make(map[string]string, len(s.CriteriaGrades)+1)
	for k, v := range s.CriteriaGrades {
		grades[k] = v
	}
	grades[name] = value
	s.CriteriaGrades = grades
	if overall, ok := RecomputeOverallGrade(grades, criteria); ok {
		s.Overall = overall
	}
	return s
}

// parseScore reads the score part of "score/max" (or a bare number).
func parseScore(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if i := strings.Index(v, "/"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseFraction reads "score/total"; total is zero for a bare number.
func parseFraction(v string) (score, total float64, err error) {
	v = strings.TrimSpace(v)
	parts := strings.SplitN(v, "/", 2)
	if score, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return 0, 0, err
	}
	if len(parts) == 2 {
		if total, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
			return 0, 0, err
		}
	}
	return score, total, nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
