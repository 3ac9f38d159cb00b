package ranking

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/gradeboard/gradeboard/core"
	"github.com/gradeboard/gradeboard/core/student"
)

type (
	// Entry is a student's derived standing relative to peers. It carries no
	// identity of its own beyond the owning record's id (RollNo) and is
	// recomputed fresh on every request.
	Entry struct {
		Rank       int     `json:"rank"`
		Name       string  `json:"name"`
		RollNo     string  `json:"rollNo"`
		TotalMarks int     `json:"totalMarks"`
		Percentage float64 `json:"percentage"`
		Grade      string  `json:"grade"`
	}

	Stats struct {
		TotalStudents int `json:"totalStudents"`
	}

	SubjectResult struct {
		Name  string `json:"name"`
		Marks int    `json:"marks"`
		Grade string `json:"grade"`
	}

	Summary struct {
		TotalMarks int     `json:"totalMarks"`
		Percentage float64 `json:"percentage"`
		Grade      string  `json:"grade"`
		Status     string  `json:"status"`
	}

	// Result is the single-student view served to the result page.
	Result struct {
		Student  student.Student `json:"student"`
		Subjects []SubjectResult `json:"subjects"`
		Summary  Summary         `json:"summary"`
	}

	// Engine computes ranked, graded views over student records. Pure and
	// deterministic; it never mutates its input.
	Engine struct {
		maxTotal      int
		maxPerSubject int
		scale         Scale
	}
)

func NewEngine(maxTotal, maxPerSubject int, scale Scale) (*Engine, error) {
	if maxTotal <= 0 {
		return nil, errors.New("maximum possible total must be positive")
	}
	if maxPerSubject <= 0 {
		return nil, errors.New("per-subject maximum must be positive")
	}
	if err := scale.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating grading scale")
	}
	return &Engine{maxTotal: maxTotal, maxPerSubject: maxPerSubject, scale: scale}, nil
}

func (e *Engine) MaxTotal() int { return e.maxTotal }

// Rank turns student records into a rank-ascending sequence of entries plus
// aggregate stats. Ties on total marks keep their input order and still
// receive distinct sequential ranks; that mirrors the product's published
// behavior and is deliberately not collapsed into competition ranking.
// Empty input yields an empty sequence and zero stats, not an error.
func (e *Engine) Rank(students []student.Student) ([]Entry, Stats, error) {
	entries := make([]Entry, 0, len(students))
	for _, st := range students {
		total, err := e.total(st)
		if err != nil {
			return nil, Stats{}, err
		}
		pct := e.percentage(total, e.maxTotal)
		entries = append(entries, Entry{
			Name:       st.Name,
			RollNo:     st.ID,
			TotalMarks: total,
			Percentage: pct,
			Grade:      e.scale.Grade(pct),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalMarks > entries[j].TotalMarks
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, Stats{TotalStudents: len(students)}, nil
}

// Result computes the single-student result view. Per-subject grades are read
// off the same scale against the per-subject maximum; subjects are listed
// alphabetically for a stable payload.
func (e *Engine) Result(st student.Student) (Result, error) {
	total, err := e.total(st)
	if err != nil {
		return Result{}, err
	}

	subjects := make([]SubjectResult, 0, len(st.Marks))
	for name, score := range st.Marks {
		pct := e.percentage(score, e.maxPerSubject)
		subjects = append(subjects, SubjectResult{Name: name, Marks: score, Grade: e.scale.Grade(pct)})
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })

	pct := e.percentage(total, e.maxTotal)
	grade := e.scale.Grade(pct)
	status := "Pass"
	if grade == e.scale[len(e.scale)-1].Grade {
		status = "Fail"
	}

	return Result{
		Student:  st,
		Subjects: subjects,
		Summary:  Summary{TotalMarks: total, Percentage: pct, Grade: grade, Status: status},
	}, nil
}

// total sums a student's marks, surfacing store corruption instead of
// silently coercing it.
func (e *Engine) total(st student.Student) (int, error) {
	var total int
	for subject, score := range st.Marks {
		if score < 0 {
			return 0, core.NewDataIntegrityError(
				errors.Errorf("student %s: subject %q has negative marks %d", st.ID, subject, score))
		}
		total += score
	}
	return total, nil
}

func (e *Engine) percentage(obtained, max int) float64 {
	pct := float64(obtained) / float64(max) * 100
	return math.Round(pct*100) / 100
}
