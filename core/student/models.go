package student

// Marks maps a subject name to the score obtained in it.
type Marks map[string]int

// Total sums all subject scores. Missing subjects simply contribute nothing.
func (m Marks) Total() int {
	var total int
	for _, score := range m {
		total += score
	}
	return total
}

// Clone returns an independent copy so callers can hand marks around without
// sharing the underlying map.
func (m Marks) Clone() Marks {
	if m == nil {
		return nil
	}
	cp := make(Marks, len(m))
	for subject, score := range m {
		cp[subject] = score
	}
	return cp
}

// Student is a stored student record. ID doubles as the roll number and is
// immutable once seeded.
type Student struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ClassName    string  `json:"className"`
	Section      string  `json:"section"`
	AcademicYear string  `json:"academicYear"`
	Attendance   float64 `json:"attendance"` // percent
	Marks        Marks   `json:"marks"`
}

// UpdateMarks is the payload for a full marks replacement.
type UpdateMarks struct {
	Marks Marks `json:"marks" validate:"required"`
}
