package student

import (
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/gradeboard/gradeboard/core"
)

var (
	validate      *validator.Validate
	maxPerSubject = 100

	marksRangeTag  = "marksrange"
	marksRangeText = "marks must be between 0 and the per-subject maximum"

	subjectNameTag  = "subjectname"
	subjectNameText = "subject names must not be blank"
)

// InitValidators registers student validations. maxSubjectScore caps each
// individual subject mark (config: grading.maxPerSubject).
func InitValidators(v *validator.Validate, translator ut.Translator, maxSubjectScore int) {
	validate = v
	if maxSubjectScore > 0 {
		maxPerSubject = maxSubjectScore
	}

	v.RegisterStructValidation(updateMarksStructValidation, UpdateMarks{})
	core.RegisterCustomTranslation(v, translator, marksRangeTag, marksRangeText)
	core.RegisterCustomTranslation(v, translator, subjectNameTag, subjectNameText)
}

func updateMarksStructValidation(sl validator.StructLevel) {
	um := sl.Current().Interface().(UpdateMarks)
	for subject, score := range um.Marks {
		if subject == "" {
			sl.ReportError(um.Marks, "marks", "Marks", subjectNameTag, "")
			continue
		}
		if score < 0 || score > maxPerSubject {
			sl.ReportError(um.Marks, "marks", "Marks", marksRangeTag, "")
		}
	}
}

// Validate runs struct validation; a nil marks mapping is rejected up front.
func (um UpdateMarks) Validate() error {
	if validate == nil {
		return validateManually(um)
	}
	if err := validate.Struct(um); err != nil {
		return err
	}
	return nil
}

// validateManually covers callers that skip InitValidators (admin tools, tests).
func validateManually(um UpdateMarks) error {
	if um.Marks == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "marks", Error: "this field is required"})
	}
	for subject, score := range um.Marks {
		if subject == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "marks", Error: subjectNameText})
		}
		if score < 0 || score > maxPerSubject {
			return core.NewValidationError(nil, core.FieldError{
				Field: "marks",
				Error: fmt.Sprintf("%q: %s", subject, marksRangeText),
			})
		}
	}
	return nil
}
