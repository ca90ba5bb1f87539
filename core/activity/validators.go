package activity

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/academia/scipoints/core"
)

var (
	kindTag  = "activitykind"
	kindText = "unknown activity kind"

	classificationTag  = "classification"
	classificationText = "unknown classification"

	dateOrYearTag  = "date_or_year"
	dateOrYearText = "one of date or year is required"
)

// InitValidators registers the activity validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(kindTag, kindValidation)
	core.RegisterCustomTranslation(validate, translator, kindTag, kindText)

	_ = validate.RegisterValidation(classificationTag, classificationValidation)
	core.RegisterCustomTranslation(validate, translator, classificationTag, classificationText)

	validate.RegisterStructValidation(newActivityStructValidation, NewActivity{})
	core.RegisterCustomTranslation(validate, translator, dateOrYearTag, dateOrYearText)
}

// Custom Validators

func kindValidation(fl validator.FieldLevel) bool {
	return Kind(fl.Field().String()).IsValid()
}

func classificationValidation(fl validator.FieldLevel) bool {
	tag := fl.Field().String()
	for _, c := range Classifications {
		if c == tag {
			return true
		}
	}
	return false
}

// newActivityStructValidation checks that the activity can be dated.
func newActivityStructValidation(sl validator.StructLevel) {
	na, ok := sl.Current().Interface().(NewActivity)
	if !ok {
		return
	}
	if na.Date == "" && na.Year == 0 {
		sl.ReportError(na.Date, "date", "Date", dateOrYearTag, "")
		sl.ReportError(na.Year, "year", "Year", dateOrYearTag, "")
	}
}
