package researcher

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/academia/scipoints/core"
)

var (
	allRolesTag  = "allroles"
	allRolesText = "invalid roles"

	academicTitleTag  = "academictitle"
	academicTitleText = "invalid academic title"
)

// InitValidators registers the researcher validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(allRolesTag, allRolesValidation)
	core.RegisterCustomTranslation(validate, translator, allRolesTag, allRolesText)

	_ = validate.RegisterValidation(academicTitleTag, academicTitleValidation)
	core.RegisterCustomTranslation(validate, translator, academicTitleTag, academicTitleText)
}

// Custom Validators

// allRolesValidation checks that provided roles are all in AllRoles
func allRolesValidation(fl validator.FieldLevel) bool {
	roles, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	for _, role := range roles {
		if !isKnownRole(role) {
			return false
		}
	}
	return true
}

func isKnownRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func academicTitleValidation(fl validator.FieldLevel) bool {
	return TitleRank(fl.Field().String()) > 0
}
