package researcher

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/academia/scipoints/core"
)

// Roles
const (
	RoleAdmin   = "admin:"
	RoleTeacher = "teacher:"
)

// Academic titles, from the lowest to the highest.
const (
	TitleAssistantLecturer  = "assistant_lecturer"
	TitleLecturer           = "lecturer"
	TitleAssistantProfessor = "assistant_professor"
	TitleProfessor          = "professor"
)

var (
	AllRoles = []string{RoleAdmin, RoleTeacher}

	Roles = []Role{
		{Name: "Teacher", Value: RoleTeacher},
		{Name: "Admin", Value: RoleAdmin},
	}

	Titles = []Title{
		{Name: "Assistant Lecturer", NameAr: "مدرس مساعد", Value: TitleAssistantLecturer, Rank: 1},
		{Name: "Lecturer", NameAr: "مدرس", Value: TitleLecturer, Rank: 2},
		{Name: "Assistant Professor", NameAr: "أستاذ مساعد", Value: TitleAssistantProfessor, Rank: 3},
		{Name: "Professor", NameAr: "أستاذ", Value: TitleProfessor, Rank: 4},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Title struct {
	Name   string `json:"name"`
	NameAr string `json:"name_ar"`
	Value  string `json:"value"`
	Rank   int    `json:"rank"`
}

// TitleRank returns the ordinal rank of an academic title; 0 when unknown.
func TitleRank(title string) int {
	for _, t := range Titles {
		if t.Value == title {
			return t.Rank
		}
	}
	return 0
}

// MaxTitleRank is the rank of the highest academic title.
func MaxTitleRank() int {
	return Titles[len(Titles)-1].Rank
}

type Researcher struct {
	ID            string    `json:"id"`
	NameAr        string    `json:"name_ar"`
	NameEn        string    `json:"name_en"`
	Email         string    `json:"email"`
	College       string    `json:"college"`
	Department    string    `json:"department"`
	AcademicTitle string    `json:"academic_title"`
	IsActive      bool      `json:"is_active"`
	Roles         []string  `json:"roles"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

// DisplayName prefers the english name.
func (r Researcher) DisplayName() string {
	if r.NameEn != "" {
		return r.NameEn
	}
	return r.NameAr
}

func (r Researcher) HasRole(role string) bool {
	for _, rl := range r.Roles {
		if strings.HasPrefix(rl, role) {
			return true
		}
	}
	return false
}

func (r Researcher) IsAdmin() bool   { return r.HasRole(RoleAdmin) }
func (r Researcher) IsTeacher() bool { return r.HasRole(RoleTeacher) }

// IsValid tells whether the researcher takes part in population-wide rankings:
// active teaching accounts with a complete college/department profile.
// Administrative accounts without the teacher role never do.
func (r Researcher) IsValid() bool {
	return r.IsActive && r.IsTeacher() && r.College != "" && r.Department != ""
}

// NewResearcher contains information needed to create a new Researcher.
type NewResearcher struct {
	NameAr        string   `json:"name_ar" validate:"required_without=NameEn,omitempty,name_,max=200"`
	NameEn        string   `json:"name_en" validate:"required_without=NameAr,omitempty,name_,max=200"`
	Email         string   `json:"email" validate:"required,email"`
	College       string   `json:"college" validate:"required,max=200"`
	Department    string   `json:"department" validate:"required,max=200"`
	AcademicTitle string   `json:"academic_title" validate:"omitempty,academictitle"`
	Roles         []string `json:"roles" validate:"omitempty,allroles"`
}

func (nr *NewResearcher) Validate(validate *validator.Validate, svc *Service) error {
	nr.clean()
	if err := validate.Struct(nr); err != nil {
		return err
	}
	return svc.checkUniqueness(nr.Email)
}

func (nr *NewResearcher) clean() {
	nr.NameAr = core.CleanString(nr.NameAr)
	nr.NameEn = core.CleanString(nr.NameEn)
	nr.Email = core.CleanString(nr.Email, true /* lower */)
	nr.College = core.CleanString(nr.College)
	nr.Department = core.CleanString(nr.Department)
	nr.AcademicTitle = core.CleanString(nr.AcademicTitle, true /* lower */)
	nr.Roles = core.CleanStrings(nr.Roles, true /* lower */)
}

// UpdateResearcher defines what information may be provided to modify an existing Researcher.
// Empty fields keep their current value.
type UpdateResearcher struct {
	NameAr        string   `json:"name_ar" validate:"omitempty,name_,max=200"`
	NameEn        string   `json:"name_en" validate:"omitempty,name_,max=200"`
	Email         string   `json:"email" validate:"omitempty,email"`
	College       string   `json:"college" validate:"omitempty,max=200"`
	Department    string   `json:"department" validate:"omitempty,max=200"`
	AcademicTitle string   `json:"academic_title" validate:"omitempty,academictitle"`
	IsActive      *bool    `json:"is_active"`
	Roles         []string `json:"roles" validate:"omitempty,allroles"`
}

func (ur *UpdateResearcher) Validate(orig Researcher, validate *validator.Validate, svc *Service) error {
	ur.NameAr = orDefault(core.CleanString(ur.NameAr), orig.NameAr)
	ur.NameEn = orDefault(core.CleanString(ur.NameEn), orig.NameEn)
	ur.Email = orDefault(core.CleanString(ur.Email, true /* lower */), orig.Email)
	ur.College = orDefault(core.CleanString(ur.College), orig.College)
	ur.Department = orDefault(core.CleanString(ur.Department), orig.Department)
	ur.AcademicTitle = orDefault(core.CleanString(ur.AcademicTitle, true /* lower */), orig.AcademicTitle)
	if ur.Roles != nil {
		ur.Roles = core.CleanStrings(ur.Roles, true /* lower */)
	}

	if err := validate.Struct(ur); err != nil {
		return err
	}
	return svc.checkUniqueness(ur.Email, orig.ID)
}

func orDefault(val, def string) string {
	if val != "" {
		return val
	}
	return def
}

// OrderingFields are the fields researchers can be ordered by.
var OrderingFields = []string{
	"name_ar", "name_en", "email", "college", "department", "academic_title", "is_active", "created_at", "updated_at",
}

type QueryFilter struct {
	Search        string   `query:"search"`
	College       string   `query:"college"`
	Department    string   `query:"department"`
	AcademicTitle string   `query:"academic_title"`
	Roles         []string `query:"role"`
	IsActive      *bool    `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.College == "" && qf.Department == "" && qf.AcademicTitle == "" &&
		qf.Roles == nil && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.College = core.CleanString(qf.College)
	qf.Department = core.CleanString(qf.Department)
	qf.AcademicTitle = core.CleanString(qf.AcademicTitle, true /* lower */)
	qf.Roles = core.CleanStrings(qf.Roles, true /* lower */)
}
