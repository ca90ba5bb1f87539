package activity

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/academia/scipoints/core"
)

// Kind discriminates the activity variants.
type Kind string

const (
	KindResearch                 Kind = "research"
	KindPublication              Kind = "publication"
	KindCourse                   Kind = "course"
	KindSeminar                  Kind = "seminar"
	KindWorkshop                 Kind = "workshop"
	KindConference               Kind = "conference"
	KindCommittee                Kind = "committee"
	KindThankYouBook             Kind = "thank_you_book"
	KindAssignment               Kind = "assignment"
	KindParticipationCertificate Kind = "participation_certificate"
	KindSupervision              Kind = "supervision"
	KindScientificEvaluation     Kind = "scientific_evaluation"
	KindJournalMembership        Kind = "journal_membership"
	KindVolunteerWork            Kind = "volunteer_work"
	KindPosition                 Kind = "position"
)

// Author types
const (
	AuthorSingle = "single"
	AuthorJoint  = "joint"
)

// Completion statuses
const (
	CompletionPlanned    = "planned"
	CompletionInProgress = "in_progress"
	CompletionCompleted  = "completed"
)

// Classification tags
const (
	ClassLocal     = "local"
	ClassGlobal    = "global"
	ClassScopus    = "scopus"
	ClassClarivate = "clarivate"
)

type KindInfo struct {
	Value   Kind   `json:"value"`
	Label   string `json:"label"`
	LabelAr string `json:"label_ar"`
}

var (
	Kinds = []KindInfo{
		{Value: KindResearch, Label: "Research", LabelAr: "البحوث"},
		{Value: KindPublication, Label: "Publications", LabelAr: "المؤلفات"},
		{Value: KindCourse, Label: "Courses", LabelAr: "الدورات"},
		{Value: KindSeminar, Label: "Seminars", LabelAr: "الندوات"},
		{Value: KindWorkshop, Label: "Workshops", LabelAr: "الورش"},
		{Value: KindConference, Label: "Conferences", LabelAr: "المؤتمرات"},
		{Value: KindCommittee, Label: "Committees", LabelAr: "اللجان"},
		{Value: KindThankYouBook, Label: "Thank-you books", LabelAr: "كتب الشكر"},
		{Value: KindAssignment, Label: "Assignments", LabelAr: "التكليفات"},
		{Value: KindParticipationCertificate, Label: "Participation certificates", LabelAr: "شهادات المشاركة"},
		{Value: KindSupervision, Label: "Supervision", LabelAr: "الإشراف"},
		{Value: KindScientificEvaluation, Label: "Scientific evaluations", LabelAr: "التقويم العلمي"},
		{Value: KindJournalMembership, Label: "Journal memberships", LabelAr: "عضوية المجلات"},
		{Value: KindVolunteerWork, Label: "Volunteer work", LabelAr: "الأعمال التطوعية"},
		{Value: KindPosition, Label: "Positions", LabelAr: "المناصب"},
	}

	Classifications = []string{ClassLocal, ClassGlobal, ClassScopus, ClassClarivate}
)

func (k Kind) IsValid() bool {
	_, ok := k.info()
	return ok
}

func (k Kind) Label() string {
	if info, ok := k.info(); ok {
		return info.Label
	}
	return string(k)
}

func (k Kind) info() (KindInfo, bool) {
	for _, info := range Kinds {
		if info.Value == k {
			return info, true
		}
	}
	return KindInfo{}, false
}

// Activity is one stored activity record of a researcher, any variant.
// Fields a variant does not carry are left empty.
type Activity struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Kind           Kind      `json:"kind"`
	Title          string    `json:"title"`
	Date           time.Time `json:"date"` // zero when only Year (and Month) are known
	Year           int       `json:"year,omitempty"`
	Month          int       `json:"month,omitempty"`
	Classification []string  `json:"classification"`
	Completion     string    `json:"completion,omitempty"`
	Published      bool      `json:"published"`
	AuthorType     string    `json:"author_type,omitempty"`
	Level          string    `json:"level,omitempty"` // e.g. supervision degree, committee role
	CreatedAt      time.Time `json:"created_at"`      // UTC
	UpdatedAt      time.Time `json:"updated_at"`      // UTC
}

// When resolves the date the activity happened on. Year+Month resolve to the 1st of the month,
// a lone Year to January 1st.
func (a Activity) When() (time.Time, bool) {
	if !a.Date.IsZero() {
		return a.Date, true
	}
	if a.Year <= 0 {
		return time.Time{}, false
	}
	month := time.January
	if a.Month >= 1 && a.Month <= 12 {
		month = time.Month(a.Month)
	}
	return time.Date(a.Year, month, 1, 0, 0, 0, 0, time.UTC), true
}

func (a Activity) HasTag(tag string) bool {
	for _, t := range a.Classification {
		if t == tag {
			return true
		}
	}
	return false
}

func (a Activity) IsCompleted() bool { return a.Completion == CompletionCompleted }

// IsGlobal is true for records classified global or indexed in an international index.
func (a Activity) IsGlobal() bool {
	return a.HasTag(ClassGlobal) || a.HasTag(ClassScopus) || a.HasTag(ClassClarivate)
}

func (a Activity) IsJoint() bool { return a.AuthorType == AuthorJoint }

// NewActivity contains information needed to log a new Activity.
type NewActivity struct {
	Kind           string   `json:"kind" validate:"required,activitykind"`
	Title          string   `json:"title" validate:"required,max=500"`
	Date           string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Year           int      `json:"year" validate:"omitempty,min=1950,max=2100"`
	Month          int      `json:"month" validate:"omitempty,min=1,max=12"`
	Classification []string `json:"classification" validate:"omitempty,dive,classification"`
	Completion     string   `json:"completion" validate:"omitempty,oneof=planned in_progress completed"`
	Published      bool     `json:"published"`
	AuthorType     string   `json:"author_type" validate:"omitempty,oneof=single joint"`
	Level          string   `json:"level" validate:"omitempty,max=100"`
}

func (na *NewActivity) Validate(validate *validator.Validate) error {
	na.Kind = core.CleanString(na.Kind, true /* lower */)
	na.Title = core.CleanString(na.Title)
	na.Date = core.CleanString(na.Date)
	na.Classification = core.CleanStrings(na.Classification, true /* lower */)
	na.Completion = core.CleanString(na.Completion, true /* lower */)
	na.AuthorType = core.CleanString(na.AuthorType, true /* lower */)
	na.Level = core.CleanString(na.Level, true /* lower */)
	return validate.Struct(na)
}

// parsedDate returns the zero time when Date is empty; Validate guarantees the layout.
func (na NewActivity) parsedDate() time.Time {
	if na.Date == "" {
		return time.Time{}
	}
	d, _ := time.Parse("2006-01-02", na.Date)
	return d.UTC()
}

type QueryFilter struct {
	OwnerID      string   `query:"-"`
	Kinds        []string `query:"kind"`
	AcademicYear *int     `query:"academic_year"`
}

func (qf *QueryFilter) Clean() {
	qf.Kinds = core.CleanStrings(qf.Kinds, true /* lower */)
}

// Match tells whether a satisfies the filter.
func (qf *QueryFilter) Match(a Activity) bool {
	if qf == nil {
		return true
	}
	if qf.OwnerID != "" && a.OwnerID != qf.OwnerID {
		return false
	}
	if len(qf.Kinds) > 0 {
		found := false
		for _, k := range qf.Kinds {
			if Kind(k) == a.Kind {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if qf.AcademicYear != nil {
		when, ok := a.When()
		if !ok || AcademicYearOf(when) != AcademicYear(*qf.AcademicYear) {
			return false
		}
	}
	return true
}
