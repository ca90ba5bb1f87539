package activity

import (
	"fmt"
	"time"
)

// AcademicYearStartMonth opens the college year; it runs August to July.
const AcademicYearStartMonth = time.August

// AcademicYear is identified by the calendar year it starts in.
type AcademicYear int

// AcademicYearOf returns the academic year t falls in.
func AcademicYearOf(t time.Time) AcademicYear {
	if t.Month() >= AcademicYearStartMonth {
		return AcademicYear(t.Year())
	}
	return AcademicYear(t.Year() - 1)
}

// String formats the year as "2023-2024".
func (y AcademicYear) String() string {
	return fmt.Sprintf("%d-%d", int(y), int(y)+1)
}

// Start is the first instant of the academic year (UTC).
func (y AcademicYear) Start() time.Time {
	return time.Date(int(y), AcademicYearStartMonth, 1, 0, 0, 0, 0, time.UTC)
}

// End is the first instant of the next academic year (UTC), exclusive.
func (y AcademicYear) End() time.Time {
	return (y + 1).Start()
}

func (y AcademicYear) Contains(t time.Time) bool {
	return AcademicYearOf(t) == y
}
