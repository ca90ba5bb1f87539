package ranking

import (
	"context"
	"net/mail"
	"time"

	"github.com/academia/scipoints/core"
	"github.com/academia/scipoints/core/points"
	"github.com/academia/scipoints/core/researcher"
)

const reportTemplate = "points_report"

var nowFunc = time.Now // mockable

type ReportData struct {
	Name              string
	Period            string
	Score             float64
	CollegeRank       int
	TotalInCollege    int
	Percentile        int
	DepartmentRank    int
	TotalInDepartment int
	Categories        []points.CategoryTotal // only those with records
}

// NewReportData summarizes snap for r.
func NewReportData(r researcher.Researcher, snap Snapshot, period string) ReportData {
	data := ReportData{
		Name:              r.DisplayName(),
		Period:            period,
		Score:             snap.Score,
		CollegeRank:       snap.CollegeRank,
		TotalInCollege:    snap.TotalInCollege,
		Percentile:        snap.Percentile,
		DepartmentRank:    snap.DepartmentRank,
		TotalInDepartment: snap.TotalInDepartment,
		Categories:        make([]points.CategoryTotal, 0),
	}
	for _, c := range snap.Breakdown.Categories {
		if c.Count > 0 {
			data.Categories = append(data.Categories, c)
		}
	}
	return data
}

// ReportMessage builds the points report email of r, placed within the current population.
func (svc *Service) ReportMessage(ctx context.Context, r researcher.Researcher) (*core.EmailMessage, error) {
	snap, err := svc.Snapshot(ctx, r.ID, svc.Options(0))
	if err != nil {
		return nil, err
	}
	period := "all records as of " + nowFunc().UTC().Format("2006-01-02")
	return &core.EmailMessage{
		To:           []mail.Address{{Name: r.DisplayName(), Address: r.Email}},
		Subject:      "Your scientific points",
		TemplateName: reportTemplate,
		TemplateData: NewReportData(r, snap, period),
	}, nil
}
