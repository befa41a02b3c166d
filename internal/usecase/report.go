package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"coursehub-backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

const gradebookSheet = "Gradebook"

var gradebookHeader = []any{
	"User", "Status", "Progress (%)", "Grade", "Quiz points",
	"Enrolled", "Last activity", "Completed",
}

type reportUsecase struct {
	Deps
}

func NewReportUsecase(deps Deps) domain.ReportUsecase {
	return &reportUsecase{Deps: deps.withDefaults()}
}

// gradebookRows computes one row per enrollment of the course.
func gradebookRows(ctx context.Context, repos domain.Repositories, courseID uint) (*domain.CourseDetail, []domain.GradebookRow, error) {
	detail, err := loadCourseDetail(ctx, repos, courseID)
	if err != nil {
		return nil, nil, err
	}
	elements := detail.Elements()

	rows := make([]domain.GradebookRow, 0, len(detail.Enrollments))
	for _, e := range detail.Enrollments {
		var records domain.ProgressRecords
		if records.LessonProgress, err = repos.Progress.GetByEnrollmentID(ctx, e.ID); err != nil {
			return nil, nil, err
		}
		if records.Attempts, err = repos.Attempts.GetByEnrollmentID(ctx, e.ID); err != nil {
			return nil, nil, err
		}
		rows = append(rows, domain.GradebookRow{
			UserID:           e.UserID,
			Status:           e.Status,
			Progress:         records.Percentage(elements),
			Grade:            e.Grade,
			EnrollmentDate:   e.EnrollmentDate,
			LastActivityDate: e.LastActivityDate,
			CompletionDate:   e.CompletionDate,
			QuizPoints:       records.QuizPoints(),
		})
	}
	return detail, rows, nil
}

// ExportGradebook renders the course gradebook as an XLSX workbook.
func (uc *reportUsecase) ExportGradebook(ctx context.Context, courseID uint) ([]byte, error) {
	detail, rows, err := gradebookRows(ctx, uc.Repos, courseID)
	if err != nil {
		return nil, storeErr("export gradebook", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gradebookSheet); err != nil {
		return nil, fmt.Errorf("export gradebook: %w", err)
	}
	if err := f.SetCellValue(gradebookSheet, "A1", detail.Title); err != nil {
		return nil, fmt.Errorf("export gradebook: %w", err)
	}
	header := gradebookHeader
	if err := f.SetSheetRow(gradebookSheet, "A3", &header); err != nil {
		return nil, fmt.Errorf("export gradebook: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return nil, fmt.Errorf("export gradebook: %w", err)
		}
		values := []any{
			r.UserID,
			string(r.Status),
			math.Round(r.Progress*100) / 100,
			optionalGrade(r.Grade),
			r.QuizPoints,
			formatDate(&r.EnrollmentDate),
			formatDate(r.LastActivityDate),
			formatDate(r.CompletionDate),
		}
		if err := f.SetSheetRow(gradebookSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("export gradebook: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export gradebook: %w", err)
	}
	uc.Log.Info("gradebook exported", "course_id", courseID, "rows", len(rows))
	return buf.Bytes(), nil
}

func optionalGrade(g *float64) any {
	if g == nil {
		return ""
	}
	return *g
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
