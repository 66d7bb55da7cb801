package service

import (
	"alcyxob/kinevo/internal/domain"
	"alcyxob/kinevo/internal/storage"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestExportService(t *testing.T) (*fixture, *exportService, *storage.MemoryStorage, *domain.Program) {
	t.Helper()
	f := newFixture(t)
	program, workouts := f.activeProgram(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), weeks(4), []int{1, 3, 5})
	for _, day := range []int{1, 3, 8} {
		f.completedSession(t, program, workouts[0].ID, time.Date(2024, 1, day, 7, 0, 0, 0, time.UTC))
	}

	files := storage.NewMemoryStorage()
	svc := NewExportService(f.programs, f.workouts, f.sessions, f.reports, files, utcSettings, f.metrics).(*exportService)
	svc.now = fixedClock(time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC))
	return f, svc, files, program
}

func TestExportService_CSV(t *testing.T) {
	f, svc, files, program := newTestExportService(t)
	ctx := context.Background()

	result, err := svc.ExportProgress(ctx, f.coach.ID, program.ID, domain.ReportCSV)
	require.NoError(t, err)

	export := result.Export
	assert.Equal(t, domain.ReportCSV, export.Format)
	assert.Equal(t, "text/csv", export.ContentType)
	assert.Equal(t, "2024-01-08", export.AsOf)
	assert.True(t, strings.HasPrefix(export.S3ObjectKey, "reports/"+program.ID.Hex()+"/2024-01-08-"))
	assert.True(t, strings.HasSuffix(export.S3ObjectKey, ".csv"))
	assert.True(t, strings.HasPrefix(result.DownloadURL, "memory://"))

	obj, ok := files.Object(export.S3ObjectKey)
	require.True(t, ok)
	assert.Equal(t, int64(len(obj.Body)), export.Size)

	records, err := csv.NewReader(bytes.NewReader(obj.Body)).ReadAll()
	require.NoError(t, err)
	// header plus Jan 1 through Jan 8
	require.Len(t, records, 9)
	assert.Equal(t, []string{"2024-01-05", "Friday", "1", "missed", "Workout A", "0"}, records[5])
	assert.Equal(t, []string{"2024-01-08", "Monday", "2", "done", "Workout A", "1"}, records[8])

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CounterReports.WithLabelValues("csv")))

	listed, err := svc.ListExports(ctx, f.coach.ID, program.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, export.ID, listed[0].ID)

	url, err := svc.GetDownloadURL(ctx, f.coach.ID, export.ID)
	require.NoError(t, err)
	assert.Contains(t, url, export.S3ObjectKey)
}

func TestExportService_CSVIncludesLastDayInConfiguredTimezone(t *testing.T) {
	f, settings, program := endedSaoPauloProgram(t)
	files := storage.NewMemoryStorage()
	svc := NewExportService(f.programs, f.workouts, f.sessions, f.reports, files, settings, f.metrics).(*exportService)
	svc.now = fixedClock(time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC))

	result, err := svc.ExportProgress(context.Background(), f.coach.ID, program.ID, domain.ReportCSV)
	require.NoError(t, err)

	obj, ok := files.Object(result.Export.S3ObjectKey)
	require.True(t, ok)
	records, err := csv.NewReader(bytes.NewReader(obj.Body)).ReadAll()
	require.NoError(t, err)
	// header plus Jan 1 through Jan 28
	require.Len(t, records, 29)
	assert.Equal(t, "2024-01-01", records[1][0])
	assert.Equal(t, []string{"2024-01-28", "Sunday", "4", "done", "Workout A", "1"}, records[28])
}

func TestExportService_JSON(t *testing.T) {
	f, svc, files, program := newTestExportService(t)

	result, err := svc.ExportProgress(context.Background(), f.coach.ID, program.ID, domain.ReportJSON)
	require.NoError(t, err)

	obj, ok := files.Object(result.Export.S3ObjectKey)
	require.True(t, ok)
	assert.Equal(t, "application/json", obj.ContentType)

	var decoded struct {
		ProgramName   string `json:"program_name"`
		AdherenceRate int    `json:"adherence_rate"`
		CurrentStreak int    `json:"current_streak"`
		Count         int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(obj.Body, &decoded))
	assert.Equal(t, "Base Building", decoded.ProgramName)
	assert.Equal(t, 75, decoded.AdherenceRate)
	assert.Equal(t, 1, decoded.CurrentStreak)
	assert.Equal(t, 8, decoded.Count)
}

func TestExportService_Errors(t *testing.T) {
	f, svc, _, program := newTestExportService(t)
	ctx := context.Background()

	_, err := svc.ExportProgress(ctx, f.coach.ID, program.ID, domain.ReportFormat("xlsx"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = svc.ExportProgress(ctx, f.student.ID, program.ID, domain.ReportCSV)
	assert.ErrorIs(t, err, ErrProgramAccessDenied)

	result, err := svc.ExportProgress(ctx, f.coach.ID, program.ID, domain.ReportCSV)
	require.NoError(t, err)
	_, err = svc.GetDownloadURL(ctx, primitive.NewObjectID(), result.Export.ID)
	assert.ErrorIs(t, err, ErrReportAccessDenied)
	_, err = svc.GetDownloadURL(ctx, f.coach.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrReportNotFound)
}
