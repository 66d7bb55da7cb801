package service

import (
	"alcyxob/kinevo/internal/domain"
	"alcyxob/kinevo/internal/metrics"
	"alcyxob/kinevo/internal/report"
	"alcyxob/kinevo/internal/repository"
	"alcyxob/kinevo/internal/storage"
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrUnsupportedFormat  = errors.New("report format must be csv or json")
	ErrReportNotFound     = errors.New("report not found")
	ErrReportAccessDenied = errors.New("access denied to this report")
	ErrReportUploadFailed = errors.New("failed to upload report")
	ErrDownloadURLError   = errors.New("failed to generate download URL")
)

// ExportResult is a stored report and a temporary link to fetch it.
type ExportResult struct {
	Export      *domain.ReportExport `json:"export"`
	DownloadURL string               `json:"downloadUrl"`
}

type ExportService interface {
	ExportProgress(ctx context.Context, coachID, programID primitive.ObjectID, format domain.ReportFormat) (*ExportResult, error)
	ListExports(ctx context.Context, coachID, programID primitive.ObjectID) ([]domain.ReportExport, error)
	GetDownloadURL(ctx context.Context, coachID, exportID primitive.ObjectID) (string, error)
}

// exportService implements the ExportService interface.
type exportService struct {
	programRepo repository.ProgramRepository
	reportRepo  repository.ReportExportRepository
	fileStorage storage.FileStorage
	projector   *projector
	metrics     *metrics.Manager
	now         func() time.Time
}

// NewExportService creates a new instance of exportService.
func NewExportService(
	programRepo repository.ProgramRepository,
	workoutRepo repository.WorkoutRepository,
	sessionRepo repository.SessionRepository,
	reportRepo repository.ReportExportRepository,
	fileStorage storage.FileStorage,
	settings CalendarSettings,
	metricsManager *metrics.Manager,
) ExportService {
	return &exportService{
		programRepo: programRepo,
		reportRepo:  reportRepo,
		fileStorage: fileStorage,
		projector:   newProjector(workoutRepo, sessionRepo, settings, metricsManager),
		metrics:     metricsManager,
		now:         time.Now,
	}
}

// ExportProgress renders the program history up to today, stores it in
// object storage and records its metadata.
func (s *exportService) ExportProgress(ctx context.Context, coachID, programID primitive.ObjectID, format domain.ReportFormat) (*ExportResult, error) {
	contentType, ok := reportContentTypes[format]
	if !ok {
		return nil, ErrUnsupportedFormat
	}

	program, err := s.ownedProgram(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	days, err := s.projector.history(ctx, program, now)
	if err != nil {
		return nil, err
	}
	progress, err := s.projector.progress(ctx, program, now)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case domain.ReportCSV:
		err = report.ToCSV(&buf, days)
	case domain.ReportJSON:
		err = report.ToJSON(&buf, report.Summary{
			ProgramID:     progress.ProgramID,
			ProgramName:   program.Name,
			AsOf:          progress.AsOf,
			CurrentStreak: progress.CurrentStreak,
			LongestStreak: progress.LongestStreak,
			AdherenceRate: progress.AdherenceRate,
			Weekly:        progress.Weekly,
		}, days)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", format, err)
	}

	// reports/{programID}/{asOf}-{uuid}.{ext}
	objectKey := path.Join("reports", program.ID.Hex(), fmt.Sprintf("%s-%s.%s", progress.AsOf, uuid.NewString(), format))
	if err := s.fileStorage.PutObject(ctx, objectKey, contentType, buf.Bytes()); err != nil {
		log.Errorf("upload report %s: %s", objectKey, err)
		return nil, ErrReportUploadFailed
	}

	export := &domain.ReportExport{
		ProgramID:   program.ID,
		CoachID:     coachID,
		S3ObjectKey: objectKey,
		Format:      format,
		ContentType: contentType,
		Size:        int64(buf.Len()),
		AsOf:        progress.AsOf,
	}
	exportID, err := s.reportRepo.Create(ctx, export)
	if err != nil {
		// the object is unreachable without its metadata
		if delErr := s.fileStorage.DeleteObject(ctx, objectKey); delErr != nil {
			log.Warnf("failed to clean up orphaned report %s: %s", objectKey, delErr)
		}
		return nil, err
	}
	export.ID = exportID
	s.metrics.CounterReports.WithLabelValues(string(format)).Inc()

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		log.Errorf("presign report %s: %s", objectKey, err)
		return nil, ErrDownloadURLError
	}
	return &ExportResult{Export: export, DownloadURL: url}, nil
}

// ListExports lists the reports of a program owned by the coach, newest first.
func (s *exportService) ListExports(ctx context.Context, coachID, programID primitive.ObjectID) ([]domain.ReportExport, error) {
	if _, err := s.ownedProgram(ctx, coachID, programID); err != nil {
		return nil, err
	}
	return s.reportRepo.GetByProgramID(ctx, programID)
}

// GetDownloadURL presigns a fresh link for a stored report.
func (s *exportService) GetDownloadURL(ctx context.Context, coachID, exportID primitive.ObjectID) (string, error) {
	export, err := s.reportRepo.GetByID(ctx, exportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrReportNotFound
		}
		return "", err
	}
	if export.CoachID != coachID {
		return "", ErrReportAccessDenied
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, export.S3ObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		log.Errorf("presign report %s: %s", export.S3ObjectKey, err)
		return "", ErrDownloadURLError
	}
	return url, nil
}

func (s *exportService) ownedProgram(ctx context.Context, coachID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.CoachID != coachID {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}

var reportContentTypes = map[domain.ReportFormat]string{
	domain.ReportCSV:  "text/csv",
	domain.ReportJSON: "application/json",
}
