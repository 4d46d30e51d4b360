package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fleetdock/fleetdock/modules/docs/domain/aggregates/document"
	"github.com/fleetdock/fleetdock/modules/docs/domain/upload"
	"github.com/fleetdock/fleetdock/pkg/batch"
	"github.com/fleetdock/fleetdock/pkg/composables"
	"github.com/fleetdock/fleetdock/pkg/configuration"
	"github.com/fleetdock/fleetdock/pkg/eventbus"
	"github.com/fleetdock/fleetdock/pkg/serrors"
)

// BatchConfig tunes one BatchService instance. Tests shrink the delay;
// production values come from the environment.
type BatchConfig struct {
	InterUnitDelay    time.Duration
	MaxUploadSize     int64
	AllowedExtensions []string
	MaxUnits          int
	UploadWorkers     int
}

func BatchConfigFromEnv(conf *configuration.Configuration) BatchConfig {
	return BatchConfig{
		InterUnitDelay:    conf.Batch.InterUnitDelay,
		MaxUploadSize:     conf.Batch.MaxUploadSize,
		AllowedExtensions: conf.Batch.Extensions(),
		MaxUnits:          conf.Batch.MaxUnits,
		UploadWorkers:     conf.Drive.UploadWorkers,
	}
}

// BatchRequest is one multipart submission: a set of files destined for the
// same ship or crew member.
type BatchRequest struct {
	Kind       document.Kind
	TargetType document.TargetType
	TargetID   uuid.UUID
	Units      []batch.Unit
}

type BatchResponse struct {
	Report     batch.Report      `json:"report"`
	Rejections []batch.Rejection `json:"rejections,omitempty"`
}

// BatchService runs the document batch pipeline: pre-flight validation,
// strictly sequential analyze-and-create, and fire-and-forget file uploads.
type BatchService struct {
	repo      document.Repository
	analyzer  upload.Analyzer
	storage   upload.Storage
	publisher eventbus.EventBus
	uploader  *batch.Uploader
	// asyncCtx outlives any single request; upload completions write their
	// state through it.
	asyncCtx context.Context
	config   BatchConfig
}

func NewBatchService(
	asyncCtx context.Context,
	repo document.Repository,
	analyzer upload.Analyzer,
	storage upload.Storage,
	publisher eventbus.EventBus,
	config BatchConfig,
) *BatchService {
	s := &BatchService{
		repo:      repo,
		analyzer:  analyzer,
		storage:   storage,
		publisher: publisher,
		asyncCtx:  asyncCtx,
		config:    config,
	}
	s.uploader = batch.NewUploader(asyncCtx, config.UploadWorkers, s.uploadFile, s.uploadSettled)
	return s
}

// Close drains in-flight uploads. Called on server shutdown.
func (s *BatchService) Close() error {
	return s.uploader.Close()
}

func (s *BatchService) Upload(ctx context.Context, req BatchRequest) (BatchResponse, error) {
	if !document.ValidKind(req.Kind) {
		return BatchResponse{}, serrors.Invalid("DOCS_INVALID_KIND", "kind must be certificate, audit or survey")
	}
	if !document.ValidTargetType(req.TargetType) {
		return BatchResponse{}, serrors.Invalid("DOCS_INVALID_TARGET", "target_type must be ship or crew")
	}
	if req.TargetID == uuid.Nil {
		return BatchResponse{}, serrors.Invalid("DOCS_INVALID_TARGET", "target_id is required")
	}
	if s.config.MaxUnits > 0 && len(req.Units) > s.config.MaxUnits {
		return BatchResponse{}, serrors.Invalid("DOCS_TOO_MANY_FILES", "too many files in one batch")
	}

	valid, rejected := batch.Validate(req.Units, batch.Constraints{
		AllowedExtensions: s.config.AllowedExtensions,
		MaxSizeBytes:      s.config.MaxUploadSize,
	})

	logger := composables.UseLogger(ctx).WithFields(logrus.Fields{
		"target_id": req.TargetID,
		"kind":      req.Kind,
		"units":     len(valid),
		"rejected":  len(rejected),
	})
	logger.Info("batch upload started")

	report := batch.Run(ctx, valid, s.processUnit(req), batch.Options{
		InterUnitDelay: s.config.InterUnitDelay,
		OnProgress: func(p batch.Progress) {
			logger.WithFields(logrus.Fields{
				"unit_id": p.UnitID,
				"status":  p.Status,
				"done":    p.Done,
				"total":   p.Total,
			}).Debug("batch unit progress")
		},
	})

	logger.WithFields(logrus.Fields{
		"succeeded": report.SuccessCount,
		"failed":    report.FailedCount,
	}).Info("batch upload finished")

	return BatchResponse{Report: report, Rejections: rejected}, nil
}

// processUnit analyzes one file and creates its document record. The file
// itself is handed to the background uploader and never blocks the batch.
func (s *BatchService) processUnit(req BatchRequest) batch.ProcessFunc {
	return func(ctx context.Context, u batch.Unit) (batch.Outcome, error) {
		analysis, err := s.analyzer.Analyze(ctx, u.Name, u.Data)
		if err != nil {
			return batch.Outcome{}, err
		}

		title := analysis.Title
		if title == "" {
			title = strings.TrimSuffix(u.Name, filepath.Ext(u.Name))
		}
		number := analysis.DocumentNumber
		if number == "" {
			// without an official number the filename is the only identity we have
			number = u.Name
		}

		type createResult struct {
			doc        document.Document
			existingID string
		}
		res, err := composables.InTxResult(ctx, func(txCtx context.Context) (createResult, error) {
			existing, err := s.repo.GetByNumber(txCtx, req.TargetID, number)
			if err == nil {
				return createResult{existingID: existing.ID().String()}, nil
			}
			if !errors.Is(err, document.ErrNotFound) {
				return createResult{}, err
			}

			created, err := s.repo.Create(txCtx, document.New(
				req.Kind, req.TargetType, req.TargetID,
				title, number, analysis.Issuer,
				analysis.IssueDate, analysis.ExpiryDate, analysis.Fields,
			))
			if err != nil {
				return createResult{}, err
			}
			s.publisher.Publish(document.NewCreatedEvent(txCtx, created))
			return createResult{doc: created}, nil
		})
		if err != nil {
			// two units in the same batch can carry the same number; the
			// unique constraint catches what the lookup missed
			if errors.Is(err, document.ErrNumberTaken) {
				return batch.Outcome{Duplicate: true}, nil
			}
			return batch.Outcome{}, err
		}
		if res.existingID != "" {
			return batch.Outcome{Duplicate: true, ExistingID: res.existingID}, nil
		}

		s.uploader.Enqueue(batch.UploadJob{
			UnitID: res.doc.ID().String(),
			Name:   u.Name,
			Data:   u.Data,
		})

		return batch.Outcome{
			CreatedID: res.doc.ID().String(),
			Fields: map[string]string{
				"title":           res.doc.Title(),
				"document_number": res.doc.DocumentNumber(),
				"issuer":          res.doc.Issuer(),
			},
		}, nil
	}
}

// uploadFile runs on an uploader worker: store the file, then mark the record
// uploaded in one step.
func (s *BatchService) uploadFile(ctx context.Context, job batch.UploadJob) (string, error) {
	stored, err := s.storage.Save(ctx, job.Name, mimetype.Detect(job.Data).String(), job.Data)
	if err != nil {
		return "", err
	}

	id, err := uuid.Parse(job.UnitID)
	if err != nil {
		return stored.WebLink, err
	}
	if err := s.repo.SetUploadState(ctx, id, document.UploadUploaded, stored.FileID, stored.WebLink); err != nil {
		return stored.WebLink, err
	}
	return stored.WebLink, nil
}

func (s *BatchService) uploadSettled(job batch.UploadJob, link string, err error) {
	logger := composables.UseLogger(s.asyncCtx).WithField("document_id", job.UnitID)

	if err == nil {
		s.publisher.Publish(document.UploadedEvent{
			DocumentID: job.UnitID,
			Status:     document.UploadUploaded,
			WebLink:    link,
			Timestamp:  time.Now(),
		})
		logger.Info("document file uploaded")
		return
	}

	logger.WithError(err).Error("document file upload failed")
	if id, parseErr := uuid.Parse(job.UnitID); parseErr == nil {
		if stateErr := s.repo.SetUploadState(s.asyncCtx, id, document.UploadFailed, "", ""); stateErr != nil {
			logger.WithError(stateErr).Error("upload failure could not be recorded")
		}
	}
	s.publisher.Publish(document.UploadedEvent{
		DocumentID: job.UnitID,
		Status:     document.UploadFailed,
		Error:      err.Error(),
		Timestamp:  time.Now(),
	})
}
