package curation

import (
	"context"
	"fmt"
	"strings"

	"github.com/akolanti/kbcurator/internal/chips"
	"github.com/akolanti/kbcurator/internal/classifier"
	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/chipModel"
	"github.com/akolanti/kbcurator/internal/domain/commonModels"
	"github.com/akolanti/kbcurator/internal/domain/fileModel"
	"github.com/akolanti/kbcurator/internal/metrics"
	"github.com/akolanti/kbcurator/internal/validator"
	"github.com/akolanti/kbcurator/pkg/logger_i"
)

// Service is what the workers and the MCP tools call. Each call is one
// logical batch, so duplicate detection never spans two requests.
type Service interface {
	ClassifyFile(fd fileModel.FileDescriptor) fileModel.ClassificationResult
	Classify(ctx context.Context, files []fileModel.FileDescriptor) (fileModel.MappingArtifact, error)
	Validate(ctx context.Context, req ValidateRequest) (chipModel.Report, error)
}

const DefaultBatch = "default"

// BatchName is the name a request's records are reported under.
func BatchName(batch string) string {
	if batch == "" {
		return DefaultBatch
	}
	return batch
}

type ValidateRequest struct {
	Batch    string
	FileName string
	Schema   string
	Content  string
}

type service struct {
	classifier *classifier.Classifier
	validation config.ValidatorConfig
	logger     *logger_i.Logger
}

func NewService(c *classifier.Classifier, validation config.ValidatorConfig) Service {
	return &service{
		classifier: c,
		validation: validation,
		logger:     logger_i.NewLogger("curation_service"),
	}
}

func (s *service) ClassifyFile(fd fileModel.FileDescriptor) fileModel.ClassificationResult {
	return s.classifier.Classify(fd)
}

func (s *service) Classify(ctx context.Context, files []fileModel.FileDescriptor) (fileModel.MappingArtifact, error) {
	if err := ctx.Err(); err != nil {
		return fileModel.MappingArtifact{}, err
	}
	artifact := s.classifier.ClassifyAll(files)
	metrics.CountClassified(artifact.Summary.ByBucket)
	s.logger.Debug("classified files", "total", artifact.Summary.TotalFilesClassified)
	return artifact, nil
}

// Validate checks the JSONL content as a single batch. An empty schema name
// means the configured default.
func (s *service) Validate(ctx context.Context, req ValidateRequest) (chipModel.Report, error) {
	cfg := s.validation
	if req.Schema != "" {
		cfg.Schema = req.Schema
	}
	schema, err := validator.FromConfig(cfg)
	if err != nil {
		return chipModel.Report{}, err
	}

	name := req.FileName
	if name == "" {
		name = "upload.jsonl"
	}
	records, err := chips.ReadJSONLFrom(strings.NewReader(req.Content), name)
	if err != nil {
		return chipModel.Report{}, err
	}
	if len(records) == 0 {
		return chipModel.Report{}, fmt.Errorf("%s: %w", name, commonModels.ErrEmptyBatch)
	}

	batch := BatchName(req.Batch)
	report, err := validator.New(schema, cfg.Workers).Run(ctx, []validator.NamedBatch{
		{Name: batch, Source: name, Records: records},
	})
	if err != nil {
		return report, err
	}
	report.Scanned = chipModel.Scanned{Batches: map[string]string{batch: name}}

	metrics.CountValidated(schema.Name, report.Summary.Valid, report.Summary.Invalid)
	s.logger.Debug("validated batch", "batch", batch, "schema", schema.Name,
		"total", report.Summary.Total, "invalid", report.Summary.Invalid)
	return report, nil
}
