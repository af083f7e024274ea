package service

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"quizgen/internal/apperror"
	"quizgen/internal/compiler"
	"quizgen/internal/extractor"
	"quizgen/internal/generator"
	"quizgen/internal/latex"
	"quizgen/internal/metrics"
	"quizgen/internal/model"
)

var (
	ErrNoFile      = apperror.New(apperror.KindValidation, "No file provided")
	ErrNoFilename  = apperror.New(apperror.KindValidation, "No file selected")
	ErrFileType    = apperror.New(apperror.KindValidation, "Only PDF files are allowed")
	ErrNoText      = apperror.New(apperror.KindExtraction, "Could not extract text from PDF")
	ErrNoLatex     = apperror.New(apperror.KindValidation, "No LaTeX content provided")
	ErrEmptyUpload = apperror.New(apperror.KindValidation, "Uploaded file is empty")
)

const (
	ContentTypeTeX = "text/plain; charset=utf-8"
	ContentTypePDF = "application/pdf"
)

// QuestionService defines the use cases behind the HTTP endpoints.
// It holds no per-request state; every call is independent.
type QuestionService interface {
	// ValidateFilename checks the declared filename before any content is read.
	ValidateFilename(filename string) error

	// Generate extracts text from the upload and asks the LLM for a LaTeX question set.
	Generate(ctx context.Context, file model.UploadedFile, opts model.GenerationOptions) (*model.GenerationResult, error)

	// Source returns the submitted LaTeX as a downloadable .tex artifact.
	Source(ctx context.Context, req model.DownloadRequest) (*model.Artifact, error)

	// Render compiles the submitted LaTeX and returns the PDF artifact.
	Render(ctx context.Context, req model.DownloadRequest) (*model.Artifact, error)
}

// Config carries the collaborators and settings of questionService.
// Zero values are replaced with defaults by NewQuestionService.
type Config struct {
	AllowedExtensions []string
	Metrics           *metrics.Pipeline
	Logger            logrus.FieldLogger
	Now               func() time.Time
}

type questionService struct {
	extractor extractor.Extractor
	generator generator.Generator
	compiler  compiler.Compiler
	allowed   map[string]struct{}
	metrics   *metrics.Pipeline
	log       logrus.FieldLogger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewQuestionService constructs a new QuestionService.
func NewQuestionService(ext extractor.Extractor, gen generator.Generator, comp compiler.Compiler, cfg Config) QuestionService {
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, e := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
	}
	if len(allowed) == 0 {
		allowed["pdf"] = struct{}{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &questionService{
		extractor: ext,
		generator: gen,
		compiler:  comp,
		allowed:   allowed,
		metrics:   cfg.Metrics,
		log:       cfg.Logger,
		tracer:    otel.Tracer("quizgen/internal/service"),
		now:       cfg.Now,
	}
}

func (s *questionService) ValidateFilename(filename string) error {
	if filename == "" {
		return ErrNoFilename
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := s.allowed[ext]; !ok || ext == "" {
		return ErrFileType
	}
	return nil
}

func (s *questionService) Generate(ctx context.Context, file model.UploadedFile, opts model.GenerationOptions) (*model.GenerationResult, error) {
	if err := s.ValidateFilename(file.Filename); err != nil {
		return nil, err
	}
	if len(file.Data) == 0 {
		return nil, ErrEmptyUpload
	}

	var text string
	err := s.stage(ctx, metrics.StageExtract, func(ctx context.Context) error {
		var err error
		text, err = s.extractor.Extract(ctx, file.Data)
		return err
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	var doc string
	err = s.stage(ctx, metrics.StageGenerate, func(ctx context.Context) error {
		var err error
		doc, err = s.generator.Generate(ctx, text, opts)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"filename":    file.Filename,
		"pdf_bytes":   len(file.Data),
		"text_chars":  len(text),
		"latex_chars": len(doc),
	}).Info("question set generated")

	return &model.GenerationResult{Success: true, Latex: doc}, nil
}

func (s *questionService) Source(_ context.Context, req model.DownloadRequest) (*model.Artifact, error) {
	content, err := s.prepare(req)
	if err != nil {
		return nil, err
	}
	return &model.Artifact{
		Filename:    model.ArtifactName("tex", s.now()),
		ContentType: ContentTypeTeX,
		Body:        []byte(content),
	}, nil
}

func (s *questionService) Render(ctx context.Context, req model.DownloadRequest) (*model.Artifact, error) {
	content, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	var pdf []byte
	err = s.stage(ctx, metrics.StageCompile, func(ctx context.Context) error {
		var err error
		pdf, err = s.compiler.Compile(ctx, content)
		return err
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"kind":  apperror.KindOf(err).String(),
			"error": err.Error(),
		}).Warn("pdf compilation failed")
		return nil, err
	}

	return &model.Artifact{
		Filename:    model.ArtifactName("pdf", s.now()),
		ContentType: ContentTypePDF,
		Body:        pdf,
	}, nil
}

func (s *questionService) prepare(req model.DownloadRequest) (string, error) {
	if req.Latex == "" {
		return "", ErrNoLatex
	}
	if req.WantsSolutions() {
		return req.Latex, nil
	}
	return latex.StripSolutions(req.Latex), nil
}

// stage runs fn inside a span and records its duration and outcome.
func (s *questionService) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "pipeline."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	outcome := "ok"
	if err != nil {
		kind := apperror.KindOf(err)
		outcome = kind.String()
		span.RecordError(err)
		span.SetStatus(codes.Error, kind.String())
	}
	span.SetAttributes(attribute.String("quizgen.outcome", outcome))
	s.metrics.Observe(name, outcome, time.Since(start))
	return err
}
