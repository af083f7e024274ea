package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quizgen/internal/apperror"
	compMocks "quizgen/internal/compiler/mocks"
	extMocks "quizgen/internal/extractor/mocks"
	genMocks "quizgen/internal/generator/mocks"
	"quizgen/internal/metrics"
	"quizgen/internal/model"
)

var fixedNow = time.Date(2024, time.May, 17, 9, 30, 5, 0, time.UTC)

type fixture struct {
	ext  *extMocks.MockExtractor
	gen  *genMocks.MockGenerator
	comp *compMocks.MockCompiler
	svc  QuestionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	pm, err := metrics.NewPipeline(prometheus.NewRegistry())
	require.NoError(t, err)

	f := &fixture{
		ext:  new(extMocks.MockExtractor),
		gen:  new(genMocks.MockGenerator),
		comp: new(compMocks.MockCompiler),
	}
	f.svc = NewQuestionService(f.ext, f.gen, f.comp, Config{
		AllowedExtensions: []string{"pdf"},
		Metrics:           pm,
		Logger:            logger,
		Now:               func() time.Time { return fixedNow },
	})
	return f
}

func TestQuestionService_ValidateFilename(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		filename string
		wantErr  error
	}{
		{filename: "notes.pdf"},
		{filename: "NOTES.PDF"},
		{filename: "chapter.1.Pdf"},
		{filename: "", wantErr: ErrNoFilename},
		{filename: "notes.txt", wantErr: ErrFileType},
		{filename: "notes.docx", wantErr: ErrFileType},
		{filename: "notes", wantErr: ErrFileType},
		{filename: "pdf", wantErr: ErrFileType},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			err := f.svc.ValidateFilename(tt.filename)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		})
	}
}

func TestQuestionService_Generate(t *testing.T) {
	pdfData := []byte("%PDF-1.4 fake")
	opts := model.GenerationOptions{NumQuestions: 10}

	tests := []struct {
		name       string
		file       model.UploadedFile
		setupMocks func(f *fixture)
		want       string
		wantErr    error
		wantKind   apperror.Kind
	}{
		{
			name: "happy path",
			file: model.UploadedFile{Filename: "calc.pdf", Data: pdfData},
			setupMocks: func(f *fixture) {
				f.ext.On("Extract", mock.Anything, pdfData).Return("Limits and continuity\n", nil).Once()
				f.gen.On("Generate", mock.Anything, "Limits and continuity\n", opts).Return(`\documentclass{article}`, nil).Once()
			},
			want: `\documentclass{article}`,
		},
		{
			name:     "disallowed extension never reads content",
			file:     model.UploadedFile{Filename: "calc.txt", Data: pdfData},
			wantErr:  ErrFileType,
			wantKind: apperror.KindValidation,
		},
		{
			name:     "empty upload",
			file:     model.UploadedFile{Filename: "calc.pdf"},
			wantErr:  ErrEmptyUpload,
			wantKind: apperror.KindValidation,
		},
		{
			name: "whitespace text skips generator",
			file: model.UploadedFile{Filename: "scan.pdf", Data: pdfData},
			setupMocks: func(f *fixture) {
				f.ext.On("Extract", mock.Anything, pdfData).Return(" \n\t\n", nil).Once()
			},
			wantErr:  ErrNoText,
			wantKind: apperror.KindExtraction,
		},
		{
			name: "extraction error",
			file: model.UploadedFile{Filename: "broken.pdf", Data: pdfData},
			setupMocks: func(f *fixture) {
				f.ext.On("Extract", mock.Anything, pdfData).
					Return("", apperror.Wrap(apperror.KindExtraction, "Failed to read PDF", errors.New("bad xref"))).Once()
			},
			wantKind: apperror.KindExtraction,
		},
		{
			name: "generation error",
			file: model.UploadedFile{Filename: "calc.pdf", Data: pdfData},
			setupMocks: func(f *fixture) {
				f.ext.On("Extract", mock.Anything, pdfData).Return("text", nil).Once()
				f.gen.On("Generate", mock.Anything, "text", opts).
					Return("", apperror.New(apperror.KindGeneration, "API key not valid")).Once()
			},
			wantKind: apperror.KindGeneration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setupMocks != nil {
				tt.setupMocks(f)
			}

			res, err := f.svc.Generate(context.Background(), tt.file, opts)

			if tt.wantKind != apperror.KindUnknown {
				require.Error(t, err)
				assert.Nil(t, res)
				assert.Equal(t, tt.wantKind, apperror.KindOf(err))
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
			} else {
				require.NoError(t, err)
				assert.True(t, res.Success)
				assert.Equal(t, tt.want, res.Latex)
			}

			f.ext.AssertExpectations(t)
			f.gen.AssertExpectations(t)
			if tt.wantErr == ErrNoText || tt.wantKind == apperror.KindValidation {
				f.gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
			}
			if tt.wantKind == apperror.KindValidation {
				f.ext.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestQuestionService_Source(t *testing.T) {
	f := newFixture(t)
	doc := "\\documentclass{article}\n\\begin{document}\nΔx → 0 ünïcödé\n\\end{document}\n"

	art, err := f.svc.Source(context.Background(), model.DownloadRequest{Latex: doc})

	require.NoError(t, err)
	assert.Equal(t, []byte(doc), art.Body)
	assert.Equal(t, "math_questions_20240517_093005.tex", art.Filename)
	assert.Regexp(t, regexp.MustCompile(`^math_questions_\d{8}_\d{6}\.tex$`), art.Filename)
	assert.Equal(t, ContentTypeTeX, art.ContentType)

	_, err = f.svc.Source(context.Background(), model.DownloadRequest{})
	assert.ErrorIs(t, err, ErrNoLatex)
}

func TestQuestionService_SourceWithoutSolutions(t *testing.T) {
	f := newFixture(t)
	no := false
	doc := "\\documentclass{article}\n\\begin{document}\n\\section*{Question 1}\nQ?\n\\subsection*{Solution}\nA.\n\\end{document}\n"

	art, err := f.svc.Source(context.Background(), model.DownloadRequest{Latex: doc, IncludeSolutions: &no})

	require.NoError(t, err)
	assert.NotContains(t, string(art.Body), "Solution")
	assert.Contains(t, string(art.Body), "Q?")
}

func TestQuestionService_Render(t *testing.T) {
	doc := "\\documentclass{article}\n\\begin{document}\nhi\n\\end{document}\n"

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.comp.On("Compile", mock.Anything, doc).Return([]byte("%PDF-1.5 ..."), nil).Once()

		art, err := f.svc.Render(context.Background(), model.DownloadRequest{Latex: doc})

		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.5 ..."), art.Body)
		assert.Equal(t, "math_questions_20240517_093005.pdf", art.Filename)
		assert.Equal(t, ContentTypePDF, art.ContentType)
		f.comp.AssertExpectations(t)
	})

	t.Run("missing latex", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Render(context.Background(), model.DownloadRequest{})

		assert.ErrorIs(t, err, ErrNoLatex)
		f.comp.AssertNotCalled(t, "Compile", mock.Anything, mock.Anything)
	})

	t.Run("compiler errors pass through with their kind", func(t *testing.T) {
		for _, kind := range []apperror.Kind{
			apperror.KindCompilationFailure,
			apperror.KindCompilationTimeout,
			apperror.KindCompilerUnavailable,
		} {
			f := newFixture(t)
			f.comp.On("Compile", mock.Anything, doc).Return(nil, apperror.New(kind, "msg")).Once()

			_, err := f.svc.Render(context.Background(), model.DownloadRequest{Latex: doc})

			assert.Equal(t, kind, apperror.KindOf(err))
		}
	})
}
