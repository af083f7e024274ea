package compiler

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"quizgen/internal/apperror"
	"quizgen/internal/config"
	"quizgen/internal/latex"
	"quizgen/internal/storage"
)

const (
	SourceName = "questions.tex"
	OutputName = "questions.pdf"
	LogName    = "questions.log"

	DefaultTimeout = 30 * time.Second
)

// Client-facing messages.
const (
	MsgUnavailable      = "PDF compilation not available. pdflatex is not installed. Please download the LaTeX file instead and compile it locally."
	MsgTimeout          = "PDF compilation timed out"
	MsgFailed           = "LaTeX compilation failed."
	MsgInvalidStructure = "Invalid LaTeX structure: missing documentclass or document environment"
)

// Compiler renders LaTeX source into a PDF.
type Compiler interface {
	Compile(ctx context.Context, source string) ([]byte, error)
	// Available returns a KindCompilerUnavailable error when the compiler cannot be located.
	Available() error
}

// PDFLatex runs pdflatex in a fresh scratch directory per call.
// It is safe for concurrent use; calls share nothing but configuration.
type PDFLatex struct {
	binary  string
	timeout time.Duration
	workDir string
	log     logrus.FieldLogger
}

var _ Compiler = (*PDFLatex)(nil)

// NewPDFLatex constructs a PDFLatex compiler from cfg.
func NewPDFLatex(cfg config.CompilerConfig, log logrus.FieldLogger) *PDFLatex {
	binary := cfg.Binary
	if binary == "" {
		binary = "pdflatex"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PDFLatex{binary: binary, timeout: timeout, workDir: cfg.WorkDir, log: log}
}

func (c *PDFLatex) Available() error {
	if _, err := exec.LookPath(c.binary); err != nil {
		return apperror.Wrap(apperror.KindCompilerUnavailable, MsgUnavailable, err)
	}
	return nil
}

// Compile writes source to questions.tex, runs the compiler and returns questions.pdf.
// The exit code is ignored: pdflatex exits non-zero on recoverable errors and still
// produces a usable PDF, so the presence of the output file is the only success signal.
func (c *PDFLatex) Compile(ctx context.Context, source string) ([]byte, error) {
	if !latex.ValidateStructure(source) {
		return nil, apperror.New(apperror.KindCompilationFailure, MsgInvalidStructure)
	}

	var pdf []byte
	err := storage.WithTempDir(c.workDir, "latex-*", func(s storage.Scratch) error {
		if _, err := s.Put(SourceName, strings.NewReader(source)); err != nil {
			return apperror.Wrap(apperror.KindCompilationFailure, "Failed to write LaTeX source", err)
		}

		if err := c.run(ctx, s); err != nil {
			return err
		}

		rc, _, err := s.Get(OutputName)
		if err != nil {
			return apperror.New(apperror.KindCompilationFailure, firstLogError(s))
		}
		defer rc.Close()

		pdf, err = io.ReadAll(rc)
		if err != nil {
			return apperror.Wrap(apperror.KindCompilationFailure, "Failed to read compiled PDF", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

func (c *PDFLatex) run(ctx context.Context, s storage.Scratch) error {
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, c.binary,
		"-interaction=nonstopmode",
		"-output-directory", s.Dir(),
		s.Path(SourceName),
	)
	cmd.Dir = s.Dir()
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	// Children that inherit the pipes must not keep Wait blocked past the deadline.
	cmd.WaitDelay = 2 * time.Second

	start := time.Now()
	err := cmd.Run()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return apperror.Wrap(apperror.KindCompilerUnavailable, MsgUnavailable, err)
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		return apperror.Wrap(apperror.KindCompilationTimeout, MsgTimeout, err)
	case ctx.Err() != nil:
		return ctx.Err()
	}

	c.log.WithFields(logrus.Fields{
		"error":    err.Error(),
		"duration": time.Since(start).String(),
	}).Debug("pdflatex exited with non-zero status")
	return nil
}

// firstLogError returns the first line of the compiler log that starts with "!".
// This is a best-effort parse of pdflatex's human-readable log; the generic message is
// returned when the log is missing or has no such line.
func firstLogError(s storage.Scratch) string {
	rc, _, err := s.Get(LogName)
	if err != nil {
		return MsgFailed
	}
	defer rc.Close()

	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, "!") {
			return line
		}
	}
	return MsgFailed
}
