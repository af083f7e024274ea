package handler

import (
	_ "embed"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"quizgen/internal/compiler"
	"quizgen/internal/model"
	"quizgen/internal/service"
)

//go:embed static/index.html
var indexHTML []byte

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, svc service.QuestionService, comp compiler.Compiler) {
	app.Get("/", Index())
	app.Post("/upload", UploadQuestions(svc))
	app.Post("/download", DownloadSource(svc))
	app.Post("/download-pdf", DownloadPDF(svc))

	app.Get("/health", HealthCheck(comp))
	app.Get("/healthz", LivenessProbe())
}

// Index serves the upload page.
func Index() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Type("html").Send(indexHTML)
	}
}

// HealthCheck godoc
// @Summary      Readiness check
// @Description  Reports whether the LaTeX compiler can be resolved
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  errorPayload
// @Router       /health [get]
func HealthCheck(comp compiler.Compiler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := comp.Available(); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "pdflatex not available")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy", "compiler": "available"})
	}
}

// LivenessProbe is a dependency-free liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadQuestions godoc
// @Summary      Generate a question set from a PDF
// @Description  Extracts the text of the uploaded PDF and returns a LaTeX document with questions and solutions
// @Tags         questions
// @Accept       multipart/form-data
// @Produce      json
// @Param        file           formData  file    true   "PDF file"
// @Param        subject        formData  string  false  "Subject, defaults to mathematics"
// @Param        numQuestions   formData  int     false  "Number of questions, defaults to 10"
// @Param        questionTypes  formData  []string  false  "Question types"  collectionFormat(multi)
// @Param        difficulty     formData  string  false  "Difficulty level"
// @Success      200  {object}  model.GenerationResult
// @Failure      400  {object}  errorPayload
// @Failure      413  {object}  errorPayload
// @Failure      500  {object}  errorPayload
// @Router       /upload [post]
func UploadQuestions(svc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeServiceError(c, missingFileError(c))
		}
		// Reject by name before touching the content.
		if err := svc.ValidateFilename(fh.Filename); err != nil {
			return writeServiceError(c, err)
		}

		opts, err := parseOptions(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OPTION", err.Error())
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded file")
		}

		res, err := svc.Generate(c.UserContext(), model.UploadedFile{Filename: fh.Filename, Data: data}, opts)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// missingFileError tells an absent file part apart from an empty file input.
// A part sent with filename="" is parsed as a form value, not a file.
func missingFileError(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return service.ErrNoFile
	}
	if _, ok := form.Value["file"]; ok {
		return service.ErrNoFilename
	}
	for _, fh := range form.File["file"] {
		if fh.Filename == "" {
			return service.ErrNoFilename
		}
	}
	return service.ErrNoFile
}

var errNumQuestions = errors.New("numQuestions must be a positive integer")

// parseOptions reads the optional generation fields of the upload form.
// questionTypes may be repeated or comma separated.
func parseOptions(c *fiber.Ctx) (model.GenerationOptions, error) {
	opts := model.GenerationOptions{
		Subject:    strings.TrimSpace(c.FormValue("subject")),
		Difficulty: strings.TrimSpace(c.FormValue("difficulty")),
	}

	if v := strings.TrimSpace(c.FormValue("numQuestions")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, errNumQuestions
		}
		opts.NumQuestions = n
	}

	if form, err := c.MultipartForm(); err == nil {
		for _, v := range form.Value["questionTypes"] {
			for _, t := range strings.Split(v, ",") {
				if t = strings.TrimSpace(t); t != "" {
					opts.QuestionTypes = append(opts.QuestionTypes, t)
				}
			}
		}
	}
	return opts, nil
}

// DownloadSource godoc
// @Summary      Download the LaTeX source
// @Tags         questions
// @Accept       json
// @Produce      plain
// @Param        request  body      model.DownloadRequest  true  "Generated LaTeX"
// @Success      200      {file}    file
// @Failure      400      {object}  errorPayload
// @Router       /download [post]
func DownloadSource(svc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseDownload(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		}
		art, err := svc.Source(c.UserContext(), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return sendArtifact(c, art)
	}
}

// DownloadPDF godoc
// @Summary      Download the compiled PDF
// @Description  Compiles the LaTeX with pdflatex. Compilation is bounded by a timeout.
// @Tags         questions
// @Accept       json
// @Produce      application/pdf
// @Param        request  body      model.DownloadRequest  true  "Generated LaTeX"
// @Success      200      {file}    file
// @Failure      400      {object}  errorPayload
// @Failure      500      {object}  errorPayload
// @Router       /download-pdf [post]
func DownloadPDF(svc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseDownload(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		}
		art, err := svc.Render(c.UserContext(), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return sendArtifact(c, art)
	}
}

func parseDownload(c *fiber.Ctx) (model.DownloadRequest, error) {
	var req model.DownloadRequest
	err := c.BodyParser(&req)
	return req, err
}

func sendArtifact(c *fiber.Ctx, art *model.Artifact) error {
	c.Attachment(art.Filename)
	c.Set(fiber.HeaderContentType, art.ContentType)
	return c.Status(fiber.StatusOK).Send(art.Body)
}
