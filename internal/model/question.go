package model

import (
	"fmt"
	"time"
)

// ArtifactPrefix is the base name of every downloadable file.
const ArtifactPrefix = "math_questions"

// UploadedFile is a validated upload held in memory for the duration of one request.
type UploadedFile struct {
	Filename string
	Data     []byte
}

// GenerationOptions tune the prompt sent to the LLM. Zero values fall back to defaults.
type GenerationOptions struct {
	Subject       string   `json:"subject,omitempty"`
	NumQuestions  int      `json:"numQuestions,omitempty"`
	QuestionTypes []string `json:"questionTypes,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
}

// GenerationResult is the body of a successful upload.
type GenerationResult struct {
	Success bool   `json:"success"`
	Latex   string `json:"latex"`
}

// DownloadRequest carries a previously generated document back to the server.
// IncludeSolutions defaults to true when omitted.
type DownloadRequest struct {
	Latex            string `json:"latex"`
	IncludeSolutions *bool  `json:"includeSolutions,omitempty"`
}

// WantsSolutions reports whether solution blocks should be kept.
func (r DownloadRequest) WantsSolutions() bool {
	return r.IncludeSolutions == nil || *r.IncludeSolutions
}

// Artifact is a file ready to be streamed to the client.
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ArtifactName builds math_questions_<YYYYMMDD_HHMMSS>.<ext>.
func ArtifactName(ext string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", ArtifactPrefix, at.Format("20060102_150405"), ext)
}
