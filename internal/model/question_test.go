package model

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArtifactName(t *testing.T) {
	at := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

	assert.Equal(t, "math_questions_20240305_140709.tex", ArtifactName("tex", at))
	assert.Regexp(t, regexp.MustCompile(`^math_questions_\d{8}_\d{6}\.pdf$`), ArtifactName("pdf", time.Now()))
}

func TestDownloadRequestWantsSolutions(t *testing.T) {
	no := false
	yes := true

	assert.True(t, DownloadRequest{}.WantsSolutions())
	assert.True(t, DownloadRequest{IncludeSolutions: &yes}.WantsSolutions())
	assert.False(t, DownloadRequest{IncludeSolutions: &no}.WantsSolutions())
}
