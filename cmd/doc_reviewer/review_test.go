package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewCommand_MissingInput(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "review")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "either --file or --url must be provided")
}

func TestReviewCommand_MutuallyExclusiveInput(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "review",
		"--file", "doc.txt",
		"--url", "https://example.com/doc")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "mutually exclusive")
}

func TestReviewCommand_MissingAPIKey(t *testing.T) {
	binaryPath := getBinaryPath(t)

	docFile := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(docFile, []byte("第一章 总则\n\n正文内容。"), 0o644))

	cmd := exec.Command(binaryPath, "review", "--file", docFile)

	// Clear environment to ensure no API key
	var env []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "GEMINI_API_KEY=") {
			env = append(env, e)
		}
	}
	cmd.Env = env

	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "GEMINI_API_KEY environment variable or --api-key flag is required")
}

func TestReviewCommand_InvalidScenario(t *testing.T) {
	binaryPath := getBinaryPath(t)

	docFile := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(docFile, []byte("正文内容。"), 0o644))

	cmd := exec.Command(binaryPath, "review",
		"--file", docFile,
		"--scenario", "novel",
		"--api-key", "dummy-key")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "config error")
}
