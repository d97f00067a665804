package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-checker-server/internal/domain"
	"github.com/symptom-checker-server/internal/feedback"
	"github.com/symptom-checker-server/internal/setup"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SYMPTOM_CATALOG_FILE", "")
	t.Setenv("SYMPTOM_DATA_DIR", "")

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLogLevelPrecedence(t *testing.T) {
	tests := []struct {
		name string
		env  string
		args []string
		want logrus.Level
	}{
		{name: "default", args: []string{"version"}, want: logrus.WarnLevel},
		{name: "environment", env: "debug", args: []string{"version"}, want: logrus.DebugLevel},
		{name: "flag beats environment", env: "debug", args: []string{"--log-level", "error", "version"}, want: logrus.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SYMPTOM_LOG_LEVEL", tt.env)

			a := &app{}
			cmd := newRootCmdFor(a)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)
			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.want, a.logger.GetLevel())
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "symptom-checker "+domain.Version+"\n", out)
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := runCLI(t, "analyze", "Headache",
		"--age", "30", "--gender", "female",
		"--duration", "1-3-days", "--severity", "moderate",
		"--also", "nausea,fatigue")
	require.NoError(t, err)

	assert.Contains(t, out, "1. Tension Headache")
	assert.Contains(t, out, "95%  high")
	assert.Contains(t, out, "[monitor] Monitor Symptoms")
	assert.Contains(t, out, domain.Disclaimer)
	assert.NotContains(t, out, "immediate medical attention")
}

func TestAnalyzeCommandJSON(t *testing.T) {
	out, err := runCLI(t, "analyze", "cough",
		"--age", "70", "--gender", "male",
		"--duration", "1-3-days", "--severity", "severe",
		"--also", "fever", "--also", "chest pain", "--also", "shortness of breath", "--also", "fatigue",
		"--json")
	require.NoError(t, err)

	var report domain.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Emergency)
	require.NotEmpty(t, report.Results)
	assert.Equal(t, "Pneumonia", report.Results[0].Condition.Name)
}

func TestAnalyzeCommandErrors(t *testing.T) {
	_, err := runCLI(t, "analyze", "cough", "--severity", "mild")
	assert.ErrorContains(t, err, "duration")

	_, err = runCLI(t, "analyze", "cough", "--duration", "1-3-days", "--severity", "unbearable")
	assert.ErrorContains(t, err, "'severity'")

	_, err = runCLI(t, "analyze", "--duration", "1-3-days", "--severity", "mild")
	assert.Error(t, err)
}

func TestConditionsCommand(t *testing.T) {
	out, err := runCLI(t, "conditions", "Neurological")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Migraine") || strings.HasPrefix(lines[0], "Tension Headache"))

	out, err = runCLI(t, "conditions", "--json")
	require.NoError(t, err)
	var conditions []domain.Condition
	require.NoError(t, json.Unmarshal([]byte(out), &conditions))
	assert.Len(t, conditions, 10)
}

func TestNormalizeCommand(t *testing.T) {
	out, err := runCLI(t, "normalize", "Pyrexia", "foobar")
	require.NoError(t, err)
	assert.Equal(t, "Pyrexia -> fever\nfoobar -> foobar (unrecognized)\n", out)
}

func TestCatalogCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")

	_, err := runCLI(t, "catalog", "export", "-o", path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	out, err := runCLI(t, "catalog", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "10 conditions")

	// The exported file works as a replacement catalog.
	out, err = runCLI(t, "--catalog", path, "normalize", "pyrexia")
	require.NoError(t, err)
	assert.Equal(t, "pyrexia -> fever\n", out)

	_, err = runCLI(t, "catalog", "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to open catalog")
}

func TestFeedbackCommands(t *testing.T) {
	dataDir := t.TempDir()

	store, err := feedback.NewSQLiteStore(filepath.Join(dataDir, "feedback.db"))
	require.NoError(t, err)
	first := &feedback.Feedback{AnalysisID: uuid.NewString(), SuggestedCondition: "Migraine", Rating: 5, UserAgreed: true}
	second := &feedback.Feedback{AnalysisID: uuid.NewString(), SuggestedCondition: "Common Cold", Rating: 2}
	require.NoError(t, store.Save(context.Background(), first))
	require.NoError(t, store.Save(context.Background(), second))
	require.NoError(t, store.Close())

	out, err := runCLI(t, "--data-dir", dataDir, "feedback", "list")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
	assert.Contains(t, out, first.AnalysisID)

	out, err = runCLI(t, "--data-dir", dataDir, "feedback", "stats")
	require.NoError(t, err)
	var stats feedback.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, int64(2), stats.Total)
	assert.InDelta(t, 3.5, stats.AverageRating, 0.0001)

	exportPath := filepath.Join(t.TempDir(), "export.json")
	_, err = runCLI(t, "--data-dir", dataDir, "feedback", "export", "-o", exportPath)
	require.NoError(t, err)

	out, err = runCLI(t, "--data-dir", dataDir, "feedback", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted feedback 1\n", out)

	_, err = runCLI(t, "--data-dir", dataDir, "feedback", "delete", "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = runCLI(t, "--data-dir", dataDir, "feedback", "delete", "abc")
	assert.ErrorContains(t, err, "invalid id")

	out, err = runCLI(t, "--data-dir", dataDir, "feedback", "import", exportPath)
	require.NoError(t, err)
	assert.Equal(t, "Imported 1, skipped 1\n", out)
}

func TestSetupCommands(t *testing.T) {
	dataDir := t.TempDir()
	clientConfig := filepath.Join(t.TempDir(), "client.json")
	binary := filepath.Join(t.TempDir(), "mcp-server-lite")
	require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\n"), 0o755))

	out, err := runCLI(t, "--data-dir", dataDir, "setup", "install", "--client-config", clientConfig, "--binary", binary)
	require.NoError(t, err)
	assert.Contains(t, out, "Registered symptom-checker")

	out, err = runCLI(t, "--data-dir", dataDir, "setup", "status", "--client-config", clientConfig)
	require.NoError(t, err)
	var status setup.Status
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Configured)
	assert.Equal(t, dataDir, status.DataDir)
	assert.Equal(t, binary, status.ServerPath)

	out, err = runCLI(t, "setup", "remove", "--client-config", clientConfig)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed symptom-checker")

	out, err = runCLI(t, "setup", "remove", "--client-config", clientConfig)
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to do")
}
