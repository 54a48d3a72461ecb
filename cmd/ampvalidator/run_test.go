package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ampproject/amphtml-sub099/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	goodCSS = "@keyframes spin { from { opacity: 0 } to { opacity: 1 } }\n"
	badCSS  = "@keyframes spin { to { opacity: 1 } }\n.a { top: 0 }\n"
)

func fixture(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Cleanup(func() { log.SetLevel(log.LevelInfo) })
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunPass(t *testing.T) {
	dir := fixture(t, map[string]string{"a.css": goodCSS})
	code, stdout, stderr := execute(t, filepath.Join(dir, "a.css"))

	assert.Equal(t, exitPass, code, stderr)
	assert.Equal(t, filepath.Join(dir, "a.css")+": PASS\n", stdout)
}

func TestRunFail(t *testing.T) {
	dir := fixture(t, map[string]string{"a.css": badCSS})
	path := filepath.Join(dir, "a.css")
	code, stdout, _ := execute(t, path)

	assert.Equal(t, exitFail, code)
	assert.Contains(t, stdout, path+":2:1: CSS_SYNTAX_DISALLOWED_QUALIFIED_RULE_MUST_BE_INSIDE_KEYFRAME ")
	assert.Contains(t, stdout, path+": FAIL\n")
}

func TestRunGlob(t *testing.T) {
	dir := fixture(t, map[string]string{
		"a.css":          goodCSS,
		"nested/b.css":   badCSS,
		"nested/c.html":  `<html><body><img src="javascript:x"></body></html>`,
		"nested/notes.t": "ignored",
	})
	code, stdout, _ := execute(t, filepath.ToSlash(dir)+"/**/*.{css,html}")

	assert.Equal(t, exitFail, code)
	assert.Contains(t, stdout, "a.css: PASS")
	assert.Contains(t, stdout, "b.css: FAIL")
	assert.Contains(t, stdout, "c.html: FAIL")
	assert.NotContains(t, stdout, "notes.t")
}

func TestRunJSON(t *testing.T) {
	dir := fixture(t, map[string]string{"a.css": badCSS, "b.css": goodCSS})
	code, stdout, _ := execute(t, "-format", "json", filepath.Join(dir, "a.css"), filepath.Join(dir, "b.css"))
	assert.Equal(t, exitFail, code)

	var out []struct {
		Source string `json:"source"`
		Status string `json:"status"`
		Errors []struct {
			Code     string `json:"code"`
			Severity string `json:"severity"`
			Line     int    `json:"line"`
			Col      int    `json:"col"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out, 2)

	assert.Equal(t, "FAIL", out[0].Status)
	require.Len(t, out[0].Errors, 1)
	assert.Equal(t, "CSS_SYNTAX_DISALLOWED_QUALIFIED_RULE_MUST_BE_INSIDE_KEYFRAME", out[0].Errors[0].Code)
	assert.Equal(t, 2, out[0].Errors[0].Line)
	assert.Equal(t, 1, out[0].Errors[0].Col)

	assert.Equal(t, "PASS", out[1].Status)
	assert.Empty(t, out[1].Errors)
}

func TestRunConfig(t *testing.T) {
	dir := fixture(t, map[string]string{
		"page.html":   `<html><body><a href="/about">x</a></body></html>`,
		"strict.yaml": "allowRelativeURLs: false\n",
		"broken.yaml": "rules: [nope]\n",
	})
	page := filepath.Join(dir, "page.html")

	code, _, stderr := execute(t, page)
	assert.Equal(t, exitPass, code, stderr)

	code, stdout, _ := execute(t, "-config", filepath.Join(dir, "strict.yaml"), page)
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stdout, "DISALLOWED_RELATIVE_URL")

	code, _, stderr = execute(t, "-config", filepath.Join(dir, "broken.yaml"), page)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "nope")
}

func TestRunUsageErrors(t *testing.T) {
	dir := fixture(t, map[string]string{"a.css": goodCSS, "a.txt": "x"})

	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"unknown flag", []string{"-bogus"}},
		{"unknown format", []string{"-format", "xml", filepath.Join(dir, "a.css")}},
		{"bad log level", []string{"-log-level", "loud", filepath.Join(dir, "a.css")}},
		{"missing config", []string{"-config", filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "a.css")}},
		{"missing file", []string{filepath.Join(dir, "missing.css")}},
		{"unsupported file", []string{filepath.Join(dir, "a.txt")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(t, tt.args...)
			assert.Equal(t, exitUsage, code)
			assert.NotEmpty(t, stderr)
		})
	}
}

func TestRunWorkers(t *testing.T) {
	files := map[string]string{}
	var args []string
	dir := t.TempDir()
	for _, name := range []string{"a.css", "b.css", "c.css", "d.css"} {
		files[name] = goodCSS
		args = append(args, filepath.Join(dir, name))
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	code, stdout, _ := execute(t, append([]string{"-workers", "2"}, args...)...)
	assert.Equal(t, exitPass, code)
	assert.Equal(t, 4, bytes.Count([]byte(stdout), []byte(": PASS\n")))
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := execute(t, "-version")
	assert.Equal(t, exitPass, code)
	assert.NotEmpty(t, stdout)
}

func TestRunCancelled(t *testing.T) {
	dir := fixture(t, map[string]string{"a.css": goodCSS})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{filepath.Join(dir, "a.css")}, &stdout, &stderr)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), context.Canceled.Error())
}
