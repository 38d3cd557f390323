package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/threadpipe/config"
	"github.com/gaurav-prasanna/threadpipe/core"
)

const articlePage = `<!doctype html>
<html lang="en"><head><title>Lorem Ipsum</title></head>
<body>
<nav><p>Home</p></nav>
<article>
<p>Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.</p>
<p>Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat.</p>
<p>Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat nulla pariatur.</p>
<p>Excepteur sint occaecat cupidatat non proident, sunt in culpa qui officia deserunt mollit anim id est laborum.</p>
</article>
</body></html>`

func pageServer(t *testing.T, page string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

// run executes the root command with a clean environment.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvAPIKey, "")
	t.Setenv(config.EnvBaseURL, "")
	t.Setenv(config.EnvModel, "")
	t.Setenv(config.EnvConfig, "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

var postLine = regexp.MustCompile(`^\S+ (\d+)/(\d+) \S.*$`)

func TestThreadToStdout(t *testing.T) {
	srv, _ := pageServer(t, articlePage)

	out, stderr, err := run(t, srv.URL+"/post", "--max-tweets", "5")
	require.NoError(t, err)

	blocks := strings.Split(strings.TrimSpace(out), "\n\n")
	require.Len(t, blocks, 5)
	for _, b := range blocks {
		require.Regexp(t, postLine, b)
		require.Equal(t, "5", postLine.FindStringSubmatch(b)[2])
	}
	require.Contains(t, blocks[0], "4 things about Lorem Ipsum, a thread:")
	require.Contains(t, stderr, "thread assembled")
}

func TestThreadTitleOverride(t *testing.T) {
	srv, _ := pageServer(t, articlePage)

	out, _, err := run(t, srv.URL, "--max-tweets", "3", "--title", "Latin Filler", "--quiet")
	require.NoError(t, err)
	require.Contains(t, out, "2 things about Latin Filler, a thread:")
}

func TestThreadToFile(t *testing.T) {
	srv, _ := pageServer(t, articlePage)
	dest := filepath.Join(t.TempDir(), "thread.json")

	out, _, err := run(t, srv.URL, "--format", "json", "--output", dest, "--quiet")
	require.NoError(t, err)
	require.Equal(t, "✓ Written: "+dest+"\n", out)

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	var got core.ThreadJSON
	require.NoError(t, json.Unmarshal(b, &got))
	require.Len(t, got.Posts, 10)
	require.Equal(t, core.ArticleBody, got.Metadata.ExtractionMethod)
	require.Equal(t, core.Truncation, got.Metadata.SummaryMethod)
	require.Equal(t, "Lorem Ipsum", got.Metadata.Title)
}

func TestThreadMissingOutputDirectory(t *testing.T) {
	srv, _ := pageServer(t, articlePage)
	dest := filepath.Join(t.TempDir(), "missing", "thread.txt")

	out, _, err := run(t, srv.URL, "--max-tweets", "4", "--output", dest, "--quiet")
	var ioErr *core.IOError
	require.True(t, errors.As(err, &ioErr))
	require.Equal(t, core.ExitIO, core.ExitCode(err))

	// The thread is still printed.
	blocks := strings.Split(strings.TrimSpace(out), "\n\n")
	require.Len(t, blocks, 4)
	require.Regexp(t, postLine, blocks[0])
}

func TestThreadRejectsBadInputBeforeFetching(t *testing.T) {
	srv, hits := pageServer(t, articlePage)

	tests := []struct {
		name string
		args []string
	}{
		{"too few posts", []string{srv.URL, "--max-tweets", "2"}},
		{"too many posts", []string{srv.URL, "--max-tweets", "21"}},
		{"unknown format", []string{srv.URL, "--format", "docx"}},
		{"pdf to stdout", []string{srv.URL, "--format", "pdf"}},
		{"relative url", []string{"example.com/post"}},
		{"no url", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, append(tt.args, "--quiet")...)
			var ie *core.InvalidInputError
			require.True(t, errors.As(err, &ie), "got %v", err)
			require.Equal(t, core.ExitInvalidInput, core.ExitCode(err))
		})
	}
	require.Zero(t, atomic.LoadInt32(hits))
}

func TestThreadTitleOnlyPage(t *testing.T) {
	srv, _ := pageServer(t, `<html><head><title>Hello</title><meta name="description" content=""></head><body></body></html>`)

	out, _, err := run(t, srv.URL, "--max-tweets", "3", "--quiet")
	require.NoError(t, err)
	blocks := strings.Split(strings.TrimSpace(out), "\n\n")
	require.Len(t, blocks, 3)
	require.True(t, strings.HasSuffix(blocks[1], " 2/3 Hello"), blocks[1])
}

func TestThreadFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, _, err := run(t, srv.URL, "--quiet")
	require.Equal(t, core.ExitFetch, core.ExitCode(err))
}

func TestThreadExtractionFailure(t *testing.T) {
	srv, _ := pageServer(t, `<html><head></head><body><div></div></body></html>`)

	_, _, err := run(t, srv.URL, "--quiet")
	require.Equal(t, core.ExitExtraction, core.ExitCode(err))
}

func TestThreadConfigFile(t *testing.T) {
	srv, _ := pageServer(t, articlePage)
	path := filepath.Join(t.TempDir(), "threadpipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maxTweets: 4\nsymbols: [\"*\"]\n"), 0644))

	out, _, err := run(t, srv.URL, "--config", path, "--quiet")
	require.NoError(t, err)
	blocks := strings.Split(strings.TrimSpace(out), "\n\n")
	require.Len(t, blocks, 4)
	for _, b := range blocks {
		require.True(t, strings.HasPrefix(b, "* "), b)
	}

	// Flags win over the file.
	out, _, err = run(t, srv.URL, "--config", path, "--max-tweets", "3", "--quiet")
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n\n"), 3)
}

func TestThreadBadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threadpipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbols: []\n"), 0644))

	_, _, err := run(t, "https://example.com", "--config", path, "--quiet")
	require.Equal(t, core.ExitConfiguration, core.ExitCode(err))
}

func TestThreadWarnsOnMismatchedExtension(t *testing.T) {
	srv, _ := pageServer(t, articlePage)
	dir := t.TempDir()

	_, stderr, err := run(t, srv.URL, "--format", "markdown", "--output", filepath.Join(dir, "thread.txt"))
	require.NoError(t, err)
	require.Contains(t, stderr, "does not match .md")

	_, stderr, err = run(t, srv.URL, "--format", "markdown", "--output", filepath.Join(dir, "thread.MD"))
	require.NoError(t, err)
	require.NotContains(t, stderr, "does not match")
}
