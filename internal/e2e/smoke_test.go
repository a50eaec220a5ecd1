package e2e

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	configDir := t.TempDir()
	binaryPath := buildBinary(t)
	slack := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth.test" {
			_, _ = fmt.Fprint(w, `{"ok":true}`)
			return
		}
		_, _ = fmt.Fprint(w, `{"ok":true,"team_id":"T1","team":"Acme","user_id":"U1"}`)
	}))
	defer slack.Close()

	env := []string{
		"NOWPLAYIN_CONFIG_DIR=" + configDir,
		"NOWPLAYIN_SECRETS_BACKEND=file",
		"NOWPLAYIN_SLACK_BASE_URL=" + slack.URL,
	}

	stdout, stderr, err := runNowplayin(t, binaryPath, env, "workspace", "add", "xoxp-smoke")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "added workspace Acme (T1)")

	stdout, stderr, err = runNowplayin(t, binaryPath, env, "status")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Acme (T1)")
	assert.Contains(t, stdout, "daemon: not running")

	stdout, stderr, err = runNowplayin(t, binaryPath, env, "run", "--source", "mpd", "--mpd-addr", "127.0.0.1:1")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "source not running")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "nowplayin-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/nowplayin")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build nowplayin binary: %s", string(output))
	return binaryPath
}

func runNowplayin(t *testing.T, binaryPath string, env []string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), env...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
