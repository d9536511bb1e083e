package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRun_Version_PrintsVersion(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run(context.Background(), []string{"--version"}, &out, &bytes.Buffer{})

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "summarygate version") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestRun_Help_PrintsUsage(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run(context.Background(), []string{"--help"}, &out, &bytes.Buffer{})

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "Usage:") || !strings.Contains(out.String(), "/summarize/") {
		t.Fatalf("expected help output, got %q", out.String())
	}
}

func TestRun_InvalidFlag_Returns2(t *testing.T) {
	t.Parallel()

	var errOut bytes.Buffer
	code := run(context.Background(), []string{"--unknown-flag"}, &bytes.Buffer{}, &errOut)

	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(errOut.String(), "unknown-flag") {
		t.Fatalf("expected flag error, got %q", errOut.String())
	}
}

func TestRun_UnknownCommand_Returns2(t *testing.T) {
	t.Parallel()

	var errOut bytes.Buffer
	code := run(context.Background(), []string{"migrate"}, &bytes.Buffer{}, &errOut)

	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(errOut.String(), `unknown command "migrate"`) {
		t.Fatalf("unexpected stderr %q", errOut.String())
	}
}

func TestRun_MissingConfigFile_Returns1(t *testing.T) {
	t.Parallel()

	var errOut bytes.Buffer
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	code := run(context.Background(), []string{"--config", missing, "serve"}, &bytes.Buffer{}, &errOut)

	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errOut.String(), "error:") {
		t.Fatalf("expected error output, got %q", errOut.String())
	}
}

func TestRun_Serve_AnswersAndShutsDown(t *testing.T) {
	port := freePort(t)
	t.Setenv("SUMMARYGATE_SERVER_PORT", fmt.Sprint(port))
	t.Setenv("SUMMARYGATE_SERVER_HOST", "127.0.0.1")
	t.Setenv("SUMMARYGATE_LOG_LEVEL", "error")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() { done <- run(ctx, nil, &bytes.Buffer{}, &bytes.Buffer{}) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/", port)
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(url) //nolint:noctx
		if err == nil {
			resp.Body.Close() //nolint:errcheck
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200 from /, got %d", resp.StatusCode)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case code := <-done:
		if code != 0 {
			t.Fatalf("expected exit code 0 after shutdown, got %d", code)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close() //nolint:errcheck
	return ln.Addr().(*net.TCPAddr).Port
}
