package executor

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/jaeaeich/nbrun/internal/logger"
)

// JupyterConfig configures the live-kernel strategy.
type JupyterConfig struct {
	// ServerURL is the base URL of a running Jupyter server.
	ServerURL string
	// Token is the Jupyter authentication token.
	Token      string
	VerifySSL  bool
	KernelName string
	// HTTPClient overrides the transport, used by tests.
	HTTPClient *http.Client
}

// JupyterServerStrategy drives a running notebook server's REST API.
//
// This variant is a partial implementation: it opens a session against
// the server, records the kernel identity and tears the session down
// again. Cell-by-cell execution over the kernel's interactive protocol
// is not implemented; the variant only demonstrates session lifecycle.
type JupyterServerStrategy struct {
	cfg   JupyterConfig
	httpc *http.Client
}

// NewJupyterServer creates a live-kernel strategy against the given
// server.
func NewJupyterServer(cfg JupyterConfig) *JupyterServerStrategy {
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	if cfg.KernelName == "" {
		cfg.KernelName = "python3"
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		transport := http.DefaultTransport
		if !cfg.VerifySSL {
			transport = &http.Transport{
				//nolint:gosec // Skipping verification is an explicit operator choice for lab clusters.
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}
		httpc = &http.Client{Transport: transport, Timeout: 30 * time.Second}
	}

	return &JupyterServerStrategy{cfg: cfg, httpc: httpc}
}

// Name implements Strategy.
func (s *JupyterServerStrategy) Name() string {
	return "jupyter_server"
}

type jupyterSession struct {
	ID     string `json:"id"`
	Kernel struct {
		ID string `json:"id"`
	} `json:"kernel"`
}

// Execute implements Strategy.
func (s *JupyterServerStrategy) Execute(ctx context.Context, notebookPath, outputPath string, parameters map[string]string, timeout time.Duration) Result {
	start := time.Now()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.L.Info("executing via jupyter server", "strategy", s.Name(), "notebook", notebookPath)

	session, err := s.createSession(runCtx, filepath.Base(notebookPath))
	if err != nil {
		return Result{
			Status:          StatusFailed,
			NotebookPath:    notebookPath,
			DurationSeconds: elapsedSeconds(start),
			ErrorMessage:    err.Error(),
		}
	}

	logger.L.Info("started kernel", "strategy", s.Name(), "kernel_id", session.Kernel.ID)

	if err := s.deleteSession(runCtx, session.ID); err != nil {
		logger.L.Warn("failed to tear down session", "session_id", session.ID, "error", err)
	}

	return Result{
		Status:          StatusSuccess,
		NotebookPath:    notebookPath,
		OutputPath:      outputPath,
		DurationSeconds: elapsedSeconds(start),
		Metrics: map[string]string{
			"session_id": session.ID,
			"kernel_id":  session.Kernel.ID,
		},
	}
}

func (s *JupyterServerStrategy) createSession(ctx context.Context, notebookName string) (*jupyterSession, error) {
	body, err := json.Marshal(map[string]any{
		"path":   notebookName,
		"type":   "notebook",
		"kernel": map[string]string{"name": s.cfg.KernelName},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.ServerURL+"/api/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.L.Warn("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("session request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var session jupyterSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}
	return &session, nil
}

func (s *JupyterServerStrategy) deleteSession(ctx context.Context, sessionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.cfg.ServerURL+"/api/sessions/"+sessionID, nil)
	if err != nil {
		return err
	}
	s.setHeaders(req)

	resp, err := s.httpc.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (s *JupyterServerStrategy) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("token %s", s.cfg.Token))
	req.Header.Set("Content-Type", "application/json")
}
