package aiserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/types"
)

type httpClient struct {
	httpc   *http.Client
	log     *logger.Logger
	baseURL string
}

func newHTTPClient(log *logger.Logger, baseURL string) *httpClient {
	return &httpClient{
		httpc:   &http.Client{Timeout: 60 * time.Second},
		log:     log.With("client", "AiServerClient"),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *httpClient) EnqueueTranscription(ctx context.Context, audioFilePath, instrument string) (*EnqueueResult, error) {
	fields := map[string]string{"instrument": instrument}
	return c.enqueue(ctx, taskPath(types.JobTypeTranscribe), "audio_file", audioFilePath, fields)
}

func (c *httpClient) EnqueueDifficulty(ctx context.Context, chordFilePath string, jobType types.JobType) (*EnqueueResult, error) {
	fields := map[string]string{}
	switch jobType {
	case types.JobTypeEasier:
		fields["target_instrument"] = "guitar"
	case types.JobTypeHarder:
		fields["target_style"] = "jazz"
	default:
		return nil, fmt.Errorf("enqueue difficulty: unsupported job type %q", jobType)
	}
	return c.enqueue(ctx, taskPath(jobType), "chord_file", chordFilePath, fields)
}

func (c *httpClient) enqueue(ctx context.Context, task, fileField, filePath string, fields map[string]string) (*EnqueueResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open payload file: %w", err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		part, err := writer.CreateFormFile(fileField, filepath.Base(filePath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		for k, v := range fields {
			if err := writer.WriteField(k, v); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		pw.CloseWithError(writer.Close())
	}()

	url := fmt.Sprintf("%s/tasks/%s/enqueue", c.baseURL, task)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.log.Info("Enqueueing AI task", "task", task, "file", filepath.Base(filePath))
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ai server enqueue: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("ai server enqueue: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out EnqueueResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ai server enqueue: decode response: %w", err)
	}
	if out.JobID == "" {
		return nil, fmt.Errorf("ai server enqueue: response carried no job id")
	}
	return &out, nil
}

func (c *httpClient) GetStatus(ctx context.Context, aiJobID string, jobType types.JobType) (*Status, error) {
	url := fmt.Sprintf("%s/tasks/%s/status/%s", c.baseURL, taskPath(jobType), aiJobID)
	var out Status
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, fmt.Errorf("ai server status: %w", err)
	}
	return &out, nil
}

func (c *httpClient) GetResult(ctx context.Context, aiJobID string, jobType types.JobType) (*Result, error) {
	url := fmt.Sprintf("%s/tasks/%s/result/%s", c.baseURL, taskPath(jobType), aiJobID)
	var out Result
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, fmt.Errorf("ai server result: %w", err)
	}
	return &out, nil
}

func (c *httpClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// DownloadArtifact fetches url (absolute, or relative to the AI server) and
// writes the bytes to destPath, creating parent directories as needed.
func (c *httpClient) DownloadArtifact(ctx context.Context, url, destPath string) error {
	fullURL := url
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		fullURL = c.baseURL + "/" + strings.TrimLeft(url, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("download artifact: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("download artifact: status %d for %s", resp.StatusCode, fullURL)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("download artifact: %w", err)
	}
	tmp := destPath + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("download artifact: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("download artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("download artifact: %w", err)
	}
	return os.Rename(tmp, destPath)
}
