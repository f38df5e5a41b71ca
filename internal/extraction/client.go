package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/docwiseai/docwise/internal/config"
)

const analysisFeatures = "ocrHighResolution"

// Client talks to the document layout-analysis REST API.
type Client struct {
	httpClient   *http.Client
	endpoint     string
	apiKey       string
	modelID      string
	apiVersion   string
	pollInterval time.Duration
	log          *slog.Logger
}

func NewClient(cfg config.DocIntelConfig, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	endpoint := cfg.Endpoint
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	return &Client{
		httpClient:   &http.Client{Timeout: 5 * time.Minute},
		endpoint:     endpoint,
		apiKey:       cfg.APIKey,
		modelID:      cfg.ModelID,
		apiVersion:   cfg.APIVersion,
		pollInterval: cfg.PollInterval.Duration,
		log:          log.With(slog.String("component", "extraction")),
	}
}

type analyzeRequest struct {
	Base64Source string `json:"base64Source"`
}

type operationStatus struct {
	Status        string         `json:"status"`
	AnalyzeResult *AnalyzeResult `json:"analyzeResult,omitempty"`
	Error         *apiError      `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) String() string {
	if e == nil {
		return "unknown analysis error"
	}
	return e.Code + ": " + e.Message
}

// Extract downloads the document at fileURL, submits it for layout analysis
// and polls until the operation reaches a terminal status. Any failure is
// logged and returned; there is no partial result.
func (c *Client) Extract(ctx context.Context, fileURL string) (AnalyzeResult, error) {
	c.log.Debug("starting document extraction", slog.String("url", fileURL))

	result, err := c.extract(ctx, fileURL)
	if err != nil {
		c.log.Error("document analysis failed", slog.Any("error", err))
		return AnalyzeResult{}, err
	}
	return result, nil
}

func (c *Client) extract(ctx context.Context, fileURL string) (AnalyzeResult, error) {
	content, err := c.download(ctx, fileURL)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("download document: %w", err)
	}

	operationURL, err := c.submit(ctx, content)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("submit analysis: %w", err)
	}

	return c.await(ctx, operationURL)
}

func (c *Client) download(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) submit(ctx context.Context, content []byte) (string, error) {
	url := fmt.Sprintf("%sdocumentintelligence/documentModels/%s:analyze?api-version=%s&features=%s",
		c.endpoint, c.modelID, c.apiVersion, analysisFeatures)

	body, err := json.Marshal(analyzeRequest{
		Base64Source: base64.StdEncoding.EncodeToString(content),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, payload)
	}
	operationURL := resp.Header.Get("Operation-Location")
	if operationURL == "" {
		return "", fmt.Errorf("missing Operation-Location header")
	}
	return operationURL, nil
}

// await polls the operation with a fixed delay until a terminal status.
func (c *Client) await(ctx context.Context, operationURL string) (AnalyzeResult, error) {
	for {
		status, err := c.poll(ctx, operationURL)
		if err != nil {
			return AnalyzeResult{}, fmt.Errorf("poll analysis: %w", err)
		}
		switch strings.ToLower(status.Status) {
		case "running", "notstarted":
			select {
			case <-ctx.Done():
				return AnalyzeResult{}, ctx.Err()
			case <-time.After(c.pollInterval):
			}
		case "succeeded":
			if status.AnalyzeResult == nil {
				return AnalyzeResult{}, fmt.Errorf("analysis succeeded without a result")
			}
			return *status.AnalyzeResult, nil
		default:
			return AnalyzeResult{}, fmt.Errorf("analysis %s: %s", status.Status, status.Error.String())
		}
	}
}

func (c *Client) poll(ctx context.Context, operationURL string) (operationStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
	if err != nil {
		return operationStatus{}, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return operationStatus{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return operationStatus{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var status operationStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return operationStatus{}, err
	}
	return status, nil
}
