package replicate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	replicatego "github.com/replicate/replicate-go"
)

var ErrPredictionFailed = errors.New("replicate prediction failed")

type Client struct {
	api          *replicatego.Client
	owner        string
	name         string
	PollInterval time.Duration
	PollAttempts int
	HTTPClient   *http.Client
}

// NewClient expects model as "owner/name". A non-empty baseURL overrides the
// public API endpoint.
func NewClient(token, model, baseURL string, pollInterval time.Duration, pollAttempts int) (*Client, error) {
	owner, name, ok := strings.Cut(model, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("replicate model must be owner/name, got %q", model)
	}

	httpClient := &http.Client{Timeout: 90 * time.Second}
	opts := []replicatego.ClientOption{
		replicatego.WithToken(token),
		replicatego.WithHTTPClient(httpClient),
	}
	if baseURL != "" {
		opts = append(opts, replicatego.WithBaseURL(baseURL))
	}
	api, err := replicatego.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create replicate client: %w", err)
	}

	return &Client{
		api:          api,
		owner:        owner,
		name:         name,
		PollInterval: pollInterval,
		PollAttempts: pollAttempts,
		HTTPClient:   httpClient,
	}, nil
}

type ImageRequest struct {
	Prompt string
	Width  int
	Height int
}

// Image is a generated picture downloaded from Replicate's delivery URL.
type Image struct {
	SourceURL   string
	Data        []byte
	ContentType string
}

// AspectRatio picks the closest ratio the flux models accept.
func AspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return "1:1"
	}
	candidates := []struct {
		label string
		value float64
	}{
		{"1:1", 1}, {"16:9", 16.0 / 9}, {"9:16", 9.0 / 16}, {"4:3", 4.0 / 3},
		{"3:4", 3.0 / 4}, {"3:2", 3.0 / 2}, {"2:3", 2.0 / 3},
	}
	target := float64(width) / float64(height)
	best := candidates[0]
	for _, c := range candidates[1:] {
		if abs(c.value-target) < abs(best.value-target) {
			best = c
		}
	}
	return best.label
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// firstOutput accepts both a single URL and a list of URLs.
func firstOutput(output replicatego.PredictionOutput) string {
	switch v := output.(type) {
	case string:
		return v
	case []interface{}:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// GenerateImage creates a prediction, waits for it and downloads the first output.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*Image, error) {
	input := replicatego.PredictionInput{
		"prompt":        req.Prompt,
		"aspect_ratio":  AspectRatio(req.Width, req.Height),
		"output_format": "png",
		"num_outputs":   1,
	}

	pred, err := c.api.CreatePredictionWithModel(ctx, c.owner, c.name, input, nil, false)
	if err != nil {
		return nil, fmt.Errorf("create prediction: %w", err)
	}

	waitCtx := ctx
	if c.PollInterval > 0 && c.PollAttempts > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, c.PollInterval*time.Duration(c.PollAttempts))
		defer cancel()
	}
	var waitOpts []replicatego.WaitOption
	if c.PollInterval > 0 {
		waitOpts = append(waitOpts, replicatego.WithPollingInterval(c.PollInterval))
	}
	if err := c.api.Wait(waitCtx, pred, waitOpts...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPredictionFailed, err)
	}

	if pred.Status != replicatego.Succeeded {
		return nil, fmt.Errorf("%w: status %s, error %v", ErrPredictionFailed, pred.Status, pred.Error)
	}
	output := firstOutput(pred.Output)
	if output == "" {
		return nil, fmt.Errorf("%w: empty output", ErrPredictionFailed)
	}
	return c.download(ctx, output)
}

func (c *Client) download(ctx context.Context, url string) (*Image, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &Image{SourceURL: url, Data: data, ContentType: contentType}, nil
}
