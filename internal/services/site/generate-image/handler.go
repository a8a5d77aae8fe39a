// internal/services/site/generate-image/handler.go
package generateimage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	commonhttp "site-builder/internal/common/http"
	"site-builder/internal/common/logger"
	"site-builder/internal/common/metrics"
)

const ServiceName = "generate-image"

var (
	ErrAPIKeyMissing = errors.New("API Key not configured")
	ErrNoImageData   = errors.New("No image data received from API (inlineData missing)")
)

var sectionKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Clock returns the current time; it names generated files.
type Clock func() time.Time

type Generator struct {
	config *Config
	client *commonhttp.Client
	now    Clock
	logger logger.Logger
}

func NewGenerator(config *Config, log logger.Logger) *Generator {
	return &Generator{
		config: config,
		client: commonhttp.NewClient(0),
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"service": ServiceName}),
	}
}

// WithHTTPClient swaps the outbound client, e.g. for an httptest server.
func (g *Generator) WithHTTPClient(c *commonhttp.Client) *Generator {
	g.client = c
	return g
}

func (g *Generator) WithClock(now Clock) *Generator {
	g.now = now
	return g
}

// Generate asks the model for an image and writes it under the public
// images directory. Failures are reported in the Result.
func (g *Generator) Generate(ctx context.Context, req Request) Result {
	start := time.Now()
	url, err := g.generate(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		metrics.ImagesGenerated.WithLabelValues("failed").Inc()
		g.logger.Error("image generation failed", map[string]interface{}{
			"error":      err.Error(),
			"sectionKey": req.SectionKey,
			"durationMs": elapsed.Milliseconds(),
		})
		return Result{Success: false, Error: err.Error()}
	}

	metrics.ImagesGenerated.WithLabelValues("success").Inc()
	g.logger.Info("image generated", map[string]interface{}{
		"imageUrl":   url,
		"durationMs": elapsed.Milliseconds(),
	})
	return Result{Success: true, ImageURL: url}
}

func (g *Generator) generate(ctx context.Context, req Request) (string, error) {
	if g.config.APIKey == "" {
		return "", ErrAPIKeyMissing
	}
	if err := validateRequest(&req); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	data, err := g.requestImage(ctx, req)
	if err != nil {
		return "", err
	}
	return g.store(data, req.SectionKey)
}

func validateRequest(req *Request) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return errors.New("prompt is required")
	}
	if req.AspectRatio == "" {
		req.AspectRatio = DefaultAspectRatio
	}
	if !aspectRatios[req.AspectRatio] {
		return fmt.Errorf("unsupported aspect ratio %q", req.AspectRatio)
	}
	if req.SectionKey != "" && !sectionKeyPattern.MatchString(req.SectionKey) {
		return fmt.Errorf("invalid section key %q", req.SectionKey)
	}
	return nil
}

func (g *Generator) requestImage(ctx context.Context, req Request) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(g.config.BaseURL, "/"), g.config.Model)
	body := contentRequest{
		Contents: []content{{Parts: []part{{Text: req.Prompt}}}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig:        imageConfig{AspectRatio: req.AspectRatio},
		},
	}

	resp, err := g.client.PostJSON(ctx, endpoint, body, map[string]string{"x-goog-api-key": g.config.APIKey})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("API request timed out after %s", g.config.Timeout)
		}
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed: %s - %s", http.StatusText(resp.StatusCode), strings.TrimSpace(string(raw)))
	}

	var parsed contentResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		return nil, ErrNoImageData
	}
	for _, p := range parsed.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("decode image data: %w", err)
			}
			return data, nil
		}
	}
	return nil, ErrNoImageData
}

// store writes data as PNG. With a section key the file replaces
// images/<key>.png and clears images/generated; otherwise it lands in
// images/generated/gen-<unixms>.png.
func (g *Generator) store(data []byte, sectionKey string) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("response is not an image: %w", err)
	}

	imagesDir := filepath.Join(g.config.PublicDir, "images")
	generatedDir := filepath.Join(imagesDir, "generated")

	if sectionKey != "" {
		if err := os.MkdirAll(imagesDir, 0o755); err != nil {
			return "", fmt.Errorf("create images dir: %w", err)
		}
		name := sectionKey + ".png"
		path := filepath.Join(imagesDir, name)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("remove old image: %w", err)
		}
		if err := imaging.Save(img, path); err != nil {
			return "", fmt.Errorf("save image: %w", err)
		}
		if err := os.RemoveAll(generatedDir); err != nil {
			g.logger.Warn("failed to clear generated images", map[string]interface{}{"error": err.Error()})
		}
		return "/images/" + name, nil
	}

	if err := os.MkdirAll(generatedDir, 0o755); err != nil {
		return "", fmt.Errorf("create generated dir: %w", err)
	}
	name := fmt.Sprintf("gen-%d.png", g.now().UnixMilli())
	if err := imaging.Save(img, filepath.Join(generatedDir, name)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return "/images/generated/" + name, nil
}
