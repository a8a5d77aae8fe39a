// internal/services/site/generate-image/handler_test.go
package generateimage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	commonhttp "site-builder/internal/common/http"
	"site-builder/internal/common/logger"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Helpers
// ==========================

func pngBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

type apiStub struct {
	lastBody   contentRequest
	lastKey    string
	lastPath   string
	status     int
	respBody   string
	inlineData string
}

func (s *apiStub) server(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lastPath = r.URL.Path
		s.lastKey = r.Header.Get("x-goog-api-key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&s.lastBody))

		if s.status != 0 {
			w.WriteHeader(s.status)
			_, _ = w.Write([]byte(s.respBody))
			return
		}
		if s.respBody != "" {
			_, _ = w.Write([]byte(s.respBody))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []interface{}{
				map[string]interface{}{
					"content": map[string]interface{}{
						"parts": []interface{}{
							map[string]interface{}{"text": "here you go"},
							map[string]interface{}{"inlineData": map[string]string{"mimeType": "image/png", "data": s.inlineData}},
						},
					},
				},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestGenerator(t *testing.T, srv *httptest.Server) (*Generator, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL + "/v1beta"
	cfg.PublicDir = dir
	cfg.Timeout = 5 * time.Second

	g := NewGenerator(cfg, logger.NewTestLogger(t)).
		WithHTTPClient(commonhttp.NewClientFrom(srv.Client())).
		WithClock(func() time.Time { return time.UnixMilli(1760000000123) })
	return g, dir
}

// ==========================
// Tests
// ==========================

func TestGenerate_SectionKeyReplacesImage(t *testing.T) {
	stub := &apiStub{inlineData: pngBase64(t)}
	g, dir := newTestGenerator(t, stub.server(t))

	generated := filepath.Join(dir, "images", "generated")
	require.NoError(t, os.MkdirAll(generated, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(generated, "gen-1.png"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "hero.png"), []byte("old"), 0o644))

	res := g.Generate(context.Background(), Request{Prompt: "Modern bathroom", SectionKey: "hero"})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "/images/hero.png", res.ImageURL)

	img, err := imaging.Open(filepath.Join(dir, "images", "hero.png"))
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	_, err = os.Stat(generated)
	assert.True(t, os.IsNotExist(err), "generated dir should be cleared")

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash-image:generateContent", stub.lastPath)
	assert.Equal(t, "test-key", stub.lastKey)
	assert.Equal(t, "16:9", stub.lastBody.GenerationConfig.ImageConfig.AspectRatio)
	assert.Equal(t, []string{"IMAGE"}, stub.lastBody.GenerationConfig.ResponseModalities)
	assert.Equal(t, "Modern bathroom", stub.lastBody.Contents[0].Parts[0].Text)
}

func TestGenerate_WithoutSectionKey(t *testing.T) {
	stub := &apiStub{inlineData: pngBase64(t)}
	g, dir := newTestGenerator(t, stub.server(t))

	res := g.Generate(context.Background(), Request{Prompt: "Team photo", AspectRatio: "1:1"})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "/images/generated/gen-1760000000123.png", res.ImageURL)
	assert.FileExists(t, filepath.Join(dir, "images", "generated", "gen-1760000000123.png"))
	assert.Equal(t, "1:1", stub.lastBody.GenerationConfig.ImageConfig.AspectRatio)
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		stub    *apiStub
		req     Request
		wantErr string
	}{
		{
			name:    "api error status",
			stub:    &apiStub{status: http.StatusForbidden, respBody: `{"error":"bad key"}`},
			req:     Request{Prompt: "x"},
			wantErr: `API request failed: Forbidden - {"error":"bad key"}`,
		},
		{
			name:    "no inline data",
			stub:    &apiStub{respBody: `{"candidates":[{"content":{"parts":[{"text":"sorry"}]}}]}`},
			req:     Request{Prompt: "x"},
			wantErr: ErrNoImageData.Error(),
		},
		{
			name:    "not an image",
			stub:    &apiStub{inlineData: base64.StdEncoding.EncodeToString([]byte("plain text"))},
			req:     Request{Prompt: "x"},
			wantErr: "response is not an image",
		},
		{
			name:    "empty prompt",
			stub:    &apiStub{},
			req:     Request{Prompt: "  "},
			wantErr: "prompt is required",
		},
		{
			name:    "bad aspect ratio",
			stub:    &apiStub{},
			req:     Request{Prompt: "x", AspectRatio: "2:1"},
			wantErr: "unsupported aspect ratio",
		},
		{
			name:    "path traversal in section key",
			stub:    &apiStub{},
			req:     Request{Prompt: "x", SectionKey: "../../etc/passwd"},
			wantErr: "invalid section key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGenerator(t, tt.stub.server(t))
			res := g.Generate(context.Background(), tt.req)
			assert.False(t, res.Success)
			assert.Contains(t, res.Error, tt.wantErr)
			assert.Empty(t, res.ImageURL)
		})
	}
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	g := NewGenerator(DefaultConfig(), logger.NewNoOpLogger())
	res := g.Generate(context.Background(), Request{Prompt: "x"})
	assert.Equal(t, Result{Success: false, Error: "API Key not configured"}, res)
}
