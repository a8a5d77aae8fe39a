// internal/services/site/generate-image/models.go
package generateimage

const DefaultAspectRatio = "16:9"

var aspectRatios = map[string]bool{
	"16:9": true,
	"1:1":  true,
	"4:3":  true,
	"3:4":  true,
	"9:16": true,
}

type Request struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspectRatio,omitempty"`
	SectionKey  string `json:"sectionKey,omitempty"`
}

type Result struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

// generateContent request/response, trimmed to the fields used here.

type contentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string    `json:"responseModalities"`
	ImageConfig        imageConfig `json:"imageConfig"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio"`
}

type contentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}
