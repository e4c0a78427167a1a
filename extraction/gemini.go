package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/globaltfn/remindme-server/internal/projectpath"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-pro"

	FileStateProcessing = "PROCESSING"
	FileStateActive     = "ACTIVE"
)

// fallbackPrompt is used when prompt.txt is missing from the project root.
const fallbackPrompt = `You are given a university class timetable as a PDF.
Extract it into a JSON object of the form
{"schedule": {"Monday": [...], "Tuesday": [...], "Wednesday": [...], "Thursday": [...], "Friday": [...], "Saturday": [...]}}
where each day is a list of objects with the keys Period, Start_Time, End_Time,
Course_Name, Instructor, Building, Room, Group, Class_Duration, Class_Count and
Class_type. Times are zero padded 24-hour HH:MM strings. If the document is not
a class timetable, answer with a short plain-text explanation instead of JSON.`

// FileInfo is the remote state of an uploaded file.
type FileInfo struct {
	Name  string `json:"name"`
	URI   string `json:"uri"`
	State string `json:"state"`
}

// GeminiClient is a thin REST client for the generative-language file and
// chat endpoints. Outbound calls are rate limited and logged.
type GeminiClient struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	model        string
	systemPrompt string
}

// NewGeminiClient builds a client for the given API key. baseURL overrides
// the production endpoint and exists for tests; pass "" for the real one.
func NewGeminiClient(apiKey string, baseURL string) *GeminiClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := &http.Client{Timeout: 5 * time.Minute}
	wrapTransport(client, NewAdaptiveRateLimiter(rate.Every(250*time.Millisecond), 5, rate.Every(500*time.Millisecond)))

	return &GeminiClient{
		httpClient:   client,
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		model:        defaultModel,
		systemPrompt: loadPrompt(),
	}
}

func loadPrompt() string {
	raw, err := os.ReadFile(filepath.Join(projectpath.Root, "prompt.txt"))
	if err != nil {
		return fallbackPrompt
	}
	return string(raw)
}

// UploadFile pushes the raw PDF bytes to the file service. The returned file
// usually starts in the PROCESSING state.
func (c *GeminiClient) UploadFile(ctx context.Context, pdf []byte, displayName string) (FileInfo, error) {
	url := fmt.Sprintf("%s/upload/v1beta/files?key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(pdf))
	if err != nil {
		return FileInfo{}, err
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("X-Goog-Upload-Protocol", "raw")
	req.Header.Set("X-Goog-File-Name", displayName)

	var response struct {
		File FileInfo `json:"file"`
	}
	if err := c.do(req, &response); err != nil {
		return FileInfo{}, fmt.Errorf("uploading file: %w", err)
	}
	return response.File, nil
}

// GetFile fetches the current processing state of an uploaded file.
func (c *GeminiClient) GetFile(ctx context.Context, name string) (FileInfo, error) {
	url := fmt.Sprintf("%s/v1beta/%s?key=%s", c.baseURL, name, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FileInfo{}, err
	}

	var file FileInfo
	if err := c.do(req, &file); err != nil {
		return FileInfo{}, fmt.Errorf("getting file %s: %w", name, err)
	}
	return file, nil
}

type generatePart struct {
	Text     string            `json:"text,omitempty"`
	FileData *generateFileData `json:"file_data,omitempty"`
}

type generateFileData struct {
	MimeType string `json:"mime_type"`
	FileURI  string `json:"file_uri"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *generateContent  `json:"system_instruction,omitempty"`
	Contents          []generateContent `json:"contents"`
	GenerationConfig  struct {
		Temperature     float64 `json:"temperature"`
		TopP            float64 `json:"topP"`
		TopK            int     `json:"topK"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ExtractTimetable asks the model to read the uploaded PDF and answer with
// the timetable JSON. The caller decides whether the answer actually is JSON.
func (c *GeminiClient) ExtractTimetable(ctx context.Context, file FileInfo) (string, error) {
	request := generateRequest{
		SystemInstruction: &generateContent{
			Parts: []generatePart{{Text: c.systemPrompt}},
		},
		Contents: []generateContent{
			{
				Role: "user",
				Parts: []generatePart{{
					FileData: &generateFileData{MimeType: "application/pdf", FileURI: file.URI},
				}},
			},
			{
				Role:  "user",
				Parts: []generatePart{{Text: "Dont cover it with ```json ```"}},
			},
		},
	}
	request.GenerationConfig.Temperature = 1
	request.GenerationConfig.TopP = 0.95
	request.GenerationConfig.TopK = 64
	request.GenerationConfig.MaxOutputTokens = 65536

	body, err := json.Marshal(request)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var response generateResponse
	if err := c.do(req, &response); err != nil {
		return "", fmt.Errorf("generating extraction: %w", err)
	}
	if len(response.Candidates) == 0 {
		return "", fmt.Errorf("model returned no candidates")
	}

	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String(), nil
}

func (c *GeminiClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%s %s: %s: %s", req.Method, req.URL.Path, resp.Status, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
