// Package analysis implements the document analyzer on top of the OpenAI
// chat completions API.
package analysis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/fleetdock/fleetdock/modules/docs/domain/upload"
	"github.com/fleetdock/fleetdock/pkg/configuration"
)

const systemPrompt = `You extract metadata from maritime documents: ship certificates, audit documents and survey reports.
Respond with a single JSON object and nothing else, using these keys:
  "title":           short human-readable document title
  "document_number": the official certificate or report number, empty string if absent
  "issuer":          issuing authority or classification society, empty string if absent
  "issue_date":      issue date as YYYY-MM-DD, empty string if absent
  "expiry_date":     expiry date as YYYY-MM-DD, empty string if absent
  "fields":          object of any other notable key/value pairs (vessel name, IMO number, port of registry, ...)`

// excerpt limit keeps text documents inside a single completion request.
const maxTextExcerpt = 16 * 1024

type OpenAIAnalyzer struct {
	client openai.Client
	model  string
}

func NewOpenAIAnalyzer(conf configuration.OpenAIOptions) *OpenAIAnalyzer {
	return &OpenAIAnalyzer{
		client: openai.NewClient(option.WithAPIKey(conf.Key)),
		model:  conf.Model,
	}
}

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, filename string, data []byte) (upload.Analysis, error) {
	response, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			userMessage(filename, data),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return upload.Analysis{}, errors.Wrap(upload.ErrAnalysisFailed, err.Error())
	}
	if len(response.Choices) == 0 {
		return upload.Analysis{}, errors.Wrap(upload.ErrAnalysisFailed, "no completion choices returned")
	}
	return parseAnalysis(response.Choices[0].Message.Content)
}

// userMessage sends images inline as a data URL so the model reads them
// directly; everything else goes as a text excerpt.
func userMessage(filename string, data []byte) openai.ChatCompletionMessageParamUnion {
	mime := mimetype.Detect(data)
	if strings.HasPrefix(mime.String(), "image/") {
		dataURL := fmt.Sprintf("data:%s;base64,%s", mime.String(), base64.StdEncoding.EncodeToString(data))
		return openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(fmt.Sprintf("Extract the metadata from this document. Filename: %s", filename)),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
		})
	}

	excerpt := data
	if len(excerpt) > maxTextExcerpt {
		excerpt = excerpt[:maxTextExcerpt]
	}
	return openai.UserMessage(fmt.Sprintf(
		"Extract the metadata from this document.\nFilename: %s\nContent type: %s\nContent:\n%s",
		filename, mime.String(), string(excerpt),
	))
}

type analysisWire struct {
	Title          string            `json:"title"`
	DocumentNumber string            `json:"document_number"`
	Issuer         string            `json:"issuer"`
	IssueDate      string            `json:"issue_date"`
	ExpiryDate     string            `json:"expiry_date"`
	Fields         map[string]string `json:"fields"`
}

func parseAnalysis(content string) (upload.Analysis, error) {
	var wire analysisWire
	if err := json.Unmarshal([]byte(stripFences(content)), &wire); err != nil {
		return upload.Analysis{}, errors.Wrap(upload.ErrAnalysisFailed, "completion is not valid JSON: "+err.Error())
	}

	out := upload.Analysis{
		Title:          strings.TrimSpace(wire.Title),
		DocumentNumber: strings.TrimSpace(wire.DocumentNumber),
		Issuer:         strings.TrimSpace(wire.Issuer),
		Fields:         wire.Fields,
	}
	if out.Fields == nil {
		out.Fields = map[string]string{}
	}
	out.IssueDate = parseDate(wire.IssueDate)
	out.ExpiryDate = parseDate(wire.ExpiryDate)
	return out, nil
}

// stripFences tolerates models that wrap JSON in a markdown code block
// despite being told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
