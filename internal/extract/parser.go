// Package extract turns uploaded bank PDFs into structured statement records
// by sending them to Gemini, with a plain-text fallback when the model cannot
// read the PDF directly.
package extract

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ledongthuc/pdf"
	"google.golang.org/genai"

	"github.com/moumensaid/smartfin/internal/domain"
)

// maxFallbackTextLen caps how much extracted text is sent to the model.
const maxFallbackTextLen = 30000

// minFallbackTextLen is the least extracted text worth sending; below this
// the PDF is likely image-only or protected.
const minFallbackTextLen = 50

// maxModelRetries bounds the exponential backoff around each model call.
const maxModelRetries = 3

// Parser extracts a statement record from PDF bytes. Implementations other
// than GeminiParser exist only in tests.
type Parser interface {
	ParseStatement(ctx context.Context, pdfBytes []byte, filename string) (*domain.StatementRecord, error)
}

// GeminiParser extracts statement records with the Gemini API.
type GeminiParser struct {
	model string
}

// NewGeminiParser creates a parser using the given model name.
func NewGeminiParser(model string) *GeminiParser {
	return &GeminiParser{model: model}
}

// ParseStatement runs the two-phase extraction: the PDF bytes go to the model
// directly first; if that fails, locally extracted text is sent instead and
// the record is marked as processed with fallback. The returned record is
// post-processed and stamped with provenance metadata.
func (p *GeminiParser) ParseStatement(ctx context.Context, pdfBytes []byte, filename string) (*domain.StatementRecord, error) {
	docType := DetectTypeFromFilename(filename)

	rec, directErr := p.parseDirect(ctx, pdfBytes, docType)
	if directErr != nil {
		var fallbackErr error
		rec, fallbackErr = p.parseWithTextFallback(ctx, pdfBytes, docType)
		if fallbackErr != nil {
			return nil, fmt.Errorf("extract: direct parse: %w (fallback: %v)", directErr, fallbackErr)
		}
		rec.ProcessedWithFallback = true
	}

	PostProcess(rec)

	hash := sha256.Sum256(pdfBytes)
	rec.SourceFileHash = hex.EncodeToString(hash[:])
	rec.SourceFileName = filename
	rec.ProcessingTimestamp = time.Now().Format(time.RFC3339)

	return rec, nil
}

// parseDirect sends the PDF bytes inline with the type-specific prompt.
func (p *GeminiParser) parseDirect(ctx context.Context, pdfBytes []byte, docType string) (*domain.StatementRecord, error) {
	parts := []*genai.Part{
		{Text: promptFor(docType)},
		{
			InlineData: &genai.Blob{
				MIMEType: "application/pdf",
				Data:     pdfBytes,
			},
		},
	}

	raw, err := p.generate(ctx, parts)
	if err != nil {
		return nil, err
	}
	return decodeRecord(raw)
}

// parseWithTextFallback extracts the PDF text locally and sends that instead.
// When the filename gave no type hint, the extracted text gets a second
// chance at detection.
func (p *GeminiParser) parseWithTextFallback(ctx context.Context, pdfBytes []byte, docType string) (*domain.StatementRecord, error) {
	text, err := extractText(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("text extraction: %w", err)
	}
	if len(strings.TrimSpace(text)) < minFallbackTextLen {
		return nil, fmt.Errorf("could not extract sufficient text from PDF")
	}
	if docType == domain.DocTypeUnknown {
		docType = DetectTypeFromText(text)
	}
	if len(text) > maxFallbackTextLen {
		text = text[:maxFallbackTextLen]
	}

	prompt := fmt.Sprintf("%s\n\nHere is the extracted text content from the PDF:\n---\n%s\n---\n", promptFor(docType), text)
	raw, err := p.generate(ctx, []*genai.Part{{Text: prompt}})
	if err != nil {
		return nil, err
	}
	return decodeRecord(raw)
}

// generate calls the model with retries and returns its raw text response.
func (p *GeminiParser) generate(ctx context.Context, parts []*genai.Part) (string, error) {
	op := func() (string, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
		})
		if err != nil {
			return "", fmt.Errorf("create genai client: %w", err)
		}

		contents := []*genai.Content{{Role: "user", Parts: parts}}
		cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.1)}

		resp, err := client.Models.GenerateContent(ctx, p.model, contents, cfg)
		if err != nil {
			return "", fmt.Errorf("generate content: %w", err)
		}
		text := resp.Text()
		if text == "" {
			return "", fmt.Errorf("empty response from model")
		}
		return text, nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxModelRetries), ctx)
	return backoff.RetryWithData(op, policy)
}

// decodeRecord strips markdown wrappers the model sometimes adds and
// unmarshals the JSON object into a statement record.
func decodeRecord(raw string) (*domain.StatementRecord, error) {
	clean := cleanModelJSON(raw)

	var rec domain.StatementRecord
	if err := json.Unmarshal([]byte(clean), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal model output: %w", err)
	}
	return &rec, nil
}

// cleanModelJSON removes ``` fences and any junk around the JSON object when
// the model ignores the raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only the outermost object if stray text survived.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}

// extractText pulls the plain text out of the PDF for the fallback path.
func extractText(pdfBytes []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(pdfBytes), int64(len(pdfBytes)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}
