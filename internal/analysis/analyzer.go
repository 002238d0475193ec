// Package analysis proxies crop images to the Gemini API and normalizes the
// model's answer into the fixed diagnosis shape the frontend renders.
package analysis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// TreatmentCount is the fixed number of treatment suggestions a diagnosis
// carries.
const TreatmentCount = 7

const fallbackTreatment = "Consult a local agricultural expert."

const diagnosisPrompt = `You are an expert plant pathologist. Analyze the attached crop image and identify any disease.
Respond with a single JSON object and nothing else, using exactly these keys:
{"name": "<disease name, or 'Healthy Plant'>", "description": "<2-3 sentence farmer-friendly explanation>", "confidence": <integer 0-100>, "treatments": ["<7 short, practical treatment or prevention steps>"]}`

// Diagnosis is the fixed-shape result returned to clients.
type Diagnosis struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Confidence  int      `json:"confidence"`
	Treatments  []string `json:"treatments"`
}

// Analyzer is what the HTTP handler depends on; GeminiAnalyzer is the real
// implementation.
type Analyzer interface {
	AnalyzeCrop(ctx context.Context, imageBase64 string) (*Diagnosis, error)
}

type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiAnalyzer{client: client, model: model}, nil
}

// AnalyzeCrop sends the image with the fixed prompt and parses the JSON
// answer. The input may carry a data-URL prefix; it is stripped.
func (a *GeminiAnalyzer) AnalyzeCrop(ctx context.Context, imageBase64 string) (*Diagnosis, error) {
	data, err := decodeImage(imageBase64)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, http.DetectContentType(data)),
			genai.NewPartFromText(diagnosisPrompt),
		}, genai.RoleUser),
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	return parseDiagnosis(resp.Text())
}

func decodeImage(imageBase64 string) ([]byte, error) {
	// Browsers send "data:image/jpeg;base64,<payload>"; keep the payload.
	if idx := strings.Index(imageBase64, ","); idx >= 0 && strings.HasPrefix(imageBase64, "data:") {
		imageBase64 = imageBase64[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(imageBase64))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	return data, nil
}

// parseDiagnosis turns raw model output into a well-formed Diagnosis:
// code fences stripped, confidence clamped to 0-100, treatments normalized
// to exactly TreatmentCount entries.
func parseDiagnosis(raw string) (*Diagnosis, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var d Diagnosis
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		return nil, fmt.Errorf("malformed diagnosis from model: %w", err)
	}
	if d.Name == "" {
		return nil, fmt.Errorf("diagnosis missing name")
	}

	if d.Confidence < 0 {
		d.Confidence = 0
	}
	if d.Confidence > 100 {
		d.Confidence = 100
	}

	if len(d.Treatments) > TreatmentCount {
		d.Treatments = d.Treatments[:TreatmentCount]
	}
	for len(d.Treatments) < TreatmentCount {
		d.Treatments = append(d.Treatments, fallbackTreatment)
	}

	return &d, nil
}
