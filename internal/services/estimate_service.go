package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"exportease/internal/models"
)

// EstimateService produces carrier quotes for a shipment. It asks a
// chat-completions style generative API for realistic rates and falls back
// to a local rate card when the API is unavailable or returns garbage, so
// callers always get three quotes.
type EstimateService struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
}

// NewEstimateService creates a new EstimateService. An empty apiKey disables
// the upstream call entirely.
func NewEstimateService(apiURL, apiKey, model string, timeout time.Duration) *EstimateService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &EstimateService{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type estimatesPayload struct {
	Estimates []models.Estimate `json:"estimates"`
}

// GetEstimates returns exactly three quotes (express, standard, economy)
// for the given package.
func (s *EstimateService) GetEstimates(pkg models.PackageDetails) []models.Estimate {
	if s.apiKey == "" {
		return fallbackEstimates(pkg)
	}

	estimates, err := s.fetchUpstream(pkg)
	if err != nil {
		log.Printf("Estimator API unavailable, using local rates: %v", err)
		return fallbackEstimates(pkg)
	}
	return estimates
}

func (s *EstimateService) fetchUpstream(pkg models.PackageDetails) ([]models.Estimate, error) {
	prompt := fmt.Sprintf(`You are a shipping cost calculator API. Based on the following package details, provide realistic shipping cost estimates.

Package Details:
- Source: %s
- Destination: %s
- Weight: %.2fkg
- Dimensions: %.0fx%.0fx%.0fcm

Important: Respond ONLY with a JSON object in the following format, with no additional text or markdown:
{"estimates": [{"provider": "provider name", "cost": numeric cost, "duration": "delivery time range", "service_type": "service level"}]}

Include 3 shipping providers: one express, one standard, and one economy option.
Base the cost on distance, weight, and dimensions provided.`,
		pkg.Source, pkg.Destination, pkg.Weight, pkg.Length, pkg.Width, pkg.Height)

	reqBody, err := json.Marshal(chatRequest{
		Model:       s.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call estimator API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("estimator API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse estimator response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no content in estimator response")
	}

	content := extractJSON(chatResp.Choices[0].Message.Content)

	var payload estimatesPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse estimates: %w", err)
	}
	if len(payload.Estimates) == 0 {
		return nil, fmt.Errorf("estimator returned no quotes")
	}

	return payload.Estimates, nil
}

// extractJSON strips markdown code fences and any prose around the
// outermost JSON object. Generative models add both despite instructions.
func extractJSON(content string) string {
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	content = strings.TrimSpace(content)

	if start := strings.Index(content, "{"); start >= 0 {
		content = content[start:]
	}
	if end := strings.LastIndex(content, "}"); end >= 0 {
		content = content[:end+1]
	}
	return content
}

// fallbackEstimates computes quotes from a local rate card: a flat base rate
// plus weight and volumetric components, tiered per service level.
func fallbackEstimates(pkg models.PackageDetails) []models.Estimate {
	base := baseCost(pkg)
	return []models.Estimate{
		{Provider: "Express Courier", Cost: round2(base * 2), Duration: "1-2 days", ServiceType: "Express"},
		{Provider: "Standard Shipping", Cost: base, Duration: "3-5 days", ServiceType: "Standard"},
		{Provider: "Economy Delivery", Cost: round2(base * 0.7), Duration: "5-7 days", ServiceType: "Economy"},
	}
}

func baseCost(pkg models.PackageDetails) float64 {
	const baseRate = 20.0
	weightFactor := pkg.Weight * 2
	volume := pkg.Length * pkg.Width * pkg.Height / 5000 // volumetric divisor in cubic cm
	return round2(baseRate + weightFactor + volume)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
