package services_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"exportease/internal/models"
	"exportease/internal/services"

	"github.com/stretchr/testify/assert"
)

var testPackage = models.PackageDetails{
	Source:      "Mumbai",
	Destination: "Rotterdam",
	Weight:      10,
	Length:      50,
	Width:       40,
	Height:      30,
}

func TestEstimateService_FallbackWithoutAPIKey(t *testing.T) {
	estimateService := services.NewEstimateService("http://unused.invalid", "", "gemini-pro", time.Second)

	estimates := estimateService.GetEstimates(testPackage)
	assert.Len(t, estimates, 3)

	// base = 20 + 2*10 + (50*40*30)/5000 = 52
	assert.Equal(t, "Express Courier", estimates[0].Provider)
	assert.Equal(t, 104.0, estimates[0].Cost)
	assert.Equal(t, "Standard Shipping", estimates[1].Provider)
	assert.Equal(t, 52.0, estimates[1].Cost)
	assert.Equal(t, "Economy Delivery", estimates[2].Provider)
	assert.Equal(t, 36.4, estimates[2].Cost)
}

func TestEstimateService_ParsesFencedUpstreamResponse(t *testing.T) {
	// Upstream wraps the payload in a markdown fence, which the service
	// must strip before parsing.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		content := "```json\n{\"estimates\": [" +
			"{\"provider\": \"FastShip\", \"cost\": 210.5, \"duration\": \"1-2 days\", \"service_type\": \"Express\"}," +
			"{\"provider\": \"SeaLine\", \"cost\": 120, \"duration\": \"3-5 days\", \"service_type\": \"Standard\"}," +
			"{\"provider\": \"SlowBoat\", \"cost\": 80, \"duration\": \"5-7 days\", \"service_type\": \"Economy\"}" +
			"]}\n```"

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
	defer server.Close()

	estimateService := services.NewEstimateService(server.URL, "test-key", "gemini-pro", time.Second)

	estimates := estimateService.GetEstimates(testPackage)
	assert.Len(t, estimates, 3)
	assert.Equal(t, "FastShip", estimates[0].Provider)
	assert.Equal(t, 210.5, estimates[0].Cost)
	assert.Equal(t, "Economy", estimates[2].ServiceType)
}

func TestEstimateService_FallbackOnUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	estimateService := services.NewEstimateService(server.URL, "test-key", "gemini-pro", time.Second)

	estimates := estimateService.GetEstimates(testPackage)
	assert.Len(t, estimates, 3)
	assert.Equal(t, "Standard Shipping", estimates[1].Provider)
	assert.Equal(t, 52.0, estimates[1].Cost)
}

func TestEstimateService_FallbackOnGarbageContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "Sorry, I cannot help with that."}},
			},
		})
	}))
	defer server.Close()

	estimateService := services.NewEstimateService(server.URL, "test-key", "gemini-pro", time.Second)

	estimates := estimateService.GetEstimates(testPackage)
	assert.Len(t, estimates, 3)
	assert.Equal(t, "Express Courier", estimates[0].Provider)
}
