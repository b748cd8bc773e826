package pyth

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestScaled(t *testing.T) {
	tests := []struct {
		mantissa string
		expo     int32
		want     float64
	}{
		{"9850000000000", -8, 98500},
		{"320050000000", -8, 3200.5},
		{"5", 0, 5},
		{"12", 2, 1200},
	}

	for _, tt := range tests {
		got, err := scaled(tt.mantissa, tt.expo)
		if err != nil {
			t.Fatalf("scaled(%q, %d): %v", tt.mantissa, tt.expo, err)
		}
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("scaled(%q, %d) = %f, want %f", tt.mantissa, tt.expo, got, tt.want)
		}
	}

	if _, err := scaled("not-a-number", -8); err == nil {
		t.Error("expected error for invalid mantissa")
	}
}

func TestSymbolForFeed(t *testing.T) {
	c := NewClient("https://hermes.pyth.network", DefaultFeedIDs)

	// Hermes omits the 0x prefix in responses
	stripped := DefaultFeedIDs["BTC"][2:]
	if got := c.symbolForFeed(stripped); got != "BTC" {
		t.Errorf("symbolForFeed(stripped) = %q, want BTC", got)
	}
	if got := c.symbolForFeed(DefaultFeedIDs["ETH"]); got != "ETH" {
		t.Errorf("symbolForFeed(prefixed) = %q, want ETH", got)
	}
	if got := c.symbolForFeed("deadbeef"); got != "" {
		t.Errorf("symbolForFeed(unknown) = %q, want empty", got)
	}
}

func TestFetchPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/latest_price_feeds" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query()["ids[]"]; len(got) != 2 {
			t.Errorf("ids[] params = %v, want 2 entries", got)
		}

		feeds := []map[string]interface{}{
			{
				"id": DefaultFeedIDs["BTC"][2:],
				"price": map[string]interface{}{
					"price":        "9850000000000",
					"conf":         "5000000000",
					"expo":         -8,
					"publish_time": 1735600000,
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(feeds)
	}))
	defer server.Close()

	c := NewClient(server.URL, DefaultFeedIDs)

	prices, err := c.FetchPrices(context.Background())
	if err != nil {
		t.Fatalf("FetchPrices: %v", err)
	}

	btc, ok := prices["BTC"]
	if !ok {
		t.Fatalf("prices = %v, want BTC entry", prices)
	}
	if math.Abs(btc.Price-98500) > 1e-6 {
		t.Errorf("price = %f, want 98500", btc.Price)
	}
	if math.Abs(btc.Confidence-50) > 1e-6 {
		t.Errorf("confidence = %f, want 50", btc.Confidence)
	}
	if btc.PublishTime.Unix() != 1735600000 {
		t.Errorf("publish time = %d, want 1735600000", btc.PublishTime.Unix())
	}
}

// Some proxies rewrite or drop the Content-Type header; decoding must not
// depend on it.
func TestFetchPricesMissingContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"id": DefaultFeedIDs["ETH"][2:],
				"price": map[string]interface{}{
					"price":        "320050000000",
					"conf":         "100000000",
					"expo":         -8,
					"publish_time": 1735600000,
				},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, DefaultFeedIDs)

	prices, err := c.FetchPrices(context.Background())
	if err != nil {
		t.Fatalf("FetchPrices: %v", err)
	}
	eth, ok := prices["ETH"]
	if !ok {
		t.Fatalf("prices = %v, want ETH entry", prices)
	}
	if math.Abs(eth.Price-3200.5) > 1e-6 {
		t.Errorf("price = %f, want 3200.5", eth.Price)
	}
}

func TestFetchPricesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.URL, DefaultFeedIDs)
	c.http.SetRetryCount(0)

	if _, err := c.FetchPrices(context.Background()); err == nil {
		t.Error("expected error for non-200 response")
	}
}
