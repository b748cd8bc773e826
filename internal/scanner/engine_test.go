package scanner

import (
	"context"
	"errors"
	"testing"

	"github.com/amir656/polytrage/internal/config"
	"github.com/amir656/polytrage/internal/scanner/detector"
	"github.com/amir656/polytrage/internal/scanner/markets"
	"github.com/amir656/polytrage/pkg/models"
)

type stubPrices struct {
	prices map[string]models.OraclePrice
	err    error
}

func (s *stubPrices) FetchPrices(ctx context.Context) (map[string]models.OraclePrice, error) {
	return s.prices, s.err
}

type stubStore struct {
	written []models.Opportunity
	nextID  int64
}

func (s *stubStore) WriteOpportunity(ctx context.Context, opp models.Opportunity) (int64, error) {
	s.written = append(s.written, opp)
	s.nextID++
	return s.nextID, nil
}

type stubPublisher struct {
	published []models.Envelope
}

func (s *stubPublisher) Publish(ctx context.Context, streamKey string, env models.Envelope) error {
	if streamKey != config.StreamOpportunities {
		return errors.New("unexpected stream key " + streamKey)
	}
	s.published = append(s.published, env)
	return nil
}

func testConfig() config.ScannerConfig {
	return config.ScannerConfig{MinProfitMargin: 3.0}
}

func TestScanOncePublishesOpportunities(t *testing.T) {
	prices := &stubPrices{prices: map[string]models.OraclePrice{
		"BTC": {Symbol: "BTC", Price: 98500, Confidence: 50},
		"ETH": {Symbol: "ETH", Price: 3200, Confidence: 10},
	}}
	st := &stubStore{}
	pub := &stubPublisher{}

	e := NewEngine(prices, markets.NewMockProvider(), detector.New(), st, pub, testConfig())

	if err := e.scanOnce(context.Background()); err != nil {
		t.Fatalf("scanOnce: %v", err)
	}

	// Both demo markets are heavily mispriced against these oracle prices
	if len(st.written) != 2 {
		t.Fatalf("persisted %d opportunities, want 2", len(st.written))
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d envelopes, want 1", len(pub.published))
	}

	payload, err := pub.published[0].OpportunitiesPayload()
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if len(payload.Opportunities) != 2 {
		t.Errorf("payload carries %d opportunities, want 2", len(payload.Opportunities))
	}

	// DB IDs flow into the published envelope
	for _, opp := range payload.Opportunities {
		if opp.ID == 0 {
			t.Errorf("opportunity %q published without DB ID", opp.Market)
		}
	}

	m := e.Metrics()
	if m.ScansCompleted != 1 || m.OpportunitiesFound != 2 {
		t.Errorf("metrics = %+v, want 1 scan / 2 opportunities", m)
	}
}

func TestScanOnceFiltersThinMargins(t *testing.T) {
	// Oracle prices close to the implied prices leave margins under the
	// threshold: implied BTC 32500, implied ETH 2300
	prices := &stubPrices{prices: map[string]models.OraclePrice{
		"BTC": {Symbol: "BTC", Price: 33000, Confidence: 50},
		"ETH": {Symbol: "ETH", Price: 2310, Confidence: 10},
	}}
	st := &stubStore{}
	pub := &stubPublisher{}

	e := NewEngine(prices, markets.NewMockProvider(), detector.New(), st, pub, testConfig())

	if err := e.scanOnce(context.Background()); err != nil {
		t.Fatalf("scanOnce: %v", err)
	}

	if len(st.written) != 0 {
		t.Errorf("persisted %d opportunities, want 0", len(st.written))
	}
	if len(pub.published) != 0 {
		t.Errorf("published %d envelopes, want 0 when nothing clears the threshold", len(pub.published))
	}
}

func TestScanOnceMissingOracleFeed(t *testing.T) {
	prices := &stubPrices{prices: map[string]models.OraclePrice{
		"BTC": {Symbol: "BTC", Price: 98500, Confidence: 50},
	}}
	st := &stubStore{}
	pub := &stubPublisher{}

	e := NewEngine(prices, markets.NewMockProvider(), detector.New(), st, pub, testConfig())

	if err := e.scanOnce(context.Background()); err != nil {
		t.Fatalf("scanOnce: %v", err)
	}

	// Only the BTC market can be priced
	if len(st.written) != 1 {
		t.Fatalf("persisted %d opportunities, want 1", len(st.written))
	}
	if st.written[0].OraclePrice != 98500 {
		t.Errorf("oracle price = %f, want 98500", st.written[0].OraclePrice)
	}
}

func TestScanOnceFetchFailure(t *testing.T) {
	prices := &stubPrices{err: errors.New("hermes down")}
	st := &stubStore{}
	pub := &stubPublisher{}

	e := NewEngine(prices, markets.NewMockProvider(), detector.New(), st, pub, testConfig())

	if err := e.scanOnce(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}

	if m := e.Metrics(); m.ScansFailed != 1 {
		t.Errorf("ScansFailed = %d, want 1", m.ScansFailed)
	}
	if len(pub.published) != 0 {
		t.Errorf("published %d envelopes after failed scan, want 0", len(pub.published))
	}
}
