package scanner

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amir656/polytrage/internal/config"
	"github.com/amir656/polytrage/internal/logging"
	"github.com/amir656/polytrage/pkg/contracts"
	"github.com/amir656/polytrage/pkg/models"
)

// OpportunityStore persists detected opportunities
type OpportunityStore interface {
	WriteOpportunity(ctx context.Context, opp models.Opportunity) (int64, error)
}

// Publisher delivers envelopes to the pipeline stream
type Publisher interface {
	Publish(ctx context.Context, streamKey string, env models.Envelope) error
}

// Engine runs the opportunity detection loop: poll oracle prices and market
// descriptors, detect mispricings, persist them, and publish a single
// opportunities_detected envelope per scan that found anything.
type Engine struct {
	prices    contracts.PriceFeedProvider
	markets   contracts.MarketProvider
	detector  contracts.OpportunityDetector
	store     OpportunityStore
	publisher Publisher
	config    config.ScannerConfig
	log       *logrus.Entry

	// Metrics
	scansCompleted     int64
	scansFailed        int64
	opportunitiesFound int64
}

// NewEngine creates a scanner engine
func NewEngine(
	prices contracts.PriceFeedProvider,
	markets contracts.MarketProvider,
	detector contracts.OpportunityDetector,
	st OpportunityStore,
	publisher Publisher,
	cfg config.ScannerConfig,
) *Engine {
	return &Engine{
		prices:    prices,
		markets:   markets,
		detector:  detector,
		store:     st,
		publisher: publisher,
		config:    cfg,
		log:       logging.Component("scanner"),
	}
}

// Run starts the scan loop and blocks until the context is cancelled. A scan
// runs immediately on startup, then on every tick. Failed scans are retried
// after the configured delay instead of waiting a full interval.
func (e *Engine) Run(ctx context.Context) error {
	e.log.WithFields(logrus.Fields{
		"interval":          e.config.ScanInterval,
		"min_profit_margin": e.config.MinProfitMargin,
	}).Info("Scanner started")

	ticker := time.NewTicker(e.config.ScanInterval)
	defer ticker.Stop()

	if err := e.scanOnce(ctx); err != nil {
		e.log.WithError(err).Error("Initial scan failed")
	}

	for {
		select {
		case <-ctx.Done():
			e.log.Info("Scanner stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := e.scanOnce(ctx); err != nil {
				e.log.WithError(err).Error("Scan failed, retrying after delay")

				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(e.config.RetryDelay):
				}

				if err := e.scanOnce(ctx); err != nil {
					e.log.WithError(err).Error("Retry scan failed")
				}
			}
		}
	}
}

// scanOnce performs a full detection pass
func (e *Engine) scanOnce(ctx context.Context) error {
	prices, err := e.prices.FetchPrices(ctx)
	if err != nil {
		atomic.AddInt64(&e.scansFailed, 1)
		return err
	}

	markets, err := e.markets.FetchMarkets(ctx)
	if err != nil {
		atomic.AddInt64(&e.scansFailed, 1)
		return err
	}

	var detected []models.Opportunity
	for _, market := range markets {
		opp := e.detector.Detect(market, prices)
		if opp == nil {
			e.log.WithField("market", market.ID).Debug("No oracle price for market asset, skipping")
			continue
		}

		if opp.ProfitMargin <= e.config.MinProfitMargin {
			e.log.WithFields(logrus.Fields{
				"market":        market.ID,
				"profit_margin": opp.ProfitMargin,
			}).Debug("Opportunity below margin threshold, dropped")
			continue
		}

		id, err := e.store.WriteOpportunity(ctx, *opp)
		if err != nil {
			// Persistence failures don't block the pipeline; the
			// opportunity still flows downstream without a DB ID
			e.log.WithError(err).Warn("Failed to persist opportunity")
		} else {
			opp.ID = id
		}

		e.log.WithFields(logrus.Fields{
			"market":        opp.Market,
			"oracle_price":  opp.OraclePrice,
			"implied_price": opp.ImpliedPrice,
			"profit_margin": opp.ProfitMargin,
			"confidence":    opp.Confidence,
		}).Info("Opportunity detected")

		detected = append(detected, *opp)
	}

	atomic.AddInt64(&e.scansCompleted, 1)
	atomic.AddInt64(&e.opportunitiesFound, int64(len(detected)))

	if len(detected) == 0 {
		return nil
	}

	env, err := models.NewEnvelope(models.EnvelopeOpportunitiesDetected, "scanner", models.OpportunitiesDetected{
		Opportunities: detected,
	})
	if err != nil {
		return err
	}

	if err := e.publisher.Publish(ctx, config.StreamOpportunities, env); err != nil {
		return err
	}

	e.log.WithField("count", len(detected)).Info("Published opportunities")
	return nil
}

// Metrics is a point-in-time snapshot of the engine's counters
type Metrics struct {
	ScansCompleted     int64
	ScansFailed        int64
	OpportunitiesFound int64
}

// Metrics returns the current counter values
func (e *Engine) Metrics() Metrics {
	return Metrics{
		ScansCompleted:     atomic.LoadInt64(&e.scansCompleted),
		ScansFailed:        atomic.LoadInt64(&e.scansFailed),
		OpportunitiesFound: atomic.LoadInt64(&e.opportunitiesFound),
	}
}
