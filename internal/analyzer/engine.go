package analyzer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amir656/polytrage/internal/analyzer/reasoning"
	"github.com/amir656/polytrage/internal/config"
	"github.com/amir656/polytrage/internal/logging"
	"github.com/amir656/polytrage/internal/stream"
	"github.com/amir656/polytrage/pkg/models"
)

// Engine consumes detected opportunities, scores them with the reasoning
// core, and forwards EXECUTE recommendations downstream. MONITOR analyses
// are parked and re-evaluated with confidence decay until they resolve to
// EXECUTE or SKIP.
type Engine struct {
	reasoner  *reasoning.Engine
	consumer  *stream.Consumer
	publisher *stream.Publisher
	config    config.AnalyzerConfig
	log       *logrus.Entry

	mu      sync.Mutex
	pending []models.Analysis

	// Metrics
	opportunitiesSeen int64
	executeSent       int64
	skipped           int64
}

// NewEngine creates an analyzer engine
func NewEngine(
	reasoner *reasoning.Engine,
	consumer *stream.Consumer,
	publisher *stream.Publisher,
	cfg config.AnalyzerConfig,
) *Engine {
	return &Engine{
		reasoner:  reasoner,
		consumer:  consumer,
		publisher: publisher,
		config:    cfg,
		log:       logging.Component("analyzer"),
	}
}

// Run consumes the opportunities stream until the context is cancelled
func (e *Engine) Run(ctx context.Context) error {
	e.log.WithField("pending_interval", e.config.PendingInterval).Info("Analyzer started")

	messageCh, errorCh := e.consumer.Consume(ctx, config.StreamOpportunities)

	pendingTicker := time.NewTicker(e.config.PendingInterval)
	defer pendingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("Analyzer stopped")
			return ctx.Err()

		case msg, ok := <-messageCh:
			if !ok {
				return nil
			}
			e.handleMessage(ctx, msg)

		case err, ok := <-errorCh:
			if !ok {
				return nil
			}
			e.log.WithError(err).Error("Stream error")

		case <-pendingTicker.C:
			e.reevaluatePending(ctx)
		}
	}
}

// handleMessage processes one opportunities_detected envelope
func (e *Engine) handleMessage(ctx context.Context, msg stream.Message) {
	payload, err := msg.Envelope.OpportunitiesPayload()
	if err != nil {
		e.log.WithError(err).WithField("message_id", msg.ID).Error("Failed to decode opportunities payload")
		return
	}

	e.log.WithField("count", len(payload.Opportunities)).Info("Received opportunities")

	for _, opp := range payload.Opportunities {
		atomic.AddInt64(&e.opportunitiesSeen, 1)

		analysis := e.reasoner.Evaluate(opp)
		e.logAnalysis(analysis)
		e.dispatch(ctx, analysis, opp.ID)
	}

	if err := e.consumer.Ack(ctx, msg.StreamKey, msg.ID); err != nil {
		e.log.WithError(err).WithField("message_id", msg.ID).Warn("Failed to ack message")
	}
}

// dispatch routes an analysis by recommendation. SKIP never leaves the
// analyzer.
func (e *Engine) dispatch(ctx context.Context, analysis models.Analysis, opportunityID int64) {
	switch analysis.Recommendation {
	case models.RecommendationExecute:
		e.sendRecommendation(ctx, analysis, opportunityID)

	case models.RecommendationMonitor:
		e.mu.Lock()
		e.pending = append(e.pending, analysis)
		e.mu.Unlock()
		e.log.WithField("market", analysis.Market).Info("Opportunity parked for monitoring")

	case models.RecommendationSkip:
		atomic.AddInt64(&e.skipped, 1)
		e.log.WithField("market", analysis.Market).Info("Opportunity skipped")
	}
}

// reevaluatePending re-scores parked analyses with confidence decay. Each
// pass produces fresh analyses; resolved ones leave the pending list.
func (e *Engine) reevaluatePending(ctx context.Context) {
	e.mu.Lock()
	parked := e.pending
	e.pending = nil
	e.mu.Unlock()

	if len(parked) == 0 {
		return
	}

	var still []models.Analysis
	for _, analysis := range parked {
		updated := e.reasoner.Reevaluate(analysis)

		switch updated.Recommendation {
		case models.RecommendationExecute:
			e.sendRecommendation(ctx, updated, 0)
		case models.RecommendationMonitor:
			still = append(still, updated)
		default:
			atomic.AddInt64(&e.skipped, 1)
			e.log.WithFields(logrus.Fields{
				"market":     updated.Market,
				"confidence": updated.Confidence,
			}).Info("Monitored opportunity decayed to skip")
		}
	}

	e.mu.Lock()
	e.pending = append(still, e.pending...)
	e.mu.Unlock()
}

// sendRecommendation publishes a trade_recommendation envelope
func (e *Engine) sendRecommendation(ctx context.Context, analysis models.Analysis, opportunityID int64) {
	rec := models.TradeRecommendation{
		Market:        analysis.Market,
		Action:        analysis.Recommendation,
		BetSize:       analysis.BetSize,
		ProfitMargin:  analysis.ProfitMargin,
		Confidence:    analysis.Confidence,
		RiskScore:     analysis.RiskScore,
		Reasoning:     analysis.Reasoning,
		OpportunityID: opportunityID,
	}

	env, err := models.NewEnvelope(models.EnvelopeTradeRecommendation, "analyzer", rec)
	if err != nil {
		e.log.WithError(err).Error("Failed to build recommendation envelope")
		return
	}

	if err := e.publisher.Publish(ctx, config.StreamRecommended, env); err != nil {
		e.log.WithError(err).WithField("market", analysis.Market).Error("Failed to publish recommendation")
		return
	}

	atomic.AddInt64(&e.executeSent, 1)
	e.log.WithFields(logrus.Fields{
		"market":   analysis.Market,
		"bet_size": analysis.BetSize,
	}).Info("Trade recommendation sent")
}

func (e *Engine) logAnalysis(analysis models.Analysis) {
	e.log.WithFields(logrus.Fields{
		"market":         analysis.Market,
		"profit_margin":  analysis.ProfitMargin,
		"confidence":     analysis.Confidence,
		"risk_score":     analysis.RiskScore,
		"recommendation": analysis.Recommendation,
		"bet_size":       analysis.BetSize,
	}).Info("Opportunity analyzed")

	for _, reason := range analysis.Reasoning {
		e.log.Debugf("  - %s", reason)
	}
}

// PendingCount returns the number of parked MONITOR analyses
func (e *Engine) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// Metrics is a point-in-time snapshot of the engine's counters
type Metrics struct {
	OpportunitiesSeen int64
	ExecuteSent       int64
	Skipped           int64
	Pending           int
}

// Metrics returns the current counter values
func (e *Engine) Metrics() Metrics {
	return Metrics{
		OpportunitiesSeen: atomic.LoadInt64(&e.opportunitiesSeen),
		ExecuteSent:       atomic.LoadInt64(&e.executeSent),
		Skipped:           atomic.LoadInt64(&e.skipped),
		Pending:           e.PendingCount(),
	}
}
