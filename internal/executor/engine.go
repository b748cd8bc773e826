package executor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/amir656/polytrage/internal/config"
	"github.com/amir656/polytrage/internal/executor/policy"
	"github.com/amir656/polytrage/internal/logging"
	"github.com/amir656/polytrage/internal/stream"
	"github.com/amir656/polytrage/pkg/contracts"
	"github.com/amir656/polytrage/pkg/models"
)

// settlementWindow is how long an executed trade is considered to be
// awaiting on-chain settlement
const settlementWindow = 5 * time.Minute

// TradeStore persists execution records
type TradeStore interface {
	WriteTrade(ctx context.Context, trade models.TradeExecution) (int64, error)
	ListExecutedSince(ctx context.Context, cutoff time.Time) ([]models.TradeExecution, error)
}

// PolicyProvider loads user policies
type PolicyProvider interface {
	GetUserPolicy(ctx context.Context, userAddress string) (*models.UserPolicy, error)
}

// TradeNotifier delivers execution results to a side channel
type TradeNotifier interface {
	NotifyTrade(ctx context.Context, trade models.TradeExecution) error
}

// Engine consumes trade recommendations, applies the user's policy filter
// and dollar sizing, and executes approved trades through the execution
// client. Every attempt, pass or fail, produces an immutable
// TradeExecution record; failed trades are terminal and never retried.
type Engine struct {
	consumer  *stream.Consumer
	publisher *stream.Publisher
	client    contracts.ExecutionClient
	store     TradeStore
	policies  PolicyProvider
	notifier  TradeNotifier
	config    config.ExecutorConfig
	log       *logrus.Entry

	// Metrics
	tradesExecuted int64
	tradesFailed   int64
}

// NewEngine creates an executor engine. The notifier may be nil.
func NewEngine(
	consumer *stream.Consumer,
	publisher *stream.Publisher,
	client contracts.ExecutionClient,
	st TradeStore,
	policies PolicyProvider,
	notifier TradeNotifier,
	cfg config.ExecutorConfig,
) *Engine {
	return &Engine{
		consumer:  consumer,
		publisher: publisher,
		client:    client,
		store:     st,
		policies:  policies,
		notifier:  notifier,
		config:    cfg,
		log:       logging.Component("executor"),
	}
}

// Run consumes the recommendations stream until the context is cancelled
func (e *Engine) Run(ctx context.Context) error {
	e.log.WithField("monitor_interval", e.config.MonitorInterval).Info("Executor started")

	messageCh, errorCh := e.consumer.Consume(ctx, config.StreamRecommended)

	monitorTicker := time.NewTicker(e.config.MonitorInterval)
	defer monitorTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("Executor stopped")
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

		case <-monitorTicker.C:
			e.monitorSettlement(ctx)
		}
	}
}

// handleMessage processes one trade_recommendation envelope
func (e *Engine) handleMessage(ctx context.Context, msg stream.Message) {
	rec, err := msg.Envelope.RecommendationPayload()
	if err != nil {
		e.log.WithError(err).WithField("message_id", msg.ID).Error("Failed to decode recommendation payload")
		return
	}

	e.log.WithFields(logrus.Fields{
		"market":        rec.Market,
		"profit_margin": rec.ProfitMargin,
		"confidence":    rec.Confidence,
	}).Info("Received trade recommendation")

	// SKIP recommendations must never reach execution
	if rec.Action == models.RecommendationSkip {
		e.log.WithField("market", rec.Market).Warn("Dropping SKIP recommendation")
		e.ack(ctx, msg)
		return
	}

	userPolicy, err := e.policies.GetUserPolicy(ctx, models.DefaultUserPolicy().UserAddress)
	if err != nil {
		e.log.WithError(err).Error("Failed to load user policy")
		return
	}
	if userPolicy == nil || !userPolicy.IsActive {
		e.log.Warn("No active user policy found, dropping recommendation")
		e.ack(ctx, msg)
		return
	}

	execution := e.ProcessRecommendation(ctx, rec, *userPolicy)
	e.record(ctx, execution)
	e.ack(ctx, msg)
}

// ProcessRecommendation runs the policy filter, dollar sizing, and
// execution for one recommendation, returning the resulting record
func (e *Engine) ProcessRecommendation(ctx context.Context, rec models.TradeRecommendation, userPolicy models.UserPolicy) models.TradeExecution {
	tradeID := fmt.Sprintf("trade_%s", uuid.NewString())

	ok, reason := policy.Check(rec, userPolicy)
	if !ok {
		return failedTrade(tradeID, rec.Market, reason)
	}

	amount, err := policy.Size(rec.BetSize, userPolicy)
	if err != nil {
		return failedTrade(tradeID, rec.Market, err.Error())
	}

	trade := models.SizedTrade{
		Market:       rec.Market,
		Amount:       amount,
		ProfitMargin: rec.ProfitMargin,
		Confidence:   rec.Confidence,
		RiskScore:    rec.RiskScore,
		Reasoning:    rec.Reasoning,
	}

	txHash, err := e.client.Execute(ctx, trade, userPolicy)
	if err != nil {
		// Authorization and transport failures alike become a terminal
		// failed record
		return failedTrade(tradeID, rec.Market, err.Error())
	}

	return models.TradeExecution{
		TradeID:        tradeID,
		Market:         rec.Market,
		BetSize:        amount,
		ExpectedProfit: amount * rec.ProfitMargin / 100,
		TxHash:         &txHash,
		Status:         models.TradeStatusExecuted,
		Timestamp:      time.Now(),
	}
}

// record persists, publishes, and notifies one execution result
func (e *Engine) record(ctx context.Context, execution models.TradeExecution) {
	if execution.Status == models.TradeStatusExecuted {
		atomic.AddInt64(&e.tradesExecuted, 1)
		e.log.WithFields(logrus.Fields{
			"trade_id":        execution.TradeID,
			"bet_size":        execution.BetSize,
			"expected_profit": execution.ExpectedProfit,
			"tx_hash":         *execution.TxHash,
		}).Info("Trade executed")
	} else {
		atomic.AddInt64(&e.tradesFailed, 1)
		e.log.WithFields(logrus.Fields{
			"trade_id": execution.TradeID,
			"error":    execution.ErrorMessage,
		}).Warn("Trade failed")
	}

	id, err := e.store.WriteTrade(ctx, execution)
	if err != nil {
		e.log.WithError(err).Error("Failed to persist trade")
	} else {
		execution.ID = id
	}

	env, err := models.NewEnvelope(models.EnvelopeTradeExecuted, "executor", models.TradeExecuted{Trade: execution})
	if err != nil {
		e.log.WithError(err).Error("Failed to build trade_executed envelope")
	} else if err := e.publisher.Publish(ctx, config.StreamExecuted, env); err != nil {
		e.log.WithError(err).Error("Failed to publish trade result")
	}

	if e.notifier != nil {
		go func() {
			if err := e.notifier.NotifyTrade(context.WithoutCancel(ctx), execution); err != nil {
				e.log.WithError(err).Warn("Failed to send trade notification")
			}
		}()
	}
}

// monitorSettlement logs executed trades still inside the settlement window
func (e *Engine) monitorSettlement(ctx context.Context) {
	trades, err := e.store.ListExecutedSince(ctx, time.Now().Add(-settlementWindow))
	if err != nil {
		e.log.WithError(err).Error("Settlement monitor query failed")
		return
	}

	for _, trade := range trades {
		e.log.WithFields(logrus.Fields{
			"trade_id": trade.TradeID,
			"elapsed":  time.Since(trade.Timestamp).Round(time.Second),
		}).Info("Monitoring trade awaiting settlement")
	}
}

func (e *Engine) ack(ctx context.Context, msg stream.Message) {
	if err := e.consumer.Ack(ctx, msg.StreamKey, msg.ID); err != nil {
		e.log.WithError(err).WithField("message_id", msg.ID).Warn("Failed to ack message")
	}
}

// failedTrade builds the terminal record for a rejected or failed attempt
func failedTrade(tradeID, market, reason string) models.TradeExecution {
	return models.TradeExecution{
		TradeID:      tradeID,
		Market:       market,
		Status:       models.TradeStatusFailed,
		ErrorMessage: reason,
		Timestamp:    time.Now(),
	}
}

// Metrics is a point-in-time snapshot of the engine's counters
type Metrics struct {
	TradesExecuted int64
	TradesFailed   int64
}

// Metrics returns the current counter values
func (e *Engine) Metrics() Metrics {
	return Metrics{
		TradesExecuted: atomic.LoadInt64(&e.tradesExecuted),
		TradesFailed:   atomic.LoadInt64(&e.tradesFailed),
	}
}
