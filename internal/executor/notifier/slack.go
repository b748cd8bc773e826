package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/amir656/polytrage/internal/retry"
	"github.com/amir656/polytrage/pkg/models"
)

// SlackNotifier sends trade notifications to a Slack webhook
type SlackNotifier struct {
	webhookURL string
	http       *resty.Client
	retry      *retry.Policy
}

// NewSlackNotifier creates a Slack notifier. An empty webhook URL yields a
// notifier whose sends are no-ops.
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		http:       resty.New().SetTimeout(10 * time.Second),
		retry:      retry.NewPolicy(3, 1*time.Second),
	}
}

// NotifyTrade sends a trade execution result to Slack
func (s *SlackNotifier) NotifyTrade(ctx context.Context, trade models.TradeExecution) error {
	if s.webhookURL == "" {
		return nil
	}

	payload := map[string]interface{}{
		"text": formatTrade(trade),
	}

	return s.retry.Execute(func() error {
		resp, err := s.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Post(s.webhookURL)

		if err != nil {
			return errors.Wrap(err, "failed to send Slack notification")
		}
		if resp.StatusCode() != 200 {
			return errors.Errorf("Slack webhook returned status %d", resp.StatusCode())
		}
		return nil
	})
}

// formatTrade formats a trade execution as a Slack message
func formatTrade(trade models.TradeExecution) string {
	var sb strings.Builder

	if trade.Status == models.TradeStatusExecuted {
		sb.WriteString(fmt.Sprintf("✅ *TRADE EXECUTED* | $%.2f\n\n", trade.BetSize))
		sb.WriteString(fmt.Sprintf("*Market:* %s\n", trade.Market))
		sb.WriteString(fmt.Sprintf("*Expected Profit:* $%.2f\n", trade.ExpectedProfit))
		if trade.TxHash != nil {
			sb.WriteString(fmt.Sprintf("*TX:* %s\n", *trade.TxHash))
		}
	} else {
		sb.WriteString("❌ *TRADE FAILED*\n\n")
		sb.WriteString(fmt.Sprintf("*Market:* %s\n", trade.Market))
		sb.WriteString(fmt.Sprintf("*Reason:* %s\n", trade.ErrorMessage))
	}

	sb.WriteString(fmt.Sprintf("\n_Trade ID: %s | %s_",
		trade.TradeID, trade.Timestamp.Format("15:04:05")))

	return sb.String()
}
