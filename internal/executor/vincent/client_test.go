package vincent

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/amir656/polytrage/pkg/models"
)

func TestExecuteRejectsMissingDelegation(t *testing.T) {
	c := NewClient("0xapp", "https://mainnet.base.org")

	trade := models.SizedTrade{Market: "test", Amount: 50}
	policy := models.UserPolicy{UserAddress: ""} // no delegated user

	_, err := c.Execute(context.Background(), trade, policy)
	if !errors.Is(err, ErrDelegationInvalid) {
		t.Errorf("err = %v, want ErrDelegationInvalid", err)
	}
}

func TestExecuteReturnsTxHash(t *testing.T) {
	c := NewClient("0xapp", "https://mainnet.base.org")

	trade := models.SizedTrade{Market: "test", Amount: 50, ProfitMargin: 6.2}

	txHash, err := c.Execute(context.Background(), trade, models.DefaultUserPolicy())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(txHash, "0x") || len(txHash) != 34 {
		t.Errorf("tx hash = %q, want 0x-prefixed 32-hex-char hash", txHash)
	}
}

func TestExecuteHonorsContextCancellation(t *testing.T) {
	c := NewClient("0xapp", "https://mainnet.base.org")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Execute(ctx, models.SizedTrade{Market: "test"}, models.DefaultUserPolicy())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
