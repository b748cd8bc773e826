package vincent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/amir656/polytrage/internal/logging"
	"github.com/amir656/polytrage/pkg/models"
)

// polymarketCLOBAddress is the CLOB contract trades settle against
const polymarketCLOBAddress = "0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E"

// executionLatency simulates on-chain transaction time
const executionLatency = 2 * time.Second

// ErrDelegationInvalid indicates the user's Vincent delegation is expired
// or missing. An authorization failure, distinct from policy rejection.
var ErrDelegationInvalid = errors.New("user delegation expired or invalid")

// Client executes trades through a Vincent app delegation. Execution is
// non-custodial: the user pre-delegates bounded trading authority and the
// client acts within it. The on-chain path is simulated.
type Client struct {
	appAddress string
	rpcURL     string
	log        *logrus.Entry
}

// NewClient creates a Vincent execution client
func NewClient(appAddress, rpcURL string) *Client {
	return &Client{
		appAddress: appAddress,
		rpcURL:     rpcURL,
		log:        logging.Component("vincent"),
	}
}

// Execute places a sized trade under the user's delegation and returns the
// transaction hash
func (c *Client) Execute(ctx context.Context, trade models.SizedTrade, policy models.UserPolicy) (string, error) {
	c.log.WithFields(logrus.Fields{
		"market":   trade.Market,
		"amount":   trade.Amount,
		"user":     policy.UserAddress,
		"contract": polymarketCLOBAddress,
	}).Info("Executing trade via Vincent")

	valid, err := c.checkDelegation(ctx, policy.UserAddress)
	if err != nil {
		return "", errors.Wrap(err, "delegation check failed")
	}
	if !valid {
		return "", ErrDelegationInvalid
	}

	calldata := encodeBet(trade)
	c.log.WithField("calldata", calldata).Debug("Prepared transaction data")

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(executionLatency):
	}

	txHash := mockTxHash()
	c.log.WithField("tx_hash", txHash).Info("Trade executed")

	return txHash, nil
}

// checkDelegation verifies the user's Vincent delegation. On-chain
// verification is simulated and always passes.
func (c *Client) checkDelegation(ctx context.Context, userAddress string) (bool, error) {
	if userAddress == "" {
		return false, nil
	}
	return true, nil
}

// encodeBet encodes the CLOB contract call. Placeholder calldata until the
// real CLOB ABI encoding lands.
func encodeBet(trade models.SizedTrade) string {
	return "0x1234567890abcdef"
}

// mockTxHash fabricates a plausible transaction hash
func mockTxHash() string {
	return fmt.Sprintf("0x%s", strings.ReplaceAll(uuid.NewString(), "-", ""))
}
