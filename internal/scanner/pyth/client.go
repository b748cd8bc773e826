package pyth

import (
	"context"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amir656/polytrage/pkg/models"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Default Pyth Hermes price feed IDs
var DefaultFeedIDs = map[string]string{
	"BTC": "0xe62df6c8b4a85fe1a67db44dc12de5db330f7ac66b72dc658afedf0f4a415b43",
	"ETH": "0xff61491a931112ddf1bd8147cd1b641375f79f5825126d665480874634fd0ace",
}

// Client fetches normalized prices from the Pyth Hermes API
type Client struct {
	http    *resty.Client
	feedIDs map[string]string // symbol -> feed ID
}

// priceFeed mirrors the Hermes latest_price_feeds response entry
type priceFeed struct {
	ID    string `json:"id"`
	Price struct {
		Price       string `json:"price"`
		Conf        string `json:"conf"`
		Expo        int32  `json:"expo"`
		PublishTime int64  `json:"publish_time"`
	} `json:"price"`
}

// NewClient creates a Hermes client for the given feed IDs
func NewClient(baseURL string, feedIDs map[string]string) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(15 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second)

	return &Client{
		http:    client,
		feedIDs: feedIDs,
	}
}

// FetchPrices returns the latest normalized price per configured symbol
func (c *Client) FetchPrices(ctx context.Context) (map[string]models.OraclePrice, error) {
	params := url.Values{}
	for _, id := range c.feedIDs {
		params.Add("ids[]", id)
	}

	var feeds []priceFeed
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetResult(&feeds).
		// decode the body as JSON even when an upstream proxy mangles the content type
		ForceContentType("application/json").
		Get("/api/latest_price_feeds")

	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch pyth price feeds")
	}
	if resp.StatusCode() != 200 {
		return nil, errors.Errorf("pyth API error: status=%d body=%s", resp.StatusCode(), resp.String())
	}

	prices := make(map[string]models.OraclePrice, len(feeds))
	for _, feed := range feeds {
		symbol := c.symbolForFeed(feed.ID)
		if symbol == "" {
			continue
		}

		price, err := scaled(feed.Price.Price, feed.Price.Expo)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid price for feed %s", feed.ID)
		}

		conf, err := scaled(feed.Price.Conf, feed.Price.Expo)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid confidence for feed %s", feed.ID)
		}

		prices[symbol] = models.OraclePrice{
			Symbol:      symbol,
			Price:       price,
			Confidence:  conf,
			PublishTime: time.Unix(feed.Price.PublishTime, 0),
		}
	}

	return prices, nil
}

// symbolForFeed maps a feed ID back to its asset symbol. Hermes responses
// omit the 0x prefix, so IDs are compared without it.
func (c *Client) symbolForFeed(feedID string) string {
	normalized := strings.ToLower(strings.TrimPrefix(feedID, "0x"))
	for symbol, id := range c.feedIDs {
		if strings.ToLower(strings.TrimPrefix(id, "0x")) == normalized {
			return symbol
		}
	}
	return ""
}

// scaled applies the feed exponent to a mantissa string
func scaled(mantissa string, expo int32) (float64, error) {
	value, err := strconv.ParseFloat(mantissa, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse mantissa %q", mantissa)
	}
	return value * math.Pow10(int(expo)), nil
}
