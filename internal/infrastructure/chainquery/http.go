package chainquery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"

	"github.com/pnam1609/namada-interfaces-comunity/internal/core/domain"
	"github.com/pnam1609/namada-interfaces-comunity/pkg/circuitbreaker"
)

// balanceEntry is the wire shape of one balance reported by the endpoint
type balanceEntry struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

// HTTPClient queries account balances over the chain's REST endpoint. Calls
// are rate limited and guarded by a circuit breaker so a flaky endpoint
// cannot pile up requests.
type HTTPClient struct {
	endpoint string
	client   *http.Client
	cb       *gobreaker.CircuitBreaker
	limiter  ratelimit.Limiter
}

// NewHTTPClient returns a client for the given endpoint, capped at
// requestsPerSecond outbound calls.
func NewHTTPClient(
	endpoint string, requestTimeout time.Duration, requestsPerSecond int,
) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: requestTimeout},
		cb:       circuitbreaker.NewCircuitBreaker("chainquery"),
		limiter:  ratelimit.New(requestsPerSecond),
	}
}

// QueryBalance fetches the token balances of the given owner
func (c *HTTPClient) QueryBalance(
	ctx context.Context, owner string,
) ([]domain.TokenAmount, error) {
	c.limiter.Take()

	entries, err := c.cb.Execute(func() (interface{}, error) {
		reqURL := fmt.Sprintf(
			"%s/balances?owner=%s", c.endpoint, url.QueryEscape(owner),
		)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("chain query returned status %d", resp.StatusCode)
		}

		var decoded []balanceEntry
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, err
		}
		return decoded, nil
	})
	if err != nil {
		return nil, err
	}

	decoded := entries.([]balanceEntry)
	balances := make([]domain.TokenAmount, 0, len(decoded))
	for _, entry := range decoded {
		balances = append(balances, domain.TokenAmount{
			Token:  entry.Token,
			Amount: entry.Amount,
		})
	}
	return balances, nil
}
