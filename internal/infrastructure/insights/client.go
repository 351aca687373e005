// Package insights posts custom events to the New Relic Insights collector.
package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/platform-ops/nr-user-mgmt/internal/config"
)

// ConsumerIDEvent is one custom event row reporting a live Kafka consumer.
type ConsumerIDEvent struct {
	EventType  string `json:"eventType"`
	ConsumerID string `json:"consumer_id"`
}

// Client posts event batches to the Insights collector with an insert key.
type Client struct {
	collectorBase string
	insertKey     string
	accountID     string
	httpClient    *http.Client
}

// New creates an Insights Client from the New Relic configuration.
func New(cfg config.NewRelicConfig) *Client {
	return &Client{
		collectorBase: strings.TrimSuffix(cfg.CollectorBase, "/"),
		insertKey:     cfg.InsertKey,
		accountID:     cfg.AccountID,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

// PostConsumerIDs sends one KafkaConsumerID event per consumer id.
func (c *Client) PostConsumerIDs(ctx context.Context, consumerIDs []string) error {
	events := make([]ConsumerIDEvent, 0, len(consumerIDs))
	for _, id := range consumerIDs {
		events = append(events, ConsumerIDEvent{EventType: "KafkaConsumerID", ConsumerID: id})
	}

	body, err := json.Marshal(events)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v1/accounts/%s/events", c.collectorBase, c.accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Insert-Key", c.insertKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("insights post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("insights post: status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
