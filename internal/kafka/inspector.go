// Package kafka inspects consumer-group state via the broker admin API.
// It replaces the old approach of shelling out to kafka-consumer-groups.sh
// and scraping its column output.
package kafka

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Inspector describes one configured consumer group.
type Inspector struct {
	client *kgo.Client
	admin  *kadm.Client
	group  string
}

// NewInspector creates an Inspector connected to the given brokers.
func NewInspector(brokers []string, group string) (*Inspector, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
	)
	if err != nil {
		return nil, err
	}
	return &Inspector{
		client: client,
		admin:  kadm.NewClient(client),
		group:  group,
	}, nil
}

// ConsumerIDs returns the member ids of the configured consumer group.
// An empty slice means the group currently has no live members.
func (i *Inspector) ConsumerIDs(ctx context.Context) ([]string, error) {
	described, err := i.admin.DescribeGroups(ctx, i.group)
	if err != nil {
		return nil, fmt.Errorf("describe group %s: %w", i.group, err)
	}

	g, ok := described[i.group]
	if !ok {
		return nil, fmt.Errorf("describe group %s: group missing from response", i.group)
	}
	if g.Err != nil {
		return nil, fmt.Errorf("describe group %s: %w", i.group, g.Err)
	}

	ids := memberIDs(g)
	log.Debug().Str("group", i.group).Str("state", g.State).Int("members", len(ids)).Msg("described consumer group")
	return ids, nil
}

// Close releases the underlying Kafka client.
func (i *Inspector) Close() {
	i.client.Close()
}

func memberIDs(g kadm.DescribedGroup) []string {
	ids := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		if m.MemberID != "" {
			ids = append(ids, m.MemberID)
		}
	}
	return ids
}
