package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ErrConfiguration marks a missing or invalid credential detected before any
// network call is attempted.
var ErrConfiguration = errors.New("configuration error")

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Azure    AzureConfig    `mapstructure:"azure"`
	NewRelic NewRelicConfig `mapstructure:"newrelic"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// AzureConfig carries the confidential-client credential for the source
// directory's graph API.
type AzureConfig struct {
	TenantID     string `mapstructure:"tenant_id"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	// AuthorityBase and GraphBase exist so tests can point the clients at a
	// local server; production leaves the defaults alone.
	AuthorityBase string `mapstructure:"authority_base"`
	GraphBase     string `mapstructure:"graph_base"`
}

// NewRelicConfig carries the downstream platform credentials. APIKey
// authenticates NerdGraph; InsertKey authenticates the Insights collector
// used by the Kafka consumer reporter.
type NewRelicConfig struct {
	APIKey        string `mapstructure:"api_key"`
	GraphEndpoint string `mapstructure:"graph_endpoint"`
	InsertKey     string `mapstructure:"insert_key"`
	AccountID     string `mapstructure:"account_id"`
	CollectorBase string `mapstructure:"collector_base"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	// GroupName is the consumer group the reporter describes.
	GroupName string `mapstructure:"group_name"`
	// ReportIntervalMinutes enables the periodic reporter when > 0.
	ReportIntervalMinutes int `mapstructure:"report_interval_minutes"`
}

type WebhookConfig struct {
	// SSOGroup is the security group whose removals trigger deprovisioning.
	SSOGroup string `mapstructure:"sso_group"`
	// Audience, when set, requires Event Grid deliveries to carry an AAD
	// bearer token with this audience.
	Audience string `mapstructure:"audience"`
}

// Load reads configuration from environment variables and config files.
// Environment variables override file values. Prefix: NRUM_
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("azure.authority_base", "https://login.microsoftonline.com")
	v.SetDefault("azure.graph_base", "https://graph.microsoft.com")
	v.SetDefault("newrelic.graph_endpoint", "https://api.newrelic.com/graphql")
	v.SetDefault("newrelic.collector_base", "https://insights-collector.newrelic.com")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.group_name", "default_group")
	v.SetDefault("kafka.report_interval_minutes", 0)
	v.SetDefault("webhook.sso_group", "New Relic SSO")

	// Environment variables (e.g. AZURE_TENANT_ID -> azure.tenant_id)
	v.SetEnvPrefix("NRUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also support the conventional env var names without prefix
	v.BindEnv("azure.tenant_id", "AZURE_TENANT_ID")
	v.BindEnv("azure.client_id", "AZURE_CLIENT_ID")
	v.BindEnv("azure.client_secret", "AZURE_CLIENT_SECRET")
	v.BindEnv("newrelic.api_key", "NEW_RELIC_API_KEY")
	v.BindEnv("newrelic.insert_key", "NEW_RELIC_INSERT_KEY")
	v.BindEnv("newrelic.account_id", "NEW_RELIC_ACCOUNT_ID")
	v.BindEnv("kafka.brokers", "KAFKA_BOOTSTRAP_SERVERS")
	v.BindEnv("kafka.group_name", "KAFKA_GROUP_NAME")
	v.BindEnv("webhook.sso_group", "SSO_GROUP_NAME")
	v.BindEnv("server.port", "PORT")

	// Try loading config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // Not required

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that every credential the pipeline needs is present.
// It runs once at startup, before any client is constructed, so a missing
// credential never turns into a mid-pipeline network failure.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"azure.tenant_id", c.Azure.TenantID},
		{"azure.client_id", c.Azure.ClientID},
		{"azure.client_secret", c.Azure.ClientSecret},
		{"newrelic.api_key", c.NewRelic.APIKey},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is required", ErrConfiguration, r.key)
		}
	}

	// The reporter is optional, but when brokers are configured its
	// credentials must be complete.
	if len(c.Kafka.Brokers) > 0 {
		if c.NewRelic.InsertKey == "" {
			return fmt.Errorf("%w: newrelic.insert_key is required when kafka.brokers is set", ErrConfiguration)
		}
		if c.NewRelic.AccountID == "" {
			return fmt.Errorf("%w: newrelic.account_id is required when kafka.brokers is set", ErrConfiguration)
		}
	}
	return nil
}
