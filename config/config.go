package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/modelstore"
	"github.com/agentbid/auction/policy"
	"github.com/agentbid/auction/simulation"
	"github.com/spf13/viper"
)

const EnvPrefix = "AUCTIONEER"

// Config is read from auctioneer.yaml and AUCTIONEER_* environment variables,
// the latter winning. Nested keys use underscores, so models.s3.bucket is
// AUCTIONEER_MODELS_S3_BUCKET.
type Config struct {
	Listen        string        `mapstructure:"listen"`
	LogLevel      string        `mapstructure:"log_level"`
	RoundInterval time.Duration `mapstructure:"round_interval"`
	RestoreOnBoot bool          `mapstructure:"restore_on_boot"`

	Database   DatabaseConfig    `mapstructure:"database"`
	Auth       AuthConfig        `mapstructure:"auth"`
	Models     ModelsConfig      `mapstructure:"models"`
	Policy     policy.Config     `mapstructure:"policy"`
	Simulation simulation.Config `mapstructure:"simulation"`
}

// DatabaseConfig leaves URL empty to run without persistence.
type DatabaseConfig struct {
	URL     string `mapstructure:"url"`
	Migrate bool   `mapstructure:"migrate"`
}

// AuthConfig uses the remote verifier when URL is set, otherwise the static
// token table.
type AuthConfig struct {
	URL          string            `mapstructure:"url"`
	APIKey       string            `mapstructure:"api_key"`
	Timeout      time.Duration     `mapstructure:"timeout"`
	StaticTokens map[string]string `mapstructure:"static_tokens"`
}

type ModelsConfig struct {
	Backend   string              `mapstructure:"backend"`
	Dir       string              `mapstructure:"dir"`
	S3        modelstore.S3Config `mapstructure:"s3"`
	CacheSize int                 `mapstructure:"cache_size"`
	PoolSize  int                 `mapstructure:"pool_size"`
}

const (
	BackendFile = "file"
	BackendS3   = "s3"
)

func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("auctioneer")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, err
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, err
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	if _, err := lager.LogLevelFromString(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.RoundInterval <= 0 {
		return fmt.Errorf("round_interval must be positive, got %s", c.RoundInterval)
	}
	switch c.Models.Backend {
	case BackendFile:
		if c.Models.Dir == "" {
			return errors.New("models.dir is required for the file backend")
		}
	case BackendS3:
		if c.Models.S3.Bucket == "" {
			return errors.New("models.s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown models.backend %q", c.Models.Backend)
	}
	if c.Models.PoolSize <= 0 {
		return errors.New("models.pool_size must be positive")
	}
	if c.Policy.BatchSize <= 0 || c.Policy.BatchSize > c.Policy.BufferCapacity {
		return fmt.Errorf("policy.batch_size must be in 1..%d", c.Policy.BufferCapacity)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", ":5000")
	v.SetDefault("log_level", "info")
	v.SetDefault("round_interval", 4*time.Second)
	v.SetDefault("restore_on_boot", true)

	v.SetDefault("database.url", "")
	v.SetDefault("database.migrate", true)

	v.SetDefault("auth.url", "")
	v.SetDefault("auth.api_key", "")
	v.SetDefault("auth.timeout", 5*time.Second)
	v.SetDefault("auth.static_tokens", map[string]string{})

	v.SetDefault("models.backend", BackendFile)
	v.SetDefault("models.dir", "models")
	v.SetDefault("models.s3.bucket", "")
	v.SetDefault("models.s3.prefix", "")
	v.SetDefault("models.s3.region", "")
	v.SetDefault("models.s3.endpoint", "")
	v.SetDefault("models.s3.access_key", "")
	v.SetDefault("models.s3.secret_key", "")
	v.SetDefault("models.cache_size", 64)
	v.SetDefault("models.pool_size", 256)

	p := policy.DefaultConfig()
	v.SetDefault("policy.state_size", p.StateSize)
	v.SetDefault("policy.action_size", p.ActionSize)
	v.SetDefault("policy.hidden_size", p.HiddenSize)
	v.SetDefault("policy.learning_rate", p.LearningRate)
	v.SetDefault("policy.gamma", p.Gamma)
	v.SetDefault("policy.epsilon", p.Epsilon)
	v.SetDefault("policy.epsilon_min", p.EpsilonMin)
	v.SetDefault("policy.epsilon_decay", p.EpsilonDecay)
	v.SetDefault("policy.batch_size", p.BatchSize)
	v.SetDefault("policy.buffer_capacity", p.BufferCapacity)
	v.SetDefault("policy.target_update_every", p.TargetUpdateEvery)
	v.SetDefault("policy.grad_clip", p.GradClip)
	v.SetDefault("policy.seed", p.Seed)

	s := simulation.DefaultConfig()
	v.SetDefault("simulation.opponents", s.Opponents)
	v.SetDefault("simulation.rounds", s.Rounds)
	v.SetDefault("simulation.interval", s.Interval)
	v.SetDefault("simulation.max_starting_price", s.MaxStartingPrice)
	v.SetDefault("simulation.increment", s.Increment)
	v.SetDefault("simulation.budget", s.Budget)
	v.SetDefault("simulation.bid_probability", s.BidProbability)
	v.SetDefault("simulation.seed", s.Seed)
}
