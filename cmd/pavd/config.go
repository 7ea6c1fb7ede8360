package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "PAV"

// Config the application's configuration structure
type Config struct {
	RedisListenPort     int
	Backend             string
	RedisAddress        string
	RedisKeyPrefix      string
	CommitteeSize       int
	ApportionmentMethod string
	EligibleCandidates  string
	Workers             int
	ComputeTimeout      time.Duration
	Profiling           bool
	LogLevel            string
}

// LoadConfig loads the config from a file if specified, otherwise from the environment
func LoadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()

	// Setting defaults for this application
	v.SetDefault("redisListenPort", 6380)
	v.SetDefault("backend", "memory")
	v.SetDefault("redisAddress", "localhost:6379")
	v.SetDefault("redisKeyPrefix", "pav")
	v.SetDefault("committeeSize", 1)
	v.SetDefault("apportionmentMethod", "d_hondt")
	v.SetDefault("eligibleCandidates", "")
	v.SetDefault("workers", 0)
	v.SetDefault("computeTimeout", time.Duration(0))
	v.SetDefault("profiling", false)
	v.SetDefault("logLevel", "info")

	// Read Config from ENV
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	// Read Config from Flags
	var err error
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if bindErr := v.BindPFlag(flagToKey(flag.Name), flag); bindErr != nil && err == nil {
			err = bindErr
		}
	})
	if err != nil {
		return nil, err
	}

	// Read Config from file
	if configFile, err := cmd.Flags().GetString("config-file"); err == nil && configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var config Config

	err = v.Unmarshal(&config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// EligibleCandidateList returns nil when no restriction is configured.
func (c *Config) EligibleCandidateList() []string {
	if strings.TrimSpace(c.EligibleCandidates) == "" {
		return nil
	}

	var result []string
	for _, candidate := range strings.Split(c.EligibleCandidates, ",") {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			result = append(result, candidate)
		}
	}

	return result
}

// flagToKey maps kebab-case flag names onto camelCase config keys.
func flagToKey(name string) string {
	parts := strings.Split(name, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}

	return strings.Join(parts, "")
}
