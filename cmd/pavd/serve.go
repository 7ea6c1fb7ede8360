package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/cafebazaar/pav/internal/apportionment"
	"github.com/cafebazaar/pav/internal/core"
	"github.com/cafebazaar/pav/internal/engine"
	"github.com/cafebazaar/pav/internal/voting"

	"github.com/go-redis/redis"

	memoryStore "github.com/cafebazaar/pav/internal/backend/memory"
	redisStore "github.com/cafebazaar/pav/internal/backend/redis"
	redisTransport "github.com/cafebazaar/pav/internal/transport/redis"
	"github.com/cafebazaar/pav/pkg/pav"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start Server",
	Run:   serve,
}

func init() {
	addServeFlags(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd)
}

func addServeFlags(flags *pflag.FlagSet) {
	flags.Int("redis-listen-port", 6380, "Port of the redis protocol listener")
	flags.String("backend", "memory", "Ballot store backend: memory or redis")
	flags.String("redis-address", "localhost:6379", "Address of the redis ballot store")
	flags.String("redis-key-prefix", "pav", "Key prefix of the redis ballot store")
}

func serve(cmd *cobra.Command, args []string) {
	config := loadConfigOrPanic(cmd)
	defer startProfilingIfEnabled(config).Stop()

	store := configureStoreOrPanic(config)
	svc := getService(store, config)

	server := makeRedisServer(svc, config)
	startServerOrPanic(server)

	log.WithField("port", config.RedisListenPort).Info("serving elections")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	shutdownServerOrPanic(server)
	if err := svc.Close(); err != nil {
		log.WithError(err).Error("failed to close ballot store")
	}
}

type stopper interface {
	Stop()
}

type noopStopper struct{}

func (noopStopper) Stop() {}

func startProfilingIfEnabled(config *Config) stopper {
	if !config.Profiling {
		return noopStopper{}
	}

	return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
}

func loadConfigOrPanic(cmd *cobra.Command) *Config {
	config, err := LoadConfig(cmd)
	if err != nil {
		log.WithError(err).Panic("Failed to load configurations")
	}

	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		log.WithError(err).Panic("Failed to parse log level")
	}
	log.SetLevel(level)

	return config
}

func configureStoreOrPanic(config *Config) pav.BallotStore {
	switch config.Backend {
	case "memory":
		return memoryStore.New()

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: config.RedisAddress})
		return redisStore.New(client, config.RedisKeyPrefix)

	default:
		log.Panicf("unknown backend: %v", config.Backend)
		return nil
	}
}

func configureMethodOrPanic(config *Config) pav.Method {
	method, err := apportionment.FromName(config.ApportionmentMethod)
	if err != nil {
		panicWithError(err, "unrecognized apportionment method")
	}

	return method
}

func getService(store pav.BallotStore, config *Config) pav.Service {
	options := []core.Option{
		core.WithCommitteeSize(config.CommitteeSize),
		core.WithMethod(configureMethodOrPanic(config)),
		core.WithEligibleCandidates(config.EligibleCandidateList()),
	}

	if config.ComputeTimeout > 0 {
		options = append(options, core.WithComputeTimeout(config.ComputeTimeout))
	}

	return core.New(store, engine.New(voting.New, engine.WithWorkers(config.Workers)), options...)
}

func makeRedisServer(svc pav.Service, config *Config) pav.Server {
	return redisTransport.New(svc, config.RedisListenPort)
}

func startServerOrPanic(server pav.Server) {
	err := server.Start()
	if err != nil {
		panicWithError(err, "failed to start server")
	}
}

func shutdownServerOrPanic(server pav.Server) {
	if err := server.Close(); err != nil {
		panicWithError(err, "failed to close server")
	}
}

func panicWithError(err error, format string, args ...interface{}) {
	log.WithError(err).Panicf(format, args...)
}
