package main

import (
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"

	"github.com/layer-3/aegis/adapters/events"
	"github.com/layer-3/aegis/adapters/resolver"
	"github.com/layer-3/aegis/adapters/store"
	"github.com/layer-3/aegis/adapters/tokenizer"
	"github.com/layer-3/aegis/adapters/verifier"
	"github.com/layer-3/aegis/internal/config"
	"github.com/layer-3/aegis/ports"
	"github.com/layer-3/aegis/service"
	"github.com/layer-3/aegis/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := watermill.NewStdLogger(false, false)

	// Process-local stores by default; Redis-backed when REDIS_URL is set
	// so challenges and revocations survive restarts and are shared
	// between instances.
	var (
		challenges  ports.ChallengeStore  = store.NewMemoryChallengeStore()
		revocations ports.RevocationStore = store.NewMemoryRevocationStore()
		eventPub    ports.EventPublisher
	)

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)

		challenges = store.NewRedisChallengeStore(redisClient)
		revocations = store.NewRedisRevocationStore(redisClient)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			logger,
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}
		eventPub = events.NewWatermillPublisher(publisher)
	}

	didResolver := resolver.NewMultiResolver(map[string]ports.Resolver{
		"web":  resolver.NewWebResolver(cfg.ResolverTimeout),
		"ethr": resolver.NewEthrResolver(),
	})
	suites := verifier.NewRegistry()

	jwtTokenizer := tokenizer.NewJWTTokenizer(cfg.SigningKey, cfg.ServiceDID, cfg.TokenTTL, cfg.ClockSkew)

	authService := service.NewAuthService(
		challenges,
		revocations,
		jwtTokenizer,
		didResolver,
		suites,
		eventPub,
		logger,
		cfg.ChallengeTTL,
		cfg.ResolverTimeout,
	)
	apiKeys := service.NewAPIKeyValidator(cfg.APIKeys, logger)
	identityService := service.NewIdentityService(cfg.ServiceDID, cfg.Endpoint, &cfg.SigningKey.PublicKey)

	router := http.SetupRouter(authService, identityService, apiKeys, http.Features{
		DIDAuthEnabled:     cfg.DIDAuthEnabled,
		ChallengeTTL:       cfg.ChallengeTTL,
		TokenTTL:           cfg.TokenTTL,
		VerificationSuites: suites.Suites(),
	})

	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
