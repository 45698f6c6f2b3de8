package di

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"

	"blaze/internal/adapters/inbound/http/controllers"
	httpRouter "blaze/internal/adapters/inbound/http/router"
	"blaze/internal/adapters/outbound/chain/hiro"
	"blaze/internal/adapters/outbound/docs"
	kafkamessaging "blaze/internal/adapters/outbound/messaging/kafka"
	postgresqlbootstrap "blaze/internal/adapters/outbound/persistence/postgresql/bootstrap"
	postgresqlledger "blaze/internal/adapters/outbound/persistence/postgresql/ledger"
	postgresqlshared "blaze/internal/adapters/outbound/persistence/postgresql/shared"
	signerhttp "blaze/internal/adapters/outbound/signer/http"
	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
	"blaze/internal/application/state"
	"blaze/internal/application/use_cases"
	"blaze/internal/domain/contractcall"
	"blaze/internal/domain/entities"
	"blaze/internal/infrastructure/config"
	"blaze/internal/infrastructure/eventbus"
	"blaze/internal/infrastructure/httpserver"
	"blaze/internal/infrastructure/settler"
)

type Container struct {
	Database                     *sql.DB
	Server                       *httpserver.Server
	InitializePersistenceUseCase portsin.InitializePersistenceUseCase
	SettlerWorker                *settler.Worker
	EventBus                     *eventbus.Bus
	Store                        *state.Store
	KafkaPublisher               *kafkamessaging.Publisher

	logger *log.Logger
	wg     sync.WaitGroup
}

func Build(cfg config.Config, logger *log.Logger) (*Container, error) {
	registry, appErr := entities.NewTokenRegistry(cfg.TokenDefinitions)
	if appErr != nil {
		return nil, fmt.Errorf("token registry: %s: %s", appErr.Code, appErr.Message)
	}
	routes := make([]entities.SwapRoute, 0, len(cfg.SwapRouteDefinitions))
	for _, definition := range cfg.SwapRouteDefinitions {
		route, appErr := entities.NewSwapRoute(definition)
		if appErr != nil {
			return nil, fmt.Errorf("swap route %d: %s", definition.PoolID, appErr.Message)
		}
		routes = append(routes, route)
	}

	clock := use_cases.NewSystemClock()
	newID := use_cases.NewUUIDGenerator()

	healthUseCase := use_cases.NewGetHealthUseCase()
	openAPIReadModel := docs.NewFileOpenAPISpecReadModel(cfg.OpenAPISpecPath)
	openAPIUseCase := use_cases.NewGetOpenAPISpecUseCase(openAPIReadModel)
	persistenceGateway := postgresqlbootstrap.NewGateway(
		cfg.DatabaseURL,
		cfg.DatabaseTarget,
		cfg.MigrationsPath,
		logger,
	)
	initializePersistenceUseCase := use_cases.NewInitializePersistenceUseCase(persistenceGateway)
	databasePool := postgresqlshared.NewDatabasePool(cfg.DatabaseURL, logger)
	ledgerRepository := postgresqlledger.NewRepository(databasePool, logger)

	chainGateway := hiro.NewGateway(hiro.Config{
		BaseURL: cfg.ChainAPIURL,
		APIKey:  cfg.ChainAPIKey,
		Timeout: cfg.ChainTimeout,
	})
	signerGateway := signerhttp.NewGateway(signerhttp.Config{
		URL:        cfg.SignerRelayURL,
		HMACSecret: cfg.SignerRelayHMACSecret,
		Timeout:    cfg.SignerTimeout,
	})

	bus := eventbus.New(logger)
	store := state.NewStore(cfg.Network)
	var kafkaPublisher *kafkamessaging.Publisher
	if cfg.KafkaEnabled() {
		kafkaPublisher = kafkamessaging.NewPublisher(kafkamessaging.Config{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaBalanceTopic,
		}, logger)
	}

	builder := contractcall.NewBuilder(cfg.Network, cfg.AllowModeEnabled)
	listTokensUseCase := use_cases.NewListTokensUseCase(registry)
	buildContractCallUseCase := use_cases.NewBuildContractCallUseCase(builder, registry, routes, chainGateway, store)
	submitContractCallUseCase := use_cases.NewSubmitContractCallUseCase(buildContractCallUseCase, signerGateway, bus, clock, newID)
	getBalanceUseCase := use_cases.NewGetBalanceUseCase(registry, chainGateway, logger)
	getNonceUseCase := use_cases.NewGetNonceUseCase(registry, chainGateway)
	getUserBalancesUseCase := use_cases.NewGetUserBalancesUseCase(registry, chainGateway, ledgerRepository, store, logger)
	relayTransferUseCase := use_cases.NewRelayTransferUseCase(cfg.Network, registry, ledgerRepository, bus, clock, newID)
	claimFaucetUseCase := use_cases.NewClaimFaucetUseCase(use_cases.FaucetConfig{
		Enabled: cfg.FaucetEnabled,
		Token:   cfg.FaucetToken,
		Amount:  cfg.FaucetAmount,
	}, registry, ledgerRepository, bus, clock)
	getSessionUseCase := use_cases.NewGetSessionUseCase(store)
	updateSessionUseCase := use_cases.NewUpdateSessionUseCase(store)
	settleTransfersUseCase := use_cases.NewSettleTransfersUseCase(builder, ledgerRepository, signerGateway, clock, newID, logger)

	settlerWorker := settler.NewWorker(
		cfg.SettlerEnabled,
		cfg.SettlerPollInterval,
		cfg.SettlerBatchSize,
		settleTransfersUseCase,
		logger,
	)

	router := httpRouter.New(httpRouter.Dependencies{
		HealthController:        controllers.NewHealthController(healthUseCase, logger),
		SwaggerController:       controllers.NewSwaggerController(openAPIUseCase, logger),
		TokensController:        controllers.NewTokensController(listTokensUseCase, logger),
		ContractCallsController: controllers.NewContractCallsController(buildContractCallUseCase, submitContractCallUseCase, logger),
		BalancesController:      controllers.NewBalancesController(getBalanceUseCase, getNonceUseCase, getUserBalancesUseCase, logger),
		TransfersController:     controllers.NewTransfersController(relayTransferUseCase, claimFaucetUseCase, logger),
		SessionController:       controllers.NewSessionController(getSessionUseCase, updateSessionUseCase, logger),
		BalanceStreamController: controllers.NewBalanceStreamController(bus, cfg.StreamAllowedOrigins, logger),
	})

	server := httpserver.New(cfg.Address(), router, logger)

	return &Container{
		Database:                     databasePool,
		Server:                       server,
		InitializePersistenceUseCase: initializePersistenceUseCase,
		SettlerWorker:                settlerWorker,
		EventBus:                     bus,
		Store:                        store,
		KafkaPublisher:               kafkaPublisher,
		logger:                       logger,
	}, nil
}

// BuildSettler wires only what the standalone settlement worker needs.
func BuildSettler(cfg config.Config, logger *log.Logger) (*Container, error) {
	if cfg.SignerRelayURL == "" {
		return nil, fmt.Errorf("settler requires SIGNER_RELAY_URL")
	}

	persistenceGateway := postgresqlbootstrap.NewGateway(
		cfg.DatabaseURL,
		cfg.DatabaseTarget,
		cfg.MigrationsPath,
		logger,
	)
	databasePool := postgresqlshared.NewDatabasePool(cfg.DatabaseURL, logger)
	ledgerRepository := postgresqlledger.NewRepository(databasePool, logger)
	signerGateway := signerhttp.NewGateway(signerhttp.Config{
		URL:        cfg.SignerRelayURL,
		HMACSecret: cfg.SignerRelayHMACSecret,
		Timeout:    cfg.SignerTimeout,
	})
	settleTransfersUseCase := use_cases.NewSettleTransfersUseCase(
		contractcall.NewBuilder(cfg.Network, cfg.AllowModeEnabled),
		ledgerRepository,
		signerGateway,
		use_cases.NewSystemClock(),
		use_cases.NewUUIDGenerator(),
		logger,
	)

	return &Container{
		Database:                     databasePool,
		InitializePersistenceUseCase: use_cases.NewInitializePersistenceUseCase(persistenceGateway),
		SettlerWorker: settler.NewWorker(
			true,
			cfg.SettlerPollInterval,
			cfg.SettlerBatchSize,
			settleTransfersUseCase,
			logger,
		),
		logger: logger,
	}, nil
}

// StartSubscribers attaches the in-process consumers of the balance event bus.
// They stop when ctx is done or the bus is closed.
func (c *Container) StartSubscribers(ctx context.Context) {
	if c.EventBus == nil {
		return
	}
	storeEvents, _ := c.EventBus.Subscribe(eventbus.DefaultSubscriberBuffer)
	c.spawn(func() { c.Store.Consume(ctx, storeEvents) })

	if c.KafkaPublisher != nil {
		kafkaEvents, _ := c.EventBus.Subscribe(eventbus.DefaultSubscriberBuffer)
		c.spawn(func() { c.KafkaPublisher.Forward(ctx, kafkaEvents) })
	}

	if c.SettlerWorker.Enabled() {
		settleEvents, _ := c.EventBus.Subscribe(eventbus.DefaultSubscriberBuffer)
		c.spawn(func() { triggerOnTransfer(ctx, settleEvents, c.SettlerWorker) })
	}
}

// Close stops the subscribers and releases the pool and broker connections.
func (c *Container) Close() {
	if c.EventBus != nil {
		c.EventBus.Close()
	}
	c.wg.Wait()

	if c.KafkaPublisher != nil {
		if err := c.KafkaPublisher.Close(); err != nil {
			c.logf("kafka publisher close warning error=%v", err)
		}
	}
	if c.Database != nil {
		if err := c.Database.Close(); err != nil {
			c.logf("database close warning error=%v", err)
		}
	}
}

func (c *Container) spawn(run func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		run()
	}()
}

func (c *Container) logf(format string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Printf(format, args...)
}

type settleTrigger interface {
	Trigger()
}

func triggerOnTransfer(ctx context.Context, events <-chan dto.BalanceEvent, worker settleTrigger) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Type == dto.BalanceEventTransfer {
				worker.Trigger()
			}
		}
	}
}
