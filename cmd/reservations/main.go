package main

import (
	"innkeeper/internal/reservations/events"
	"innkeeper/internal/reservations/handler"
	"innkeeper/internal/reservations/repository"
	"innkeeper/internal/reservations/service"
	"innkeeper/internal/reservations/validator"
	"innkeeper/pkg/app"
	"innkeeper/pkg/config"
	kafkaconfig "innkeeper/pkg/kafka/config"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reservations service")

	publisher := initPublisher(cfg)
	reservationService, availabilityService, sweeper := initServices(cfg, publisher)

	sweeper.Start()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(reservationService, availabilityService, cfg.Log))
	serverApp.RegisterOnShutdown(sweeper.Stop)
	serverApp.RegisterOnShutdown(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	})
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled() {
		cfg.Log.Info("Event publishing disabled, no brokers configured")
		return events.NewNoopPublisher()
	}

	kafkaCfg, err := kafkaconfig.Load(cfg.KafkaBrokers)
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	publisher, err := events.NewKafkaPublisher(kafkaCfg, cfg.KafkaTopic, cfg.KafkaDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}

	cfg.Log.Info("Event publishing enabled", "topic", cfg.KafkaTopic)
	return publisher
}

func initServices(cfg *config.Config, publisher events.Publisher) (service.ReservationService, service.AvailabilityService, *service.Sweeper) {
	reservationValidator := validator.NewReservationValidator(cfg.Log)
	roomRepo := repository.NewMongoRoomRepository(cfg)
	ledger := repository.NewMongoBookingLedger(cfg)
	lockRepo := repository.NewMongoRoomLockRepository(cfg)

	reservationService := service.NewReservationService(
		ledger,
		roomRepo,
		lockRepo,
		reservationValidator,
		publisher,
		cfg,
	)
	availabilityService := service.NewAvailabilityService(roomRepo, ledger, cfg)
	sweeper := service.NewSweeper(roomRepo, ledger, cfg)

	cfg.Log.Info("Reservation services initialized", "database", cfg.MongoDatabaseName)
	return reservationService, availabilityService, sweeper
}
