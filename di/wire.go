//go:build wireinject
// +build wireinject

package di

import (
	"rihla/config"
	"rihla/infras/kafka"
	"rihla/infras/otel"
	"rihla/infras/postgres"
	"rihla/infras/redis"
	"rihla/infras/s3"
	"rihla/internal/notifier"
	"rihla/shared/cache"
	"rihla/transport/http"
	"rihla/transport/http/middleware"
	"rihla/transport/http/router"

	bookingRepository "rihla/internal/domains/booking/repository"
	bookingService "rihla/internal/domains/booking/service"
	eventRepository "rihla/internal/domains/event/repository"
	eventService "rihla/internal/domains/event/service"
	ticketService "rihla/internal/domains/ticket/service"

	bookingHandler "rihla/internal/handlers/booking"
	eventHandler "rihla/internal/handlers/event"
	healthHandler "rihla/internal/handlers/health"

	"rihla/internal/domains/booking/reference"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

func provideReferenceGenerator(cfg *config.Config) reference.Generator {
	return reference.New(cfg.Booking.ReferencePrefix)
}

var eventDomain = wire.NewSet(
	eventRepository.New,
	eventService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	provideReferenceGenerator,
	ticketService.New,
	notifier.New,
	bookingService.New,
)

var domains = wire.NewSet(
	eventDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	healthHandler.New,
	eventHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
