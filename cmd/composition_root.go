package cmd

import (
	"log/slog"

	"invoicing/internal/adapters/out/postgres"
	"invoicing/internal/core/application/usecases/commands"
	"invoicing/internal/core/application/usecases/queries"
	"invoicing/internal/core/domain/services"
	"invoicing/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	merger     services.OrderMerger
	policy     services.TrackingPolicy
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) (CompositionRoot, error) {
	strategy := services.TrackingStrategy(config.TrackingStrategy)
	if strategy == "" {
		strategy = services.TrackingMetadata
	}

	policy, err := services.NewTrackingPolicy(strategy)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		merger:     services.NewOrderMerger(),
		policy:     policy,
	}, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateMergeOrdersCommandHandler() commands.MergeOrdersCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMergeOrdersCommandHandler(f, c.merger, c.policy)
}

func (c *CompositionRoot) CreateMarkInvoicedCommandHandler() commands.MarkInvoicedCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkInvoicedCommandHandler(f, c.policy)
}

func (c *CompositionRoot) CreateGetAggregateOrdersQueryHandler() queries.GetAggregateOrdersQueryHandler {
	return queries.NewGetAggregateOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetMergeableOrdersQueryHandler() queries.GetMergeableOrdersQueryHandler {
	return queries.NewGetMergeableOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager(logger *slog.Logger) *jobs.JobManager {
	return jobs.NewJobManager(&c.uowFactory, logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
