package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"example.com/procurement/config"
	"example.com/procurement/internal/cache"
	"example.com/procurement/internal/database"
	"example.com/procurement/internal/messaging"
	"example.com/procurement/internal/metrics"
	"example.com/procurement/internal/search"
	"example.com/procurement/internal/service"
	"example.com/procurement/internal/tracing"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker to post warehouse goods receipts from Azure Service Bus and reconcile purchase order statuses`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

// warehouseReceiptMessage is the payload warehouse systems put on the queue
type warehouseReceiptMessage struct {
	POID  string                     `json:"po_id"`
	Lines []service.ReceiptLineInput `json:"lines"`
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	configureLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	db, err := database.Connect(cfg.DB, cfg.Environment == "development")
	if err != nil {
		return err
	}
	if err := database.WaitUntilReady(db, 30*time.Second); err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
	}

	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		tracer, _ = tracing.NewTracer(config.TracingConfig{})
	}

	elasticClient, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Elasticsearch client, continuing without receipt indexing")
	}

	metricsCollector := metrics.NewMetrics()
	procurement := service.NewProcurementService(db, redisCache, elasticClient, metricsCollector, tracer)

	serviceBus, err := messaging.NewServiceBusClient(cfg.Azure)
	if err != nil {
		return err
	}
	defer func() {
		if err := serviceBus.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Service Bus client")
		}
	}()

	g.Go(func() error {
		log.Info().Str("queue", cfg.Azure.QueueName).Msg("Starting Service Bus receipt processor")
		return serviceBus.ProcessMessages(ctx, cfg.Worker.ReceiveBatchSize, func(ctx context.Context, message *azservicebus.ReceivedMessage) error {
			return postWarehouseReceipt(ctx, procurement, message)
		})
	})

	g.Go(func() error {
		log.Info().Dur("interval", cfg.Worker.ReconcileInterval).Msg("Starting purchase order reconciliation job")

		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.Worker.ReconcileInterval),
			gocron.NewTask(func() {
				if err := procurement.ReconcilePurchaseOrders(ctx); err != nil {
					log.Error().Err(err).Msg("Failed to reconcile purchase orders")
				}
			}),
		)
		if err != nil {
			return err
		}

		scheduler.Start()

		<-ctx.Done()

		return scheduler.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Worker error")
		return err
	}

	log.Info().Msg("Worker shutting down gracefully")
	return nil
}

// postWarehouseReceipt posts a queued warehouse delivery through the same
// path API receipts take. Posting is idempotent per message only as far as
// the queue's at-least-once delivery allows; redelivered messages create
// duplicate receipts, which the reconciliation job treats as ordinary
// deliveries.
func postWarehouseReceipt(ctx context.Context, procurement service.ProcurementService, message *azservicebus.ReceivedMessage) error {
	var payload warehouseReceiptMessage
	if err := json.Unmarshal(message.Body, &payload); err != nil {
		return errors.Wrap(err, "failed to unmarshal warehouse receipt message")
	}

	grID, err := procurement.CreateGoodsReceipt(ctx, &service.CreateGoodsReceiptRequest{
		POID:   payload.POID,
		Lines:  payload.Lines,
		Source: "warehouse-queue",
	})
	if err != nil {
		return errors.Wrapf(err, "failed to post warehouse receipt for po_id=%s", payload.POID)
	}

	log.Info().
		Str("gr_id", grID.String()).
		Str("po_id", payload.POID).
		Str("message_id", message.MessageID).
		Msg("Warehouse receipt posted")
	return nil
}
