package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tair/inventory-ledger/internal/events"
)

// inventory watch: follow stock change events and report low stock.
func newWatchCmd() *cobra.Command {
	var groupID string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow stock change events and alert on low stock (needs KAFKA_BROKERS)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(cfg.KafkaBrokers) == 0 {
				return errors.New("KAFKA_BROKERS is not set")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			consumer, err := events.NewConsumer(cfg.KafkaBrokers, groupID, []string{events.TopicStockChanged})
			if err != nil {
				return err
			}
			defer consumer.Close()

			out := cmd.OutOrStdout()
			events.NewStockWatcher(cfg.LowStockThreshold, func(_ context.Context, level string, e events.StockChangedEvent) {
				fmt.Fprintf(out, "[%s] product %d has %d units (%s %+d)\n", level, e.ProductID, e.NewQuantity, e.Reason, e.Delta)
			}).Register(consumer)

			return consumer.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&groupID, "group", "inventory-stock-watch", "Kafka consumer group id")
	return cmd
}
