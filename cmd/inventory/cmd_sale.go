package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	saledomain "github.com/tair/inventory-ledger/internal/sale/domain"
	"github.com/tair/inventory-ledger/internal/sale/usecase/command"
	"github.com/tair/inventory-ledger/internal/sale/usecase/query"
	"github.com/tair/inventory-ledger/pkg/apperror"
)

func newSaleCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sale",
		Aliases: []string{"sales"},
		Short:   "Record and manage sales",
	}
	cmd.AddCommand(
		newSaleRegisterCmd(opts),
		newSaleListCmd(opts),
		newSaleGetCmd(opts),
		newSaleUpdateCmd(opts),
		newSaleRemoveCmd(opts),
	)
	return cmd
}

func newSaleRegisterCmd(opts *rootOptions) *cobra.Command {
	var (
		productID uint
		quantity  int
		total     float64
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Sell units of a product, decrementing its stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sale := command.RegisterSaleCommand{ProductID: productID, Quantity: quantity}
			if cmd.Flags().Changed("total") {
				sale.TotalValue = &total
			}
			return withRuntime(cmd.Context(), opts, func(ctx context.Context, rt *runtime) error {
				result, err := rt.app.Services.RegisterSale.Handle(ctx, sale)
				if err != nil {
					return err
				}
				if result.Warning != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", result.Warning)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sale %d recorded. %s has %d units left.\n",
					result.Sale.ID, result.Product.Name, result.Product.Quantity)
				return printSale(cmd.OutOrStdout(), result.Sale)
			})
		},
	}
	cmd.Flags().UintVar(&productID, "product", 0, "product id")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "units sold")
	cmd.Flags().Float64Var(&total, "total", 0, "sale total (defaults to price x quantity)")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("quantity")
	return cmd
}

func newSaleListCmd(opts *rootOptions) *cobra.Command {
	var (
		limit, offset int
		productID     uint
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sales, optionally for one product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), opts, func(ctx context.Context, rt *runtime) error {
				var (
					sales []saledomain.Sale
					err   error
				)
				if cmd.Flags().Changed("product") {
					sales, err = rt.app.Services.ListSalesByProduct.Handle(ctx, query.ListSalesByProductQuery{ProductID: productID})
				} else {
					sales, err = rt.app.Services.ListSales.Handle(ctx, query.ListSalesQuery{Limit: limit, Offset: offset})
				}
				if err != nil {
					return err
				}
				return printSales(cmd.OutOrStdout(), sales)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows (0 = all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	cmd.Flags().UintVar(&productID, "product", 0, "only sales of this product")
	return cmd
}

func newSaleGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), opts, func(ctx context.Context, rt *runtime) error {
				sale, err := rt.app.Services.GetSale.Handle(ctx, query.GetSaleQuery{ID: id})
				if err != nil {
					return err
				}
				return printSale(cmd.OutOrStdout(), sale)
			})
		},
	}
}

func newSaleUpdateCmd(opts *rootOptions) *cobra.Command {
	var (
		productID uint
		quantity  int
		total     float64
		soldAt    string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a sale's fields; stock is not reconciled",
		Long: "Replace a sale's product, quantity, total and date. Stock levels are left untouched.\n" +
			"Omitting --product detaches the sale from any product.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			update := command.UpdateSaleCommand{ID: id, Quantity: quantity, TotalValue: total}
			if cmd.Flags().Changed("product") {
				update.ProductID = &productID
			}
			if soldAt != "" {
				t, err := time.Parse(time.RFC3339, soldAt)
				if err != nil {
					return apperror.Invalid("sold_at", "must be an RFC 3339 timestamp")
				}
				update.SoldAt = &t
			}
			return withRuntime(cmd.Context(), opts, func(ctx context.Context, rt *runtime) error {
				sale, err := rt.app.Services.UpdateSale.Handle(ctx, update)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sale %d updated.\n", sale.ID)
				return printSale(cmd.OutOrStdout(), sale)
			})
		},
	}
	cmd.Flags().UintVar(&productID, "product", 0, "product id")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "units sold")
	cmd.Flags().Float64Var(&total, "total", 0, "sale total")
	cmd.Flags().StringVar(&soldAt, "sold-at", "", "sale time, RFC 3339 (defaults to keeping the current one)")
	_ = cmd.MarkFlagRequired("quantity")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}

func newSaleRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a sale; stock is not restored",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), opts, func(ctx context.Context, rt *runtime) error {
				if err := rt.app.Services.DeleteSale.Handle(ctx, command.DeleteSaleCommand{ID: id}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sale %d removed.\n", id)
				return nil
			})
		},
	}
}
