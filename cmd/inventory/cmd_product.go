package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tair/inventory-ledger/internal/product/usecase/command"
	"github.com/tair/inventory-ledger/internal/product/usecase/query"
	"github.com/tair/inventory-ledger/pkg/apperror"
)

func newProductCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "product",
		Aliases: []string{"products"},
		Short:   "Manage products and their stock",
	}
	cmd.AddCommand(
		newProductAddCmd(opts),
		newProductListCmd(opts),
		newProductGetCmd(opts),
		newProductUpdateCmd(opts),
		newProductAdjustCmd(opts),
		newProductRemoveCmd(opts),
		newProductStatsCmd(opts),
	)
	return cmd
}

// productFlags are the editable fields shared by add and update.
type productFlags struct {
	name        string
	description string
	price       float64
	quantity    int
}

func (f *productFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "product name (unique)")
	cmd.Flags().StringVar(&f.description, "description", "", "free-form description")
	cmd.Flags().Float64Var(&f.price, "price", 0, "unit price")
	cmd.Flags().IntVar(&f.quantity, "quantity", 0, "units on hand")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("quantity")
}

func newProductAddCmd(opts *rootOptions) *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), opts, func(ctx context.Context, rt *runtime) error {
				product, err := rt.app.Services.CreateProduct.Handle(ctx, command.CreateProductCommand{
					Name:        f.name,
					Description: f.description,
					Price:       f.price,
					Quantity:    f.quantity,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Product %d created.\n", product.ID)
				return printProduct(cmd.OutOrStdout(), product)
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func newProductListCmd(opts *rootOptions) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), opts, func(ctx context.Context, rt *runtime) error {
				products, err := rt.app.Services.ListProducts.Handle(ctx, query.ListProductsQuery{Limit: limit, Offset: offset})
				if err != nil {
					return err
				}
				return printProducts(cmd.OutOrStdout(), products)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows (0 = all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	return cmd
}

func newProductGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), opts, func(ctx context.Context, rt *runtime) error {
				product, err := rt.app.Services.GetProduct.Handle(ctx, query.GetProductQuery{ID: id})
				if err != nil {
					return err
				}
				return printProduct(cmd.OutOrStdout(), product)
			})
		},
	}
}

func newProductUpdateCmd(opts *rootOptions) *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace every field of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), opts, func(ctx context.Context, rt *runtime) error {
				product, err := rt.app.Services.UpdateProduct.Handle(ctx, command.UpdateProductCommand{
					ID:          id,
					Name:        f.name,
					Description: f.description,
					Price:       f.price,
					Quantity:    f.quantity,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Product %d updated.\n", product.ID)
				return printProduct(cmd.OutOrStdout(), product)
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func newProductAdjustCmd(opts *rootOptions) *cobra.Command {
	var delta int
	cmd := &cobra.Command{
		Use:     "adjust <id> --delta N",
		Short:   "Add (or with a negative delta, remove) units of stock",
		Example: "  inventory product adjust 3 --delta 10\n  inventory product adjust 3 --delta=-2",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), opts, func(ctx context.Context, rt *runtime) error {
				product, err := rt.app.Services.AdjustQuantity.Handle(ctx, command.AdjustQuantityCommand{ProductID: id, Delta: delta})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Product %d now has %d units.\n", product.ID, product.Quantity)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&delta, "delta", 0, "units to add; negative to remove")
	_ = cmd.MarkFlagRequired("delta")
	return cmd
}

func newProductRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a product; its sales are kept without a product",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), opts, func(ctx context.Context, rt *runtime) error {
				if err := rt.app.Services.DeleteProduct.Handle(ctx, command.DeleteProductCommand{ID: id}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Product %d removed.\n", id)
				return nil
			})
		},
	}
}

func newProductStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show stock statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), opts, func(ctx context.Context, rt *runtime) error {
				stats, err := rt.app.Services.ProductStats.Handle(ctx, query.GetStatsQuery{})
				if err != nil {
					return err
				}
				return printStats(cmd.OutOrStdout(), stats)
			})
		},
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, apperror.Invalid("id", "must be a positive integer")
	}
	return uint(id), nil
}
