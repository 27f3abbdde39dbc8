package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	productdomain "github.com/tair/inventory-ledger/internal/product/domain"
	saledomain "github.com/tair/inventory-ledger/internal/sale/domain"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
}

func printProducts(out io.Writer, products []productdomain.Product) error {
	if len(products) == 0 {
		fmt.Fprintln(out, "No products registered.")
		return nil
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tQUANTITY\tDESCRIPTION")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%s\n", p.ID, p.Name, p.Price, p.Quantity, p.Description)
	}
	return w.Flush()
}

func printProduct(out io.Writer, p *productdomain.Product) error {
	w := newTable(out)
	fmt.Fprintf(w, "ID:\t%d\n", p.ID)
	fmt.Fprintf(w, "Name:\t%s\n", p.Name)
	fmt.Fprintf(w, "Description:\t%s\n", p.Description)
	fmt.Fprintf(w, "Price:\t%.2f\n", p.Price)
	fmt.Fprintf(w, "Quantity:\t%d\n", p.Quantity)
	return w.Flush()
}

func printStats(out io.Writer, s *productdomain.Stats) error {
	w := newTable(out)
	fmt.Fprintf(w, "Products:\t%d\n", s.TotalProducts)
	fmt.Fprintf(w, "Units in stock:\t%d\n", s.TotalUnits)
	fmt.Fprintf(w, "Stock value:\t%.2f\n", s.StockValue)
	fmt.Fprintf(w, "Average price:\t%.2f\n", s.AveragePrice)
	fmt.Fprintf(w, "Low stock:\t%d\n", s.LowStockCount)
	fmt.Fprintf(w, "Out of stock:\t%d\n", s.OutOfStockCount)
	return w.Flush()
}

func printSales(out io.Writer, sales []saledomain.Sale) error {
	if len(sales) == 0 {
		fmt.Fprintln(out, "No sales recorded.")
		return nil
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tPRODUCT\tQUANTITY\tTOTAL\tSOLD AT")
	for i := range sales {
		s := &sales[i]
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\t%s\n", s.ID, productRef(s.ProductID), s.Quantity, s.TotalValue, s.SoldAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func printSale(out io.Writer, s *saledomain.Sale) error {
	w := newTable(out)
	fmt.Fprintf(w, "ID:\t%d\n", s.ID)
	fmt.Fprintf(w, "Product:\t%s\n", productRef(s.ProductID))
	fmt.Fprintf(w, "Quantity:\t%d\n", s.Quantity)
	fmt.Fprintf(w, "Total:\t%.2f\n", s.TotalValue)
	fmt.Fprintf(w, "Sold at:\t%s\n", s.SoldAt.Format(time.RFC3339))
	return w.Flush()
}

// productRef renders a sale's product reference; "-" once the product is gone.
func productRef(id *uint) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatUint(uint64(*id), 10)
}
