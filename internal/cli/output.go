package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// money formats an amount for display with two decimal places.
func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return systemError(fmt.Errorf("encoding output: %w", err))
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeProducts(w io.Writer, products []types.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "No products found")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tCATEGORY")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\n", p.ID, p.ImageGlyph, p.Name, money(p.Price), p.Category)
	}
	return tw.Flush()
}

// describeChange renders a cart change as the feedback line shown to the
// shopper.
func describeChange(c types.Change, name string) string {
	switch c.Kind {
	case types.ChangeLineAdded:
		return fmt.Sprintf("Added %s to cart (%d)", name, c.Quantity)
	case types.ChangeQuantityIncreased:
		return fmt.Sprintf("%s quantity increased to %d", name, c.Quantity)
	case types.ChangeQuantityDecreased:
		return fmt.Sprintf("%s quantity decreased to %d", name, c.Quantity)
	case types.ChangeUnchanged:
		return fmt.Sprintf("%s quantity unchanged (%d)", name, c.Quantity)
	case types.ChangeLineRemoved:
		return fmt.Sprintf("Removed %s from cart", name)
	case types.ChangeCleared:
		return "Cart cleared"
	default:
		return string(c.Kind)
	}
}

// Positional argument validators that report usage mistakes as user errors.

func noArgs(cmd *cobra.Command, args []string) error {
	return userError(cobra.NoArgs(cmd, args))
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return userError(cobra.ExactArgs(n)(cmd, args))
	}
}

func rangeArgs(min, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return userError(cobra.RangeArgs(min, max)(cmd, args))
	}
}

func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, userError(fmt.Errorf("invalid %s %q: must be an integer", name, s))
	}
	return n, nil
}
