package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storefront/pkg/storefront"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

func newCartCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cart",
		Aliases: []string{"c"},
		Short:   "Show and change the cart",
	}
	cmd.AddCommand(newCartShowCmd(e))
	cmd.AddCommand(newCartAddCmd(e))
	cmd.AddCommand(newCartMutationCmd(e, "remove <id>", "Remove a product from the cart", exactArgs(1),
		func(app *storefront.App, id int, _ []string) (types.Change, error) {
			return app.Cart.Remove(id)
		}))
	cmd.AddCommand(newCartMutationCmd(e, "set <id> <quantity>", "Set a line quantity (0 removes it)", exactArgs(2),
		func(app *storefront.App, id int, args []string) (types.Change, error) {
			qty, err := parseInt("quantity", args[1])
			if err != nil {
				return types.Change{}, err
			}
			return app.Cart.UpdateQuantity(id, qty)
		}))
	cmd.AddCommand(newCartMutationCmd(e, "inc <id>", "Increase a line quantity by one", exactArgs(1),
		func(app *storefront.App, id int, _ []string) (types.Change, error) {
			return app.Cart.Increase(id)
		}))
	cmd.AddCommand(newCartMutationCmd(e, "dec <id>", "Decrease a line quantity by one", exactArgs(1),
		func(app *storefront.App, id int, _ []string) (types.Change, error) {
			return app.Cart.Decrease(id)
		}))
	cmd.AddCommand(newCartClearCmd(e))
	return cmd
}

type cartTotalsView struct {
	Lines  []cartLineView   `json:"lines"`
	Totals types.CartTotals `json:"totals"`
}

type cartLineView struct {
	types.CartLine
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func newCartShowCmd(e *env) *cobra.Command {
	var includeTax bool
	var taxRate string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show cart lines and totals",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.open()
			if err != nil {
				return err
			}
			rate := app.Config.Pricing.TaxRate
			if taxRate != "" {
				if rate, err = decimal.NewFromString(taxRate); err != nil {
					return userError(fmt.Errorf("invalid tax rate %q: %w", taxRate, err))
				}
				if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
					return userError(types.ErrInvalidTaxRate)
				}
			}
			withTax := app.Config.Pricing.IncludeTax
			if cmd.Flags().Changed("tax") {
				withTax = includeTax
			}

			view := cartTotalsView{Lines: []cartLineView{}, Totals: app.Cart.Totals(withTax, rate)}
			for _, line := range app.Cart.Lines() {
				p, _ := app.Catalog.ProductByID(line.ProductID)
				view.Lines = append(view.Lines, cartLineView{
					CartLine: line,
					Name:     p.Name,
					Price:    p.Price,
					Subtotal: app.Cart.LineSubtotal(line.ProductID),
				})
			}
			if e.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			return writeCart(cmd, view)
		},
	}
	cmd.Flags().BoolVar(&includeTax, "tax", false, "include tax in the total")
	cmd.Flags().StringVar(&taxRate, "tax-rate", "", "tax rate as a fraction, e.g. 0.08 (default from config)")
	return cmd
}

func writeCart(cmd *cobra.Command, view cartTotalsView) error {
	out := cmd.OutOrStdout()
	if len(view.Lines) == 0 {
		fmt.Fprintln(out, "Your cart is empty")
		return nil
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tSUBTOTAL")
	for _, l := range view.Lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", l.ProductID, l.Name, money(l.Price), l.Quantity, money(l.Subtotal))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	t := view.Totals
	fmt.Fprintf(out, "\nItems:    %d\n", t.ItemCount)
	fmt.Fprintf(out, "Subtotal: %s\n", money(t.Subtotal))
	if t.IncludeTax {
		fmt.Fprintf(out, "Tax (%s%%): %s\n", t.TaxRate.Shift(2).String(), money(t.Tax))
	}
	fmt.Fprintf(out, "Total:    %s\n", money(t.Total))
	return nil
}

func newCartAddCmd(e *env) *cobra.Command {
	return newCartMutationCmd(e, "add <id> [quantity]", "Add a product to the cart", rangeArgs(1, 2),
		func(app *storefront.App, id int, args []string) (types.Change, error) {
			qty := 1
			if len(args) > 1 {
				var err error
				if qty, err = parseInt("quantity", args[1]); err != nil {
					return types.Change{}, err
				}
			}
			return app.Cart.Add(id, qty)
		})
}

func newCartClearCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every line from the cart",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.open()
			if err != nil {
				return err
			}
			return e.renderChange(cmd, app, app.Cart.Clear())
		},
	}
}

// cartMutation applies one change for the product ID in args[0].
type cartMutation func(app *storefront.App, id int, args []string) (types.Change, error)

func newCartMutationCmd(e *env, use, short string, args cobra.PositionalArgs, mutate cartMutation) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt("product id", args[0])
			if err != nil {
				return err
			}
			app, err := e.open()
			if err != nil {
				return err
			}
			change, err := mutate(app, id, args)
			if err != nil {
				return systemError(err)
			}
			return e.renderChange(cmd, app, change)
		},
	}
}

func (e *env) renderChange(cmd *cobra.Command, app *storefront.App, change types.Change) error {
	if e.flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), change)
	}
	name := fmt.Sprintf("product %d", change.ProductID)
	if p, ok := app.Catalog.ProductByID(change.ProductID); ok {
		name = p.Name
	}
	fmt.Fprintln(cmd.OutOrStdout(), describeChange(change, name))
	fmt.Fprintf(cmd.OutOrStdout(), "Cart: %d items, %s\n", app.Cart.ItemCount(), money(app.Cart.Subtotal()))
	return nil
}
