package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

type checkoutOutput struct {
	Quote types.CheckoutQuote `json:"quote"`
	Order types.OrderSnapshot `json:"order"`
}

func newCheckoutCmd(e *env) *cobra.Command {
	var customer types.Customer
	var quoteOnly bool
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart contents",
		Long: "Checkout hands the cart to the checkout surface, shows the quote with\n" +
			"tax and shipping, and submits the order. A failed submission leaves the\n" +
			"cart untouched so it can be retried.",
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.open()
			if err != nil {
				return err
			}
			if _, err := app.Cart.WriteHandoff(); err != nil {
				return systemError(err)
			}
			quote, _, _, err := app.Quote()
			if err != nil {
				return systemError(fmt.Errorf("reading checkout handoff: %w", err))
			}

			out := cmd.OutOrStdout()
			if !e.flags.jsonMode {
				writeQuote(cmd, quote)
			}
			if quoteOnly {
				if e.flags.jsonMode {
					return writeJSON(out, checkoutOutput{Quote: quote})
				}
				return nil
			}

			if !e.flags.jsonMode {
				fmt.Fprintln(out, "Processing order...")
			}
			res := <-app.Checkout.PlaceAsync(cmd.Context(), customer)
			if res.Err != nil {
				if errors.Is(res.Err, types.ErrTransientFailure) {
					return userError(fmt.Errorf("%w; your cart has been kept", res.Err))
				}
				return systemError(res.Err)
			}
			if e.flags.jsonMode {
				return writeJSON(out, checkoutOutput{Quote: quote, Order: res.Order})
			}
			fmt.Fprintf(out, "Order placed: %s\n", res.Order.OrderNumber)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&customer.FirstName, "first", "", "customer first name")
	f.StringVar(&customer.LastName, "last", "", "customer last name")
	f.StringVar(&customer.Email, "email", "", "customer email")
	f.StringVar(&customer.Phone, "phone", "", "customer phone")
	f.StringVar(&customer.Address, "address", "", "shipping street address")
	f.StringVar(&customer.City, "city", "", "shipping city")
	f.StringVar(&customer.State, "state", "", "shipping state")
	f.StringVar(&customer.ZipCode, "zip", "", "shipping zip code")
	f.StringVar(&customer.PaymentMethod, "payment", "card", "payment method")
	f.BoolVar(&quoteOnly, "quote", false, "show the quote without placing the order")
	return cmd
}

func writeQuote(cmd *cobra.Command, q types.CheckoutQuote) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtotal: %s\n", money(q.Subtotal))
	fmt.Fprintf(out, "Tax:      %s\n", money(q.Tax))
	fmt.Fprintf(out, "Shipping: %s\n", money(q.Shipping))
	fmt.Fprintf(out, "Total:    %s\n", money(q.Total))
}

func newOrdersCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "orders",
		Aliases: []string{"o"},
		Short:   "List placed orders",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.open()
			if err != nil {
				return err
			}
			history, err := app.History.List()
			if err != nil {
				return systemError(err)
			}
			out := cmd.OutOrStdout()
			if e.flags.jsonMode {
				if history == nil {
					history = []types.OrderSnapshot{}
				}
				return writeJSON(out, history)
			}
			if len(history) == 0 {
				fmt.Fprintln(out, "No orders yet")
				return nil
			}
			tw := newTable(out)
			fmt.Fprintln(tw, "ORDER\tPLACED\tCUSTOMER\tITEMS\tTOTAL")
			for _, o := range history {
				name := o.Customer.FirstName + " " + o.Customer.LastName
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
					o.OrderNumber, o.Timestamp.Format("2006-01-02 15:04"), name, o.Totals.ItemCount, money(o.Totals.Total))
			}
			return tw.Flush()
		},
	}
}
