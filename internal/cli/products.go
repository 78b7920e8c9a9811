package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storefront/internal/query"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

func newProductsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"p"},
		Short:   "Browse the product catalog",
	}
	cmd.AddCommand(newProductsListCmd(e))
	cmd.AddCommand(newProductsSortCmd(e))
	cmd.AddCommand(newProductsCategoriesCmd(e))
	return cmd
}

func newProductsListCmd(e *env) *cobra.Command {
	var search, category, sortKey string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally searched, filtered and sorted",
		Long: "List products. --search matches name, description and category;\n" +
			"--category selects one category (\"all\" for everything);\n" +
			"--sort orders the result: " + sortKeyList() + ".",
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("search") && category != "" {
				return userError(errors.New("--search and --category cannot be combined"))
			}
			key, err := query.ParseSortKey(sortKey)
			if err != nil {
				return userError(err)
			}
			app, err := e.open()
			if err != nil {
				return err
			}

			var results []types.Product
			switch {
			case cmd.Flags().Changed("search"):
				results = app.Query.Search(search)
			case category != "":
				results = app.Query.FilterByCategory(category)
			default:
				results = app.Query.Results()
			}
			if key != query.SortDefault {
				results = app.Query.SortBy(key)
			}
			return e.renderProducts(cmd, results)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "search term")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category to show")
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort order: "+sortKeyList())
	return cmd
}

func newProductsSortCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "sort <key>",
		Short: "Sort the current results",
		Long:  "Reorder the current result set in place. Keys: " + sortKeyList() + ".",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := query.ParseSortKey(args[0])
			if err != nil {
				return userError(err)
			}
			app, err := e.open()
			if err != nil {
				return err
			}
			return e.renderProducts(cmd, app.Query.SortBy(key))
		},
	}
}

func newProductsCategoriesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.open()
			if err != nil {
				return err
			}
			categories := app.Query.Categories()
			if e.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), categories)
			}
			for _, c := range categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func (e *env) renderProducts(cmd *cobra.Command, products []types.Product) error {
	if e.flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), products)
	}
	return writeProducts(cmd.OutOrStdout(), products)
}

func sortKeyList() string {
	keys := make([]string, len(query.SortKeys))
	for i, k := range query.SortKeys {
		keys[i] = string(k)
	}
	return strings.Join(keys, ", ")
}
