package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"inventory_ledger/domain"
	"inventory_ledger/service"
	"inventory_ledger/validate"
)

// parseLine reads an item given as BARCODE:QTY.
func parseLine(raw string) (service.Line, error) {
	code, qty, ok := strings.Cut(raw, ":")
	if !ok {
		return service.Line{}, domain.NewValidationError("item", "expected BARCODE:QTY", raw)
	}
	barcode, err := validate.Barcode(code)
	if err != nil {
		return service.Line{}, err
	}
	n, err := validate.PositiveInt(qty, "quantity")
	if err != nil {
		return service.Line{}, err
	}
	return service.Line{Barcode: barcode, Quantity: n}, nil
}

func init() {
	var seller, cpf string
	var items []string
	sellCmd := &cobra.Command{
		Use:   "sell --seller <name> --cpf <cpf> --item BARCODE:QTY [--item ...]",
		Short: "Record a sale of one or more products",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.CheckoutRequest{Seller: seller, BuyerCPF: cpf}
			for _, raw := range items {
				line, err := parseLine(raw)
				if err != nil {
					return err
				}
				req.Lines = append(req.Lines, line)
			}

			sale, err := sales().Checkout(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Venda realizada com sucesso!")
			fmt.Fprintf(out, "ID da venda: %s\n", sale.ID)
			for _, it := range sale.Items {
				fmt.Fprintf(out, "  - %s (x%d) R$ %s\n", it.Name, it.Quantity, it.Subtotal().StringFixed(2))
			}
			fmt.Fprintf(out, "Total da venda: R$ %s\n", sale.Total().StringFixed(2))
			return nil
		},
	}
	sellCmd.Flags().StringVar(&seller, "seller", "", "seller name")
	sellCmd.Flags().StringVar(&cpf, "cpf", "", "buyer CPF")
	sellCmd.Flags().StringArrayVar(&items, "item", nil, "item as BARCODE:QTY, repeatable")
	rootCmd.AddCommand(sellCmd)
}
