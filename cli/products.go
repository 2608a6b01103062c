package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"inventory_ledger/domain"
	"inventory_ledger/store"
	"inventory_ledger/util"
	"inventory_ledger/validate"
)

func printJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func writeProduct(w io.Writer, p domain.Product) {
	fmt.Fprintf(w, "Nome: %s\n", p.Name)
	fmt.Fprintf(w, "Descrição: %s\n", p.Description)
	fmt.Fprintf(w, "Preço: R$ %s\n", p.Price.StringFixed(2))
	fmt.Fprintf(w, "Marca: %s\n", p.Brand)
	fmt.Fprintf(w, "Quantidade em estoque: %d\n", p.Quantity)
	if p.IsPerishable && p.ExpirationDate != nil {
		fmt.Fprintf(w, "Data de validade: %s\n", p.ExpirationDate.Format("02/01/2006"))
	} else {
		fmt.Fprintln(w, "Produto não perecível")
	}
	fmt.Fprintf(w, "Código de barras: %s\n", p.Barcode)
	fmt.Fprintf(w, "Criado em: %s\n", p.CreatedAt.Local().Format("02/01/2006 15:04:05"))
	fmt.Fprintf(w, "Atualizado em: %s\n", p.UpdatedAt.Local().Format("02/01/2006 15:04:05"))
}

func init() {
	// add
	var form validate.ProductForm
	addCmd := &cobra.Command{
		Use:   "add --barcode <code> --quantity <n>",
		Short: "Register a product, or top up its stock when the barcode exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			barcode, err := validate.Barcode(form.Barcode)
			if err != nil {
				return err
			}

			if _, err := backend.Products.GetByBarcode(ctx, barcode); err == nil {
				qty, err := validate.PositiveInt(form.Quantity, "quantity")
				if err != nil {
					return err
				}
				p, err := inventory().Restock(ctx, barcode, qty)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "Produto já cadastrado. Atualizando quantidade...")
				fmt.Fprintf(out, "Quantidade atualizada para %d.\n", p.Quantity)
				return nil
			} else if !domain.IsProductNotFoundError(err) {
				return err
			}

			f := form
			f.Barcode = barcode
			d, err := f.Validate(util.Today())
			if err != nil {
				return err
			}
			p, _, err := inventory().Register(ctx, d)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Produto inserido com sucesso!")
			return printJSON(out, store.NewProductRecord(p))
		},
	}
	addCmd.Flags().StringVar(&form.Barcode, "barcode", "", "barcode (digits)")
	addCmd.Flags().StringVar(&form.Name, "name", "", "name")
	addCmd.Flags().StringVar(&form.Description, "description", "", "description")
	addCmd.Flags().StringVar(&form.Price, "price", "", "unit price")
	addCmd.Flags().StringVar(&form.Brand, "brand", "", "brand")
	addCmd.Flags().StringVar(&form.Quantity, "quantity", "", "initial quantity, or units to add")
	addCmd.Flags().StringVar(&form.ExpirationDate, "expires", "", "expiration date YYYY-MM-DD; omit for non-perishable")
	rootCmd.AddCommand(addCmd)

	// get
	var gOutput string
	getCmd := &cobra.Command{
		Use:   "get <barcode>",
		Short: "Show a product by barcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			barcode, err := validate.Barcode(args[0])
			if err != nil {
				return err
			}
			p, err := inventory().FindByBarcode(cmd.Context(), barcode)
			if err != nil {
				if domain.IsProductNotFoundError(err) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Produto não encontrado!")
					return nil
				}
				return err
			}
			if gOutput == "json" {
				return printJSON(cmd.OutOrStdout(), store.NewProductRecord(p))
			}
			writeProduct(cmd.OutOrStdout(), p)
			return nil
		},
	}
	getCmd.Flags().StringVar(&gOutput, "output", "", "output format: json")
	rootCmd.AddCommand(getCmd)

	// update
	var uForm validate.ProductForm
	var uNonPerishable bool
	updateCmd := &cobra.Command{
		Use:   "update <barcode>",
		Short: "Update a product; only the given fields change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			barcode, err := validate.Barcode(args[0])
			if err != nil {
				return err
			}
			p, err := inventory().FindByBarcode(ctx, barcode)
			if err != nil {
				if domain.IsProductNotFoundError(err) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Produto não encontrado!")
					return nil
				}
				return err
			}
			if cmd.Flags().Changed("expires") && uNonPerishable {
				return errors.New("--expires and --non-perishable are mutually exclusive")
			}

			d := domain.ProductDraft{
				Name:           p.Name,
				Description:    p.Description,
				Price:          p.Price,
				Brand:          p.Brand,
				Quantity:       p.Quantity,
				Barcode:        p.Barcode,
				ExpirationDate: p.ExpirationDate,
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				if d.Name, err = validate.Name(uForm.Name); err != nil {
					return err
				}
			}
			if flags.Changed("description") {
				if d.Description, err = validate.Description(uForm.Description); err != nil {
					return err
				}
			}
			if flags.Changed("price") {
				if d.Price, err = validate.Price(uForm.Price); err != nil {
					return err
				}
			}
			if flags.Changed("brand") {
				if d.Brand, err = validate.Brand(uForm.Brand); err != nil {
					return err
				}
			}
			if flags.Changed("quantity") {
				if d.Quantity, err = validate.NonNegativeInt(uForm.Quantity, "quantity"); err != nil {
					return err
				}
			}
			if flags.Changed("expires") {
				exp, err := validate.ExpirationDate(uForm.ExpirationDate, util.Today())
				if err != nil {
					return err
				}
				d.ExpirationDate = &exp
			}
			if uNonPerishable {
				d.ExpirationDate = nil
			}

			updated, err := inventory().Update(ctx, barcode, d)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Produto atualizado com sucesso!")
			return printJSON(cmd.OutOrStdout(), store.NewProductRecord(updated))
		},
	}
	updateCmd.Flags().StringVar(&uForm.Name, "name", "", "name")
	updateCmd.Flags().StringVar(&uForm.Description, "description", "", "description")
	updateCmd.Flags().StringVar(&uForm.Price, "price", "", "unit price")
	updateCmd.Flags().StringVar(&uForm.Brand, "brand", "", "brand")
	updateCmd.Flags().StringVar(&uForm.Quantity, "quantity", "", "stock quantity")
	updateCmd.Flags().StringVar(&uForm.ExpirationDate, "expires", "", "expiration date YYYY-MM-DD")
	updateCmd.Flags().BoolVar(&uNonPerishable, "non-perishable", false, "mark the product as non-perishable")
	rootCmd.AddCommand(updateCmd)

	// list
	var lName, lBrand, lBarcode, lMin, lMax, lSort, lOrder, lOutput string
	var lBelow int
	var lPerishable, lNonPerishable bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List and search products",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := domain.ProductFilter{
				NameContains:  strings.TrimSpace(lName),
				BrandContains: strings.TrimSpace(lBrand),
				SortBy:        lSort,
				Order:         lOrder,
			}
			if lBarcode != "" {
				bc, err := validate.Barcode(lBarcode)
				if err != nil {
					return err
				}
				filter.Barcode = bc
			}
			if cmd.Flags().Changed("below") {
				if lBelow <= 0 {
					return domain.NewValidationError("below", "must be greater than zero", lBelow)
				}
				filter.BelowQuantity = &lBelow
			}
			var lo, hi decimal.Decimal
			var err error
			if cmd.Flags().Changed("min-price") {
				if lo, err = validate.PositiveNumber(lMin, "min-price"); err != nil {
					return err
				}
				filter.MinPrice = &lo
			}
			if cmd.Flags().Changed("max-price") {
				if hi, err = validate.PositiveNumber(lMax, "max-price"); err != nil {
					return err
				}
				filter.MaxPrice = &hi
			}
			if filter.MinPrice != nil && filter.MaxPrice != nil && lo.GreaterThan(hi) {
				return domain.NewValidationError("min-price", "cannot exceed max-price", lMin)
			}
			switch {
			case lPerishable && lNonPerishable:
				return errors.New("--perishable and --non-perishable are mutually exclusive")
			case lPerishable:
				yes := true
				filter.Perishable = &yes
			case lNonPerishable:
				no := false
				filter.Perishable = &no
			}

			found, err := inventory().Search(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if lOutput == "json" {
				records := make([]store.ProductRecord, 0, len(found))
				for _, p := range found {
					records = append(records, store.NewProductRecord(p))
				}
				return printJSON(out, records)
			}
			if len(found) == 0 {
				fmt.Fprintln(out, "Nenhum produto encontrado.")
				return nil
			}
			fmt.Fprintf(out, "%d produto(s) encontrado(s):\n", len(found))
			for _, p := range found {
				exp := "não perecível"
				if p.ExpirationDate != nil {
					exp = p.ExpirationDate.Format(util.DateLayout)
				}
				fmt.Fprintf(out, "%s | %s | %s | R$ %s | %d | %s\n",
					p.Barcode, p.Name, p.Brand, p.Price.StringFixed(2), p.Quantity, exp)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&lName, "name", "", "name contains")
	listCmd.Flags().StringVar(&lBrand, "brand", "", "brand contains")
	listCmd.Flags().StringVar(&lBarcode, "barcode", "", "exact barcode")
	listCmd.Flags().IntVar(&lBelow, "below", 5, "only products with fewer units in stock")
	listCmd.Flags().StringVar(&lMin, "min-price", "", "min price")
	listCmd.Flags().StringVar(&lMax, "max-price", "", "max price")
	listCmd.Flags().BoolVar(&lPerishable, "perishable", false, "only perishable products")
	listCmd.Flags().BoolVar(&lNonPerishable, "non-perishable", false, "only non-perishable products")
	listCmd.Flags().StringVar(&lSort, "sort-by", "", "sort field: name|price|quantity|expiration")
	listCmd.Flags().StringVar(&lOrder, "order", "asc", "sort order")
	listCmd.Flags().StringVar(&lOutput, "output", "", "output format")
	rootCmd.AddCommand(listCmd)

	// remove-expired
	var force bool
	removeExpiredCmd := &cobra.Command{
		Use:   "remove-expired",
		Short: "Remove every expired product from the inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			today := util.Today()
			expired, err := inventory().ExpiredProducts(ctx, today)
			if err != nil {
				return err
			}
			if len(expired) == 0 {
				fmt.Fprintln(out, "Não há produtos vencidos no estoque.")
				return nil
			}

			fmt.Fprintln(out, "PRODUTOS VENCIDOS ENCONTRADOS:")
			for i, p := range expired {
				days, _ := p.DaysUntilExpiration(today)
				fmt.Fprintf(out, "%d. %s (Código: %s)\n", i+1, p.Name, p.Barcode)
				fmt.Fprintf(out, "   Vencido há %d dia(s)\n", -days)
				fmt.Fprintf(out, "   Quantidade: %d\n", p.Quantity)
			}

			if !force {
				fmt.Fprint(out, "Deseja remover TODOS os produtos vencidos? (s/N): ")
				line, _ := input(cmd).ReadString('\n')
				ok, err := validate.YesNo(line)
				if err != nil || !ok {
					fmt.Fprintln(out, "\nOperação cancelada.")
					return nil
				}
			}

			removed, err := inventory().RemoveExpired(ctx, today)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d produto(s) vencido(s) removido(s) do estoque.\n", len(removed))
			return nil
		},
	}
	removeExpiredCmd.Flags().BoolVar(&force, "force", false, "skip confirmation")
	rootCmd.AddCommand(removeExpiredCmd)

	// import
	var importFile string
	importCmd := &cobra.Command{
		Use:   "import --file <file>",
		Short: "Import products from a JSON array or NDJSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if importFile == "" {
				return errors.New("--file required")
			}
			b, err := os.ReadFile(importFile)
			if err != nil {
				return err
			}
			records, err := decodeRecords(b)
			if err != nil {
				return err
			}

			start := time.Now()
			now := time.Now().UTC()
			var collected error
			products := make([]domain.Product, 0, len(records))
			for i, r := range records {
				if r.ID == "" {
					r.ID = util.NewID()
				}
				if r.CreatedAt == "" {
					r.CreatedAt = now.Format(time.RFC3339Nano)
				}
				if r.UpdatedAt == "" {
					r.UpdatedAt = r.CreatedAt
				}
				p, err := r.Product()
				if err != nil {
					collected = multierr.Append(collected, fmt.Errorf("record %d: %w", i+1, err))
					continue
				}
				products = append(products, p)
			}
			if err := backend.Products.BulkInsert(cmd.Context(), products); err != nil {
				collected = multierr.Append(collected, err)
			}
			failed := len(multierr.Errors(collected))
			logger.Info("import finished",
				zap.String("file", importFile),
				zap.Int("records", len(records)),
				zap.Int("failed", failed),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "%d produto(s) importado(s), %d com erro.\n", len(records)-failed, failed)

			// PersistentPostRunE does not run when RunE fails
			if collected != nil && !inShell {
				collected = multierr.Append(collected, flush(cmd.Context()))
			}
			return collected
		},
	}
	importCmd.Flags().StringVar(&importFile, "file", "", "input file")
	rootCmd.AddCommand(importCmd)

	// export
	var exportFile, exportBrand string
	exportCmd := &cobra.Command{
		Use:   "export --file <file>",
		Short: "Export products to JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if exportFile == "" {
				return errors.New("--file required")
			}
			found, err := inventory().Search(cmd.Context(), domain.ProductFilter{BrandContains: exportBrand})
			if err != nil {
				return err
			}
			records := make([]store.ProductRecord, 0, len(found))
			for _, p := range found {
				records = append(records, store.NewProductRecord(p))
			}
			b, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(exportFile, b, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d produto(s) exportado(s) para %s\n", len(records), exportFile)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&exportFile, "file", "", "output file")
	exportCmd.Flags().StringVar(&exportBrand, "brand", "", "brand contains")
	rootCmd.AddCommand(exportCmd)
}

// decodeRecords accepts a JSON array or newline-delimited JSON objects.
func decodeRecords(b []byte) ([]store.ProductRecord, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, errors.New("empty file")
	}

	var records []store.ProductRecord
	if b[0] == '[' {
		if err := json.Unmarshal(b, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(b))
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var r store.ProductRecord
		if err := json.Unmarshal(text, &r); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
