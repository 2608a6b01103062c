package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inventory_ledger/domain"
	"inventory_ledger/report"
	"inventory_ledger/util"
)

// writeReportFile renders into dir/<prefix>_YYYYMMDD_HHMMSS.<ext> and returns
// the path.
func writeReportFile(dir, prefix, ext string, render func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("20060102_150405"), ext))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := render(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	logger.Info("report written", zap.String("path", path))
	return path, nil
}

func init() {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Sales and expiration reports",
	}
	var format, outDir string
	reportCmd.PersistentFlags().StringVar(&format, "format", "summary", "summary|text|csv")
	reportCmd.PersistentFlags().StringVar(&outDir, "out", "", "output directory (default: report-dir)")

	dir := func() string {
		if outDir != "" {
			return outDir
		}
		return reportDir()
	}

	salesReportCmd := &cobra.Command{
		Use:   "sales",
		Short: "Report on every recorded sale",
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := sales().Ledger(cmd.Context())
			if err != nil {
				return err
			}
			summary := report.Summarize(ledger)
			out := cmd.OutOrStdout()

			var path string
			switch format {
			case "summary":
				return report.WriteSalesSummary(out, summary)
			case "text":
				path, err = writeReportFile(dir(), "sales_report", "txt", func(w io.Writer) error {
					return report.WriteSalesText(w, summary)
				})
			case "csv":
				path, err = writeReportFile(dir(), "sales_report", "csv", func(w io.Writer) error {
					return report.WriteSalesCSV(w, summary)
				})
			default:
				return domain.NewValidationError("format", "expected summary, text or csv", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Relatório gerado com sucesso: %s\n", path)
			return nil
		},
	}

	expirationReportCmd := &cobra.Command{
		Use:   "expiration",
		Short: "Report products by expiration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := inventory().Search(cmd.Context(), domain.ProductFilter{})
			if err != nil {
				return err
			}
			r := report.ClassifyProducts(products, util.Today())
			out := cmd.OutOrStdout()
			if format != "summary" && len(r.Entries) == 0 {
				fmt.Fprintln(out, "O estoque está vazio.")
				return nil
			}

			var path string
			switch format {
			case "summary":
				return report.WriteExpirationSummary(out, r)
			case "text":
				path, err = writeReportFile(dir(), "expiration_report", "txt", func(w io.Writer) error {
					return report.WriteExpirationText(w, r)
				})
			case "csv":
				path, err = writeReportFile(dir(), "expiration_report", "csv", func(w io.Writer) error {
					return report.WriteExpirationCSV(w, r)
				})
			default:
				return domain.NewValidationError("format", "expected summary, text or csv", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Relatório de validade gerado: %s\n", path)
			return nil
		},
	}

	reportCmd.AddCommand(salesReportCmd, expirationReportCmd)
	rootCmd.AddCommand(reportCmd)
}
