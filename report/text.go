package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"inventory_ledger/util"
)

const (
	dateTimeLayout = "02/01/2006 15:04:05"
	dayLayout      = "02/01/2006"
)

func displayTime(t time.Time) string {
	return t.Local().Format(dateTimeLayout)
}

func money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

// WriteSalesText renders the sales report file.
func WriteSalesText(w io.Writer, s SalesSummary) error {
	var b bytes.Buffer
	b.WriteString("RELATÓRIO DE VENDAS\n\n")
	fmt.Fprintf(&b, "Total de vendas: %d\n\n", s.TotalSales)

	for _, st := range s.Sales {
		b.WriteString(strings.Repeat("-", 40) + "\n")
		fmt.Fprintf(&b, "Data: %s\n", displayTime(st.Sale.Date))
		fmt.Fprintf(&b, "Vendedor: %s\n", st.Sale.SellerName)
		fmt.Fprintf(&b, "CPF do comprador: %s\n", st.Sale.BuyerCPF)
		b.WriteString("Itens:\n")
		for _, it := range st.Sale.Items {
			fmt.Fprintf(&b, "- %s: %d\n", it.Name, it.Quantity)
		}
		fmt.Fprintf(&b, "Total da venda: %s\n\n", money(st.Total))
	}

	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "\nTotal de itens vendidos: %d\n", s.TotalItems)
	b.WriteString("\nQuantidade vendida por item:\n")
	for _, pt := range s.PerProduct {
		fmt.Fprintf(&b, "- %s: %d\n", pt.Name, pt.Quantity)
	}

	_, err := w.Write(b.Bytes())
	return err
}

// WriteSalesSummary renders the on-screen sales report.
func WriteSalesSummary(w io.Writer, s SalesSummary) error {
	if s.TotalSales == 0 {
		_, err := io.WriteString(w, "Nenhuma venda registrada.\n")
		return err
	}
	var b bytes.Buffer
	rule := strings.Repeat("=", 50)
	b.WriteString(rule + "\n")
	b.WriteString("RELATÓRIO DE VENDAS\n")
	fmt.Fprintf(&b, "Total de vendas realizadas: %d\n", s.TotalSales)
	fmt.Fprintf(&b, "Total de itens vendidos: %d\n", s.TotalItems)
	fmt.Fprintf(&b, "Faturamento total: %s\n", money(s.Revenue))
	b.WriteString("\nQuantidade vendida por produto:\n")
	for _, pt := range s.PerProduct {
		fmt.Fprintf(&b, "- %s (código: %s): %d unidade(s)\n", pt.Name, pt.Barcode, pt.Quantity)
	}

	b.WriteString("\nVendas detalhadas:\n")
	for _, st := range s.Sales {
		b.WriteString(strings.Repeat("-", 50) + "\n")
		fmt.Fprintf(&b, "ID da venda: %s\n", st.Sale.ID)
		fmt.Fprintf(&b, "Vendedor: %s\n", st.Sale.SellerName)
		fmt.Fprintf(&b, "Comprador (CPF): %s\n", st.Sale.BuyerCPF)
		fmt.Fprintf(&b, "Data: %s\n", displayTime(st.Sale.Date))
		b.WriteString("Itens vendidos:\n")
		for _, it := range st.Sale.Items {
			fmt.Fprintf(&b, "  - %s (x%d)\n", it.Name, it.Quantity)
		}
		fmt.Fprintf(&b, "Total da venda: %s\n", money(st.Total))
	}
	b.WriteString(rule + "\n")

	_, err := w.Write(b.Bytes())
	return err
}

func writeCounts(b *bytes.Buffer, r ExpirationReport) {
	fmt.Fprintf(b, "- Produtos vencidos: %d\n", len(r.Expired))
	fmt.Fprintf(b, "- Vencendo em até 7 dias: %d\n", len(r.ExpiringSoon))
	fmt.Fprintf(b, "- Vencendo em até 30 dias: %d\n", len(r.ExpiringMonth))
	fmt.Fprintf(b, "- Produtos com validade adequada: %d\n", len(r.Valid))
	fmt.Fprintf(b, "- Produtos não perecíveis: %d\n", len(r.NonPerishable))
}

func expirationOf(e ExpirationEntry) string {
	if e.Product.ExpirationDate == nil {
		return "N/A"
	}
	return e.Product.ExpirationDate.Format(util.DateLayout)
}

// WriteExpirationText renders the expiration report file.
func WriteExpirationText(w io.Writer, r ExpirationReport) error {
	var b bytes.Buffer
	b.WriteString("RELATÓRIO DE CONTROLE DE VALIDADE\n")
	fmt.Fprintf(&b, "Gerado em: %s\n", r.Date.Format(dayLayout))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString("RESUMO DO STATUS DOS PRODUTOS:\n")
	writeCounts(&b, r)
	b.WriteString("\n")

	sections := []struct {
		title   string
		entries []ExpirationEntry
		days    func(ExpirationEntry) string
	}{
		{"PRODUTOS VENCIDOS:", r.Expired, func(e ExpirationEntry) string {
			return fmt.Sprintf("Vencido há: %d dia(s)", e.DaysOverdue())
		}},
		{"PRODUTOS VENCENDO EM ATÉ 7 DIAS:", r.ExpiringSoon, func(e ExpirationEntry) string {
			return fmt.Sprintf("Vence em: %d dia(s)", e.Days)
		}},
		{"PRODUTOS VENCENDO EM ATÉ 30 DIAS:", r.ExpiringMonth, func(e ExpirationEntry) string {
			return fmt.Sprintf("Vence em: %d dia(s)", e.Days)
		}},
	}
	for _, sec := range sections {
		if len(sec.entries) == 0 {
			continue
		}
		b.WriteString(sec.title + "\n")
		b.WriteString(strings.Repeat("-", 40) + "\n")
		for _, e := range sec.entries {
			fmt.Fprintf(&b, "Nome: %s\n", e.Product.Name)
			fmt.Fprintf(&b, "Código: %s\n", e.Product.Barcode)
			b.WriteString(sec.days(e) + "\n")
			fmt.Fprintf(&b, "Data de validade: %s\n", expirationOf(e))
			fmt.Fprintf(&b, "Quantidade: %d\n\n", e.Product.Quantity)
		}
	}

	if len(r.NonPerishable) > 0 {
		b.WriteString("PRODUTOS NÃO PERECÍVEIS:\n")
		b.WriteString(strings.Repeat("-", 40) + "\n")
		for _, e := range r.NonPerishable {
			fmt.Fprintf(&b, "Nome: %s\n", e.Product.Name)
			fmt.Fprintf(&b, "Código: %s\n", e.Product.Barcode)
			fmt.Fprintf(&b, "Quantidade: %d\n\n", e.Product.Quantity)
		}
	}

	_, err := w.Write(b.Bytes())
	return err
}

// WriteExpirationSummary renders the on-screen expiration report.
func WriteExpirationSummary(w io.Writer, r ExpirationReport) error {
	if len(r.Entries) == 0 {
		_, err := io.WriteString(w, "O estoque está vazio.\n")
		return err
	}
	var b bytes.Buffer
	rule := strings.Repeat("=", 60)
	b.WriteString(rule + "\n")
	b.WriteString("RELATÓRIO DE CONTROLE DE VALIDADE\n")
	b.WriteString(rule + "\n")
	b.WriteString("RESUMO:\n")
	writeCounts(&b, r)

	sections := []struct {
		title   string
		entries []ExpirationEntry
		verb    string
	}{
		{"PRODUTOS VENCIDOS:", r.Expired, "Vencido há"},
		{"PRODUTOS VENCENDO EM ATÉ 7 DIAS:", r.ExpiringSoon, "Vence em"},
		{"PRODUTOS VENCENDO EM ATÉ 30 DIAS:", r.ExpiringMonth, "Vence em"},
	}
	for _, sec := range sections {
		if len(sec.entries) == 0 {
			continue
		}
		b.WriteString("\n" + sec.title + "\n")
		for _, e := range sec.entries {
			days := e.Days
			if e.Bucket == Expired {
				days = e.DaysOverdue()
			}
			fmt.Fprintf(&b, "%s (Código: %s)\n", e.Product.Name, e.Product.Barcode)
			fmt.Fprintf(&b, "   %s %d dia(s) - Validade: %s\n", sec.verb, days, expirationOf(e))
			fmt.Fprintf(&b, "   Quantidade em estoque: %d\n\n", e.Product.Quantity)
		}
	}
	if !r.NeedsAttention() {
		b.WriteString("\nTodos os produtos perecíveis estão com validade adequada!\n")
	}
	b.WriteString(rule + "\n")

	_, err := w.Write(b.Bytes())
	return err
}
