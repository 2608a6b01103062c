package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteSalesCSV writes one row per sale item.
func WriteSalesCSV(w io.Writer, s SalesSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Data", "Vendedor", "CPF do Comprador", "Produto", "Quantidade"}); err != nil {
		return err
	}
	for _, st := range s.Sales {
		date := displayTime(st.Sale.Date)
		for _, it := range st.Sale.Items {
			row := []string{date, st.Sale.SellerName, st.Sale.BuyerCPF, it.Name, strconv.Itoa(it.Quantity)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteExpirationCSV writes one row per product in listing order.
func WriteExpirationCSV(w io.Writer, r ExpirationReport) error {
	cw := csv.NewWriter(w)
	header := []string{"Nome", "Codigo_Barras", "Marca", "Quantidade", "Tipo", "Data_Validade", "Status", "Dias_Para_Vencer"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range r.Entries {
		p := e.Product
		kind, date, days := "NAO_PERECIVEL", "N/A", "N/A"
		if e.Bucket != NotApplicable {
			kind = "PERECIVEL"
			date = p.ExpirationDate.Format(dayLayout)
			if e.Bucket == Expired {
				days = fmt.Sprintf("Vencido há %d dia(s)", e.DaysOverdue())
			} else {
				days = fmt.Sprintf("%d dia(s)", e.Days)
			}
		}
		row := []string{p.Name, p.Barcode, p.Brand, strconv.Itoa(p.Quantity), kind, date, e.Bucket.Status(), days}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
