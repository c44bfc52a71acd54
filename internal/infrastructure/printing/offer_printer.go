package printing

import (
	"bytes"
	"context"
	"html/template"
	"time"

	catalogapp "github.com/Esyonel/vural-enerji-sub001/internal/application/catalog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// OfferPrinterConfig configures the offer sheet layout
type OfferPrinterConfig struct {
	CompanyName string
	// Language is a BCP 47 tag deciding money format and name casing ("tr", "en")
	Language string
	// Labels override the printed headings, keyed like defaultLabels
	Labels map[string]string
}

// OfferPrinter renders offer sheets to PDF through a PDFRenderer
type OfferPrinter struct {
	renderer PDFRenderer
	tmpl     *template.Template
	company  string
	labels   map[string]string
}

// NewOfferPrinter parses the offer template for the configured language
func NewOfferPrinter(renderer PDFRenderer, cfg OfferPrinterConfig) (*OfferPrinter, error) {
	lang, err := language.Parse(cfg.Language)
	if err != nil {
		lang = language.Turkish
	}
	money := MoneyFormatFor(lang)

	labels := defaultLabels(lang)
	for k, v := range cfg.Labels {
		labels[k] = v
	}

	tmpl, err := template.New("offer").Funcs(template.FuncMap{
		"money": money.Format,
		"title": titleCaser(lang),
		"date": func(t time.Time) string {
			return t.Format("02.01.2006")
		},
		"mul": func(d decimal.Decimal, n int) decimal.Decimal {
			return d.Mul(decimal.NewFromInt(int64(n)))
		},
	}).Parse(offerTemplate)
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplate, "parse offer template", err)
	}

	return &OfferPrinter{
		renderer: renderer,
		tmpl:     tmpl,
		company:  cfg.CompanyName,
		labels:   labels,
	}, nil
}

type offerView struct {
	Company string
	L       map[string]string
	catalogapp.OfferSheet
}

// RenderHTML fills the offer template
func (p *OfferPrinter) RenderHTML(offer catalogapp.OfferSheet) (string, error) {
	var buf bytes.Buffer
	view := offerView{Company: p.company, L: p.labels, OfferSheet: offer}
	if err := p.tmpl.Execute(&buf, view); err != nil {
		return "", NewRenderError(ErrCodeTemplate, "execute offer template", err)
	}
	return buf.String(), nil
}

// PrintOffer renders the offer sheet as an A4 PDF
func (p *OfferPrinter) PrintOffer(ctx context.Context, offer catalogapp.OfferSheet) ([]byte, error) {
	html, err := p.RenderHTML(offer)
	if err != nil {
		return nil, err
	}

	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:       html,
		Title:      offer.Package.Name,
		Margins:    DefaultMargins(),
		FooterHTML: `<div style="font-size:8px;width:100%;text-align:center;"><span class="pageNumber"></span> / <span class="totalPages"></span></div>`,
	})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

var _ catalogapp.OfferPrinter = (*OfferPrinter)(nil)

func defaultLabels(lang language.Tag) map[string]string {
	if base, _ := lang.Base(); base.String() == "en" {
		return map[string]string{
			"offer":        "Solar Package Offer",
			"issued":       "Issued",
			"valid_until":  "Valid until",
			"system_power": "System power",
			"bill_band":    "Monthly bill range",
			"your_bill":    "Your monthly bill",
			"product":      "Product",
			"quantity":     "Qty",
			"unit_price":   "Unit price",
			"subtotal":     "Subtotal",
			"package":      "Package price",
			"installation": "Installation",
			"total":        "Total",
			"features":     "Included",
		}
	}
	return map[string]string{
		"offer":        "Güneş Enerjisi Paket Teklifi",
		"issued":       "Tarih",
		"valid_until":  "Geçerlilik",
		"system_power": "Sistem gücü",
		"bill_band":    "Aylık fatura aralığı",
		"your_bill":    "Aylık faturanız",
		"product":      "Ürün",
		"quantity":     "Adet",
		"unit_price":   "Birim fiyat",
		"subtotal":     "Tutar",
		"package":      "Paket fiyatı",
		"installation": "Kurulum",
		"total":        "Toplam",
		"features":     "Pakete dahil",
	}
}

const offerTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Package.Name}}</title>
<style>
body { font-family: "DejaVu Sans", Arial, sans-serif; font-size: 12px; color: #222; }
h1 { font-size: 20px; margin: 0 0 4px; }
.company { color: #e67e22; font-weight: bold; font-size: 14px; }
.meta td { padding: 2px 12px 2px 0; }
table.items { width: 100%; border-collapse: collapse; margin-top: 16px; }
table.items th, table.items td { border-bottom: 1px solid #ddd; padding: 6px 4px; text-align: left; }
table.items td.num, table.items th.num { text-align: right; }
.totals { margin-top: 16px; width: 40%; margin-left: auto; }
.totals td { padding: 3px 4px; }
.totals tr.grand td { font-weight: bold; border-top: 2px solid #222; }
</style>
</head>
<body>
{{if .Company}}<div class="company">{{.Company}}</div>{{end}}
<h1>{{.L.offer}}: {{title .Package.Name}}</h1>
{{if .Package.Description}}<p>{{.Package.Description}}</p>{{end}}
<table class="meta">
<tr><td>{{.L.issued}}</td><td>{{date .IssuedAt}}</td><td>{{.L.valid_until}}</td><td>{{date .ValidUntil}}</td></tr>
{{if .Package.SystemPower}}<tr><td>{{.L.system_power}}</td><td colspan="3">{{.Package.SystemPower}}</td></tr>{{end}}
<tr><td>{{.L.bill_band}}</td><td colspan="3">{{money .Package.MinBill}} - {{money .Package.MaxBill}}</td></tr>
{{with .BillAmount}}<tr><td>{{$.L.your_bill}}</td><td colspan="3">{{money .}}</td></tr>{{end}}
</table>
{{if .Package.LineItems}}
<table class="items">
<thead><tr><th>{{.L.product}}</th><th class="num">{{.L.quantity}}</th><th class="num">{{.L.unit_price}}</th><th class="num">{{.L.subtotal}}</th></tr></thead>
<tbody>
{{range .Package.LineItems}}<tr><td>{{title .ProductName}}</td><td class="num">{{.Quantity}}</td><td class="num">{{money .UnitPrice}}</td><td class="num">{{money (mul .UnitPrice .Quantity)}}</td></tr>
{{end}}</tbody>
</table>
{{end}}
{{if .Package.Features}}
<h3>{{.L.features}}</h3>
<ul>{{range .Package.Features}}<li>{{.}}</li>{{end}}</ul>
{{end}}
<table class="totals">
<tr><td>{{.L.package}}</td><td class="num">{{money .Package.TotalPrice}}</td></tr>
<tr><td>{{.L.installation}}</td><td class="num">{{money .Package.InstallationCost}}</td></tr>
<tr class="grand"><td>{{.L.total}}</td><td class="num">{{money .Package.GrandTotal}}</td></tr>
</table>
</body>
</html>
`
