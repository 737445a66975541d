// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"
	"github.com/your-org/ventilation-store/internal/config"
	"github.com/your-org/ventilation-store/internal/domain/order"
)

var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return "S/ " + d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format("January 2, 2006") },
}).Parse(receiptTemplate))

// Service handles PDF generation
type Service struct {
	company CompanyInfo
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		company: CompanyInfo{
			Name:    cfg.Company.Name,
			Address: cfg.Company.Address,
			Phone:   cfg.Company.Phone,
			Email:   cfg.Company.Email,
			Website: cfg.Company.Website,
		},
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	IssuedAt time.Time
	Order    *order.View
	Company  CompanyInfo
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Website string
}

// GenerateReceipt renders an order receipt and converts it to PDF with wkhtmltopdf
func (s *Service) GenerateReceipt(view *order.View) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(view, time.Now())
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderHTML fills the receipt template
func (s *Service) RenderHTML(view *order.View, issuedAt time.Time) (string, error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, ReceiptData{
		IssuedAt: issuedAt,
		Order:    view,
		Company:  s.company,
	}); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.Order.Number}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { margin-bottom: 30px; border-bottom: 2px solid #eee; padding-bottom: 20px; }
        .title { font-size: 26px; font-weight: bold; color: #0e7490; margin-bottom: 10px; }
        .section-title { font-size: 16px; font-weight: bold; margin: 20px 0 10px; color: #374151; }
        .items-table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
        .items-table th, .items-table td { border: 1px solid #ddd; padding: 10px 8px; text-align: left; }
        .items-table th { background-color: #f8f9fa; }
        .num { text-align: right; width: 90px; }
        .total-row td { font-size: 18px; font-weight: bold; border-top: 2px solid #333; }
        .status { display: inline-block; padding: 4px 8px; border-radius: 4px; font-size: 12px; font-weight: bold; text-transform: uppercase; background-color: #e0f2fe; }
        .footer { margin-top: 50px; padding-top: 20px; border-top: 1px solid #eee; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Company.Name}}</h1>
        <p>{{.Company.Address}}</p>
        <p>Phone: {{.Company.Phone}} &middot; Email: {{.Company.Email}}</p>
        <p>{{.Company.Website}}</p>
    </div>

    <div class="title">RECEIPT</div>
    <p><strong>Order #:</strong> {{.Order.Number}}</p>
    <p><strong>Order date:</strong> {{date .Order.PlacedAt}}</p>
    <p><strong>Issued:</strong> {{date .IssuedAt}}</p>
    <p><strong>Status:</strong> <span class="status">{{.Order.Status}}</span></p>
    <p><strong>Payment:</strong> {{.Order.Payment.Method}}{{if .Order.Payment.Reference}} ({{.Order.Payment.Reference}}){{end}}</p>

    <div class="section-title">Ship to</div>
    {{with .Order.ShippingAddress}}
    <p><strong>{{.FullName}}</strong></p>
    <p>{{.Street}}{{if .Number}} {{.Number}}{{end}}</p>
    <p>{{if .District}}{{.District}}, {{end}}{{.City}} {{.PostalCode}}</p>
    {{if .Phone}}<p>Phone: {{.Phone}}</p>{{end}}
    {{if .Email}}<p>Email: {{.Email}}</p>{{end}}
    {{end}}

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th class="num">Qty</th>
                <th class="num">Price</th>
                <th class="num">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Order.Lines}}
            <tr>
                <td>{{.Name}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{money .UnitPrice}}</td>
                <td class="num">{{money .Subtotal}}</td>
            </tr>
            {{end}}
            <tr class="total-row">
                <td colspan="3" class="num">Total</td>
                <td class="num">{{money .Order.Total}}</td>
            </tr>
        </tbody>
    </table>

    {{if .Order.CancelReason}}<p><strong>Cancelled:</strong> {{.Order.CancelReason}}</p>{{end}}

    <div class="footer">
        <p>Thank you for your purchase!</p>
        <p>Questions about this order? Contact us at {{.Company.Email}} or {{.Company.Phone}}</p>
    </div>
</body>
</html>
`
