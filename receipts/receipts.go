// Package receipts renders the document handed to a buyer for every placed
// order and ships it to the configured sink.
package receipts

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/Kariqs/farmers-market-api/models"
	"github.com/Kariqs/farmers-market-api/storage"
)

//go:embed templates/receipt.html
var templateFS embed.FS

var receiptTemplate = template.Must(
	template.New("receipt.html").Funcs(template.FuncMap{
		"date":  func(t time.Time) string { return t.Format("2006-01-02") },
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}).ParseFS(templateFS, "templates/receipt.html"),
)

type Receipt struct {
	Order      models.Order
	BuyerName  string
	BuyerEmail string
}

// Exporter returns where the receipt ended up.
type Exporter interface {
	Export(ctx context.Context, receipt Receipt) (string, error)
}

func Render(w io.Writer, receipt Receipt) error {
	if err := receiptTemplate.Execute(w, receipt); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}
	return nil
}

type StorageExporter struct {
	uploader storage.Uploader
}

func NewStorageExporter(uploader storage.Uploader) *StorageExporter {
	return &StorageExporter{uploader: uploader}
}

func (e *StorageExporter) Export(ctx context.Context, receipt Receipt) (string, error) {
	var body bytes.Buffer
	if err := Render(&body, receipt); err != nil {
		return "", err
	}
	key := "receipts/" + receipt.Order.Reference + ".html"
	return e.uploader.Upload(ctx, key, "text/html; charset=utf-8", &body)
}

type HTMLSender interface {
	SendHTML(ctx context.Context, emailTo, subject, htmlBody string) error
}

type MailExporter struct {
	sender HTMLSender
}

func NewMailExporter(sender HTMLSender) *MailExporter {
	return &MailExporter{sender: sender}
}

func (e *MailExporter) Export(ctx context.Context, receipt Receipt) (string, error) {
	if receipt.BuyerEmail == "" {
		return "", fmt.Errorf("receipt %s has no recipient", receipt.Order.Reference)
	}
	var body bytes.Buffer
	if err := Render(&body, receipt); err != nil {
		return "", err
	}
	subject := "Your order " + receipt.Order.Reference
	if err := e.sender.SendHTML(ctx, receipt.BuyerEmail, subject, body.String()); err != nil {
		return "", err
	}
	return "mailto:" + receipt.BuyerEmail, nil
}

// Nop is used when receipts are switched off.
type Nop struct{}

func (Nop) Export(context.Context, Receipt) (string, error) { return "", nil }
