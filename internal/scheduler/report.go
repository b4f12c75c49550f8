package scheduler

import (
	"fmt"
	"io"
	"strings"

	"github.com/finsight/backend/internal/models"
	"github.com/finsight/backend/internal/types"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency is used for reports when no currency is configured.
const DefaultCurrency = "INR"

// localeForCurrency is the locale used to format amounts of a currency.
var localeForCurrency = map[string]language.Tag{
	"INR": language.MustParse("en-IN"),
	"USD": language.AmericanEnglish,
	"EUR": language.German,
	"GBP": language.BritishEnglish,
	"JPY": language.Japanese,
	"CHF": language.German,
	"SEK": language.Swedish,
}

// Currency formats amounts for reports.
type Currency struct {
	Code    string
	unit    currency.Unit
	printer *message.Printer
}

// ParseCurrency returns the Currency for an ISO 4217 code.
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	unit, err := currency.ParseISO(code)
	if err != nil {
		return Currency{}, fmt.Errorf("invalid currency '%s': %w", code, err)
	}

	tag, ok := localeForCurrency[code]
	if !ok {
		tag = language.English
	}

	return Currency{
		Code:    code,
		unit:    unit,
		printer: message.NewPrinter(tag),
	}, nil
}

// MustCurrency is like ParseCurrency but panics if the code is invalid.
func MustCurrency(code string) Currency {
	c, err := ParseCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Format formats the amount with the narrow currency symbol and two fraction digits.
func (c Currency) Format(amount decimal.Decimal) string {
	f, _ := amount.Float64()

	formatted := c.printer.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	symbol := c.printer.Sprint(currency.NarrowSymbol(c.unit))

	return symbol + formatted
}

// RenderActive writes the recurring transactions as a table to w.
func RenderActive(w io.Writer, templates []models.RecurringTransaction, c Currency) {
	if len(templates) == 0 {
		fmt.Fprintln(w, "No active recurring transactions")
		return
	}

	fmt.Fprintf(w, "%d active recurring transactions\n\n", len(templates))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Name", "Kind", "Amount", "Category", "Frequency", "Start", "Next", "End", "Last Processed"})

	for _, r := range templates {
		kind := text.FgGreen.Sprint(string(r.Kind))
		if r.Kind == types.Expense {
			kind = text.FgRed.Sprint(string(r.Kind))
		}

		end := text.FgHiBlack.Sprint("-")
		if r.EndDate != nil {
			end = r.EndDate.Format("2006-01-02")
		}

		lastProcessed := text.FgHiBlack.Sprint("pending first execution")
		if r.LastProcessed != nil {
			lastProcessed = r.LastProcessed.Format("2006-01-02 15:04")
		}

		t.AppendRow(table.Row{
			r.Name,
			kind,
			c.Format(r.Amount),
			r.Category,
			string(r.Frequency),
			r.StartDate.Format("2006-01-02"),
			r.NextOccurrence.Format("2006-01-02"),
			end,
			lastProcessed,
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})

	t.Render()
}
