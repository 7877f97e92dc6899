// Package fares answers ticket price lookups from a spreadsheet.
//
// The price book is loaded once at startup from an xlsx workbook with a
// destination column and a ticket_prices column. Lookups are
// case-insensitive and an unlisted destination is answered with
// Unknown rather than an error.
package fares

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jsyssauw/flightai/internal/log"
)

// Unknown is the price reported for destinations not in the book.
const Unknown = "Unknown"

// Default workbook layout.
const (
	DefaultSheet       = "flights"
	ColumnDestination  = "destination"
	ColumnTicketPrices = "ticket_prices"
)

// PriceBook maps lowercase destination cities to ticket prices.
type PriceBook struct {
	prices map[string]string
	logger *slog.Logger
}

// New creates a price book from an explicit destination→price map.
// Keys are lowercased on insert.
func New(prices map[string]string) *PriceBook {
	book := &PriceBook{
		prices: make(map[string]string, len(prices)),
		logger: log.L().With("component", "fares"),
	}
	for city, price := range prices {
		book.prices[strings.ToLower(strings.TrimSpace(city))] = price
	}
	return book
}

// Empty returns a price book with no entries. Every lookup answers Unknown.
func Empty() *PriceBook {
	return New(nil)
}

// LoadFile reads a price book from an xlsx workbook.
// Later rows overwrite earlier rows for the same destination.
func LoadFile(path, sheet string) (*PriceBook, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("fares: open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("fares: read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("fares: sheet %s is empty", sheet)
	}

	destCol, priceCol := columnIndexes(rows[0])

	book := Empty()
	for _, row := range rows[1:] {
		if destCol >= len(row) || priceCol >= len(row) {
			continue
		}
		city := strings.ToLower(strings.TrimSpace(row[destCol]))
		if city == "" {
			continue
		}
		book.prices[city] = strings.TrimSpace(row[priceCol])
	}

	book.logger.Info("price book loaded",
		"path", path,
		"sheet", sheet,
		"destinations", len(book.prices),
	)
	return book, nil
}

// LoadFileOrEmpty reads a price book from disk, falling back to an
// empty book when the workbook is missing or unreadable.
func LoadFileOrEmpty(path, sheet string) *PriceBook {
	book, err := LoadFile(path, sheet)
	if err != nil {
		log.L().With("component", "fares").Warn("price book unavailable, all fares unknown",
			"path", path,
			"error", err,
		)
		return Empty()
	}
	return book
}

// Lookup returns the ticket price for a destination city, or Unknown
// when the city is not listed. Matching is case-insensitive.
func (b *PriceBook) Lookup(city string) string {
	price, ok := b.prices[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		return Unknown
	}
	return price
}

// Len returns the number of listed destinations.
func (b *PriceBook) Len() int {
	return len(b.prices)
}

// columnIndexes resolves the destination and price columns from the
// header row, defaulting to the first two columns.
func columnIndexes(header []string) (int, int) {
	destCol, priceCol := 0, 1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case ColumnDestination:
			destCol = i
		case ColumnTicketPrices:
			priceCol = i
		}
	}
	return destCol, priceCol
}
