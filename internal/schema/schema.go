// Package schema maps heterogeneous source tables onto the canonical record
// shapes. Sources drift: column names vary ("# of orders", "impression",
// "attributed revenue"), numbers arrive as "$1,234.50", dates in several
// layouts. Normalization is deliberately lenient everywhere except the date
// column, which is the row identity and cannot be guessed.
package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yaswanthrajeev/bi-dashboard/internal/models"
)

// RawTable is an untyped table as read from a flat file: a header and
// string cells. The loader owns producing these; this package owns typing them.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// Error is the unrecoverable schema failure: the date column is absent or no
// row carries a parseable date. Anything else is coerced, never raised.
type Error struct {
	Source string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("schema: %s: %s", e.Source, e.Reason)
}

// Canonical column names. Aliases below collapse every observed source
// spelling into one of these.
const (
	colDate         = "date"
	colRevenue      = "revenue"
	colCOGS         = "cogs"
	colGrossProfit  = "gross_profit"
	colOrders       = "orders"
	colNewOrders    = "new_orders"
	colNewCustomers = "new_customers"
	colImpressions  = "impressions"
	colClicks       = "clicks"
	colSpend        = "spend"
	colAttrRevenue  = "attributed_revenue"
	colPlatform     = "platform"
	colTactic       = "tactic"
	colRegion       = "region"
)

// aliases is the single declarative rename table. Keys are headers after
// normalizeHeader (lowercased, trimmed, runs of whitespace collapsed).
var aliases = map[string]string{
	"date": colDate,
	"day":  colDate,

	"revenue":       colRevenue,
	"total revenue": colRevenue,
	"total_revenue": colRevenue,

	"cogs":               colCOGS,
	"cost of goods":      colCOGS,
	"cost of goods sold": colCOGS,

	"gross profit": colGrossProfit,
	"gross_profit": colGrossProfit,
	"profit":       colGrossProfit,

	"orders":      colOrders,
	"# of orders": colOrders,
	"order count": colOrders,

	"new orders":      colNewOrders,
	"# of new orders": colNewOrders,

	"new customers":      colNewCustomers,
	"# of new customers": colNewCustomers,
	"new customer count": colNewCustomers,

	"impression":  colImpressions,
	"impressions": colImpressions,

	"click":  colClicks,
	"clicks": colClicks,

	"spend":    colSpend,
	"ad spend": colSpend,
	"cost":     colSpend,

	"attributed revenue": colAttrRevenue,
	"attributed_revenue": colAttrRevenue,
	"attr revenue":       colAttrRevenue,

	"platform": colPlatform,
	"channel":  colPlatform,

	"tactic": colTactic,

	"region": colRegion,
	"state":  colRegion,
	"geo":    colRegion,
}

// dateLayouts are tried in order. Sources mix ISO dates, ISO timestamps,
// US-style slashes, and RFC3339 exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2006/01/02",
	time.RFC3339,
}

func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(h))), " ")
}

// columnIndex resolves canonical name -> column position for a header row.
func columnIndex(columns []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		canon, ok := aliases[normalizeHeader(c)]
		if !ok {
			continue
		}
		if _, dup := idx[canon]; dup {
			continue // first occurrence wins
		}
		idx[canon] = i
	}
	return idx
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.Day(t), true
		}
	}
	return time.Time{}, false
}

// coerceFloat turns a cell into a non-negative float64. Currency symbols,
// thousands separators, and percent signs are stripped first. Anything that
// still fails to parse becomes 0; the row is kept.
func coerceFloat(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func coerceInt(s string) int {
	return int(coerceFloat(s))
}

func cell(row []string, idx map[string]int, canon string) string {
	i, ok := idx[canon]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// NormalizeOperations types a raw business-operations table. Rows whose date
// cell does not parse are skipped; a table where no row parses fails.
func NormalizeOperations(t RawTable) ([]models.OperationsRecord, error) {
	idx := columnIndex(t.Columns)
	if _, ok := idx[colDate]; !ok {
		return nil, &Error{Source: "operations", Reason: "date column missing"}
	}
	out := make([]models.OperationsRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		d, ok := parseDate(cell(row, idx, colDate))
		if !ok {
			continue
		}
		out = append(out, models.OperationsRecord{
			Date:         d,
			Revenue:      coerceFloat(cell(row, idx, colRevenue)),
			COGS:         coerceFloat(cell(row, idx, colCOGS)),
			GrossProfit:  coerceFloat(cell(row, idx, colGrossProfit)),
			Orders:       coerceInt(cell(row, idx, colOrders)),
			NewOrders:    coerceInt(cell(row, idx, colNewOrders)),
			NewCustomers: coerceInt(cell(row, idx, colNewCustomers)),
		})
	}
	if len(out) == 0 && len(t.Rows) > 0 {
		return nil, &Error{Source: "operations", Reason: "date column entirely unparseable"}
	}
	return out, nil
}

// NormalizeAdvertising types a raw platform table. The platform argument is
// the tag assigned by the loader; a platform column in the data, when
// present, overrides it per row.
func NormalizeAdvertising(t RawTable, platform string) ([]models.AdvertisingRecord, error) {
	idx := columnIndex(t.Columns)
	if _, ok := idx[colDate]; !ok {
		return nil, &Error{Source: platform, Reason: "date column missing"}
	}
	platform = strings.ToLower(strings.TrimSpace(platform))
	out := make([]models.AdvertisingRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		d, ok := parseDate(cell(row, idx, colDate))
		if !ok {
			continue
		}
		p := strings.ToLower(strings.TrimSpace(cell(row, idx, colPlatform)))
		if p == "" {
			p = platform
		}
		out = append(out, models.AdvertisingRecord{
			Date:              d,
			Platform:          p,
			Tactic:            strings.ToLower(strings.TrimSpace(cell(row, idx, colTactic))),
			Region:            strings.ToLower(strings.TrimSpace(cell(row, idx, colRegion))),
			Impressions:       coerceInt(cell(row, idx, colImpressions)),
			Clicks:            coerceInt(cell(row, idx, colClicks)),
			Spend:             coerceFloat(cell(row, idx, colSpend)),
			AttributedRevenue: coerceFloat(cell(row, idx, colAttrRevenue)),
		})
	}
	if len(out) == 0 && len(t.Rows) > 0 {
		return nil, &Error{Source: platform, Reason: "date column entirely unparseable"}
	}
	return out, nil
}
