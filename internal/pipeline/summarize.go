package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sqlsage/sqlsage/internal/types"
)

// maxNumericColumns bounds how many columns get statistics in the digest.
// The cap keeps the insight prompt small on wide results and is a deliberate
// truncation, not a correctness rule
const maxNumericColumns = 3

// SummarizeResult renders a compact statistical digest of a query result for
// use as model context. Statistics cover at most the first 3 numeric columns
// in column order
func SummarizeResult(result types.QueryResult) string {
	if len(result.Rows) == 0 {
		return "No data returned from query"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Dataset contains %d records\n", len(result.Rows))
	fmt.Fprintf(&sb, "Columns: %s\n", strings.Join(result.Columns, ", "))

	numeric := numericColumns(result, maxNumericColumns)
	if len(numeric) > 0 {
		sb.WriteString("\nNumeric summaries:\n")

		for _, name := range numeric {
			minVal, maxVal, mean := columnStats(result.Rows, name)
			fmt.Fprintf(&sb, "%s: min=%s, max=%s, avg=%.2f\n",
				name, formatNumber(minVal), formatNumber(maxVal), mean)
		}
	}

	return sb.String()
}

// numericColumns returns up to limit column names, in result column order,
// whose values are numeric
func numericColumns(result types.QueryResult, limit int) []string {
	var cols []string

	for _, name := range result.Columns {
		if len(cols) == limit {
			break
		}

		if isNumericColumn(result.Rows, name) {
			cols = append(cols, name)
		}
	}

	return cols
}

// isNumericColumn reports whether a column holds at least one value and
// nothing but numbers. Nulls are ignored; an all-null column is not numeric
func isNumericColumn(rows []map[string]any, name string) bool {
	seen := false

	for _, row := range rows {
		value := row[name]
		if value == nil {
			continue
		}

		if _, ok := numericValue(value); !ok {
			return false
		}

		seen = true
	}

	return seen
}

// columnStats computes min, max, and mean over the non-null values of a
// column the caller already verified is numeric
func columnStats(rows []map[string]any, name string) (minVal, maxVal, mean float64) {
	var sum float64

	count := 0

	for _, row := range rows {
		value, ok := numericValue(row[name])
		if !ok {
			continue
		}

		if count == 0 || value < minVal {
			minVal = value
		}

		if count == 0 || value > maxVal {
			maxVal = value
		}

		sum += value
		count++
	}

	if count > 0 {
		mean = sum / float64(count)
	}

	return minVal, maxVal, mean
}

func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
