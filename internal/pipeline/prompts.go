package pipeline

import (
	"fmt"
	"strings"

	"github.com/sqlsage/sqlsage/internal/types"
)

// RenderQueryPrompt builds the SQL generation prompt from the schema
// description and the user's question. Rendering is deterministic: tables,
// columns, and sample values appear in schema order, so identical inputs
// always produce identical prompts
func RenderQueryPrompt(schema types.SchemaDescription, question string) string {
	var sb strings.Builder

	sb.WriteString("You are an expert SQL analyst. Given the following database schema and a business question, generate an appropriate SQL query.\n\n")
	sb.WriteString("Database Schema:\n")
	sb.WriteString(formatSchemaContext(schema))
	sb.WriteString("\nBusiness Question: ")
	sb.WriteString(question)
	sb.WriteString("\n\nImportant guidelines:\n")
	sb.WriteString("1. Handle cases where column names might be unclear or abbreviated\n")
	sb.WriteString("2. Use appropriate JOINs when data spans multiple tables\n")
	sb.WriteString("3. Apply proper filtering and aggregation\n")
	sb.WriteString("4. Consider data quality issues (nulls, duplicates, inconsistent formats)\n")
	sb.WriteString("5. Return only the SQL query, no explanations\n")
	sb.WriteString("\nSQL Query:")

	return sb.String()
}

// RenderInsightPrompt builds the narrative generation prompt from the user's
// question and the digest produced by SummarizeResult
func RenderInsightPrompt(question, digest string) string {
	var sb strings.Builder

	sb.WriteString("Based on the following business question and data analysis results, provide a comprehensive natural language answer with key insights.\n\n")
	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString("\n\nData Summary:\n")
	sb.WriteString(digest)
	sb.WriteString("\nProvide a clear, business-focused answer that:\n")
	sb.WriteString("1. Directly answers the question\n")
	sb.WriteString("2. Highlights key findings and trends\n")
	sb.WriteString("3. Provides actionable insights\n")
	sb.WriteString("4. Mentions any data quality concerns if relevant\n")
	sb.WriteString("\nAnswer:")

	return sb.String()
}

// formatSchemaContext renders each table as a header line, one line per
// column, and one illustrative sample row when available
func formatSchemaContext(schema types.SchemaDescription) string {
	if schema.IsEmpty() {
		return "No schema information is available.\n"
	}

	var sb strings.Builder

	for _, table := range schema.Tables {
		fmt.Fprintf(&sb, "\nTable: %s\n", table.Name)

		for _, column := range table.Columns {
			fmt.Fprintf(&sb, "  - %s (%s)\n", column.Name, column.Type)
		}

		if len(table.SampleRows) > 0 {
			fmt.Fprintf(&sb, "  Sample data: %s\n", formatSampleRow(table, table.SampleRows[0]))
		}
	}

	return sb.String()
}

// formatSampleRow prints one sample row with its values in column order
// rather than map iteration order, keeping prompts reproducible
func formatSampleRow(table types.TableDescription, row map[string]any) string {
	var sb strings.Builder

	sb.WriteString("map[")

	first := true

	for _, column := range table.Columns {
		value, ok := row[column.Name]
		if !ok {
			continue
		}

		if !first {
			sb.WriteString(" ")
		}

		first = false

		fmt.Fprintf(&sb, "%s:%v", column.Name, value)
	}

	sb.WriteString("]")

	return sb.String()
}
