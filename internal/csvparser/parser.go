// =============================================================================
// Order Billing Report - CSV Parser Module
// =============================================================================
//
// This module is responsible for reading the order export CSV into a raw,
// untyped table. It handles:
//   - Different delimiters (comma, semicolon, tab, pipe)
//   - Different encodings (UTF-8 with or without BOM, ISO-8859-1,
//     Windows-1252)
//   - Quoted fields, lazy quotes and rows with a varying field count
//
// Typing (quantities, totals, dates) is done later by the converter and the
// fulfillment filter; this module only trims and keys cells by header.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/order-billing-report/internal/config"
	"github.com/ginjaninja78/order-billing-report/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the raw table.
//
// PARSING PROCESS:
//   1. Open the file and wrap it in a decoder for the configured encoding
//   2. Configure the CSV reader with the configured delimiter
//   3. Read the header row
//   4. Convert each non-blank data row to a map of header -> value
func Parse(filePath string, settings config.CSVSettings) (*types.RawTable, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	table, err := ParseReader(file, settings)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath
	return table, nil
}

// ParseReader reads CSV data from r.
func ParseReader(r io.Reader, settings config.CSVSettings) (*types.RawTable, error) {
	dec, err := decoderFor(settings.Encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(bufio.NewReader(transform.NewReader(r, dec)))
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	headers := cleanHeaders(allRows[0])

	return &types.RawTable{
		Headers: headers,
		Rows:    extractDataRows(allRows[1:], headers, 2),
	}, nil
}

// decoderFor returns the decoder for the configured encoding.
// UTF-8 input may carry a byte order mark; it is dropped.
func decoderFor(name string) (transform.Transformer, error) {
	var enc encoding.Encoding
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "UTF-8", "UTF8":
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case "ISO-8859-1", "LATIN1":
		enc = charmap.ISO8859_1
	case "WINDOWS-1252", "CP1252":
		enc = charmap.Windows1252
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc.NewDecoder(), nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Exports are not always rectangular.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// cleanHeaders trims headers and names empty ones by position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// extractDataRows converts rows to header-keyed maps. firstRowNumber is the
// source row number of rows[0].
func extractDataRows(rows [][]string, headers []string, firstRowNumber int) []types.RawRow {
	dataRows := make([]types.RawRow, 0, len(rows))

	for i, row := range rows {
		if isRowEmpty(row) {
			continue
		}

		values := make(map[string]string, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				values[header] = strings.TrimSpace(row[colIndex])
			} else {
				values[header] = ""
			}
		}

		dataRows = append(dataRows, types.RawRow{
			Number: firstRowNumber + i,
			Values: values,
		})
	}

	return dataRows
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ExtractRows is exported for the xlsx reader, which shares the row model.
func ExtractRows(rows [][]string, headers []string, firstRowNumber int) []types.RawRow {
	return extractDataRows(rows, headers, firstRowNumber)
}

// CleanHeaders is exported for the xlsx reader.
func CleanHeaders(headers []string) []string {
	return cleanHeaders(headers)
}
