package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Frequencies below 30 MHz or above 1000 MHz are outside what scanner-band
// records plausibly hold and get flagged during validation.
const (
	minPlausibleMHz = 30
	maxPlausibleMHz = 1000
)

// maxReportedErrors caps how many row problems the validation message lists.
const maxReportedErrors = 5

// Validate checks that a CSV file honors the export contract: the required
// columns are present and every frequency parses into a plausible range.
// The returned message is user-facing; ok reports overall validity, and
// rows is how many data rows the file holds.
func Validate(path string) (ok bool, message string, rows int) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Sprintf("File not found: %s", path), 0
		}
		return false, fmt.Sprintf("Error reading CSV file: %v", err), 0
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return false, "CSV file appears to be empty or invalid", 0
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}

	var missing []string
	for _, required := range []string{"Location", "Frequency", "Name"} {
		if _, present := cols[required]; !present {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return false, "Missing required columns: " + strings.Join(missing, ", "), 0
	}

	freqIdx := cols["Frequency"]
	var errors []string
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			errors = append(errors, fmt.Sprintf("Row %d: %v", line, err))
			continue
		}
		rows++

		if freqIdx >= len(row) {
			continue
		}
		freq := strings.TrimSpace(row[freqIdx])
		if freq == "" {
			continue
		}
		mhz, err := strconv.ParseFloat(freq, 64)
		if err != nil {
			errors = append(errors, fmt.Sprintf("Row %d: Invalid frequency format: %s", line, freq))
			continue
		}
		if mhz < minPlausibleMHz || mhz > maxPlausibleMHz {
			errors = append(errors, fmt.Sprintf("Row %d: Frequency %s out of typical range", line, freq))
		}
	}

	if len(errors) > 0 {
		msg := fmt.Sprintf("Found %d validation errors:\n%s",
			len(errors), strings.Join(errors[:min(maxReportedErrors, len(errors))], "\n"))
		if len(errors) > maxReportedErrors {
			msg += fmt.Sprintf("\n... and %d more errors", len(errors)-maxReportedErrors)
		}
		return false, msg, rows
	}

	return true, fmt.Sprintf("Valid frequency CSV with %d rows", rows), rows
}
