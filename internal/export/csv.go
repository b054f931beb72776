// Package export writes canonical frequency records to the formats users
// feed into device-programming tools: the contract CSV and a readable TXT
// listing. encoding/csv is used directly because the column set, ordering,
// and quoting are a byte-level compatibility contract.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/freqscout/freqscout-cli/internal/model"
)

// WriteCSV writes records to path in the contract column order. With
// appendMode set and an existing file present, the header is skipped and
// records are renumbered to continue from the file's last Location.
func WriteCSV(path string, records []model.FrequencyRecord, appendMode bool) error {
	if len(records) == 0 {
		zap.L().Warn("no frequencies to export", zap.String("path", path))
		return nil
	}

	fileExists := false
	startLocation := 0
	if appendMode {
		if existing, err := ReadCSV(path); err == nil {
			fileExists = true
			if len(existing) > 0 {
				startLocation = existing[len(existing)-1].Location + 1
			}
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if fileExists {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return eris.Wrap(err, "export: open csv")
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if !fileExists {
		if err := w.Write(model.Columns()); err != nil {
			return eris.Wrap(err, "export: write csv header")
		}
	}

	for i, rec := range records {
		if fileExists {
			rec.Location = startLocation + i
		}
		if err := w.Write(rec.CSVRow()); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}

	zap.L().Info("exported frequencies",
		zap.String("path", path), zap.Int("count", len(records)),
		zap.Bool("appended", fileExists))
	return nil
}

// ReadCSV loads a contract CSV back into records. Unknown columns are
// ignored; known columns are matched by header name so column order does
// not matter on input.
func ReadCSV(path string) ([]model.FrequencyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: open csv")
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "export: read csv header")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var records []model.FrequencyRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "export: read csv row")
		}

		loc, _ := strconv.Atoi(field(row, "Location"))
		records = append(records, model.FrequencyRecord{
			Location:     loc,
			Name:         field(row, "Name"),
			Frequency:    field(row, "Frequency"),
			Duplex:       field(row, "Duplex"),
			Offset:       field(row, "Offset"),
			Tone:         field(row, "Tone"),
			RToneFreq:    field(row, "rToneFreq"),
			CToneFreq:    field(row, "cToneFreq"),
			DtcsCode:     field(row, "DtcsCode"),
			DtcsPolarity: field(row, "DtcsPolarity"),
			RxDtcsCode:   field(row, "RxDtcsCode"),
			CrossMode:    field(row, "CrossMode"),
			Mode:         field(row, "Mode"),
			TStep:        field(row, "TStep"),
			Skip:         field(row, "Skip"),
			Comment:      field(row, "Comment"),
			URCall:       field(row, "URCALL"),
			RPT1Call:     field(row, "RPT1CALL"),
			RPT2Call:     field(row, "RPT2CALL"),
			DVCode:       field(row, "DVCODE"),
		})
	}
	return records, nil
}
