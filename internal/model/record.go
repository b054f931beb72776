package model

import "strconv"

// Tone field values understood by the programming-tool import format.
const (
	ToneNone  = "No Tone"
	ToneCTCSS = "Tone"
	ToneDTCS  = "DTCS"
)

// Canonical mode labels produced by extraction.
const (
	ModeFM      = "FM"
	ModeDigital = "Digital"
	ModeDMR     = "DMR"
	ModeNXDN    = "NXDN"
)

// Duplex field values.
const (
	DuplexNone  = ""
	DuplexPlus  = "+"
	DuplexMinus = "-"
	DuplexSplit = "split"
)

// Channel steps, in kHz, for scraped vs. generated records.
const (
	TStepScraped   = "25.0"
	TStepReference = "5.00"
)

// FrequencyRecord is the canonical channel record every extraction path
// converges to. Field names and column order are a compatibility contract
// with downstream device-programming tooling; do not reorder or rename.
type FrequencyRecord struct {
	Location     int
	Name         string
	Frequency    string
	Duplex       string
	Offset       string
	Tone         string
	RToneFreq    string
	CToneFreq    string
	DtcsCode     string
	DtcsPolarity string
	RxDtcsCode   string
	CrossMode    string
	Mode         string
	TStep        string
	Skip         string
	Comment      string
	URCall       string
	RPT1Call     string
	RPT2Call     string
	DVCode       string
}

// recordColumns is the exact export header. The last four columns are unused
// amateur-digital-voice fields kept for schema compatibility.
var recordColumns = []string{
	"Location", "Name", "Frequency", "Duplex", "Offset", "Tone",
	"rToneFreq", "cToneFreq", "DtcsCode", "DtcsPolarity", "RxDtcsCode",
	"CrossMode", "Mode", "TStep", "Skip", "Comment", "URCALL",
	"RPT1CALL", "RPT2CALL", "DVCODE",
}

// Columns returns the export column names in contract order.
func Columns() []string {
	out := make([]string, len(recordColumns))
	copy(out, recordColumns)
	return out
}

// CSVRow renders the record as a row matching Columns order. Empty optional
// fields serialize as empty strings per the export contract.
func (r FrequencyRecord) CSVRow() []string {
	return []string{
		strconv.Itoa(r.Location),
		r.Name,
		r.Frequency,
		r.Duplex,
		r.Offset,
		r.Tone,
		r.RToneFreq,
		r.CToneFreq,
		r.DtcsCode,
		r.DtcsPolarity,
		r.RxDtcsCode,
		r.CrossMode,
		r.Mode,
		r.TStep,
		r.Skip,
		r.Comment,
		r.URCall,
		r.RPT1Call,
		r.RPT2Call,
		r.DVCode,
	}
}

// FrequencyMHz parses the Frequency field. Records produced by the extractor
// always carry a parseable positive decimal.
func (r FrequencyRecord) FrequencyMHz() (float64, bool) {
	f, err := strconv.ParseFloat(r.Frequency, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}
