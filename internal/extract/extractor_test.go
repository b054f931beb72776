package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freqscout/freqscout-cli/internal/model"
)

const countyPage = `<html><body>
<table>
<tr><th>Frequency</th><th>Alpha Tag</th><th>Description</th><th>Tone</th><th>Mode</th><th>Type</th></tr>
<tr><td>146.940000</td><td>W7ABC</td><td>Club repeater</td><td>100.0 PL</td><td>FM</td><td>RM</td></tr>
<tr><td>443.000000</td><td></td><td>UHF machine</td><td>DCS 023</td><td>FMN</td><td>Repeater</td></tr>
<tr><td>155.475000</td><td>LawDisp</td><td></td><td></td><td>P25/DMR</td><td>BM</td></tr>
<tr><td>Channel A</td><td>NoFreq</td><td>not a frequency</td><td></td><td></td><td></td></tr>
<tr><td>162.550000</td></tr>
</table>
<table>
<tr><th>Name</th><th>Notes</th></tr>
<tr><td>No frequency column</td><td>skipped entirely</td></tr>
</table>
</body></html>`

func TestRecords(t *testing.T) {
	records, err := Records(countyPage, "Sanders")
	require.NoError(t, err)
	require.Len(t, records, 3)

	vhf := records[0]
	assert.Equal(t, 0, vhf.Location)
	assert.Equal(t, "W7ABC", vhf.Name)
	assert.Equal(t, "146.940000", vhf.Frequency)
	assert.Equal(t, model.DuplexPlus, vhf.Duplex)
	assert.Equal(t, "0.6", vhf.Offset)
	assert.Equal(t, model.ToneCTCSS, vhf.Tone)
	assert.Equal(t, "100.0", vhf.RToneFreq)
	assert.Equal(t, "100.0", vhf.CToneFreq)
	assert.Equal(t, model.ModeFM, vhf.Mode)
	assert.Equal(t, "25.0", vhf.TStep)
	assert.Equal(t, "NN", vhf.DtcsPolarity)
	assert.Equal(t, "Club repeater", vhf.Comment)

	uhf := records[1]
	assert.Equal(t, "UHF machine", uhf.Name)
	assert.Equal(t, model.DuplexPlus, uhf.Duplex)
	assert.Equal(t, "5.0", uhf.Offset)
	assert.Equal(t, model.ToneDTCS, uhf.Tone)
	assert.Equal(t, "023", uhf.RToneFreq)

	disp := records[2]
	assert.Equal(t, "LawDisp", disp.Name)
	// P25 outranks DMR when a cell names both.
	assert.Equal(t, model.ModeDigital, disp.Mode)
	assert.Equal(t, model.DuplexNone, disp.Duplex)
	assert.Equal(t, "", disp.Offset)
	assert.Equal(t, model.ToneNone, disp.Tone)
	// No description: the comment is synthesized from the locality.
	assert.Equal(t, "Sanders - LawDisp", disp.Comment)
}

func TestRecords_NamelessRow(t *testing.T) {
	page := `<table>
		<tr><th>Freq MHz</th><th>Tone</th></tr>
		<tr><td>162.400000</td><td></td></tr>
	</table>`

	records, err := Records(page, "Lewis and Clark")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Frequency 162.400000", records[0].Name)
	assert.Equal(t, "", records[0].Comment)
}

func TestRecords_FrequencyFallsBackToFirstCell(t *testing.T) {
	// No header says "freq", but one says "mhz", and the mapped column is
	// absent, so the first cell is scanned for the value.
	page := `<table>
		<tr><th>Output (MHz)</th><th>Use</th></tr>
		<tr><td>453.212500</td><td>County Roads</td></tr>
	</table>`

	records, err := Records(page, "King")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "453.2125", records[0].Frequency)
}

func TestRecords_NoTables(t *testing.T) {
	records, err := Records("<html><body><p>Nothing here.</p></body></html>", "King")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseTone(t *testing.T) {
	tests := []struct {
		in        string
		toneType  string
		toneValue string
	}{
		{"", model.ToneNone, ""},
		{"100.0 PL", model.ToneCTCSS, "100.0"},
		{"127.3", model.ToneCTCSS, "127.3"},
		{"DCS 023", model.ToneDTCS, "023"},
		{"DTCS 754", model.ToneDTCS, "754"},
		{"CSQ", model.ToneNone, ""},
	}
	for _, tt := range tests {
		toneType, rTone, cTone := parseTone(tt.in)
		assert.Equal(t, tt.toneType, toneType, "tone %q", tt.in)
		assert.Equal(t, tt.toneValue, rTone, "rtone %q", tt.in)
		assert.Equal(t, tt.toneValue, cTone, "ctone %q", tt.in)
	}
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, model.ModeDigital, parseMode("P25"))
	assert.Equal(t, model.ModeDigital, parseMode("P25/DMR"))
	assert.Equal(t, model.ModeDMR, parseMode("DMR"))
	assert.Equal(t, model.ModeNXDN, parseMode("NXDN48"))
	assert.Equal(t, model.ModeFM, parseMode("FMN"))
	assert.Equal(t, model.ModeFM, parseMode(""))
	assert.Equal(t, model.ModeFM, parseMode("AM"))
}

func TestInferDuplex(t *testing.T) {
	d, o := inferDuplex("RM", 146.94)
	assert.Equal(t, model.DuplexPlus, d)
	assert.Equal(t, "0.6", o)

	d, o = inferDuplex("Repeater", 443.0)
	assert.Equal(t, model.DuplexPlus, d)
	assert.Equal(t, "5.0", o)

	d, o = inferDuplex("RM", 155.475)
	assert.Equal(t, model.DuplexPlus, d)
	assert.Equal(t, "0.0", o)

	// VHF-low repeaters get no conventional offset.
	d, o = inferDuplex("RM", 33.42)
	assert.Equal(t, "", d)
	assert.Equal(t, "", o)

	d, o = inferDuplex("BM", 146.94)
	assert.Equal(t, "", d)
	assert.Equal(t, "", o)
}
