package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/freqscout/freqscout-cli/internal/model"
)

// WriteTXT writes records as a human-readable listing. With appendMode set
// and an existing file present, a separator block introduces the new batch.
func WriteTXT(path string, records []model.FrequencyRecord, appendMode bool) error {
	if len(records) == 0 {
		zap.L().Warn("no frequencies to export", zap.String("path", path))
		return nil
	}

	fileExists := false
	if appendMode {
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			fileExists = true
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendMode {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return eris.Wrap(err, "export: open txt")
	}
	defer func() { _ = f.Close() }()

	var b strings.Builder
	if fileExists {
		b.WriteString("\n" + strings.Repeat("=", 80) + "\n")
		b.WriteString("Additional Frequencies\n")
		b.WriteString(strings.Repeat("=", 80) + "\n\n")
	}

	for i, rec := range records {
		fmt.Fprintf(&b, "Frequency #%d\n", i+1)
		b.WriteString(strings.Repeat("-", 40) + "\n")
		fmt.Fprintf(&b, "Name:        %s\n", rec.Name)
		fmt.Fprintf(&b, "Frequency:   %s MHz\n", rec.Frequency)
		fmt.Fprintf(&b, "Mode:        %s\n", rec.Mode)

		if rec.Duplex != "" {
			fmt.Fprintf(&b, "Duplex:      %s\n", rec.Duplex)
		}
		if rec.Offset != "" {
			fmt.Fprintf(&b, "Offset:      %s MHz\n", rec.Offset)
		}

		if rec.Tone != "" && rec.Tone != model.ToneNone {
			toneValue := rec.RToneFreq
			if toneValue == "" {
				toneValue = rec.CToneFreq
			}
			if toneValue != "" {
				fmt.Fprintf(&b, "Tone:        %s (%s Hz)\n", rec.Tone, toneValue)
			} else {
				fmt.Fprintf(&b, "Tone:        %s\n", rec.Tone)
			}
		} else {
			b.WriteString("Tone:        No Tone\n")
		}

		if rec.Comment != "" {
			fmt.Fprintf(&b, "Description: %s\n", rec.Comment)
		}
		b.WriteString("\n")
	}

	if _, err := f.WriteString(b.String()); err != nil {
		return eris.Wrap(err, "export: write txt")
	}

	zap.L().Info("exported frequencies",
		zap.String("path", path), zap.Int("count", len(records)),
		zap.Bool("appended", fileExists))
	return nil
}
