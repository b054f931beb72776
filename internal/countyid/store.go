package countyid

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/freqscout/freqscout-cli/internal/model"
)

// Store is the durable (county, state) -> identifier cache. On disk it is a
// JSON document keyed by uppercase state code, each value an object mapping
// lowercase county name to identifier. The file layout is a compatibility
// contract: a legacy flat layout (keys joined by "|") is tolerated on read,
// but writes always produce the state-sectioned form, sorted by state then
// county.
type Store struct {
	path    string
	entries map[model.CountyKey]string
}

// Open loads the cache at path. A missing or unreadable file yields an
// empty cache; corruption is logged and treated as empty so discovery can
// rebuild it.
func Open(path string) *Store {
	s := &Store{path: path, entries: make(map[model.CountyKey]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("county cache unreadable, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return s
	}

	if err := s.decode(data); err != nil {
		zap.L().Warn("county cache corrupt, starting empty",
			zap.String("path", path), zap.Error(err))
		s.entries = make(map[model.CountyKey]string)
	}
	return s
}

func (s *Store) decode(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return eris.Wrap(err, "countyid: parse cache document")
	}

	// State-sectioned form: at least one value is an object. Identifier
	// values are stringified, older documents stored them as numbers.
	sectioned := false
	for state, val := range raw {
		var counties map[string]json.RawMessage
		if err := json.Unmarshal(val, &counties); err != nil {
			continue
		}
		sectioned = true
		for county, idRaw := range counties {
			if id := identifierString(idRaw); id != "" {
				s.entries[model.NewCountyKey(county, state)] = id
			}
		}
	}
	if sectioned {
		return nil
	}

	// Legacy flat form: "county|state" string keys.
	for key, val := range raw {
		var id string
		if err := json.Unmarshal(val, &id); err != nil {
			continue
		}
		parts := strings.SplitN(key, "|", 2)
		if len(parts) != 2 {
			continue
		}
		s.entries[model.NewCountyKey(parts[0], parts[1])] = id
	}
	return nil
}

// identifierString coerces an identifier value to its string form.
func identifierString(raw json.RawMessage) string {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// Get returns the cached identifier for a key.
func (s *Store) Get(key model.CountyKey) (string, bool) {
	id, ok := s.entries[key]
	return id, ok
}

// Put records an identifier. Returns true if the entry was new or changed;
// re-merging an existing pair is a no-op.
func (s *Store) Put(key model.CountyKey, id string) bool {
	if existing, ok := s.entries[key]; ok && existing == id {
		return false
	}
	s.entries[key] = id
	return true
}

// Merge adds a discovered batch and reports how many entries were new or
// changed. Existing pairs are left untouched.
func (s *Store) Merge(batch map[model.CountyKey]string) int {
	added := 0
	for key, id := range batch {
		if _, ok := s.entries[key]; ok {
			continue
		}
		s.entries[key] = id
		added++
	}
	return added
}

// Len returns the total number of cached entries.
func (s *Store) Len() int { return len(s.entries) }

// CountForState returns how many counties are cached for a state.
func (s *Store) CountForState(state string) int {
	state = strings.ToLower(state)
	n := 0
	for key := range s.entries {
		if key.State == state {
			n++
		}
	}
	return n
}

// StateCounts returns cached-county counts per uppercase state code.
func (s *Store) StateCounts() map[string]int {
	counts := make(map[string]int)
	for key := range s.entries {
		counts[key.StateUpper()]++
	}
	return counts
}

// Save persists the whole document, replacing the file. Writes are
// state-sectioned and sorted (encoding/json emits map keys in sorted order).
func (s *Store) Save() error {
	doc := make(map[string]map[string]string)
	for key, id := range s.entries {
		state := key.StateUpper()
		if doc[state] == nil {
			doc[state] = make(map[string]string)
		}
		doc[state][key.County] = id
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "countyid: marshal cache document")
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return eris.Wrap(err, "countyid: write cache file")
	}
	return nil
}
