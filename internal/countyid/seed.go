package countyid

import (
	"sort"
	"strings"

	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/freqscout/freqscout-cli/internal/model"
)

//go:embed statedata.yaml
var stateDataYAML []byte

type seedData struct {
	QueryStateIDs    map[string]string `yaml:"query_state_ids"`
	DropdownStateIDs map[string]string `yaml:"dropdown_state_ids"`
	StateNames       map[string]string `yaml:"state_names"`
	KnownCountyIDs   []struct {
		County string `yaml:"county"`
		State  string `yaml:"state"`
		ID     string `yaml:"id"`
	} `yaml:"known_county_ids"`
	KnownCounties map[string][]string `yaml:"known_counties"`
}

var seed struct {
	queryIDs    map[string]string
	dropdownIDs map[string]string
	// stateNames is ordered longest-first so "WEST VIRGINIA" is found
	// before "VIRGINIA" when scanning page text.
	stateNames []stateName
	knownIDs   map[model.CountyKey]string
	counties   map[string][]string
}

type stateName struct {
	Name string
	Abbr string
}

func init() {
	var data seedData
	if err := yaml.Unmarshal(stateDataYAML, &data); err != nil {
		panic("countyid: embedded state data is invalid: " + err.Error())
	}

	seed.queryIDs = data.QueryStateIDs
	seed.dropdownIDs = data.DropdownStateIDs
	seed.counties = data.KnownCounties

	seed.stateNames = make([]stateName, 0, len(data.StateNames))
	for name, abbr := range data.StateNames {
		seed.stateNames = append(seed.stateNames, stateName{Name: name, Abbr: abbr})
	}
	sort.Slice(seed.stateNames, func(i, j int) bool {
		if len(seed.stateNames[i].Name) != len(seed.stateNames[j].Name) {
			return len(seed.stateNames[i].Name) > len(seed.stateNames[j].Name)
		}
		return seed.stateNames[i].Name < seed.stateNames[j].Name
	})

	seed.knownIDs = make(map[model.CountyKey]string, len(data.KnownCountyIDs))
	for _, e := range data.KnownCountyIDs {
		seed.knownIDs[model.NewCountyKey(e.County, e.State)] = e.ID
	}
}

// QueryStateID returns the numeric state identifier used by query and
// app-style database URLs.
func QueryStateID(state string) (string, bool) {
	id, ok := seed.queryIDs[strings.ToUpper(strings.TrimSpace(state))]
	return id, ok
}

// DropdownStateID returns the numeric state identifier used by browse URLs.
// The browse numbering differs from the query numbering and has gaps.
func DropdownStateID(state string) (string, bool) {
	id, ok := seed.dropdownIDs[strings.ToUpper(strings.TrimSpace(state))]
	return id, ok
}

// AllStates returns every seeded state abbreviation, sorted.
func AllStates() []string {
	states := make([]string, 0, len(seed.queryIDs))
	for abbr := range seed.queryIDs {
		states = append(states, abbr)
	}
	sort.Strings(states)
	return states
}

// KnownID returns a previously verified identifier for a county, if one is
// seeded.
func KnownID(key model.CountyKey) (string, bool) {
	id, ok := seed.knownIDs[key]
	return id, ok
}

// KnownCounties returns the maintained county-name list for a state, or nil
// when no list is seeded.
func KnownCounties(state string) []string {
	return seed.counties[strings.ToUpper(strings.TrimSpace(state))]
}

// StateFullName returns the full name for a state abbreviation, or "" when
// the abbreviation is unknown.
func StateFullName(abbr string) string {
	want := strings.ToUpper(strings.TrimSpace(abbr))
	for _, sn := range seed.stateNames {
		if sn.Abbr == want {
			return sn.Name
		}
	}
	return ""
}

// DetectState scans text for a full state name and returns its abbreviation,
// or "" when no state name occurs. Longer names win over embedded shorter
// ones ("WEST VIRGINIA" over "VIRGINIA").
func DetectState(text string) string {
	upper := strings.ToUpper(text)
	for _, sn := range seed.stateNames {
		if strings.Contains(upper, sn.Name) {
			return sn.Abbr
		}
	}
	return ""
}
