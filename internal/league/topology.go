package league

import (
	"fmt"
	"sort"
	"strings"
)

const (
	ConferenceAFC = "AFC"
	ConferenceNFC = "NFC"

	// TeamsPerDivision is fixed by the league format
	TeamsPerDivision = 4
	// DivisionsPerConference is fixed by the league format
	DivisionsPerConference = 4
)

// Division is a named group of four teams. The first three characters of
// the code name the conference ("AFCE" belongs to the AFC).
type Division struct {
	Code  string                   `json:"code"`
	Teams [TeamsPerDivision]string `json:"teams"`
}

// Conference returns the conference code of the division
func (d Division) Conference() string {
	return ConferenceOf(d.Code)
}

// Contains reports whether team plays in the division
func (d Division) Contains(team string) bool {
	for _, t := range d.Teams {
		if t == team {
			return true
		}
	}
	return false
}

// ConferenceOf returns the conference prefix of a division code
func ConferenceOf(divisionCode string) string {
	if len(divisionCode) < 3 {
		return divisionCode
	}
	return divisionCode[:3]
}

// Topology is the static division and conference layout of the league.
// It is built once and only read afterwards; every accessor hands out
// copies so callers cannot change it.
type Topology struct {
	divisions    []Division
	teamDivision map[string]string
}

// NewTopology validates a division layout: two conferences of four
// divisions of four distinct teams each.
func NewTopology(divisions []Division) (*Topology, error) {
	if len(divisions) != 2*DivisionsPerConference {
		return nil, fmt.Errorf("expected %d divisions, got %d", 2*DivisionsPerConference, len(divisions))
	}

	t := &Topology{
		divisions:    make([]Division, len(divisions)),
		teamDivision: make(map[string]string, len(divisions)*TeamsPerDivision),
	}
	copy(t.divisions, divisions)

	perConference := make(map[string]int)
	seenDivisions := make(map[string]bool)
	for _, div := range divisions {
		if seenDivisions[div.Code] {
			return nil, fmt.Errorf("duplicate division %s", div.Code)
		}
		seenDivisions[div.Code] = true
		perConference[div.Conference()]++

		for _, team := range div.Teams {
			if team == "" {
				return nil, fmt.Errorf("division %s has an empty team slot", div.Code)
			}
			if other, exists := t.teamDivision[team]; exists {
				return nil, fmt.Errorf("team %s listed in both %s and %s", team, other, div.Code)
			}
			t.teamDivision[team] = div.Code
		}
	}

	if len(perConference) != 2 {
		return nil, fmt.Errorf("expected 2 conferences, got %d", len(perConference))
	}
	for conf, count := range perConference {
		if count != DivisionsPerConference {
			return nil, fmt.Errorf("conference %s has %d divisions, want %d", conf, count, DivisionsPerConference)
		}
	}

	return t, nil
}

// NFL returns the current 32-team NFL layout. Relocated franchises use
// their current codes.
func NFL() *Topology {
	t, err := NewTopology([]Division{
		{Code: "NFCN", Teams: [4]string{"CHI", "MIN", "GB", "DET"}},
		{Code: "NFCE", Teams: [4]string{"NYG", "DAL", "WAS", "PHI"}},
		{Code: "NFCS", Teams: [4]string{"TB", "ATL", "NO", "CAR"}},
		{Code: "NFCW", Teams: [4]string{"LAR", "SF", "SEA", "AZ"}},
		{Code: "AFCN", Teams: [4]string{"BAL", "CLE", "PIT", "CIN"}},
		{Code: "AFCE", Teams: [4]string{"NE", "BUF", "MIA", "NYJ"}},
		{Code: "AFCS", Teams: [4]string{"IND", "JAC", "HOU", "TEN"}},
		{Code: "AFCW", Teams: [4]string{"KC", "DEN", "LV", "LAC"}},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// Divisions returns every division in layout order
func (t *Topology) Divisions() []Division {
	out := make([]Division, len(t.divisions))
	copy(out, t.divisions)
	return out
}

// Division looks up a division by code
func (t *Topology) Division(code string) (Division, bool) {
	for _, div := range t.divisions {
		if div.Code == code {
			return div, true
		}
	}
	return Division{}, false
}

// ConferenceDivisions returns the divisions of one conference in layout order
func (t *Topology) ConferenceDivisions(conference string) []Division {
	var out []Division
	for _, div := range t.divisions {
		if div.Conference() == conference {
			out = append(out, div)
		}
	}
	return out
}

// Conferences returns the conference codes in sorted order
func (t *Topology) Conferences() []string {
	seen := make(map[string]bool)
	var out []string
	for _, div := range t.divisions {
		if !seen[div.Conference()] {
			seen[div.Conference()] = true
			out = append(out, div.Conference())
		}
	}
	sort.Strings(out)
	return out
}

// HasConference reports whether the conference code exists
func (t *Topology) HasConference(conference string) bool {
	return len(t.ConferenceDivisions(conference)) > 0
}

// DivisionOf returns the division code of a team
func (t *Topology) DivisionOf(team string) (string, error) {
	code, ok := t.teamDivision[team]
	if !ok {
		return "", integrityErrorf("unknown_team", team, "team is not part of the league")
	}
	return code, nil
}

// DivisionTeams returns the full division of the given team
func (t *Topology) DivisionTeams(team string) ([]string, error) {
	code, err := t.DivisionOf(team)
	if err != nil {
		return nil, err
	}
	div, _ := t.Division(code)
	return div.Teams[:], nil
}

// Teams returns all teams in layout order
func (t *Topology) Teams() []string {
	out := make([]string, 0, len(t.teamDivision))
	for _, div := range t.divisions {
		out = append(out, div.Teams[:]...)
	}
	return out
}

// ConferenceTeams returns all teams of a conference in layout order
func (t *Topology) ConferenceTeams(conference string) []string {
	var out []string
	for _, div := range t.ConferenceDivisions(conference) {
		out = append(out, div.Teams[:]...)
	}
	return out
}

// SharedConference returns the conference every one of the given teams
// belongs to. Teams spanning both conferences are an integrity error.
func (t *Topology) SharedConference(teams []string) (string, error) {
	conference := ""
	for _, team := range teams {
		code, err := t.DivisionOf(team)
		if err != nil {
			return "", err
		}
		conf := ConferenceOf(code)
		if conference == "" {
			conference = conf
			continue
		}
		if conf != conference {
			return "", integrityErrorf("mixed_conferences", team,
				"teams %s are not all in the %s", strings.Join(teams, ","), conference)
		}
	}
	if conference == "" {
		return "", integrityErrorf("empty_team_set", "", "no teams given")
	}
	return conference, nil
}
