// Package leaguetest builds deterministic seasons for tests.
//
// In a synthetic season a team's strength comes from its place in the
// topology's division list (index 0 strongest) and then from its
// division's position in the conference. The stronger team wins every
// same-conference game and the AFC wins every inter-conference game.
// That gives each team of a conference a win total of
// base - 3*place - divisionIndex, so seeds are settled by overall record
// and division ties by head-to-head.
package leaguetest

import (
	"sort"
	"strconv"

	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/rotation"
)

// G builds a regular-season game hosted by the winner
func G(week int, winner, loser string, ptsW, ptsL int) league.Game {
	return league.Game{
		Week:   strconv.Itoa(week),
		Winner: winner,
		Loser:  loser,
		PtsW:   ptsW,
		PtsL:   ptsL,
		Home:   winner,
	}
}

// ScheduleOf groups games per participant without any length checks
func ScheduleOf(games ...league.Game) league.Schedule {
	schedule := make(league.Schedule)
	for _, g := range games {
		schedule[g.Winner] = append(schedule[g.Winner], g)
		schedule[g.Loser] = append(schedule[g.Loser], g)
	}
	return schedule
}

// WithAllTeams returns a copy of the schedule in which every team of the
// topology has an entry, empty when it played none of the given games
func WithAllTeams(topology *league.Topology, schedule league.Schedule) league.Schedule {
	out := make(league.Schedule, len(topology.Teams()))
	for _, team := range topology.Teams() {
		out[team] = nil
	}
	for team, games := range schedule {
		out[team] = append([]league.Game(nil), games...)
	}
	return out
}

type slot struct {
	place    int
	divIndex int
	afc      bool
}

func (s slot) strength() int {
	return 4*s.place + s.divIndex
}

// PlaceRankings returns the rankings the synthetic seasons are scheduled
// from: every division in topology order
func PlaceRankings(topology *league.Topology) map[string][]string {
	out := make(map[string][]string)
	for _, div := range topology.Divisions() {
		out[div.Code] = append([]string(nil), div.Teams[:]...)
	}
	return out
}

// SeasonGames generates the regular-season games of a synthetic season
func SeasonGames(topology *league.Topology, year int) []league.Game {
	slots := make(map[string]slot)
	for _, conf := range topology.Conferences() {
		for d, div := range topology.ConferenceDivisions(conf) {
			for p, team := range div.Teams {
				slots[team] = slot{place: p, divIndex: d, afc: conf == league.ConferenceAFC}
			}
		}
	}

	var games []league.Game
	n := 0
	play := func(a, b string) {
		sa, sb := slots[a], slots[b]
		winner, loser := a, b
		switch {
		case sa.afc != sb.afc:
			if !sa.afc {
				winner, loser = b, a
			}
		case sb.strength() < sa.strength():
			winner, loser = b, a
		}
		sw, sl := slots[winner], slots[loser]
		home := a
		if n%2 == 1 {
			home = b
		}
		games = append(games, league.Game{
			Week:   strconv.Itoa(n%league.RegularSeasonWeeks(year) + 1),
			Winner: winner,
			Loser:  loser,
			PtsW:   24 + 3*(3-sw.place) + sw.divIndex,
			PtsL:   10 + (3 - sl.place),
			Home:   home,
		})
		n++
	}

	rankings := PlaceRankings(topology)
	intra, _ := rotation.IntraConferencePairing(topology, year)
	inter, _ := rotation.InterConferencePairing(year)
	ranked, _ := rotation.IntraConferenceRankedOpponents(topology, year, rankings)

	divisions := topology.Divisions()
	for _, div := range divisions {
		// Home and away against each division rival
		for i := 0; i < len(div.Teams); i++ {
			for j := i + 1; j < len(div.Teams); j++ {
				play(div.Teams[i], div.Teams[j])
				play(div.Teams[j], div.Teams[i])
			}
		}
	}

	// Full slates against the paired divisions, once per pair of divisions
	for _, pairing := range []map[string]string{intra, inter} {
		codes := make([]string, 0, len(pairing))
		for code := range pairing {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			other := pairing[code]
			if other < code {
				continue
			}
			a, _ := topology.Division(code)
			b, _ := topology.Division(other)
			for _, ta := range a.Teams {
				for _, tb := range b.Teams {
					play(ta, tb)
				}
			}
		}
	}

	for _, team := range topology.Teams() {
		for _, opp := range ranked[team] {
			if team < opp {
				play(team, opp)
			}
		}
	}

	if year >= league.SeventeenGameSeason {
		extra, _ := rotation.ExtraGameOpponents(topology, year, rankings)
		for _, team := range topology.Teams() {
			if team < extra[team] {
				play(team, extra[team])
			}
		}
	}

	return games
}

// Season builds and validates a synthetic season
func Season(topology *league.Topology, year int) league.Schedule {
	schedule, err := league.BuildSchedule(topology, SeasonGames(topology, year), year)
	if err != nil {
		panic(err)
	}
	return schedule
}

// ExpectedSeeds returns the seeds a synthetic season produces for a
// conference: the division winners in conference order, then the
// runners-up in conference order.
func ExpectedSeeds(topology *league.Topology, conference string, year int) []string {
	divs := topology.ConferenceDivisions(conference)
	var seeds []string
	for _, div := range divs {
		seeds = append(seeds, div.Teams[0])
	}
	for i := 0; i < league.WildCardSlots(year); i++ {
		seeds = append(seeds, divs[i].Teams[1])
	}
	return seeds
}

// FullSeason builds a synthetic season together with both conferences'
// playoffs and a Super Bowl between the top seeds
func FullSeason(topology *league.Topology, year int) *league.Season {
	afc := ExpectedSeeds(topology, league.ConferenceAFC, year)
	nfc := ExpectedSeeds(topology, league.ConferenceNFC, year)

	playoffs := append(Playoffs(afc), Playoffs(nfc)...)
	playoffs = append(playoffs, league.Game{
		Week:   string(league.RoundSuperBowl),
		Winner: afc[0],
		Loser:  nfc[0],
		PtsW:   31,
		PtsL:   24,
		Home:   afc[0],
	})

	season, err := league.NewSeason(topology, year, SeasonGames(topology, year), playoffs)
	if err != nil {
		panic(err)
	}
	return season
}

// Playoffs generates wild card, divisional and conference title games in
// which the better seed hosts and wins
func Playoffs(seeds []string) []league.Game {
	game := func(round league.Round, home, away string) league.Game {
		return league.Game{
			Week:   string(round),
			Winner: home,
			Loser:  away,
			PtsW:   27,
			PtsL:   20,
			Home:   home,
		}
	}

	var games []league.Game
	byes := 2
	pairs := [][2]int{{3, 6}, {4, 5}}
	if len(seeds) == 7 {
		byes = 1
		pairs = append(pairs, [2]int{2, 7})
	}
	advancing := append([]string(nil), seeds[:byes]...)
	for _, p := range pairs {
		games = append(games, game(league.RoundWildCard, seeds[p[0]-1], seeds[p[1]-1]))
		advancing = append(advancing, seeds[p[0]-1])
	}

	seedOf := make(map[string]int)
	for i, t := range seeds {
		seedOf[t] = i
	}
	sort.Slice(advancing, func(i, j int) bool { return seedOf[advancing[i]] < seedOf[advancing[j]] })

	games = append(games,
		game(league.RoundDivision, advancing[0], advancing[3]),
		game(league.RoundDivision, advancing[1], advancing[2]),
		game(league.RoundConfChamp, advancing[0], advancing[1]),
	)
	return games
}
