package integrity

// Table names the validator expects in the persisted store.
const (
	TableGames              = "games"
	TableGoals              = "goals"
	TablePenalties          = "penalties"
	TableGameRosters        = "game_rosters"
	TableTeams              = "teams"
	TableDivisions          = "divisions"
	TableTeamStats          = "team_stats"
	TablePlayerStats        = "player_stats"
	TableStrengthOfSchedule = "strength_of_schedule"
	TableHeadToHead         = "head_to_head"
	TablePlayerGameLog      = "player_game_log"
	TableDataQualityIssues  = "data_quality_issues"
)

// ExpectedTables is the fixed table set, in report order.
var ExpectedTables = []string{
	TableGames,
	TableGoals,
	TablePenalties,
	TableGameRosters,
	TableTeams,
	TableDivisions,
	TableTeamStats,
	TablePlayerStats,
	TableStrengthOfSchedule,
	TableHeadToHead,
	TablePlayerGameLog,
	TableDataQualityIssues,
}

// MandatoryTables must hold at least one row for the dataset to be usable.
var MandatoryTables = []string{TableDivisions, TableTeams, TableGames}

func IsExpectedTable(name string) bool {
	for _, table := range ExpectedTables {
		if table == name {
			return true
		}
	}
	return false
}

func IsMandatoryTable(name string) bool {
	for _, table := range MandatoryTables {
		if table == name {
			return true
		}
	}
	return false
}

type TeamRanking struct {
	TeamID      int64   `json:"team_id"`
	Name        string  `json:"name"`
	GamesPlayed int64   `json:"games_played"`
	Points      int64   `json:"points"`
	PointsPct   float64 `json:"points_pct"`
}

// Report is the validator verdict. Errors fail the run, warnings do not.
type Report struct {
	Success  bool             `json:"success"`
	Errors   []string         `json:"errors"`
	Warnings []string         `json:"warnings"`
	Stats    map[string]int64 `json:"stats"`
	TopTeams []TeamRanking    `json:"top_teams"`
}

func NewReport() *Report {
	return &Report{
		Errors:   []string{},
		Warnings: []string{},
		Stats:    make(map[string]int64, len(ExpectedTables)),
		TopTeams: []TeamRanking{},
	}
}

func (r *Report) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

func (r *Report) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Finalize sets Success from the collected errors.
func (r *Report) Finalize() *Report {
	r.Success = len(r.Errors) == 0
	return r
}
