package match

import (
	"fmt"
	"time"
)

// Format selects the round-count regime.
type Format string

const (
	// FormatMR12 is first-to-13 with a side switch after round 12.
	FormatMR12 Format = "mr12"
	// FormatMR15 is first-to-16 with a side switch after round 15.
	FormatMR15 Format = "mr15"
)

// RoundsPerHalf returns the regulation half length for the format.
func (f Format) RoundsPerHalf() int {
	if f == FormatMR15 {
		return 15
	}
	return 12
}

// WinThreshold returns the regulation score needed to win the match.
func (f Format) WinThreshold() int {
	return f.RoundsPerHalf() + 1
}

// MapPool lists the maps the generator accepts. Unknown maps are a config
// validation error, not a simulation error.
var MapPool = []string{
	"de_dust2", "de_mirage", "de_inferno", "de_nuke", "de_overpass",
	"de_ancient", "de_anubis", "de_vertigo", "de_train",
}

// Defaults applied by ApplyDefaults when the options bag leaves a field zero.
const (
	DefaultTickRate   = 64
	DefaultStartMoney = 800
	DefaultMaxMoney   = 16000
	DefaultRoundCap   = 60
	// OvertimeStartMoney is the fixed money level at every overtime half start.
	OvertimeStartMoney = 10000
	RosterSize         = 5
)

// DefaultStartTime anchors wall-clock timestamps when the config does not
// set one. A fixed anchor keeps two runs of the same (config, seed) pair
// byte-identical.
var DefaultStartTime = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// Config is the full engine input contract: two rosters, a map, a format,
// and the options bag. The zero value is not usable; call ApplyDefaults and
// Validate before handing it to the engine.
type Config struct {
	TeamA *Team `yaml:"team_a"`
	TeamB *Team `yaml:"team_b"`

	Map    string `yaml:"map"`
	Format Format `yaml:"format"`

	Seed       int64     `yaml:"seed"`
	TickRate   int       `yaml:"tick_rate"`
	StartMoney int       `yaml:"start_money"`
	MaxMoney   int       `yaml:"max_money"`
	RoundCap   int       `yaml:"round_cap"`
	Overtime   bool      `yaml:"overtime"`
	Verbose    bool      `yaml:"verbose"`
	StartTime  time.Time `yaml:"start_time"`
}

// ApplyDefaults fills unset optional fields with the documented defaults
// and normalizes player skill parameters into (0, 1].
func (c *Config) ApplyDefaults() {
	if c.Format == "" {
		c.Format = FormatMR12
	}
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	if c.StartMoney <= 0 {
		c.StartMoney = DefaultStartMoney
	}
	if c.MaxMoney <= 0 {
		c.MaxMoney = DefaultMaxMoney
	}
	if c.RoundCap <= 0 {
		c.RoundCap = DefaultRoundCap
	}
	if c.StartTime.IsZero() {
		c.StartTime = DefaultStartTime
	}
	for _, t := range []*Team{c.TeamA, c.TeamB} {
		if t == nil {
			continue
		}
		for i, p := range t.Players {
			if p == nil {
				continue
			}
			if p.Skill.Aim <= 0 || p.Skill.Aim > 1 {
				p.Skill.Aim = 0.5
			}
			if p.Skill.HeadshotBias <= 0 || p.Skill.HeadshotBias > 1 {
				p.Skill.HeadshotBias = 0.5
			}
			if p.UserID == 0 {
				// Stable per-slot fallback so player refs stay well formed.
				base := 2
				if t == c.TeamB {
					base = 2 + RosterSize
				}
				p.UserID = base + i
			}
			if p.SteamID == "" {
				p.SteamID = fmt.Sprintf("STEAM_1:%d:%d", i%2, 10000+p.UserID)
			}
			if p.Role == "" {
				p.Role = RoleSupport
			}
		}
	}
}

// Validate rejects configs the engine cannot simulate. It reports the first
// problem found; callers surface the message verbatim.
func (c *Config) Validate() error {
	if c.TeamA == nil || c.TeamB == nil {
		return &ValidationError{Code: ErrCodeMissingTeam, Message: "both team_a and team_b are required"}
	}
	for _, t := range []*Team{c.TeamA, c.TeamB} {
		if t.Name == "" {
			return &ValidationError{Code: ErrCodeBadRoster, Message: "team name is required"}
		}
		if len(t.Players) != RosterSize {
			return &ValidationError{
				Code:    ErrCodeBadRoster,
				Message: fmt.Sprintf("team %q has %d players, want %d", t.Name, len(t.Players), RosterSize),
			}
		}
		for _, p := range t.Players {
			if p == nil || p.Name == "" {
				return &ValidationError{
					Code:    ErrCodeBadRoster,
					Message: fmt.Sprintf("team %q has a player without a name", t.Name),
				}
			}
		}
	}
	if c.TeamA.Name == c.TeamB.Name {
		return &ValidationError{Code: ErrCodeBadRoster, Message: "teams must have distinct names"}
	}
	if !knownMap(c.Map) {
		return &ValidationError{Code: ErrCodeUnknownMap, Message: fmt.Sprintf("unknown map %q", c.Map)}
	}
	if c.Format != FormatMR12 && c.Format != FormatMR15 {
		return &ValidationError{Code: ErrCodeUnknownFormat, Message: fmt.Sprintf("unknown format %q", c.Format)}
	}
	return nil
}

func knownMap(name string) bool {
	for _, m := range MapPool {
		if m == name {
			return true
		}
	}
	return false
}

// ValidationError is a pre-simulation rejection of the input contract.
// It is fully recoverable: nothing has been simulated when it is returned.
type ValidationError struct {
	Code    string
	Message string
}

const (
	ErrCodeMissingTeam   = "MISSING_TEAM"
	ErrCodeBadRoster     = "BAD_ROSTER"
	ErrCodeUnknownMap    = "UNKNOWN_MAP"
	ErrCodeUnknownFormat = "UNKNOWN_FORMAT"
)

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
