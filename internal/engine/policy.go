package engine

// Simulation policy constants. These are tuned values, not derived
// quantities; changing any of them changes the statistical shape of the
// generated logs, so they are kept here in one place.

// Round timing, in simulated seconds.
const (
	freezeSeconds = 15
	roundSeconds  = 115
	fuseSeconds   = 40
	// Defenders get their one defuse attempt this many seconds before the
	// fuse elapses.
	defuseLeadSeconds = 10

	defuseSecondsNoKit   = 10
	defuseSecondsWithKit = 5
)

// Objective probabilities.
const (
	plantChance  = 0.70
	defuseChance = 0.40
)

// RoundScenario is the high-level shape chosen for a round.
type RoundScenario int

const (
	ScenarioBomb RoundScenario = iota
	ScenarioElimination
	ScenarioTimeout
)

// Scenario weights; the bomb weight rises and elimination falls in the
// second half.
var (
	scenarioWeightsFirstHalf  = []float64{0.4, 0.5, 0.1}
	scenarioWeightsSecondHalf = []float64{0.5, 0.4, 0.1}
)

// Intensity: 0.5 base plus up to 0.5 scaled by the absolute average-money
// disparity between the sides.
const (
	intensityBase         = 0.5
	intensityMax          = 1.0
	intensityDisparityRef = 4000.0
)

// Engagement shape.
const (
	minEngagementGap = 8.0
	maxEngagementGap = 25.0
	maxEngagementLen = 6.0
	// Per-side participants per engagement; intensity pushes toward the max.
	minParticipants = 1
	maxParticipants = 4
)

// Hit-location roll. Headshot probability spans [headshotMin, headshotMax]
// by attacker skill; the remaining mass splits chest/stomach/arms/legs.
const (
	headshotMin   = 0.08
	headshotMax   = 0.25
	chestChance   = 0.35
	stomachChance = 0.15
	armsChance    = 0.15
)

// Armor absorbs this fraction of incoming damage, capped by remaining
// armor value.
const armorAbsorb = 0.5

// Utility policy.
const (
	maxFlashVictims = 3
	flashMinSeconds = 1.0
	flashMaxSeconds = 4.0
)

// Verbose-mode cosmetic weapon-fire events per round.
const (
	verboseFireMin = 20
	verboseFireMax = 60
)

// Chip damage: independent non-lethal pokes with a 1 HP floor.
const (
	chipChance    = 0.35
	chipMinDamage = 5
	chipMaxDamage = 24
)

// Post-round all-chat probability.
const chatterChance = 0.25

var chatterLines = []string{"gg", "nt", "ns", "wp", "gh", "lucky"}
