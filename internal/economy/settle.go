package economy

import (
	"github.com/noueii/nocs-log-generator/internal/match"
)

// Round-end settlement constants. Policy values.
const (
	winBonus     = 3250
	winBonusBomb = 3500

	plantBonus  = 300
	defuseBonus = 300
)

// lossBonusSchedule is the 5-step ascending loss bonus; the tier index is
// min(consecutive losses - 1, 4).
var lossBonusSchedule = [5]int{1400, 1900, 2400, 2900, 3400}

// killRewards maps weapon class to the per-kill payout.
var killRewards = map[Class]int{
	ClassPistol:  300,
	ClassSMG:     600,
	ClassRifle:   300,
	ClassSniper:  100,
	ClassShotgun: 900,
	ClassHeavy:   300,
	ClassGrenade: 300,
}

// WinBonus returns the per-player payout for the winning side.
func WinBonus(reason match.WinReason) int {
	if reason == match.ReasonBombExploded {
		return winBonusBomb
	}
	return winBonus
}

// LossBonus returns the per-player payout for a team at the given
// consecutive-loss count. A streak of zero pays nothing.
func LossBonus(streak int) int {
	if streak <= 0 {
		return 0
	}
	tier := streak - 1
	if tier >= len(lossBonusSchedule) {
		tier = len(lossBonusSchedule) - 1
	}
	return lossBonusSchedule[tier]
}

// KillReward returns the payout for a kill with the named weapon. Unknown
// weapons pay the rifle rate rather than failing; the engine validates
// weapons before they reach settlement.
func KillReward(weapon string) int {
	it, ok := catalog[weapon]
	if !ok {
		return killRewards[ClassRifle]
	}
	if r, ok := killRewards[it.Class]; ok {
		return r
	}
	return 0
}

// PlantReward is the flat payout to the planter.
func PlantReward() int { return plantBonus }

// DefuseReward is the flat payout to the defuser.
func DefuseReward() int { return defuseBonus }

// Clamp bounds money to [0, cap].
func Clamp(money, cap int) int {
	if money > cap {
		return cap
	}
	if money < 0 {
		return 0
	}
	return money
}

// Snapshot recomputes a team economy from per-player money and equipment
// values. AverageMoney is always total money over roster size.
func Snapshot(moneys, equipment []int, lossStreak int) match.Economy {
	total, equip := 0, 0
	for _, m := range moneys {
		total += m
	}
	for _, e := range equipment {
		equip += e
	}
	avg := 0
	if len(moneys) > 0 {
		avg = total / len(moneys)
	}
	return match.Economy{
		Money:          total,
		AverageMoney:   avg,
		EquipmentValue: equip,
		LossStreak:     lossStreak,
		LossBonus:      LossBonus(lossStreak),
	}
}
