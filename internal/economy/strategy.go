package economy

import (
	"github.com/noueii/nocs-log-generator/internal/match"
)

// BuyStrategy is the purchasing policy a team commits to for one round.
type BuyStrategy string

const (
	BuyFull    BuyStrategy = "full_buy"
	BuyForce   BuyStrategy = "force_buy"
	BuyAntiEco BuyStrategy = "anti_eco"
	BuySemiEco BuyStrategy = "semi_eco"
	BuyEco     BuyStrategy = "eco"
)

// Strategy selection thresholds, in average dollars per player. Policy
// values; see the package comment.
const (
	fullBuyAvg          = 4000
	importantFullBuyAvg = 2500
	forceBuyAvg         = 2800
	antiEcoOwnAvg       = 2000
	antiEcoOppAvg       = 1500
	semiEcoAvg          = 1800
)

// SelectStrategy picks a buy strategy from a team's average money, the
// opponent's average money, and whether the round is important (first round
// of a half, the two rounds after a half-start, or a potential match
// closeout).
func SelectStrategy(avgMoney, oppAvgMoney int, important bool) BuyStrategy {
	switch {
	case avgMoney >= fullBuyAvg:
		return BuyFull
	case important && avgMoney >= importantFullBuyAvg:
		return BuyFull
	case oppAvgMoney < antiEcoOppAvg && avgMoney >= antiEcoOwnAvg:
		return BuyAntiEco
	case avgMoney >= forceBuyAvg:
		return BuyForce
	case avgMoney >= semiEcoAvg:
		return BuySemiEco
	default:
		return BuyEco
	}
}

// ShoppingList returns the prioritized item names a player should try to
// buy for the strategy: armor first, then a primary weapon matched to side
// and role, then utility, then role gear (a defuse kit on the CT side).
// The buyer walks the list in order and silently skips anything
// unaffordable, so the list may include items the player cannot pay for.
func ShoppingList(side match.Side, role match.Role, strategy BuyStrategy) []string {
	var list []string

	switch strategy {
	case BuyFull:
		list = append(list, ItemKevlarHelm)
		list = append(list, fullPrimary(side, role)...)
		list = append(list, GrenadeSmoke, GrenadeFlash, GrenadeHE)
		if side == match.SideT {
			list = append(list, GrenadeMolotov)
		} else {
			list = append(list, GrenadeIncen)
		}
	case BuyForce:
		list = append(list, ItemKevlar)
		if side == match.SideT {
			list = append(list, "galilar", "mac10")
		} else {
			list = append(list, "famas", "mp9")
		}
		list = append(list, GrenadeFlash, GrenadeSmoke)
	case BuyAntiEco:
		list = append(list, ItemKevlarHelm)
		if side == match.SideT {
			list = append(list, "mac10", "ump45")
		} else {
			list = append(list, "mp9", "ump45")
		}
		list = append(list, GrenadeHE, GrenadeFlash)
	case BuySemiEco:
		list = append(list, ItemKevlar)
		if side == match.SideT {
			list = append(list, "tec9")
		} else {
			list = append(list, "fiveseven")
		}
		list = append(list, GrenadeFlash)
	case BuyEco:
		// Stay on the default sidearm; a lone upgrade at most.
		list = append(list, "p250")
	}

	if side == match.SideCT && strategy != BuyEco {
		list = append(list, ItemDefuseKit)
	}
	return list
}

// fullPrimary orders the primary-weapon candidates for a full buy. The
// first affordable entry wins, so the preferred weapon leads and cheaper
// fallbacks follow.
func fullPrimary(side match.Side, role match.Role) []string {
	if role == match.RoleAWPer {
		if side == match.SideT {
			return []string{"awp", "ak47", "galilar"}
		}
		return []string{"awp", "m4a1", "famas"}
	}
	if side == match.SideT {
		return []string{"ak47", "galilar", "mac10"}
	}
	return []string{"m4a1", "famas", "mp9"}
}

// GrenadeCount returns how many grenades a team should throw in a round at
// the given average-money tier. Scaled, not random: the round machine adds
// the randomness.
func GrenadeCount(avgMoney int) int {
	switch {
	case avgMoney >= fullBuyAvg:
		return 4
	case avgMoney >= forceBuyAvg:
		return 3
	case avgMoney >= semiEcoAvg:
		return 2
	case avgMoney >= 1000:
		return 1
	default:
		return 0
	}
}
