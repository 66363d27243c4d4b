package engine

import (
	"math"
	"time"

	"github.com/noueii/nocs-log-generator/internal/economy"
	"github.com/noueii/nocs-log-generator/internal/event"
	"github.com/noueii/nocs-log-generator/internal/match"
)

// roundPhase is the per-round lifecycle. Resolved is terminal: once a
// result exists, nothing mutates round state again.
type roundPhase int

const (
	phaseBuy roundPhase = iota
	phaseLive
	phasePostPlant
	phaseResolved
)

// roundMachine drives one round through buy phase, live play, the optional
// post-plant window, and resolution. It collects the round's events locally
// and hands them back stable-sorted by tick.
type roundMachine struct {
	cfg   *match.Config
	rng   *Rand
	clock *Clock
	st    *matchState
	gen   *generator

	phase      roundPhase
	secondHalf bool
	events     []event.Event
}

func newRoundMachine(cfg *match.Config, rng *Rand, clock *Clock, st *matchState, secondHalf bool) *roundMachine {
	rm := &roundMachine{
		cfg:        cfg,
		rng:        rng,
		clock:      clock,
		st:         st,
		secondHalf: secondHalf,
	}
	rm.gen = newGenerator(cfg, rng, clock, st, rm.emit)
	return rm
}

func (rm *roundMachine) emit(e event.Event) {
	rm.events = append(rm.events, e)
}

// run simulates one round to resolution. The returned events are sorted
// ascending by tick with generation order preserved on ties.
func (rm *roundMachine) run(important bool) (*match.RoundResult, []event.Event, error) {
	rm.clock.BeginRound()
	rm.phase = phaseBuy

	ctTeam, err := rm.st.teamBySide(match.SideCT)
	if err != nil {
		return nil, rm.events, err
	}
	tTeam, err := rm.st.teamBySide(match.SideT)
	if err != nil {
		return nil, rm.events, err
	}

	rm.emit(event.RoundStart{
		Base:      rm.gen.base(),
		CTScore:   ctTeam.Score,
		TScore:    tTeam.Score,
		CTPlayers: len(ctTeam.Players),
		TPlayers:  len(tTeam.Players),
	})

	if err := rm.buyPhase(important); err != nil {
		return nil, rm.events, err
	}

	// Freeze time ends; everything after this advances the live clock.
	rm.clock.Advance(freezeSeconds)
	rm.phase = phaseLive
	liveStart := rm.clock.Tick()

	winner, reason, err := rm.live()
	if err != nil {
		return nil, rm.events, err
	}

	rm.gen.weaponFire(liveStart)
	rm.phase = phaseResolved

	winTeam, err := rm.st.teamBySide(winner)
	if err != nil {
		return nil, rm.events, err
	}
	winTeam.Score++

	mvp := rm.pickMVP(winTeam, winner, reason)
	result := &match.RoundResult{
		Round:    rm.st.round,
		Winner:   winner,
		Reason:   reason,
		Duration: time.Duration((rm.clock.Seconds() - freezeSeconds) * float64(time.Second)),
	}
	var mvpRef *event.PlayerRef
	if mvp != nil {
		mvp.Player.Stats.MVPs++
		result.MVP = mvp.Player
		result.MVPName = mvp.Player.Name
		r := mvp.ref()
		mvpRef = &r
	}

	rm.emit(event.RoundEnd{
		Base:    rm.gen.base(),
		Winner:  winner,
		Reason:  reason,
		CTScore: ctTeam.Score,
		TScore:  tTeam.Score,
		MVP:     mvpRef,
	})

	event.SortStable(rm.events)
	return result, rm.events, nil
}

// buyPhase resets round-local player state, commits each team to a buy
// strategy, and runs every player's prioritized shopping list. Purchases
// land at random ticks inside freeze time; unaffordable items are skipped
// silently.
func (rm *roundMachine) buyPhase(important bool) error {
	for _, ps := range rm.st.order {
		ps.resetForRound()
	}
	rm.st.refreshEconomy(rm.st.teamA)
	rm.st.refreshEconomy(rm.st.teamB)

	for _, pair := range [][2]*match.Team{{rm.st.teamA, rm.st.teamB}, {rm.st.teamB, rm.st.teamA}} {
		team, opp := pair[0], pair[1]
		strategy := economy.SelectStrategy(team.Economy.AverageMoney, opp.Economy.AverageMoney, important)
		for _, ps := range rm.st.teamPlayers(team) {
			if err := rm.shop(ps, strategy); err != nil {
				return err
			}
		}
		rm.st.refreshEconomy(team)
	}
	return nil
}

// shop walks one player's shopping list in priority order.
func (rm *roundMachine) shop(ps *PlayerState, strategy economy.BuyStrategy) error {
	for _, name := range economy.ShoppingList(ps.Team.Side, ps.Player.Role, strategy) {
		item, err := economy.Lookup(name)
		if err != nil {
			return &SimulationError{Code: ErrCodeUnknownItem, Round: rm.st.round, Message: err.Error(), Err: err}
		}
		if !rm.wants(ps, item) || item.Price > ps.Money {
			continue
		}
		ps.Money -= item.Price
		rm.equip(ps, item)

		tick := int64(rm.rng.FloatBetween(0.5, freezeSeconds-1) * float64(rm.cfg.TickRate))
		rm.emit(event.Purchase{
			Base:   event.Base{Tick: tick, Round: rm.st.round, Time: rm.clock.TimeAtTick(tick)},
			Player: ps.ref(),
			Item:   item.Name,
			Cost:   item.Price,
		})
	}
	return nil
}

// wants filters list entries the player already covered: one primary, one
// sidearm upgrade, no duplicate grenades or gear.
func (rm *roundMachine) wants(ps *PlayerState, item economy.Item) bool {
	switch item.Class {
	case economy.ClassRifle, economy.ClassSMG, economy.ClassSniper, economy.ClassShotgun, economy.ClassHeavy:
		return ps.Primary == ""
	case economy.ClassPistol:
		return ps.Secondary == economy.DefaultPistol(ps.Team.Side)
	case economy.ClassGrenade:
		for _, g := range ps.Grenades {
			if g == item.Name {
				return false
			}
		}
		return len(ps.Grenades) < 4
	case economy.ClassGear:
		switch item.Name {
		case economy.ItemKevlar:
			return ps.Armor == 0
		case economy.ItemKevlarHelm:
			return ps.Armor == 0 || !ps.Helmet
		case economy.ItemDefuseKit:
			return ps.Team.Side == match.SideCT && !ps.DefuseKit
		}
	}
	return false
}

func (rm *roundMachine) equip(ps *PlayerState, item economy.Item) {
	switch item.Class {
	case economy.ClassRifle, economy.ClassSMG, economy.ClassSniper, economy.ClassShotgun, economy.ClassHeavy:
		ps.Primary = item.Name
	case economy.ClassPistol:
		ps.Secondary = item.Name
	case economy.ClassGrenade:
		ps.Grenades = append(ps.Grenades, item.Name)
	case economy.ClassGear:
		switch item.Name {
		case economy.ItemKevlar:
			ps.Armor = 100
		case economy.ItemKevlarHelm:
			ps.Armor = 100
			ps.Helmet = true
		case economy.ItemDefuseKit:
			ps.DefuseKit = true
		}
	}
}

// live picks the round scenario and intensity, then plays the round out.
// If either side somehow starts the round with nobody alive, a degenerate
// elimination result keeps the match progressing instead of failing.
func (rm *roundMachine) live() (match.Side, match.WinReason, error) {
	if len(rm.st.livePlayers(match.SideT)) == 0 {
		return match.SideCT, match.ReasonElimination, nil
	}
	if len(rm.st.livePlayers(match.SideCT)) == 0 {
		return match.SideT, match.ReasonElimination, nil
	}

	weights := scenarioWeightsFirstHalf
	if rm.secondHalf {
		weights = scenarioWeightsSecondHalf
	}
	scenario := RoundScenario(rm.rng.PickIndex(weights))
	intensity := rm.intensity()

	rm.gen.utilityPhase(rm.st.teamA)
	rm.gen.utilityPhase(rm.st.teamB)

	switch scenario {
	case ScenarioBomb:
		return rm.runBomb(intensity)
	case ScenarioTimeout:
		return rm.runTimeout(intensity)
	default:
		// Even a gunfight round can turn into a late plant.
		return rm.runElimination(intensity, 0.15)
	}
}

// intensity derives engagement aggression from the economic disparity
// between the sides: 0.5 base, up to 1.0 when one side vastly out-spends
// the other.
func (rm *roundMachine) intensity() float64 {
	disparity := math.Abs(float64(rm.st.teamA.Economy.AverageMoney - rm.st.teamB.Economy.AverageMoney))
	i := intensityBase + (intensityMax-intensityBase)*(disparity/intensityDisparityRef)
	if i > intensityMax {
		i = intensityMax
	}
	return i
}

// liveSeconds is time since freeze ended.
func (rm *roundMachine) liveSeconds() float64 {
	return rm.clock.Seconds() - freezeSeconds
}

// runElimination plays engagements until one side has nobody left or the
// round clock expires. Time expiry favors the defending (CT) side. When
// plantChanceOverride is non-negative, a plant attempt with that
// probability may interrupt while terrorists remain alive.
func (rm *roundMachine) runElimination(intensity float64, plantChanceOverride float64) (match.Side, match.WinReason, error) {
	for rm.liveSeconds() < roundSeconds {
		gap := rm.rng.FloatBetween(minEngagementGap, maxEngagementGap) / (0.5 + intensity)
		if rm.liveSeconds()+gap >= roundSeconds {
			break
		}
		rm.clock.Advance(gap)

		if err := rm.gen.chipDamage(); err != nil {
			return "", "", err
		}
		if err := rm.gen.engagement(intensity); err != nil {
			return "", "", err
		}

		if len(rm.st.livePlayers(match.SideT)) == 0 {
			return match.SideCT, match.ReasonElimination, nil
		}
		if len(rm.st.livePlayers(match.SideCT)) == 0 {
			return match.SideT, match.ReasonElimination, nil
		}

		if plantChanceOverride > 0 && rm.liveSeconds() > roundSeconds/2 && rm.rng.Chance(plantChanceOverride) {
			if planted, planter := rm.attemptPlant(); planted {
				return rm.postPlant(planter, intensity)
			}
		}
	}
	rm.advanceTo(roundSeconds)
	return match.SideCT, match.ReasonTimeExpired, nil
}

// runBomb biases the round toward an objective play: terrorists pick a
// plant window and keep retrying while anyone is alive to carry the bomb.
func (rm *roundMachine) runBomb(intensity float64) (match.Side, match.WinReason, error) {
	plantAt := rm.rng.FloatBetween(15, 60)

	for rm.liveSeconds() < roundSeconds {
		gap := rm.rng.FloatBetween(minEngagementGap, maxEngagementGap) / (0.5 + intensity)
		if rm.liveSeconds()+gap >= roundSeconds {
			break
		}
		rm.clock.Advance(gap)

		if err := rm.gen.chipDamage(); err != nil {
			return "", "", err
		}
		if err := rm.gen.engagement(intensity); err != nil {
			return "", "", err
		}

		if len(rm.st.livePlayers(match.SideT)) == 0 {
			return match.SideCT, match.ReasonElimination, nil
		}
		if len(rm.st.livePlayers(match.SideCT)) == 0 {
			return match.SideT, match.ReasonElimination, nil
		}

		if rm.liveSeconds() >= plantAt {
			if planted, planter := rm.attemptPlant(); planted {
				return rm.postPlant(planter, intensity)
			}
			// Failed attempt; regroup and try again later in the round.
			plantAt = rm.liveSeconds() + rm.rng.FloatBetween(10, 25)
		}
	}
	rm.advanceTo(roundSeconds)
	return match.SideCT, match.ReasonTimeExpired, nil
}

// runTimeout is the stall round: sparse poking, nobody commits, the clock
// decides unless an engagement snowballs anyway.
func (rm *roundMachine) runTimeout(intensity float64) (match.Side, match.WinReason, error) {
	pokes := rm.rng.Between(1, 2)
	for i := 0; i < pokes; i++ {
		rm.clock.Advance(rm.rng.FloatBetween(maxEngagementGap, roundSeconds/3))
		if rm.liveSeconds() >= roundSeconds {
			break
		}
		if err := rm.gen.chipDamage(); err != nil {
			return "", "", err
		}
		if err := rm.gen.engagement(intensity * 0.5); err != nil {
			return "", "", err
		}
		if len(rm.st.livePlayers(match.SideT)) == 0 {
			return match.SideCT, match.ReasonElimination, nil
		}
		if len(rm.st.livePlayers(match.SideCT)) == 0 {
			return match.SideT, match.ReasonElimination, nil
		}
	}
	rm.advanceTo(roundSeconds)
	return match.SideCT, match.ReasonTimeExpired, nil
}

// attemptPlant tries to get the bomb down. Success emits the plant event,
// credits the planter, and moves the round into the post-plant phase.
func (rm *roundMachine) attemptPlant() (bool, *PlayerState) {
	ts := rm.st.livePlayers(match.SideT)
	if len(ts) == 0 {
		return false, nil
	}
	if !rm.rng.Chance(plantChance) {
		return false, nil
	}
	planter := ts[rm.rng.Between(0, len(ts)-1)]
	planter.Planting = true
	rm.clock.Advance(3) // plant animation
	planter.Planting = false

	site := "A"
	if rm.rng.Chance(0.5) {
		site = "B"
	}
	rm.emit(event.BombPlant{Base: rm.gen.base(), Player: planter.ref(), Site: site})
	planter.Player.Stats.Plants++
	planter.Money = economy.Clamp(planter.Money+economy.PlantReward(), rm.cfg.MaxMoney)
	rm.phase = phasePostPlant
	return true, planter
}

// postPlant runs the fuse: combat continues until ten seconds before
// detonation, then the defenders get their single defuse attempt. If they
// are already eliminated or the attempt fails, the bomb goes off.
func (rm *roundMachine) postPlant(planter *PlayerState, intensity float64) (match.Side, match.WinReason, error) {
	plantSecond := rm.liveSeconds()
	attemptAt := plantSecond + fuseSeconds - defuseLeadSeconds
	detonateAt := plantSecond + fuseSeconds

	for rm.liveSeconds() < attemptAt {
		gap := rm.rng.FloatBetween(minEngagementGap/2, maxEngagementGap/2) / (0.5 + intensity)
		if rm.liveSeconds()+gap >= attemptAt {
			break
		}
		rm.clock.Advance(gap)
		if err := rm.gen.engagement(intensity); err != nil {
			return "", "", err
		}
		if len(rm.st.livePlayers(match.SideCT)) == 0 {
			break
		}
	}

	defenders := rm.st.livePlayers(match.SideCT)
	if len(defenders) == 0 {
		return rm.detonate(detonateAt)
	}

	rm.advanceTo(attemptAt)
	defuser := rm.pickDefuser(defenders)
	defuser.Defusing = true
	rm.emit(event.BombDefuse{Base: rm.gen.base(), Player: defuser.ref(), WithKit: defuser.DefuseKit, Begin: true})

	if rm.rng.Chance(defuseChance) {
		dur := float64(defuseSecondsNoKit)
		if defuser.DefuseKit {
			dur = defuseSecondsWithKit
		}
		rm.clock.Advance(dur)
		defuser.Defusing = false
		rm.emit(event.BombDefuse{Base: rm.gen.base(), Player: defuser.ref(), WithKit: defuser.DefuseKit, Begin: false})
		defuser.Player.Stats.Defuses++
		defuser.Money = economy.Clamp(defuser.Money+economy.DefuseReward(), rm.cfg.MaxMoney)
		return match.SideCT, match.ReasonBombDefused, nil
	}
	defuser.Defusing = false
	return rm.detonate(detonateAt)
}

// detonate advances to the fuse deadline and blows the bomb.
func (rm *roundMachine) detonate(detonateAt float64) (match.Side, match.WinReason, error) {
	rm.advanceTo(detonateAt)
	rm.emit(event.BombExplode{Base: rm.gen.base()})
	return match.SideT, match.ReasonBombExploded, nil
}

// advanceTo moves the live clock forward to the given live-second mark,
// never backward.
func (rm *roundMachine) advanceTo(liveSecond float64) {
	delta := liveSecond - rm.liveSeconds()
	if delta > 0 {
		rm.clock.Advance(delta)
	}
}

// pickDefuser prefers a kit carrier; otherwise the first defender.
func (rm *roundMachine) pickDefuser(defenders []*PlayerState) *PlayerState {
	for _, ps := range defenders {
		if ps.DefuseKit {
			return ps
		}
	}
	return defenders[0]
}

// pickMVP chooses the winning side's top fragger for the round, falling
// back to the objective player and then the first roster slot.
func (rm *roundMachine) pickMVP(winTeam *match.Team, winner match.Side, reason match.WinReason) *PlayerState {
	var best *PlayerState
	bestKills := 0
	for _, ps := range rm.st.teamPlayers(winTeam) {
		if k := rm.gen.roundKills[ps.Player]; k > bestKills {
			best, bestKills = ps, k
		}
	}
	if best != nil {
		return best
	}
	// No kills on the winning side: credit the objective.
	if reason == match.ReasonBombExploded || reason == match.ReasonBombDefused {
		for _, ps := range rm.st.teamPlayers(winTeam) {
			if ps.Player.Stats.Plants > 0 || ps.Player.Stats.Defuses > 0 {
				return ps
			}
		}
	}
	players := rm.st.teamPlayers(winTeam)
	if len(players) > 0 {
		return players[0]
	}
	return nil
}
