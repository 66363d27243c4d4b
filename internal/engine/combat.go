package engine

import (
	"github.com/noueii/nocs-log-generator/internal/economy"
	"github.com/noueii/nocs-log-generator/internal/event"
	"github.com/noueii/nocs-log-generator/internal/match"
)

// generator synthesizes combat, utility, and cosmetic events for one round.
// It mutates player state (health, loadouts, stats, kill-reward money) but
// never touches scores or round-level economy; that is the round machine's
// and the settlement's job.
type generator struct {
	cfg   *match.Config
	rng   *Rand
	clock *Clock
	st    *matchState
	emit  func(event.Event)

	// roundKills feeds MVP selection.
	roundKills map[*match.Player]int
}

func newGenerator(cfg *match.Config, rng *Rand, clock *Clock, st *matchState, emit func(event.Event)) *generator {
	return &generator{
		cfg:        cfg,
		rng:        rng,
		clock:      clock,
		st:         st,
		emit:       emit,
		roundKills: make(map[*match.Player]int),
	}
}

func (g *generator) base() event.Base {
	return event.Base{Tick: g.clock.Tick(), Round: g.st.round, Time: g.clock.Now()}
}

// hitLocation rolls the hit group for one shot. One-shot-class weapons
// resolve as head near-certainly; otherwise the headshot probability spans
// [headshotMin, headshotMax] by attacker skill and the rest of the mass
// splits over the body.
func (g *generator) hitLocation(att *PlayerState, item economy.Item) string {
	if item.OneShot && g.rng.Chance(0.95) {
		return "head"
	}
	skill := att.Player.Skill.Aim * att.Player.Skill.HeadshotBias
	headP := headshotMin + (headshotMax-headshotMin)*skill
	roll := g.rng.Float()
	switch {
	case roll < headP:
		return "head"
	case roll < headP+chestChance:
		return "chest"
	case roll < headP+chestChance+stomachChance:
		return "stomach"
	case roll < headP+chestChance+stomachChance+armsChance:
		return "left arm"
	default:
		return "leg"
	}
}

// locationMultiplier scales base damage by hit group.
func locationMultiplier(loc string) float64 {
	switch loc {
	case "head":
		return 2.5
	case "chest":
		return 1.0
	case "stomach":
		return 1.25
	default:
		return 0.75
	}
}

// resolveHit applies one shot from att to vic and emits the resulting kill
// or damage event. Returns true when the victim died.
func (g *generator) resolveHit(att, vic *PlayerState) (bool, error) {
	weapon := att.Weapon()
	item, err := economy.Lookup(weapon)
	if err != nil {
		return false, &SimulationError{Code: ErrCodeUnknownItem, Round: g.st.round, Message: err.Error(), Err: err}
	}

	loc := g.hitLocation(att, item)
	raw := g.rng.Vary(item.Damage, 0.2)
	dmg := int(float64(raw) * locationMultiplier(loc))
	if dmg < 1 {
		dmg = 1
	}

	// Armor soaks half of the incoming damage, bounded by what is left of
	// it. Headshots bypass armor without a helmet.
	armorDmg := 0
	if vic.Armor > 0 && (loc != "head" || vic.Helmet) {
		absorbed := int(float64(dmg) * armorAbsorb)
		if absorbed > vic.Armor {
			absorbed = vic.Armor
		}
		dmg -= absorbed
		armorDmg = absorbed
		vic.Armor -= absorbed
	}

	vic.Health -= dmg
	att.Player.Stats.Damage += dmg

	if vic.Health <= 0 {
		vic.Health = 0
		vic.Alive = false
		g.killEvent(att, vic, item, loc)
		return true, nil
	}

	g.emit(event.Damage{
		Base:        g.base(),
		Attacker:    att.ref(),
		Victim:      vic.ref(),
		Weapon:      weapon,
		Damage:      dmg,
		ArmorDamage: armorDmg,
		Health:      vic.Health,
		Armor:       vic.Armor,
		Hitgroup:    loc,
	})
	return false, nil
}

func (g *generator) killEvent(att, vic *PlayerState, item economy.Item, loc string) {
	headshot := loc == "head"
	kill := event.Kill{
		Base:          g.base(),
		Attacker:      att.ref(),
		Victim:        vic.ref(),
		Weapon:        item.Name,
		Headshot:      headshot,
		AttackerBlind: att.Flashed,
	}
	if g.rng.Chance(0.05) {
		kill.Penetrated = 1
	}
	if item.OneShot && g.rng.Chance(0.1) {
		kill.NoScope = true
	}
	g.emit(kill)

	att.Player.Stats.Kills++
	if headshot {
		att.Player.Stats.Headshots++
	}
	vic.Player.Stats.Deaths++
	att.Money = economy.Clamp(att.Money+economy.KillReward(item.Name), g.cfg.MaxMoney)
	g.roundKills[att.Player]++
}

// engagement resolves one combat exchange between small groups of the two
// sides. More participants join at high intensity. The exchange ends when
// one group has no survivors or the trade budget runs out.
func (g *generator) engagement(intensity float64) error {
	ct := g.st.livePlayers(match.SideCT)
	t := g.st.livePlayers(match.SideT)
	if len(ct) == 0 || len(t) == 0 {
		return nil
	}

	nCT := g.participants(len(ct), intensity)
	nT := g.participants(len(t), intensity)
	g.rng.Shuffle(len(ct), func(i, j int) { ct[i], ct[j] = ct[j], ct[i] })
	g.rng.Shuffle(len(t), func(i, j int) { t[i], t[j] = t[j], t[i] })
	ct = ct[:nCT]
	t = t[:nT]

	// Trades alternate until one group is gone; a bounded budget keeps
	// low-damage stand-offs from running forever.
	budget := (nCT + nT) * 4
	for budget > 0 {
		ct = alive(ct)
		t = alive(t)
		if len(ct) == 0 || len(t) == 0 {
			return nil
		}
		budget--

		att, vic := g.pickDuel(ct, t)
		g.clock.Advance(g.rng.FloatBetween(0.3, maxEngagementLen/3))
		if _, err := g.resolveHit(att, vic); err != nil {
			return err
		}
	}
	return nil
}

// participants picks how many of the side's living players join, scaled by
// intensity.
func (g *generator) participants(live int, intensity float64) int {
	max := minParticipants + int(float64(maxParticipants-minParticipants)*intensity+0.5)
	if max > live {
		max = live
	}
	if max < minParticipants {
		max = minParticipants
	}
	return g.rng.Between(minParticipants, max)
}

// pickDuel chooses one attacker and one victim for the next trade. The
// shooter's side is weighted by comparative aim; flashed players rarely
// win initiative.
func (g *generator) pickDuel(ct, t []*PlayerState) (att, vic *PlayerState) {
	c := ct[g.rng.Between(0, len(ct)-1)]
	tt := t[g.rng.Between(0, len(t)-1)]

	cw := c.Player.Skill.Aim
	tw := tt.Player.Skill.Aim
	if c.Flashed {
		cw *= 0.3
	}
	if tt.Flashed {
		tw *= 0.3
	}
	if g.rng.PickIndex([]float64{cw, tw}) == 0 {
		return c, tt
	}
	return tt, c
}

func alive(players []*PlayerState) []*PlayerState {
	var out []*PlayerState
	for _, ps := range players {
		if ps.Alive {
			out = append(out, ps)
		}
	}
	return out
}

// utilityPhase throws the team's grenades for the round: up to the
// money-tier count, bounded by what players actually carry. Flashbangs
// blind up to three living opponents.
func (g *generator) utilityPhase(t *match.Team) {
	want := economy.GrenadeCount(t.Economy.AverageMoney)
	if want <= 0 {
		return
	}
	want = g.rng.Between(0, want)

	for i := 0; i < want; i++ {
		thrower := g.grenadeCarrier(t)
		if thrower == nil {
			return
		}
		g.clock.Advance(g.rng.FloatBetween(0.5, 4))
		name := thrower.Grenades[g.rng.Between(0, len(thrower.Grenades)-1)]
		thrower.takeGrenade(name)
		g.emit(event.GrenadeThrow{Base: g.base(), Player: thrower.ref(), Grenade: name})

		if name == economy.GrenadeFlash {
			g.flashDetonate(thrower)
		}
	}
}

// grenadeCarrier finds a living player on the team still holding utility.
func (g *generator) grenadeCarrier(t *match.Team) *PlayerState {
	var carriers []*PlayerState
	for _, ps := range g.st.teamPlayers(t) {
		if ps.Alive && len(ps.Grenades) > 0 {
			carriers = append(carriers, ps)
		}
	}
	if len(carriers) == 0 {
		return nil
	}
	return carriers[g.rng.Between(0, len(carriers)-1)]
}

// flashDetonate blinds up to maxFlashVictims living opponents for 1-4
// seconds each and credits the thrower's flash assists.
func (g *generator) flashDetonate(thrower *PlayerState) {
	opponents := g.st.livePlayers(thrower.Team.Side.Opposite())
	if len(opponents) == 0 {
		return
	}
	g.rng.Shuffle(len(opponents), func(i, j int) { opponents[i], opponents[j] = opponents[j], opponents[i] })
	n := g.rng.Between(0, maxFlashVictims)
	if n > len(opponents) {
		n = len(opponents)
	}
	g.clock.Advance(g.rng.FloatBetween(0.2, 1))
	for _, vic := range opponents[:n] {
		vic.Flashed = true
		g.emit(event.FlashbangDetonate{
			Base:     g.base(),
			Thrower:  thrower.ref(),
			Victim:   vic.ref(),
			Duration: g.rng.FloatBetween(flashMinSeconds, flashMaxSeconds),
		})
		thrower.Player.Stats.FlashAssists++
	}
}

// chipDamage emits an independent non-lethal poke: health floors at 1 so a
// chip event can never kill.
func (g *generator) chipDamage() error {
	if !g.rng.Chance(chipChance) {
		return nil
	}
	ct := g.st.livePlayers(match.SideCT)
	t := g.st.livePlayers(match.SideT)
	if len(ct) == 0 || len(t) == 0 {
		return nil
	}
	att := ct[g.rng.Between(0, len(ct)-1)]
	vic := t[g.rng.Between(0, len(t)-1)]
	if g.rng.Chance(0.5) {
		att, vic = vic, att
	}

	weapon := att.Weapon()
	if _, err := economy.Lookup(weapon); err != nil {
		return &SimulationError{Code: ErrCodeUnknownItem, Round: g.st.round, Message: err.Error(), Err: err}
	}
	dmg := g.rng.Between(chipMinDamage, chipMaxDamage)
	if vic.Health-dmg < 1 {
		dmg = vic.Health - 1
	}
	if dmg <= 0 {
		return nil
	}
	vic.Health -= dmg
	att.Player.Stats.Damage += dmg
	g.emit(event.Damage{
		Base:     g.base(),
		Attacker: att.ref(),
		Victim:   vic.ref(),
		Weapon:   weapon,
		Damage:   dmg,
		Health:   vic.Health,
		Armor:    vic.Armor,
		Hitgroup: "generic",
	})
	return nil
}

// weaponFire scatters cosmetic fire events over the live window. Verbose
// mode only; no gameplay effect. The round machine stable-sorts the round's
// events by tick afterward, so these can be generated in one batch.
func (g *generator) weaponFire(liveStartTick int64) {
	if !g.cfg.Verbose {
		return
	}
	n := g.rng.Between(verboseFireMin, verboseFireMax)
	span := g.clock.Tick() - liveStartTick
	if span <= 0 {
		return
	}
	shooters := g.st.order
	for i := 0; i < n; i++ {
		ps := shooters[g.rng.Between(0, len(shooters)-1)]
		tick := liveStartTick + int64(g.rng.Float()*float64(span))
		g.emit(event.WeaponFire{
			Base:   event.Base{Tick: tick, Round: g.st.round, Time: g.clock.TimeAtTick(tick)},
			Player: ps.ref(),
			Weapon: ps.Weapon(),
		})
	}
}
