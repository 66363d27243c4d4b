// Package economy owns the pricing tables, buy-strategy policy, and
// round-end settlement math. Everything here is pure: the engine owns all
// mutable money state and calls in for numbers.
//
// The numeric constants are policy values, not derived quantities. They are
// kept exactly as documented so output stays comparable across versions.
package economy

import (
	"fmt"

	"github.com/noueii/nocs-log-generator/internal/match"
)

// Class buckets items for kill rewards and buy priorities.
type Class string

const (
	ClassPistol  Class = "pistol"
	ClassSMG     Class = "smg"
	ClassRifle   Class = "rifle"
	ClassSniper  Class = "sniper"
	ClassShotgun Class = "shotgun"
	ClassHeavy   Class = "heavy"
	ClassGrenade Class = "grenade"
	ClassGear    Class = "gear"
)

// Item is one catalog entry. Damage is the pre-variance base used by the
// combat generator; OneShot marks weapons whose hit always resolves as a
// headshot-class kill (the AWP tier).
type Item struct {
	Name    string
	Class   Class
	Price   int
	Damage  int
	OneShot bool
}

// Named gear items referenced throughout the engine.
const (
	ItemKevlar     = "vest"
	ItemKevlarHelm = "vesthelm"
	ItemDefuseKit  = "defuser"

	GrenadeHE      = "hegrenade"
	GrenadeFlash   = "flashbang"
	GrenadeSmoke   = "smokegrenade"
	GrenadeMolotov = "molotov"
	GrenadeIncen   = "incgrenade"
	GrenadeDecoy   = "decoy"
)

// Default sidearms carried from the pistol round; a player with an empty
// loadout always falls back to their side's default.
const (
	DefaultPistolT  = "glock"
	DefaultPistolCT = "usp_silencer"
)

// Equipment valuations for the two armor tiers. Distinct from purchase
// price on purpose: equipment value tracks what the item is worth on the
// player, which the log consumers treat as fixed.
const (
	ArmorValue     = 650
	ArmorHelmValue = 1000
)

var catalog = map[string]Item{
	// Pistols.
	"glock":        {Name: "glock", Class: ClassPistol, Price: 200, Damage: 28},
	"usp_silencer": {Name: "usp_silencer", Class: ClassPistol, Price: 200, Damage: 33},
	"p250":         {Name: "p250", Class: ClassPistol, Price: 300, Damage: 35},
	"fiveseven":    {Name: "fiveseven", Class: ClassPistol, Price: 500, Damage: 32},
	"tec9":         {Name: "tec9", Class: ClassPistol, Price: 500, Damage: 33},
	"deagle":       {Name: "deagle", Class: ClassPistol, Price: 700, Damage: 53},

	// SMGs.
	"mac10": {Name: "mac10", Class: ClassSMG, Price: 1050, Damage: 29},
	"mp9":   {Name: "mp9", Class: ClassSMG, Price: 1250, Damage: 26},
	"ump45": {Name: "ump45", Class: ClassSMG, Price: 1200, Damage: 35},
	"mp7":   {Name: "mp7", Class: ClassSMG, Price: 1500, Damage: 29},
	"p90":   {Name: "p90", Class: ClassSMG, Price: 2350, Damage: 26},

	// Rifles.
	"galilar":       {Name: "galilar", Class: ClassRifle, Price: 1800, Damage: 30},
	"famas":         {Name: "famas", Class: ClassRifle, Price: 2050, Damage: 30},
	"ak47":          {Name: "ak47", Class: ClassRifle, Price: 2700, Damage: 36},
	"m4a1_silencer": {Name: "m4a1_silencer", Class: ClassRifle, Price: 2900, Damage: 33},
	"m4a1":          {Name: "m4a1", Class: ClassRifle, Price: 3100, Damage: 33},
	"sg556":         {Name: "sg556", Class: ClassRifle, Price: 3000, Damage: 30},
	"aug":           {Name: "aug", Class: ClassRifle, Price: 3300, Damage: 28},

	// Snipers.
	"ssg08": {Name: "ssg08", Class: ClassSniper, Price: 1700, Damage: 88},
	"awp":   {Name: "awp", Class: ClassSniper, Price: 4750, Damage: 115, OneShot: true},

	// Shotguns and heavies.
	"nova":   {Name: "nova", Class: ClassShotgun, Price: 1050, Damage: 72},
	"mag7":   {Name: "mag7", Class: ClassShotgun, Price: 1300, Damage: 71},
	"xm1014": {Name: "xm1014", Class: ClassShotgun, Price: 2000, Damage: 60},
	"negev":  {Name: "negev", Class: ClassHeavy, Price: 1700, Damage: 35},

	// Grenades.
	GrenadeDecoy:   {Name: GrenadeDecoy, Class: ClassGrenade, Price: 50, Damage: 0},
	GrenadeFlash:   {Name: GrenadeFlash, Class: ClassGrenade, Price: 200, Damage: 0},
	GrenadeHE:      {Name: GrenadeHE, Class: ClassGrenade, Price: 300, Damage: 40},
	GrenadeSmoke:   {Name: GrenadeSmoke, Class: ClassGrenade, Price: 300, Damage: 0},
	GrenadeMolotov: {Name: GrenadeMolotov, Class: ClassGrenade, Price: 400, Damage: 30},
	GrenadeIncen:   {Name: GrenadeIncen, Class: ClassGrenade, Price: 600, Damage: 30},

	// Gear.
	ItemKevlar:     {Name: ItemKevlar, Class: ClassGear, Price: 650},
	ItemKevlarHelm: {Name: ItemKevlarHelm, Class: ClassGear, Price: 1000},
	ItemDefuseKit:  {Name: ItemDefuseKit, Class: ClassGear, Price: 400},
}

// Lookup returns the catalog entry for an item. An unknown item is a
// simulation-time inconsistency; the caller decides how fatal that is.
func Lookup(name string) (Item, error) {
	it, ok := catalog[name]
	if !ok {
		return Item{}, fmt.Errorf("unknown item %q", name)
	}
	return it, nil
}

// Price returns the purchase price of a known item, 0 for unknown ones.
func Price(name string) int {
	return catalog[name].Price
}

// DefaultPistol returns the sidearm a player of the given side always
// carries.
func DefaultPistol(side match.Side) string {
	if side == match.SideT {
		return DefaultPistolT
	}
	return DefaultPistolCT
}
