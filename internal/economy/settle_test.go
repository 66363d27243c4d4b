package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noueii/nocs-log-generator/internal/match"
)

func TestLossBonus_Schedule(t *testing.T) {
	assert.Equal(t, 0, LossBonus(0))
	assert.Equal(t, 1400, LossBonus(1))
	assert.Equal(t, 1900, LossBonus(2))
	assert.Equal(t, 2400, LossBonus(3))
	assert.Equal(t, 2900, LossBonus(4))
	assert.Equal(t, 3400, LossBonus(5))
	// The schedule caps at the last tier.
	assert.Equal(t, 3400, LossBonus(9))
}

func TestWinBonus_BombEscalates(t *testing.T) {
	assert.Equal(t, 3250, WinBonus(match.ReasonElimination))
	assert.Equal(t, 3250, WinBonus(match.ReasonTimeExpired))
	assert.Equal(t, 3250, WinBonus(match.ReasonBombDefused))
	assert.Equal(t, 3500, WinBonus(match.ReasonBombExploded))
}

func TestKillReward_ByClass(t *testing.T) {
	assert.Equal(t, 300, KillReward("ak47"))
	assert.Equal(t, 600, KillReward("mac10"))
	assert.Equal(t, 100, KillReward("awp"))
	assert.Equal(t, 900, KillReward("nova"))
	assert.Equal(t, 300, KillReward("deagle"))
	// Unknown weapons fall back to the rifle rate.
	assert.Equal(t, 300, KillReward("knife_butterfly"))
}

func TestObjectiveRewards(t *testing.T) {
	assert.Equal(t, 300, PlantReward())
	assert.Equal(t, 300, DefuseReward())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 16000, Clamp(20000, 16000))
	assert.Equal(t, 15999, Clamp(15999, 16000))
	assert.Equal(t, 0, Clamp(-50, 16000))
}

func TestSnapshot_AverageInvariant(t *testing.T) {
	snap := Snapshot([]int{1000, 2000, 3000, 4000, 5000}, []int{650, 0, 1000, 0, 4750}, 2)

	assert.Equal(t, 15000, snap.Money)
	assert.Equal(t, 3000, snap.AverageMoney)
	assert.Equal(t, snap.Money/5, snap.AverageMoney)
	assert.Equal(t, 6400, snap.EquipmentValue)
	assert.Equal(t, 2, snap.LossStreak)
	assert.Equal(t, 1900, snap.LossBonus)
}

func TestLookup_UnknownItem(t *testing.T) {
	_, err := Lookup("golden_knife")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "golden_knife")
}

func TestLookup_CatalogConsistency(t *testing.T) {
	// Every catalog weapon with damage must carry a kill reward class.
	for _, name := range []string{"glock", "usp_silencer", "ak47", "m4a1", "awp", "mac10", "nova"} {
		it, err := Lookup(name)
		require.NoError(t, err)
		assert.Greater(t, it.Damage, 0, name)
		assert.Greater(t, KillReward(name), 0, name)
	}
}

func TestDefaultPistol(t *testing.T) {
	assert.Equal(t, "glock", DefaultPistol(match.SideT))
	assert.Equal(t, "usp_silencer", DefaultPistol(match.SideCT))
}
