package actuator

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_Cast(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, "dota_execute")

	err := c.Cast("npc_dota_hero_lina", "lina_laguna_blade", "npc_dota_hero_sniper")
	require.NoError(t, err)

	assert.Equal(t, "dota_execute npc_dota_hero_lina lina_laguna_blade npc_dota_hero_sniper\n", buf.String())
}

func TestConsole_CastCommandCarriesCaster(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, "dota_execute")

	require.NoError(t, c.Cast("npc_dota_hero_lion", "lion_finger_of_death", "npc_dota_hero_axe"))
	require.NoError(t, c.Cast("npc_dota_hero_lina", "lina_dragon_slave", "npc_dota_hero_axe"))

	assert.Equal(t,
		"dota_execute npc_dota_hero_lion lion_finger_of_death npc_dota_hero_axe\n"+
			"dota_execute npc_dota_hero_lina lina_dragon_slave npc_dota_hero_axe\n",
		buf.String())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("pipe closed")
}

func TestConsole_CastWriteError(t *testing.T) {
	c := NewConsole(failingWriter{}, "dota_execute")

	err := c.Cast("npc_dota_hero_lina", "lina_dragon_slave", "npc_dota_hero_axe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "console command")
}

func TestRecording_CapturesCasts(t *testing.T) {
	r := NewRecording()

	require.NoError(t, r.Cast("npc_dota_hero_lina", "lina_dragon_slave", "npc_dota_hero_axe"))
	require.NoError(t, r.Cast("npc_dota_hero_lina", "lina_laguna_blade", "npc_dota_hero_sniper"))

	casts := r.Casts()
	require.Len(t, casts, 2)
	assert.Equal(t, Recorded{
		Hero:    "npc_dota_hero_lina",
		Ability: "lina_dragon_slave",
		Target:  "npc_dota_hero_axe",
	}, casts[0])
}

func TestRecording_FailWith(t *testing.T) {
	r := NewRecording()
	r.FailWith(errors.New("actuator offline"))

	err := r.Cast("npc_dota_hero_lina", "lina_dragon_slave", "npc_dota_hero_axe")
	assert.Error(t, err)
	assert.Len(t, r.Casts(), 1, "failed casts are still recorded")

	r.FailWith(nil)
	assert.NoError(t, r.Cast("npc_dota_hero_lina", "lina_dragon_slave", "npc_dota_hero_axe"))
}
