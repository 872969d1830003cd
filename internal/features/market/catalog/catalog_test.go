package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "AK-47", "ak47"},
		{"strips spaces and pipe", "AWP | Dragon Lore", "awpdragonlore"},
		{"strips tabs", "AWP\t|\tAsiimov", "awpasiimov"},
		{"strips hyphens", "M4A1-S | Neo-Noir", "m4a1sneonoir"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestRefine(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"exact match with different separators", "ak 47 redline", "AK-47 | Redline"},
		{"exact match with pipe", "AK-47 | Vulcan", "AK-47 | Vulcan"},
		{"substring match", "dragon lore", "AWP | Dragon Lore"},
		{"substring prefers exact ordering", "asiimov", "AK-47 | Asiimov"},
		{"case insensitive", "DRAGON LORE", "AWP | Dragon Lore"},
		{"unknown passes through", "P90 | Nostalgia", "P90 | Nostalgia"},
		{"whitespace only passes through", "   ", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Refine(tt.query))
		})
	}
}

func TestRarityByName(t *testing.T) {
	t.Run("canonical name", func(t *testing.T) {
		e, ok := RarityByName("AK-47 | Redline")
		assert.True(t, ok)
		assert.Equal(t, "Classified", e.RarityName)
		assert.Equal(t, "#d32ce6", e.RarityColor)
	})

	t.Run("exterior qualifier stripped", func(t *testing.T) {
		e, ok := RarityByName("AK-47 | Redline (Field-Tested)")
		assert.True(t, ok)
		assert.Equal(t, "Classified", e.RarityName)
	})

	t.Run("unknown skin", func(t *testing.T) {
		_, ok := RarityByName("P90 | Nostalgia")
		assert.False(t, ok)
	})
}

func TestLocalizeExterior(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"known wear translated",
			"AWP | Asiimov (Field-Tested)",
			"AWP | Asiimov (После полевых испытаний)",
		},
		{
			"factory new",
			"Glock-18 | Fade (Factory New)",
			"Glock-18 | Fade (Прямо с завода)",
		},
		{
			"unmapped wear passes through",
			"AWP | Asiimov (Souvenir)",
			"AWP | Asiimov (Souvenir)",
		},
		{
			"no qualifier passes through",
			"M4A4 | Howl",
			"M4A4 | Howl",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LocalizeExterior(tt.in))
		})
	}
}

func TestLocalizeRarity(t *testing.T) {
	assert.Equal(t, "Тайное", LocalizeRarity("Covert"))
	assert.Equal(t, "Армейское качество", LocalizeRarity("Mil-Spec Grade"))
	assert.Equal(t, "Contraband", LocalizeRarity("Contraband"))
	assert.Equal(t, "", LocalizeRarity(""))
}
