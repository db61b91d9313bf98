package combat

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Rules are the values a new duel starts from.
type Rules struct {
	Base  Stats  `yaml:"base"`
	Stake uint64 `yaml:"stake"`
}

// DefaultRules returns the stock base stats.
func DefaultRules() Rules {
	return Rules{
		Base: Stats{
			Strength:  1,
			Stamina:   1,
			Agility:   1,
			Intuition: 1,
			Health:    10,
			Defense:   1,
		},
	}
}

// LoadRules reads rules from a YAML file. Fields missing from the file keep
// their DefaultRules value.
func LoadRules(path string) (Rules, error) {
	cleanPath := filepath.Clean(path)
	b, err := os.ReadFile(cleanPath) //nolint:gosec // path comes from operator config
	if err != nil {
		return Rules{}, err
	}
	r := DefaultRules()
	if err := yaml.Unmarshal(b, &r); err != nil {
		return Rules{}, fmt.Errorf("parse rules %s: %w", cleanPath, err)
	}
	if r.Base.Health == 0 {
		return Rules{}, fmt.Errorf("parse rules %s: base health must be positive", cleanPath)
	}
	return r, nil
}

// NewDuel starts a duel at base stats. owner is recorded on Warrior1, the
// submitting side; Warrior2 is the automated opponent.
func NewDuel(rules Rules, owner string, reward uint64, now uint64) Duel {
	return Duel{
		Warrior1:     Warrior{ID: Warrior1, Owner: owner, Stats: rules.Base},
		Warrior2:     Warrior{ID: Warrior2, Stats: rules.Base},
		Reward:       reward,
		LastActionAt: now,
	}
}
