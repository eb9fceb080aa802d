package fitness_test

import (
	"testing"

	"codeberg.org/mutker/powergym/internal/errors"
	"codeberg.org/mutker/powergym/internal/fitness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileValidate(t *testing.T) {
	require.NoError(t, fitness.DefaultProfile().Validate())

	tests := map[string]func(p *fitness.Profile){
		"zero age":       func(p *fitness.Profile) { p.Age = 0 },
		"negative mass":  func(p *fitness.Profile) { p.Weight = -70 },
		"zero height":    func(p *fitness.Profile) { p.Height = 0 },
		"unknown gender": func(p *fitness.Profile) { p.Gender = "other" },
		"missing goal":   func(p *fitness.Profile) { p.Goal = "" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			p := fitness.DefaultProfile()
			mutate(&p)

			err := p.Validate()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrInvalidProfile))
		})
	}
}
