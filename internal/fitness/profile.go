package fitness

import (
	"fmt"

	"codeberg.org/mutker/powergym/internal/errors"
	"github.com/go-playground/validator/v10"
)

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Goal tags the user's training goal. Only weight loss drives a distinct
// calorie target today.
type Goal string

const (
	GoalWeightLoss  Goal = "weight_loss"
	GoalMaintenance Goal = "maintenance"
	GoalMuscleGain  Goal = "muscle_gain"
)

// Profile is the user data the metabolic estimates depend on. It is fixed
// for the lifetime of a session.
type Profile struct {
	Name   string  `mapstructure:"name" json:"name"`
	Age    int     `mapstructure:"age" json:"age" validate:"gt=0,lt=130"`
	Weight float64 `mapstructure:"weight_kg" json:"weight_kg" validate:"gt=0"`
	Height float64 `mapstructure:"height_cm" json:"height_cm" validate:"gt=0"`
	Gender Gender  `mapstructure:"gender" json:"gender" validate:"oneof=male female"`
	Goal   Goal    `mapstructure:"goal" json:"goal" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultProfile is the reference athlete used when none is configured
func DefaultProfile() Profile {
	return Profile{
		Name:   "David Strong",
		Age:    28,
		Weight: 75,
		Height: 175,
		Gender: Male,
		Goal:   GoalWeightLoss,
	}
}

func (p Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			return errors.New().WithData(errors.ErrInvalidProfile,
				fmt.Sprintf("%s: failed on %q", errs[0].Field(), errs[0].Tag()))
		}
		return errors.New().Wrap(errors.ErrInvalidProfile, err)
	}
	return nil
}
