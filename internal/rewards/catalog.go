package rewards

import (
	"fmt"

	"codeberg.org/mutker/powergym/internal/errors"
	"github.com/samber/lo"
)

// MinRedeemPoints is the balance below which nothing can be redeemed
const MinRedeemPoints = 100

type Reward struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Option is a catalog entry annotated for a given balance
type Option struct {
	Reward
	Eligible bool `json:"eligible"`
}

type Catalog []Reward

// DefaultCatalog is the front desk reward list
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "Free Protein Shake", Points: 100},
		{Name: "Guest Day Pass", Points: 500},
		{Name: "Personal Training Session", Points: 1000},
		{Name: "Monthly Membership Discount", Points: 2000},
		{Name: "Fitness Equipment Rental", Points: 3000},
	}
}

// CanRedeem reports whether a balance may redeem anything at all
func CanRedeem(totalPoints int) bool {
	return totalPoints >= MinRedeemPoints
}

// Options annotates every reward with whether the balance covers it
func (c Catalog) Options(totalPoints int) []Option {
	return lo.Map(c, func(r Reward, _ int) Option {
		return Option{Reward: r, Eligible: totalPoints >= r.Points}
	})
}

// Redeemable returns the options the balance covers, or an error when the
// balance is below MinRedeemPoints.
func (c Catalog) Redeemable(totalPoints int) ([]Option, error) {
	return Redeemable(c.Options(totalPoints), totalPoints)
}

// Redeemable filters options already annotated for totalPoints
func Redeemable(options []Option, totalPoints int) ([]Option, error) {
	if !CanRedeem(totalPoints) {
		return nil, errors.New().WithData(errors.ErrInsufficientPoints,
			fmt.Sprintf("%d < %d", totalPoints, MinRedeemPoints))
	}

	return lo.Filter(options, func(o Option, _ int) bool { return o.Eligible }), nil
}
