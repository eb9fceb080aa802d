package api

import (
	"net/http"

	"codeberg.org/mutker/powergym/internal/errors"
	"codeberg.org/mutker/powergym/internal/rewards"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

func (s *Server) MountRewards() {
	s.handler.GET("/api/rewards", s.GetRewards)
	s.handler.POST("/api/redeem", s.Redeem)
}

type RewardsResponse struct {
	TotalPoints int              `json:"total_points"`
	CanRedeem   bool             `json:"can_redeem"`
	Rewards     []rewards.Option `json:"rewards"`
}

func (s *Server) GetRewards(c echo.Context) error {
	points, options := s.dashboard.Rewards()

	return c.JSON(http.StatusOK, RewardsResponse{
		TotalPoints: points,
		CanRedeem:   rewards.CanRedeem(points),
		Rewards:     options,
	})
}

type RedeemRequest struct {
	Reward string `json:"reward" validate:"omitempty,max=64"`
}

type RedeemResponse struct {
	TotalPoints int              `json:"total_points"`
	Available   []rewards.Option `json:"available"`
	Message     string           `json:"message"`
}

// Redeem lists what the balance covers. Points are not deducted; the front
// desk hands out the reward.
func (s *Server) Redeem(c echo.Context) error {
	errFactory := errors.New()

	var req RedeemRequest
	if err := s.bind(c, &req); err != nil {
		return JSONError(c, http.StatusBadRequest, err)
	}

	points, options := s.dashboard.Rewards()
	available, err := rewards.Redeemable(options, points)
	if err != nil {
		return JSONError(c, statusFor(err), err)
	}

	if req.Reward != "" {
		option, ok := lo.Find(options, func(o rewards.Option) bool { return o.Name == req.Reward })
		if !ok {
			err := errFactory.WithData(ErrRewardNotFound, req.Reward)
			return JSONError(c, statusFor(err), err)
		}
		if !option.Eligible {
			err := errFactory.WithData(ErrNotEligible, req.Reward)
			return JSONError(c, statusFor(err), err)
		}
		available = []rewards.Option{option}
	}

	return c.JSON(http.StatusOK, RedeemResponse{
		TotalPoints: points,
		Available:   available,
		Message:     "Contact front desk to redeem!",
	})
}
