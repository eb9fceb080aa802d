package rewards

// Progress is the cumulative activity achievements are judged against
type Progress struct {
	EnergyWh     float64
	TotalPoints  int
	Calories     int
	MachinesUsed int
}

type Achievement struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Earned      bool   `json:"earned"`
}

type rule struct {
	name, description, icon string
	earned                  func(Progress) bool
}

var rules = []rule{
	{
		name:        "Energy Generator",
		description: "Generated 300+ Wh in a day",
		icon:        "⚡",
		earned:      func(p Progress) bool { return p.EnergyWh >= 300 },
	},
	{
		name:        "Gold Status",
		description: "Reached 3000+ reward points",
		icon:        "🏆",
		earned:      func(p Progress) bool { return p.TotalPoints >= 3000 },
	},
	{
		name:        "Calorie Crusher",
		description: "Burned 1500+ calories",
		icon:        "🔥",
		earned:      func(p Progress) bool { return p.Calories >= 1500 },
	},
	{
		name:        "Equipment Master",
		description: "Used 5+ different machines",
		icon:        "🏋️",
		earned:      func(p Progress) bool { return p.MachinesUsed >= 5 },
	},
}

// Achievements evaluates every badge against p
func Achievements(p Progress) []Achievement {
	out := make([]Achievement, 0, len(rules))
	for _, r := range rules {
		out = append(out, Achievement{
			Name:        r.name,
			Description: r.description,
			Icon:        r.icon,
			Earned:      r.earned(p),
		})
	}
	return out
}
