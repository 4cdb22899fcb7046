package axis

// DefaultAxes returns the built-in six-axis set used when no axis document is supplied.
func DefaultAxes() []Axis {
	return []Axis{
		{
			ID:          "age_stage",
			Name:        "Life stage",
			Description: "Where the persona is in their adult life",
			Kind:        Continuous,
			Anchors: []Anchor{
				{Value: 0, Label: "Young adult"},
				{Value: 0.5, Label: "Middle-aged"},
				{Value: 1, Label: "Senior"},
			},
		},
		{
			ID:          "tech_savviness",
			Name:        "Tech savviness",
			Description: "Comfort and fluency with digital tools",
			Kind:        Continuous,
			Anchors: []Anchor{
				{Value: 0, Label: "Very reluctant user"},
				{Value: 0.5, Label: "Casual user"},
				{Value: 1, Label: "Power user"},
			},
		},
		{
			ID:          "risk_tolerance",
			Name:        "Risk tolerance",
			Description: "Willingness to accept uncertainty for potential gain",
			Kind:        Continuous,
			Anchors: []Anchor{
				{Value: 0, Label: "Very risk-averse"},
				{Value: 1, Label: "Very risk-seeking"},
			},
		},
		{
			ID:          "income_level",
			Name:        "Income level",
			Description: "Household income bracket",
			Kind:        Categorical,
			Categories:  []string{"Low", "Lower-middle", "Middle", "Upper-middle", "High"},
		},
		{
			ID:          "decision_style",
			Name:        "Decision style",
			Description: "How the persona usually reaches decisions",
			Kind:        Categorical,
			Categories:  []string{"Analytical", "Intuitive", "Consensus-driven", "Impulsive"},
		},
		{
			ID:          "social_orientation",
			Name:        "Social orientation",
			Description: "Preference for social versus solitary activity",
			Kind:        Continuous,
			Anchors: []Anchor{
				{Value: 0, Label: "Very introverted"},
				{Value: 0.5, Label: "Ambivert"},
				{Value: 1, Label: "Very extroverted"},
			},
		},
	}
}
