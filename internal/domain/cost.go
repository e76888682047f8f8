package domain

// CostCategories split the estimate into its major buckets.
type CostCategories struct {
	Accommodation float64 `json:"accommodation"`
	Activities    float64 `json:"activities"`
	Travel        float64 `json:"travel"`
}

// CostBreakdown is the output of the external cost-estimation backend.
// Derived data: recomputed from TripParameters plus route distance,
// never mutated directly.
type CostBreakdown struct {
	Total     float64        `json:"total"`
	PerPerson float64        `json:"per_person"`
	Tax       float64        `json:"tax"`
	Breakdown CostCategories `json:"breakdown"`
}
