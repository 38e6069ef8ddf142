package model

// RiskLevel classifies projected price volatility.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// PriceRange is a low/high volatility band around a projected price.
type PriceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// ProjectionResult is the full sell/hold projection for one crop lot.
type ProjectionResult struct {
	CurrentPrice   float64    `json:"current_price"`
	Price3M        float64    `json:"price_3m"`
	Price6M        float64    `json:"price_6m"`
	Price3MRange   PriceRange `json:"price_3m_range"`
	Price6MRange   PriceRange `json:"price_6m_range"`
	BreakEvenPrice float64    `json:"break_even_price"`
	ProfitNow      float64    `json:"profit_now"`
	Profit3M       float64    `json:"profit_3m"`
	Profit6M       float64    `json:"profit_6m"`
	StorageCost3M  float64    `json:"storage_cost_3m"`
	StorageCost6M  float64    `json:"storage_cost_6m"`
	RiskLevel      RiskLevel  `json:"risk_level"`
	Confidence     float64    `json:"confidence"`
	Recommendation string     `json:"recommendation"`
}
