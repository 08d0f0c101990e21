package models

// Params holds the Black-Scholes inputs. T is in years, R and Sigma are
// annualised decimals.
type Params struct {
	S     float64 // spot
	K     float64 // strike
	T     float64 // time to expiry in years
	R     float64 // risk-free rate
	Sigma float64 // volatility
}

type BSMResult struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}
