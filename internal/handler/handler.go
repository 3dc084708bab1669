// Package handler provides HTTP request handlers for the catalog API.
package handler

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the failure body of every API endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DeleteResponse confirms a successful delete.
type DeleteResponse struct {
	Message string `json:"message"`
}

// CategoryResponse pairs a category name with the number of items in it.
type CategoryResponse struct {
	Name      string `json:"name"`
	ItemCount int    `json:"itemCount"`
}

// StatsResponse summarizes the catalog.
type StatsResponse struct {
	TotalItems   int            `json:"totalItems"`
	TotalValue   float64        `json:"totalValue"`
	AveragePrice float64        `json:"averagePrice"`
	Categories   map[string]int `json:"categories"`
}
