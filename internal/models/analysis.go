package models

import "encoding/json"

const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

type CategoryTotal struct {
	Category string      `json:"category"`
	Amount   json.Number `json:"amount"`
}

type AnalysisResponse struct {
	TotalExpenses []CategoryTotal `json:"total_expenses"`
}
