package models

// SweepResult — итог одного прохода проверки статусов.
// Возвращается обработчику POST /status-check.
type SweepResult struct {
	ReactivatedUsers []string `json:"reactivatedUsers"`
	ActivatedUsers   []string `json:"activatedUsers"`
	TotalProcessed   int      `json:"totalProcessed"`
}

// StatusCounts — счётчики аккаунтов вне активного статуса.
// Возвращается обработчику GET /status-check, ничего не мутирует.
type StatusCounts struct {
	SuspendedUsers   int `json:"suspendedUsers"`
	DeactivatedUsers int `json:"deactivatedUsers"`
}
