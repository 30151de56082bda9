package models

import "time"

// DeviceInfo содержит метаданные устройства, собранные при входе.
// IPAddress и Location хранятся только как справочные сведения и не
// участвуют в вычислении отпечатка устройства.
type DeviceInfo struct {
	DeviceName     string    `json:"deviceName"`
	Browser        string    `json:"browser"`
	BrowserVersion string    `json:"browserVersion"`
	OS             string    `json:"os"`
	OSVersion      string    `json:"osVersion"`
	IPAddress      string    `json:"ipAddress"`
	Location       string    `json:"location"`
	UserAgent      string    `json:"userAgent"`
	Timestamp      time.Time `json:"timestamp"`
}

// DummyDeviceInfo используется для приёма сведений об устройстве из
// JSON-запроса на вход. Все поля опциональны: отсутствующие сигналы
// клиента просто не попадают в отпечаток.
type DummyDeviceInfo struct {
	DeviceName     string `json:"device_name,omitempty" validate:"omitempty,max=100"`
	Browser        string `json:"browser,omitempty" validate:"omitempty,max=100"`
	BrowserVersion string `json:"browser_version,omitempty" validate:"omitempty,max=50"`
	OS             string `json:"os,omitempty" validate:"omitempty,max=100"`
	OSVersion      string `json:"os_version,omitempty" validate:"omitempty,max=50"`
	Location       string `json:"location,omitempty" validate:"omitempty,max=200"`
}

// DeviceSession представляет сессию одного устройства для аккаунта.
//
// Инвариант (best-effort, без транзакции): не более одной сессии аккаунта
// помечено IsCurrent = true на момент чтения.
type DeviceSession struct {
	ID           string     // Уникальный идентификатор сессии
	UserEmail    string     // Почта владеющего аккаунта (слабая ссылка)
	Fingerprint  string     // Отпечаток устройства
	Device       DeviceInfo // Метаданные устройства
	IsActive     bool       // Сессия не отозвана
	IsConfirmed  bool       // Устройство подтверждено владельцем
	IsCurrent    bool       // Сессия последнего входа
	LastActivity time.Time  // Последний вход с этого устройства
	CreatedAt    time.Time  // Первый вход с этого устройства
}
