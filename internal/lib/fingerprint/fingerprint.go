// Package fingerprint вычисляет отпечаток устройства по сигналам клиента.
//
// Отпечаток намеренно не включает IP-адрес и геолокацию: одно и то же
// устройство в другой сети остаётся тем же устройством. Сетевые атрибуты
// хранятся в сессии только как справочные метаданные. Отпечаток не
// является криптографически стойким идентификатором и используется
// только для различения устройств при входе.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/creatorshield/creatorshield/internal/models"
)

// Derive возвращает hex-отпечаток устройства по его аппаратно-браузерным
// сигналам. Пустые сигналы участвуют в вычислении как пустые строки,
// поэтому отпечаток стабилен при частично заполненных данных.
func Derive(info models.DeviceInfo) string {
	parts := []string{
		strings.ToLower(strings.TrimSpace(info.UserAgent)),
		strings.ToLower(strings.TrimSpace(info.OS)),
		strings.ToLower(strings.TrimSpace(info.OSVersion)),
		strings.ToLower(strings.TrimSpace(info.Browser)),
		strings.ToLower(strings.TrimSpace(info.BrowserVersion)),
		strings.ToLower(strings.TrimSpace(info.DeviceName)),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
