package whatsapp

import "strings"

// Message исходящее сообщение через шлюз
type Message struct {
	From string `json:"from"` // номер салона, только цифры
	To   string `json:"to"`   // номер клиента, только цифры
	Text string `json:"text"`
}

// SendResult ответ шлюза на отправку
type SendResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ErrorResponse модель ошибки от шлюза
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NormalizePhone оставляет только цифры: "+54 9 11 1234-5678" -> "5491112345678"
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
