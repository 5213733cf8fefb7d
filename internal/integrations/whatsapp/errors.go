package whatsapp

import "errors"

var (
	// ErrRecipientRejected шлюз отклонил номер получателя или текст
	ErrRecipientRejected = errors.New("whatsapp client: recipient rejected")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("whatsapp client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза
	ErrInvalidResponse = errors.New("whatsapp client: invalid response")

	// ErrServiceDegraded шлюз недоступен, сообщение не отправлено, запись при этом создана
	ErrServiceDegraded = errors.New("whatsapp gateway unavailable: graceful degradation applied")
)
