package handler

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordering/internal/event"
)

// SendEmailWhenProductIsCreated уведомляет отдел продаж о новом товаре.
type SendEmailWhenProductIsCreated struct {
	logger *log.Entry
}

func NewSendEmailWhenProductIsCreated(logger *log.Entry) *SendEmailWhenProductIsCreated {
	return &SendEmailWhenProductIsCreated{logger: componentLogger(logger, "send_email_when_product_is_created")}
}

func (h *SendEmailWhenProductIsCreated) Handle(e event.Event) error {
	created, ok := e.(event.ProductCreated)
	if !ok {
		return unexpected(e)
	}
	h.logger.WithFields(log.Fields{
		"product_id": created.ID,
		"name":       created.ProductName,
		"price":      created.Price.String(),
	}).Info("sending email about new product")
	return nil
}
