package handler

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordering/internal/event"
)

// LogOneWhenCustomerIsCreated — первый обработчик CustomerCreated.
type LogOneWhenCustomerIsCreated struct {
	logger *log.Entry
}

func NewLogOneWhenCustomerIsCreated(logger *log.Entry) *LogOneWhenCustomerIsCreated {
	return &LogOneWhenCustomerIsCreated{logger: componentLogger(logger, "log_one_when_customer_is_created")}
}

func (h *LogOneWhenCustomerIsCreated) Handle(e event.Event) error {
	if _, ok := e.(event.CustomerCreated); !ok {
		return unexpected(e)
	}
	h.logger.Info("first log line for event: CustomerCreated")
	return nil
}

// LogTwoWhenCustomerIsCreated — второй обработчик CustomerCreated.
type LogTwoWhenCustomerIsCreated struct {
	logger *log.Entry
}

func NewLogTwoWhenCustomerIsCreated(logger *log.Entry) *LogTwoWhenCustomerIsCreated {
	return &LogTwoWhenCustomerIsCreated{logger: componentLogger(logger, "log_two_when_customer_is_created")}
}

func (h *LogTwoWhenCustomerIsCreated) Handle(e event.Event) error {
	if _, ok := e.(event.CustomerCreated); !ok {
		return unexpected(e)
	}
	h.logger.Info("second log line for event: CustomerCreated")
	return nil
}

// LogWhenCustomerAddressIsChanged пишет новый адрес клиента в лог.
type LogWhenCustomerAddressIsChanged struct {
	logger *log.Entry
}

func NewLogWhenCustomerAddressIsChanged(logger *log.Entry) *LogWhenCustomerAddressIsChanged {
	return &LogWhenCustomerAddressIsChanged{logger: componentLogger(logger, "log_when_customer_address_is_changed")}
}

func (h *LogWhenCustomerAddressIsChanged) Handle(e event.Event) error {
	changed, ok := e.(event.CustomerAddressChanged)
	if !ok {
		return unexpected(e)
	}
	h.logger.WithFields(log.Fields{
		"customer_id": changed.ID,
		"name":        changed.CustomerName,
		"address":     changed.Address,
	}).Infof("customer address: %s, %s changed to: %s", changed.ID, changed.CustomerName, changed.Address)
	return nil
}
