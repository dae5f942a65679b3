// Package handler содержит реакции на доменные события.
package handler

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordering/internal/event"
)

func componentLogger(logger *log.Entry, name string) *log.Entry {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return logger.WithField("handler", name)
}

func unexpected(e event.Event) error {
	return fmt.Errorf("%w: %T", event.ErrUnexpectedEvent, e)
}
