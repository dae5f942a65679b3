package event

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEvent — обработчик получил событие не того типа.
var ErrUnexpectedEvent = errors.New("unexpected event payload")

// Handler реагирует на доставленное событие. Ошибка прерывает текущий Notify.
type Handler interface {
	Handle(e Event) error
}

// TypedHandler адаптирует функцию над конкретным типом события к Handler.
type TypedHandler[E Event] struct {
	fn func(E) error
}

// On создаёт типизированный обработчик. Каждый вызов возвращает новый экземпляр,
// поэтому для Unregister нужно сохранить результат.
func On[E Event](fn func(E) error) *TypedHandler[E] {
	return &TypedHandler[E]{fn: fn}
}

func (h *TypedHandler[E]) Handle(e Event) error {
	typed, ok := e.(E)
	if !ok {
		var want E
		return fmt.Errorf("%w: got %T, want %T", ErrUnexpectedEvent, e, want)
	}
	return h.fn(typed)
}
