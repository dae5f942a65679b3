package event

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrNilEvent возвращается при попытке доставить nil-событие.
var ErrNilEvent = errors.New("event is nil")

// Observer получает сведения о доставке событий (метрики, трассировка).
type Observer interface {
	ObserveNotify(name Name, handlers int)
	ObserveDelivery(name Name, duration time.Duration, err error)
}

// Option настраивает Dispatcher.
type Option func(*Dispatcher)

// WithLogger задаёт логгер диспетчера.
func WithLogger(logger *log.Entry) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithObserver подключает наблюдателя за доставкой.
func WithObserver(observer Observer) Option {
	return func(d *Dispatcher) {
		d.observer = observer
	}
}

// Dispatcher — синхронный реестр подписчиков на доменные события.
//
// Обработчики вызываются в порядке регистрации на горутине вызывающего Notify.
// Первая ошибка обработчика прерывает доставку остальным и возвращается наружу.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Name][]Handler
	logger   *log.Entry
	observer Observer
}

// NewDispatcher создаёт диспетчер с пустой таблицей обработчиков.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[Name][]Handler),
		logger:   log.WithField("component", "event_dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register добавляет обработчик в конец списка события. Повторная регистрация
// того же экземпляра приводит к повторной доставке.
func (d *Dispatcher) Register(name Name, handler Handler) {
	if handler == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[name] = append(d.handlers[name], handler)
	d.logger.WithFields(log.Fields{
		"event":   name,
		"handler": fmt.Sprintf("%T", handler),
	}).Debug("handler registered")
}

// Unregister удаляет первое вхождение именно этого экземпляра обработчика.
// Неизвестное событие или обработчик игнорируются.
func (d *Dispatcher) Unregister(name Name, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	list, ok := d.handlers[name]
	if !ok {
		return
	}
	for i, h := range list {
		if sameHandler(h, handler) {
			updated := make([]Handler, 0, len(list)-1)
			updated = append(updated, list[:i]...)
			updated = append(updated, list[i+1:]...)
			d.handlers[name] = updated
			return
		}
	}
}

// UnregisterAll очищает таблицу обработчиков целиком.
func (d *Dispatcher) UnregisterAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers = make(map[Name][]Handler)
}

// Notify синхронно доставляет событие всем подписчикам его типа.
func (d *Dispatcher) Notify(e Event) error {
	if e == nil {
		return ErrNilEvent
	}
	name := e.Name()

	// Доставка идёт вне блокировки: обработчик может сам (от)регистрироваться.
	handlers := d.Handlers(name)
	if d.observer != nil {
		d.observer.ObserveNotify(name, len(handlers))
	}

	for i, h := range handlers {
		start := time.Now()
		err := h.Handle(e)
		if d.observer != nil {
			d.observer.ObserveDelivery(name, time.Since(start), err)
		}
		if err != nil {
			d.logger.WithError(err).WithFields(log.Fields{
				"event":     name,
				"handler":   fmt.Sprintf("%T", h),
				"position":  i,
				"remaining": len(handlers) - i - 1,
			}).Warn("event handler failed, delivery aborted")
			return fmt.Errorf("handle %s: %w", name, err)
		}
	}
	return nil
}

// EventHandlers возвращает копию таблицы обработчиков на момент вызова.
// Последующие Register/Unregister в уже полученной копии не видны;
// для актуального состояния метод вызывается заново.
func (d *Dispatcher) EventHandlers() map[Name][]Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make(map[Name][]Handler, len(d.handlers))
	for name, list := range d.handlers {
		result[name] = append([]Handler{}, list...)
	}
	return result
}

// Handlers возвращает обработчики события в порядке регистрации.
func (d *Dispatcher) Handlers(name Name) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()

	list := d.handlers[name]
	if len(list) == 0 {
		return nil
	}
	return append([]Handler(nil), list...)
}

// Has сообщает, зарегистрирован ли экземпляр обработчика на событие.
func (d *Dispatcher) Has(name Name, handler Handler) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, h := range d.handlers[name] {
		if sameHandler(h, handler) {
			return true
		}
	}
	return false
}

// sameHandler сравнивает обработчики по идентичности. Значения несравнимых
// типов (структуры со слайсами, map) никогда не считаются равными.
func sameHandler(a, b Handler) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
