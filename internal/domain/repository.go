package domain

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create атомарно сохраняет заказ и его позиции. Дубликат ID — ошибка хранилища.
	Create(order *Order) error
	// Update в одной транзакции заменяет позиции заказа и пересчитывает total.
	// Любой сбой, включая отсутствие заказа, возвращается как ErrOrderUpdateFailed.
	Update(order *Order) error
	// Find возвращает заказ по идентификатору или ErrOrderNotFound.
	Find(id string) (*Order, error)
	// FindAll возвращает все сохранённые заказы.
	FindAll() ([]*Order, error)
}

// CustomerRepository описывает хранилище клиентов.
type CustomerRepository interface {
	Create(customer *Customer) error
	Update(customer *Customer) error
	Find(id string) (*Customer, error)
	FindAll() ([]*Customer, error)
}

// ProductRepository описывает хранилище товаров.
type ProductRepository interface {
	Create(product *Product) error
	Update(product *Product) error
	Find(id string) (*Product, error)
	FindAll() ([]*Product, error)
}

// JournalRepository хранит журнал доменных событий, записанный обработчиками.
type JournalRepository interface {
	Append(record JournalRecord) error
	List(aggregateID string) ([]JournalRecord, error)
}
