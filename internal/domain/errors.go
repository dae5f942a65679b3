package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAggregateState — нарушен инвариант сущности при её создании или изменении.
	ErrInvalidAggregateState = errors.New("invalid aggregate state")

	// Ошибка отсутствующего идентификатора заказа.
	ErrOrderIDRequired = invalidState("order id is required")
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerIDRequired = invalidState("customer id is required")
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrItemsRequired = invalidState("order must contain at least one item")
	// Ошибка отсутствующего идентификатора позиции.
	ErrItemIDRequired = invalidState("item id is required")
	// Ошибка отсутствующей ссылки на товар в позиции.
	ErrItemProductRequired = invalidState("item product id is required")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = invalidState("item quantity must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = invalidState("item unit price must be non-negative")
	// Ошибка пустого имени клиента.
	ErrCustomerNameRequired = invalidState("customer name is required")
	// Ошибка активации клиента без адреса.
	ErrCustomerAddressRequired = invalidState("address is mandatory to activate a customer")
	// Ошибка отрицательного количества бонусных баллов.
	ErrRewardPointsNegative = invalidState("reward points must be non-negative")
	// Ошибка незаполненных полей адреса.
	ErrAddressInvalid = invalidState("address requires street, positive number, zip and city")
	// Ошибка отсутствующего идентификатора товара.
	ErrProductIDRequired = invalidState("product id is required")
	// Ошибка пустого названия товара.
	ErrProductNameRequired = invalidState("product name is required")
	// Ошибка отрицательной цены товара.
	ErrProductPriceInvalid = invalidState("product price must be non-negative")

	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderUpdateFailed возвращается, если транзакционная замена позиций заказа не удалась.
	ErrOrderUpdateFailed = errors.New("error to update order")
	// ErrOrderAlreadyExists — заказ с таким ID уже сохранён.
	ErrOrderAlreadyExists = errors.New("order already exists")
	// ErrCustomerNotFound возвращается, если клиент не найден в репозитории.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrCustomerAlreadyExists — клиент с таким ID уже сохранён.
	ErrCustomerAlreadyExists = errors.New("customer already exists")
	// ErrProductNotFound возвращается, если товар не найден в репозитории.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductAlreadyExists — товар с таким ID уже сохранён.
	ErrProductAlreadyExists = errors.New("product already exists")
)

func invalidState(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidAggregateState, msg)
}

// UpdateFailed оборачивает причину сбоя обновления заказа в ErrOrderUpdateFailed,
// сохраняя исходную ошибку в цепочке.
func UpdateFailed(cause error) error {
	if cause == nil {
		return ErrOrderUpdateFailed
	}
	return fmt.Errorf("%w: %w", ErrOrderUpdateFailed, cause)
}

// IsInvalidState проверяет, является ли ошибка нарушением инварианта.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidAggregateState)
}
