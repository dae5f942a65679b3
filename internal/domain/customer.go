package domain

import "fmt"

// Address — адрес клиента (value object).
type Address struct {
	street string
	number int
	zip    string
	city   string
}

// NewAddress создаёт адрес; все поля обязательны.
func NewAddress(street string, number int, zip, city string) (Address, error) {
	if street == "" || number <= 0 || zip == "" || city == "" {
		return Address{}, ErrAddressInvalid
	}
	return Address{street: street, number: number, zip: zip, city: city}, nil
}

func (a Address) Street() string { return a.street }
func (a Address) Number() int    { return a.number }
func (a Address) Zip() string    { return a.zip }
func (a Address) City() string   { return a.city }

func (a Address) String() string {
	return fmt.Sprintf("%s, %d, %s %s", a.street, a.number, a.zip, a.city)
}

// Customer — клиент, оформляющий заказы.
type Customer struct {
	id           string
	name         string
	address      *Address
	active       bool
	rewardPoints int
}

// NewCustomer создаёт неактивного клиента без адреса.
func NewCustomer(id, name string) (*Customer, error) {
	c := &Customer{id: id, name: name}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate проверяет инварианты клиента.
func (c *Customer) Validate() error {
	if c.id == "" {
		return ErrCustomerIDRequired
	}
	if c.name == "" {
		return ErrCustomerNameRequired
	}
	return nil
}

func (c *Customer) ID() string        { return c.id }
func (c *Customer) Name() string      { return c.name }
func (c *Customer) IsActive() bool    { return c.active }
func (c *Customer) RewardPoints() int { return c.rewardPoints }

// Address возвращает адрес и признак его наличия.
func (c *Customer) Address() (Address, bool) {
	if c.address == nil {
		return Address{}, false
	}
	return *c.address, true
}

func (c *Customer) ChangeName(name string) error {
	if name == "" {
		return ErrCustomerNameRequired
	}
	c.name = name
	return nil
}

func (c *Customer) ChangeAddress(address Address) {
	c.address = &address
}

// Activate активирует клиента; без адреса активация запрещена.
func (c *Customer) Activate() error {
	if c.address == nil {
		return ErrCustomerAddressRequired
	}
	c.active = true
	return nil
}

func (c *Customer) Deactivate() {
	c.active = false
}

func (c *Customer) AddRewardPoints(points int) error {
	if points < 0 {
		return ErrRewardPointsNegative
	}
	c.rewardPoints += points
	return nil
}
