package bank

// Identity holds the personal identification data of a customer.
// It is written once at registration and never changed.
type Identity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
}

// Customer is a registered bank customer: an identity, an address and the
// ordered set of accounts the customer owns. The account pointers are
// non-owning references into the bank's registry; the bank links and relinks
// them, customers never create accounts themselves.
type Customer struct {
	identity Identity
	address  string
	accounts []*Account
}

func newCustomer(identity Identity, address string) *Customer {
	return &Customer{identity: identity, address: address}
}

// Identity returns the customer's immutable identity record.
func (c *Customer) Identity() Identity {
	return c.identity
}

// Address returns the customer's registered address.
func (c *Customer) Address() string {
	return c.address
}

// Accounts returns the customer's accounts in the order they were linked.
// The slice is a copy; the accounts themselves are live references.
func (c *Customer) Accounts() []*Account {
	out := make([]*Account, len(c.accounts))
	copy(out, c.accounts)
	return out
}

// FindAccount returns the customer's account with the given number, if the
// customer owns one.
func (c *Customer) FindAccount(number int) (*Account, bool) {
	for _, a := range c.accounts {
		if a.number == number {
			return a, true
		}
	}
	return nil, false
}

func (c *Customer) addAccount(a *Account) {
	c.accounts = append(c.accounts, a)
}
