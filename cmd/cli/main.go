// Command cli is an interactive console front end for the bank. It only
// drives the core operations and prints their results; every rule lives in
// the bank package.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rfmoraes/minibank/internal/bank"
	"github.com/rfmoraes/minibank/internal/bootstrap"
	"github.com/rfmoraes/minibank/internal/storage"
)

func main() {
	dataFile := os.Getenv("DATA_FILE")
	if dataFile == "" {
		dataFile = "bank_data.json"
	}

	ctx := context.Background()
	store := storage.NewJSONStore(dataFile)
	b := bank.New()
	bootstrap.Initialize(ctx, store, b)

	app := &cli{bank: b, store: store, in: bufio.NewScanner(os.Stdin)}
	app.run(ctx)
}

type cli struct {
	bank          *bank.Bank
	store         storage.Store
	in            *bufio.Scanner
	authenticated *bank.Customer
}

func (c *cli) run(ctx context.Context) {
	for {
		var option string
		if c.authenticated != nil {
			c.printOperationsMenu()
			option = c.prompt("=> Select an option: ")

			switch option {
			case "4":
				c.deposit()
			case "5":
				c.withdraw()
			case "6":
				c.statement()
			case "7":
				c.authenticated = nil
				fmt.Println("Returning to the main menu.")
			case "0":
				c.quit(ctx)
				return
			default:
				fmt.Println("Invalid option, please try again.")
			}
		} else {
			c.printMainMenu()
			option = c.prompt("=> Select an option: ")

			switch option {
			case "1":
				c.register()
			case "2":
				c.authenticate()
			case "3":
				c.openAccount()
			case "0":
				c.quit(ctx)
				return
			default:
				fmt.Println("Invalid option, please try again.")
			}
		}
	}
}

func (c *cli) printMainMenu() {
	fmt.Println("\n================ MAIN MENU ================")
	fmt.Println("[1] Register customer")
	fmt.Println("[2] Authenticate")
	fmt.Println("[3] Open account")
	fmt.Println("[0] Quit")
	fmt.Println("===========================================")
}

func (c *cli) printOperationsMenu() {
	fmt.Println("\n============= OPERATIONS MENU =============")
	fmt.Println("[4] Deposit")
	fmt.Println("[5] Withdraw")
	fmt.Println("[6] Statement")
	fmt.Println("[7] Back to main menu")
	fmt.Println("[0] Quit")
	fmt.Println("===========================================")
}

func (c *cli) register() {
	id := c.prompt("Personal id: ")
	name := c.prompt("Full name: ")
	birthDate := c.prompt("Birth date (dd/mm/yyyy): ")
	address := c.prompt("Address: ")

	customer, err := c.bank.RegisterCustomer(id, name, birthDate, address)
	if err != nil {
		fmt.Printf("Registration failed: %v\n", err)
		return
	}
	fmt.Printf("Customer %s registered.\n", customer.Identity().Name)
}

func (c *cli) authenticate() {
	id := c.prompt("Personal id: ")

	customer, err := c.bank.Authenticate(id)
	if err != nil {
		fmt.Printf("Authentication failed: %v\n", err)
		return
	}
	if len(customer.Accounts()) == 0 {
		fmt.Println("Authenticated, but no accounts yet. Open an account first.")
		return
	}
	c.authenticated = customer
	fmt.Printf("Welcome, %s.\n", customer.Identity().Name)
}

func (c *cli) openAccount() {
	id := c.prompt("Personal id of the account holder: ")

	customer, ok := c.bank.FindCustomerByID(id)
	if !ok {
		fmt.Println("Customer not found. Register first.")
		return
	}

	account, err := c.bank.OpenAccount(customer)
	if err != nil {
		fmt.Printf("Could not open account: %v\n", err)
		return
	}
	fmt.Printf("Account %d opened for %s.\n", account.Number(), customer.Identity().Name)
}

func (c *cli) deposit() {
	account, ok := c.selectAccount()
	if !ok {
		return
	}
	amount, ok := c.promptAmount("Deposit amount: ")
	if !ok {
		return
	}

	if err := account.Deposit(amount); err != nil {
		fmt.Printf("Deposit failed: %v\n", err)
		return
	}
	fmt.Printf("Deposited %s. New balance: %s\n", amount.StringFixed(2), account.Balance().StringFixed(2))
}

func (c *cli) withdraw() {
	account, ok := c.selectAccount()
	if !ok {
		return
	}
	amount, ok := c.promptAmount("Withdrawal amount: ")
	if !ok {
		return
	}

	if err := account.Withdraw(amount); err != nil {
		fmt.Printf("Withdrawal failed: %v\n", err)
		return
	}
	fmt.Printf("Withdrew %s. New balance: %s\n", amount.StringFixed(2), account.Balance().StringFixed(2))
}

func (c *cli) statement() {
	account, ok := c.selectAccount()
	if !ok {
		return
	}

	fmt.Println("\n--- Statement ---")
	for line := range account.Ledger().Statement() {
		fmt.Println(line)
	}
	fmt.Println("-----------------")
}

// selectAccount asks for an account number and resolves it within the
// authenticated customer's own accounts.
func (c *cli) selectAccount() (*bank.Account, bool) {
	raw := c.prompt("Account number: ")
	number, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Println("Invalid account number.")
		return nil, false
	}

	account, ok := c.authenticated.FindAccount(number)
	if !ok {
		fmt.Println("No such account for this customer.")
		return nil, false
	}
	return account, true
}

func (c *cli) quit(ctx context.Context) {
	if err := c.store.Save(ctx, c.bank.Snapshot()); err != nil {
		fmt.Printf("Could not save data: %v\n", err)
	} else {
		fmt.Println("Data saved.")
	}
	fmt.Println("Goodbye!")
}

func (c *cli) prompt(label string) string {
	fmt.Print(label)
	if !c.in.Scan() {
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

func (c *cli) promptAmount(label string) (decimal.Decimal, bool) {
	raw := c.prompt(label)
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		fmt.Println("Invalid amount, please enter a number.")
		return decimal.Decimal{}, false
	}
	return amount, true
}
