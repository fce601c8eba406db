// Command cli is a minimal interactive client: register an account, log in
// and print the ledger overview. Passwords are read without echo.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/finledger/finledger/internal/client/api"
	"github.com/finledger/finledger/internal/common"
	"golang.org/x/term"
)

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label + ": ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label + ": ")
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	password := string(b)
	common.WipeByteArray(b)
	return password, nil
}

func printOverview(categories []api.Category) {
	if len(categories) == 0 {
		fmt.Println("no categories")
		return
	}
	for _, category := range categories {
		fmt.Printf("[%d] %s (permission %d)\n", category.ID, category.Name, category.Permission)
		for _, payment := range category.Payments {
			date := time.UnixMilli(payment.Date).Format("2006-01-02")
			state := "open"
			if payment.Payed {
				state = "payed"
			}
			fmt.Printf("    %s  %8.2f  %s  %s  %s\n", date, payment.Amount, payment.Payer, payment.Name, state)
		}
		if category.IsSplit {
			for _, split := range category.Splits {
				fmt.Printf("    split: %s %.0f%%\n", split.Username, split.Share*100)
			}
		}
	}
}

func main() {
	addr := flag.String("s", "http://localhost:8080", "server address")
	flag.Parse()

	ctx := context.Background()
	client := api.NewClient(*addr)
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("commands: register, login, overview, quit")

	for {
		cmd, err := prompt(reader, "> ")
		if err != nil {
			return
		}

		switch cmd {
		case "register":
			username, err := prompt(reader, "username")
			if err != nil {
				return
			}
			password, err := promptPassword("password")
			if err != nil {
				return
			}
			if err := client.Register(ctx, username, password); err != nil {
				log.Printf("register failed: %v", err)
				continue
			}
			fmt.Println("registered")
		case "login":
			username, err := prompt(reader, "username")
			if err != nil {
				return
			}
			password, err := promptPassword("password")
			if err != nil {
				return
			}
			if err := client.Login(ctx, username, password); err != nil {
				log.Printf("login failed: %v", err)
				continue
			}
			fmt.Println("logged in")
		case "overview":
			categories, err := client.Overview(ctx)
			if err != nil {
				log.Printf("overview failed: %v", err)
				continue
			}
			printOverview(categories)
		case "quit", "exit":
			return
		case "":
		default:
			fmt.Println("unknown command")
		}
	}
}
