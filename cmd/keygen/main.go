// Creates a keystore for the local wallet, or re-encrypts an existing one under a new password.
// Usage: go run ./cmd/keygen -out wallet.keystore [-network Testnet]
//
//	go run ./cmd/keygen -rekey wallet.keystore
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/AlexZinkM/restaking-dashboard/internal/config"
	"github.com/AlexZinkM/restaking-dashboard/internal/wallet"
)

func main() {
	out := flag.String("out", "", "path of the keystore to create")
	network := flag.String("network", config.Mainnet.Name, "network label stored in the keystore header")
	rekey := flag.String("rekey", "", "path of an existing keystore to re-encrypt")
	flag.Parse()

	var err error
	switch {
	case *rekey != "":
		err = reencrypt(*rekey)
	case *out != "":
		err = generate(*out, *network)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func generate(path, network string) error {
	password, err := newPassword()
	if err != nil {
		return err
	}
	defer clear(password)

	account, err := wallet.GenerateKeystore(path, network, password)
	if err != nil {
		return err
	}
	fmt.Println(account.Address)
	return nil
}

func reencrypt(path string) error {
	current, err := config.ReadPassword("Current password: ")
	if err != nil {
		return err
	}
	defer clear(current)

	password, err := newPassword()
	if err != nil {
		return err
	}
	defer clear(password)

	return wallet.Reencrypt(path, current, password)
}

// newPassword reads a password twice and checks both entries match
func newPassword() ([]byte, error) {
	password, err := config.ReadPassword("New password: ")
	if err != nil {
		return nil, err
	}
	confirm, err := config.ReadPassword("Repeat password: ")
	if err != nil {
		clear(password)
		return nil, err
	}
	defer clear(confirm)

	if !bytes.Equal(password, confirm) {
		clear(password)
		return nil, fmt.Errorf("passwords do not match")
	}
	return password, nil
}
