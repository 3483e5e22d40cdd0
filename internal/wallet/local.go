package wallet

import (
	"bufio"
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/AlexZinkM/restaking-dashboard/internal/client"
	"github.com/AlexZinkM/restaking-dashboard/internal/common"
	"github.com/AlexZinkM/restaking-dashboard/internal/crypto"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"
)

// NodeAPI is the part of the node client the local extension signs through
type NodeAPI interface {
	Account(ctx context.Context, address string) (*client.AccountInfo, error)
	EncodeSubmission(ctx context.Context, tx any) ([]byte, error)
	SubmitTransaction(ctx context.Context, signed any) (*client.PendingTransaction, error)
}

// Approver decides whether a transaction may be signed.
// Returning false makes the extension fail with ErrUserRejected.
type Approver func(ctx context.Context, payload model.TransactionPayload, opts model.TransactionOptions) (bool, error)

// PasswordFunc returns a fresh copy of the keystore password. The extension zeroes it after use.
type PasswordFunc func() ([]byte, error)

// LocalExtension is an Extension backed by an encrypted keystore file.
// The seed is decrypted for each connect and signature and wiped right after.
type LocalExtension struct {
	mu        sync.Mutex
	filePath  string
	node      NodeAPI
	password  PasswordFunc
	approve   Approver
	connected bool
	account   model.Account
}

// NewLocalExtension creates an extension over the keystore at filePath.
// A nil approver signs without asking.
func NewLocalExtension(filePath string, node NodeAPI, password PasswordFunc, approve Approver) *LocalExtension {
	return &LocalExtension{
		filePath: filePath,
		node:     node,
		password: password,
		approve:  approve,
	}
}

// unsignedTransaction is the JSON body of POST /transactions/encode_submission
type unsignedTransaction struct {
	Sender                  string        `json:"sender"`
	SequenceNumber          string        `json:"sequence_number"`
	MaxGasAmount            string        `json:"max_gas_amount"`
	GasUnitPrice            string        `json:"gas_unit_price"`
	ExpirationTimestampSecs string        `json:"expiration_timestamp_secs"`
	Payload                 entryFunction `json:"payload"`
}

type entryFunction struct {
	Type string `json:"type"`
	model.TransactionPayload
}

type ed25519Signature struct {
	Type      string `json:"type"`
	PublicKey string `json:"public_key"`
	Signature string `json:"signature"`
}

// signedTransaction is the JSON body of POST /transactions
type signedTransaction struct {
	unsignedTransaction
	Signature ed25519Signature `json:"signature"`
}

// Connect unlocks the keystore and checks the key matches the stored address
func (e *LocalExtension) Connect(ctx context.Context) (model.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	privateKey, account, err := e.unlock()
	if err != nil {
		return model.Account{}, err
	}
	clear(privateKey)

	e.account = account
	e.connected = true
	return account, nil
}

// Disconnect forgets the account
func (e *LocalExtension) Disconnect(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.connected = false
	e.account = model.Account{}
	return nil
}

// Account returns the connected account
func (e *LocalExtension) Account(ctx context.Context) (model.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.connected {
		return model.Account{}, ErrNotConnected
	}
	return e.account, nil
}

// SignAndSubmitTransaction asks for approval, signs the node-encoded message and submits it
func (e *LocalExtension) SignAndSubmitTransaction(ctx context.Context, payload model.TransactionPayload, opts model.TransactionOptions) (model.TransactionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.connected {
		return model.TransactionResult{}, ErrNotConnected
	}

	if e.approve != nil {
		ok, err := e.approve(ctx, payload, opts)
		if err != nil {
			return model.TransactionResult{}, fmt.Errorf("failed to get approval: %w", err)
		}
		if !ok {
			return model.TransactionResult{}, ErrUserRejected
		}
	}

	privateKey, account, err := e.unlock()
	if err != nil {
		return model.TransactionResult{}, err
	}
	defer clear(privateKey)

	info, err := e.node.Account(ctx, account.Address)
	if err != nil {
		return model.TransactionResult{}, fmt.Errorf("failed to get sequence number: %w", err)
	}

	unsigned := unsignedTransaction{
		Sender:                  account.Address,
		SequenceNumber:          info.SequenceNumber,
		MaxGasAmount:            opts.MaxGasAmount,
		GasUnitPrice:            opts.GasUnitPrice,
		ExpirationTimestampSecs: strconv.FormatInt(opts.ExpirationTimestampSecs, 10),
		Payload: entryFunction{
			Type:               "entry_function_payload",
			TransactionPayload: payload,
		},
	}

	message, err := e.node.EncodeSubmission(ctx, unsigned)
	if err != nil {
		return model.TransactionResult{}, fmt.Errorf("failed to encode transaction: %w", err)
	}

	signature := ed25519.Sign(privateKey, message)

	pending, err := e.node.SubmitTransaction(ctx, signedTransaction{
		unsignedTransaction: unsigned,
		Signature: ed25519Signature{
			Type:      "ed25519_signature",
			PublicKey: account.PublicKey,
			Signature: "0x" + hex.EncodeToString(signature),
		},
	})
	if err != nil {
		return model.TransactionResult{}, fmt.Errorf("failed to submit transaction: %w", err)
	}

	return model.TransactionResult{Hash: pending.Hash}, nil
}

// unlock decrypts the keystore. Caller must clear the returned key.
func (e *LocalExtension) unlock() (ed25519.PrivateKey, model.Account, error) {
	password, err := e.password()
	if err != nil {
		return nil, model.Account{}, err
	}
	defer clear(password)

	header, keyData, err := crypto.DecryptKeystore(e.filePath, password)
	if err != nil {
		return nil, model.Account{}, fmt.Errorf("failed to unlock keystore: %w", err)
	}
	defer clear(keyData.Seed)

	if len(keyData.Seed) != ed25519.SeedSize {
		return nil, model.Account{}, errors.New("invalid seed length")
	}

	privateKey := ed25519.NewKeyFromSeed(keyData.Seed)
	publicKey := privateKey.Public().(ed25519.PublicKey)

	address := DeriveAddress(publicKey)
	if header.Address != "" && common.FormatAddress(header.Address) != address {
		clear(privateKey)
		return nil, model.Account{}, errors.New("private key does not match address")
	}

	return privateKey, model.Account{
		Address:   address,
		PublicKey: "0x" + hex.EncodeToString(publicKey),
	}, nil
}

// TerminalApprover prints the transaction to out and reads a y/n answer from in
func TerminalApprover(in io.Reader, out io.Writer) Approver {
	reader := bufio.NewReader(in)
	var mu sync.Mutex

	return func(ctx context.Context, payload model.TransactionPayload, opts model.TransactionOptions) (bool, error) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Fprintf(out, "\nSign transaction?\n  function: %s\n  arguments: %s\n  max gas: %s at %s octas\n[y/N]: ",
			payload.Function, strings.Join(payload.Arguments, ", "), opts.MaxGasAmount, opts.GasUnitPrice)

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false, fmt.Errorf("failed to read answer: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	}
}
