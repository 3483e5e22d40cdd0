package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: Keystore password is prompted at runtime and stored in memory - use GetKeystorePasswordBytes()
type Config struct {
	Port             string        `envconfig:"PORT" default:"8080"`
	NodeURL          string        `envconfig:"APTOS_NODE_URL" default:"https://fullnode.mainnet.aptoslabs.com/v1"`
	ContractAddress  string        `envconfig:"CONTRACT_ADDRESS" default:"0xc7a1e9b157d5facbb3fbc9b890b1ac059d0e5f31c9e31f4dd41c2ae600aab25b"`
	NodeTimeout      time.Duration `envconfig:"NODE_TIMEOUT" default:"0s"`
	KeystoreFilePath string        `envconfig:"KEYSTORE_FILE_PATH"`
	WalletConfirm    bool          `envconfig:"WALLET_CONFIRM" default:"false"`
	RefreshInterval  time.Duration `envconfig:"REFRESH_INTERVAL" default:"10s"`
	AptPriceUSD      float64       `envconfig:"APT_PRICE_USD" default:"8.5"`
	PriceFeedEnabled bool          `envconfig:"PRICE_FEED_ENABLED" default:"false"`
	CORSOrigins      []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	LogEnvironment   string        `envconfig:"LOG_ENVIRONMENT" default:"development"`
}

// Network is a known Aptos network preset
type Network struct {
	Name      string
	NodeURL   string
	FaucetURL string
}

var (
	Mainnet = Network{Name: "Mainnet", NodeURL: "https://fullnode.mainnet.aptoslabs.com/v1"}
	Testnet = Network{Name: "Testnet", NodeURL: "https://fullnode.testnet.aptoslabs.com/v1", FaucetURL: "https://faucet.testnet.aptoslabs.com"}
	Devnet  = Network{Name: "Devnet", NodeURL: "https://fullnode.devnet.aptoslabs.com/v1", FaucetURL: "https://faucet.devnet.aptoslabs.com"}
)

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Load reads a fresh Config from environment variables without touching the global.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if c.RefreshInterval <= 0 {
		return nil, errors.New("REFRESH_INTERVAL must be positive")
	}
	if c.AptPriceUSD < 0 {
		return nil, errors.New("APT_PRICE_USD must not be negative")
	}
	c.NodeURL = strings.TrimRight(c.NodeURL, "/")
	return c, nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// Network returns the preset matching the configured node URL, Mainnet by default
func (c *Config) Network() Network {
	switch {
	case strings.Contains(c.NodeURL, "mainnet"):
		return Mainnet
	case strings.Contains(c.NodeURL, "testnet"):
		return Testnet
	case strings.Contains(c.NodeURL, "devnet"):
		return Devnet
	}
	return Mainnet
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetNodeURL returns Aptos full node URL from configuration
func GetNodeURL() string {
	return Get().NodeURL
}

// GetContractAddress returns the protocol contract address from configuration
func GetContractAddress() string {
	return Get().ContractAddress
}

// GetKeystoreFilePath returns path to the keystore file from configuration
func GetKeystoreFilePath() string {
	return Get().KeystoreFilePath
}

var passwordBytes []byte

// PromptForPassword prompts the user for the keystore password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	raw, err := ReadPassword("Enter keystore password: ")
	if err != nil {
		return err
	}
	SetKeystorePassword(raw)
	clear(raw)
	return nil
}

// ReadPassword reads a non-empty password from the terminal without echo.
// Caller must zero the returned slice after use.
func ReadPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	return raw, nil
}

// SetKeystorePassword stores a copy of password in memory
func SetKeystorePassword(password []byte) {
	clear(passwordBytes)
	passwordBytes = make([]byte, len(password))
	copy(passwordBytes, password)
}

// GetKeystorePasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetKeystorePasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
