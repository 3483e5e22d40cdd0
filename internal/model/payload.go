package model

// TransactionPayload is an entry function call descriptor.
// It is built fresh for every submission and never mutated afterwards.
type TransactionPayload struct {
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []string `json:"arguments"`
}

// TransactionOptions are the gas and expiration settings attached at submission
type TransactionOptions struct {
	MaxGasAmount            string `json:"max_gas_amount"`
	GasUnitPrice            string `json:"gas_unit_price"`
	ExpirationTimestampSecs int64  `json:"expiration_timestamp_secs"`
}

// TransactionResult is what the wallet extension returns after submission
type TransactionResult struct {
	Hash string `json:"hash"`
}
