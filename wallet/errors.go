package wallet

import "errors"

var (
	// ErrWalletNotFound indicates no wallet file exists at the given path.
	ErrWalletNotFound = errors.New("wallet: wallet file not found")

	// ErrInvalidWalletFile indicates the wallet file is malformed or holds
	// an unusable key.
	ErrInvalidWalletFile = errors.New("wallet: invalid wallet file")

	// ErrInvalidMnemonic indicates the phrase is not valid BIP39.
	ErrInvalidMnemonic = errors.New("wallet: invalid mnemonic")

	// ErrNoMnemonic indicates the wallet was generated from raw entropy
	// and has no mnemonic backup.
	ErrNoMnemonic = errors.New("wallet: wallet has no mnemonic backup")
)
