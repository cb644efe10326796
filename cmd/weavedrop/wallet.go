package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/weavedrop/weavedrop-go/wallet"
)

var (
	walletBits  int
	walletForce bool
)

func init() {
	walletInitCmd.Flags().IntVar(&walletBits, "bits", wallet.DefaultBits, "RSA key size in bits")
	walletRestoreCmd.Flags().IntVar(&walletBits, "bits", wallet.DefaultBits, "RSA key size in bits")
	walletInitCmd.Flags().BoolVarP(&walletForce, "force", "f", false, "overwrite an existing wallet")
	walletRestoreCmd.Flags().BoolVarP(&walletForce, "force", "f", false, "overwrite an existing wallet")

	walletCmd.AddCommand(walletInitCmd)
	walletCmd.AddCommand(walletBackupCmd)
	walletCmd.AddCommand(walletRestoreCmd)
	rootCmd.AddCommand(walletCmd)
}

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage the signing wallet",
}

// walletPath returns the wallet file location for the active settings.
func walletPath() (string, error) {
	cfg, err := loadSettings()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg.DataDir, walletFile), nil
}

var walletInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a mnemonic-backed wallet",
	Long: `Generates a new wallet from a fresh 24-word mnemonic and saves it. The
mnemonic is printed once and also stored inside the wallet file; write it
down to be able to restore the wallet on another machine.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := walletPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !walletForce {
			return fmt.Errorf("wallet already exists at %s (use --force to overwrite)", path)
		}

		s, cleanup := startSpinner("Generating wallet key...")
		defer cleanup()

		w, err := wallet.GenerateFromMnemonic(walletBits)
		if err != nil {
			s.FinalMSG = color.RedString("✗") + " Key generation failed"
			return err
		}
		if err := w.Save(path); err != nil {
			s.FinalMSG = color.RedString("✗") + " Could not save wallet"
			return err
		}

		s.FinalMSG = color.GreenString("✓") + " Wallet created\n" +
			"  address: " + w.Address() + "\n" +
			"  file:    " + path + "\n\n" +
			"  " + color.YellowString("Recovery mnemonic (write it down, it is shown on demand via 'wallet backup'):") + "\n" +
			"  " + w.Mnemonic
		return nil
	},
}

var walletBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Show the wallet's recovery mnemonic",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := walletPath()
		if err != nil {
			return err
		}
		w, err := wallet.Load(path)
		if err != nil {
			return err
		}
		if w.Mnemonic == "" {
			return fmt.Errorf("%w: back up the wallet file itself: %s", wallet.ErrNoMnemonic, path)
		}

		cmd.Println("address: " + w.Address())
		cmd.Println()
		cmd.Println(color.YellowString("Recovery mnemonic (anyone holding it controls the wallet):"))
		cmd.Println(w.Mnemonic)
		return nil
	},
}

var walletRestoreCmd = &cobra.Command{
	Use:   "restore <mnemonic words...>",
	Short: "Restore a wallet from its recovery mnemonic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := walletPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !walletForce {
			return fmt.Errorf("wallet already exists at %s (use --force to overwrite)", path)
		}

		mnemonic := strings.ToLower(strings.Join(args, " "))
		if !wallet.ValidateMnemonic(mnemonic) {
			return wallet.ErrInvalidMnemonic
		}

		s, cleanup := startSpinner("Deriving wallet key...")
		defer cleanup()

		w, err := wallet.Restore(mnemonic, walletBits)
		if err != nil {
			s.FinalMSG = color.RedString("✗") + " Restore failed"
			return err
		}
		if err := w.Save(path); err != nil {
			s.FinalMSG = color.RedString("✗") + " Could not save wallet"
			return err
		}

		s.FinalMSG = color.GreenString("✓") + " Wallet restored\n" +
			"  address: " + w.Address() + "\n" +
			"  file:    " + path
		return nil
	},
}
