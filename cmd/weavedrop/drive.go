package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func init() {
	driveCmd.AddCommand(driveInitCmd)
	driveCmd.AddCommand(driveStatusCmd)
	rootCmd.AddCommand(driveCmd)
}

var driveCmd = &cobra.Command{
	Use:   "drive",
	Short: "Manage the on-network drive that organizes uploads",
}

var driveInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the drive and root folder (no-op if they already exist)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = engine.Close() }()

		existing := engine.Drive.State() != nil

		s, cleanup := startSpinner("Bootstrapping drive...")
		defer cleanup()

		state, err := engine.Bootstrap(cmd.Context())
		if err != nil {
			s.FinalMSG = color.RedString("✗") + " Drive bootstrap failed (uploads still work, untagged)"
			return err
		}

		if existing {
			s.FinalMSG = color.GreenString("✓") + " Drive already exists\n" +
				"  drive id:       " + state.DriveID + "\n" +
				"  root folder id: " + state.RootFolderID
		} else {
			s.FinalMSG = color.GreenString("✓") + " Drive created\n" +
				"  drive id:       " + state.DriveID + "\n" +
				"  root folder id: " + state.RootFolderID
		}
		return nil
	},
}

var driveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the local drive state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = engine.Close() }()

		state := engine.Drive.State()
		if state == nil {
			cmd.Println(color.YellowString("No drive yet.") + " Run " + color.CyanString("weavedrop drive init") + " to create one.")
			return nil
		}

		cmd.Println("drive id:        " + state.DriveID)
		cmd.Println("root folder id:  " + state.RootFolderID)
		cmd.Println("drive tx:        " + state.DriveTxID)
		cmd.Println("root folder tx:  " + state.RootFolderTxID)
		cmd.Println("created at:      " + state.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		if cfg.DriveSecret == "" {
			cmd.Println(color.YellowString("drive mode is disabled: no drive secret configured"))
		}
		return nil
	},
}
