package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyCount int

func init() {
	historyCmd.Flags().IntVarP(&historyCount, "count", "n", 20, "number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent uploads, newest first",
	Long: `Lists the local upload history. The history stores ids and links, never
encryption keys: a lost share link cannot be recovered from here.`,
	Args: cobra.NoArgs,
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

		if engine.History == nil {
			return fmt.Errorf("upload history is unavailable")
		}

		entries, err := engine.History.Recent(historyCount)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			cmd.Println("No uploads yet.")
			return nil
		}

		for _, e := range entries {
			marker := color.YellowString("plain")
			if e.Encrypted {
				marker = color.GreenString("enc  ")
			}
			cmd.Printf("%s  %s  %s  %6d B  %s\n",
				e.CreatedAt.Local().Format("2006-01-02 15:04"), marker, e.ID, e.Size, e.Note)
		}
		return nil
	},
}
