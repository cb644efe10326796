package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/weavedrop/weavedrop-go/resolve"
)

var openOut string

func init() {
	openCmd.Flags().StringVarP(&openOut, "out", "o", "", "write the content to this file instead of stdout")
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <link>",
	Short: "Fetch and decrypt the content behind a share link",
	Long: `Fetches the record a share link points at and decrypts it with the key
from the link's fragment. Accepts full share URLs and drop:// short links
(the domain's _weavedrop TXT record supplies the server origin).

Text content goes to stdout; binary content requires --out.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}

		link := strings.TrimSpace(args[0])
		if strings.HasPrefix(link, resolve.Scheme+"://") {
			resolved, err := resolve.ResolveLink(link, resolve.DefaultResolver)
			if err != nil {
				return err
			}
			link = resolved
		}

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = engine.Close() }()

		s, cleanup := startSpinner("Fetching...")
		defer cleanup()

		res, err := engine.OpenLink(cmd.Context(), link)
		if err != nil {
			s.FinalMSG = color.RedString("✗") + " Open failed"
			return err
		}

		switch {
		case openOut != "":
			if err := os.WriteFile(openOut, res.Data, 0600); err != nil {
				return err
			}
			s.FinalMSG = color.GreenString("✓") + fmt.Sprintf(" Wrote %d bytes to %s", len(res.Data), openOut)
		case res.Text:
			s.FinalMSG = string(res.Data)
		default:
			s.FinalMSG = color.RedString("✗") + fmt.Sprintf(" Content is binary (%d bytes); rerun with --out <file>", len(res.Data))
		}
		return nil
	},
}
