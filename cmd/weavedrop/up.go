package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/weavedrop/weavedrop-go/drop"
	"github.com/weavedrop/weavedrop-go/envelope"
)

var (
	upMode        string
	upKey         string
	upNote        string
	upContentType string
	upNoDrive     bool
)

func init() {
	upCmd.Flags().StringVarP(&upMode, "mode", "m", "random", "encryption mode: random, custom, drive, or none")
	upCmd.Flags().StringVarP(&upKey, "key", "k", "", "base64 encryption key (mode custom)")
	upCmd.Flags().StringVar(&upNote, "note", "", "note stored in the local upload history")
	upCmd.Flags().StringVar(&upContentType, "content-type", "", "content type of the upload (default: inferred from the file extension)")
	upCmd.Flags().BoolVar(&upNoDrive, "no-drive", false, "skip drive organization tags")
	rootCmd.AddCommand(upCmd)
}

var upCmd = &cobra.Command{
	Use:   "up [file]",
	Short: "Upload a file (or stdin) and print the share link",
	Long: `Uploads a file to the storage network. With mode random (the default)
the content is encrypted with a fresh key and the printed share link
carries that key in its fragment; anyone holding the full link can
decrypt, nobody else can. With mode none the content is stored as-is.

Reads stdin when no file is given or the file is "-".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}

		content, filename, err := readUploadInput(args)
		if err != nil {
			return err
		}

		mode, err := envelope.ParseMode(upMode)
		if err != nil {
			return err
		}
		var customKey []byte
		if upKey != "" {
			customKey, err = base64.StdEncoding.DecodeString(upKey)
			if err != nil {
				return errors.New("--key is not valid base64")
			}
		}

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = engine.Close() }()

		contentType := upContentType
		if contentType == "" && filename != "" {
			contentType = mime.TypeByExtension(filepath.Ext(filename))
		}

		s, cleanup := startSpinner("Uploading...")
		defer cleanup()

		res, err := engine.Upload(cmd.Context(), &drop.UploadOpts{
			Content:     content,
			ContentType: contentType,
			Filename:    filename,
			Mode:        mode,
			CustomKey:   customKey,
			Note:        upNote,
			NoDrive:     upNoDrive,
		})
		if err != nil {
			s.FinalMSG = color.RedString("✗") + " Upload failed"
			return err
		}

		s.FinalMSG = formatUploadResult(res)
		return nil
	},
}

// readUploadInput loads the upload content from the named file, or from
// stdin when no file (or "-") is given.
func readUploadInput(args []string) (content []byte, filename string, err error) {
	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return content, "", nil
	}

	content, err = os.ReadFile(args[0])
	if err != nil {
		return nil, "", err
	}
	return content, filepath.Base(args[0]), nil
}

// formatUploadResult renders the upload outcome for the terminal. The
// share link is the line users copy; everything else is context.
func formatUploadResult(res *drop.UploadResult) string {
	out := color.GreenString("✓") + fmt.Sprintf(" Uploaded %d bytes\n", res.Size)
	out += "  id:  " + res.ID + "\n"
	out += "  url: " + res.URL + "\n"
	if res.Encrypted {
		out += "\n  " + color.CyanString("Share link (the key travels only in the fragment):") + "\n"
		out += "  " + color.YellowString(res.ShareURL) + "\n"
		out += "\n  " + color.RedString("Anyone with this link can read the content. It cannot be recovered without it.")
	} else {
		out += "\n  " + color.RedString("Stored unencrypted: the content is publicly readable at the URL above.")
	}
	return out
}
