package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/weavedrop/weavedrop-go/resolve"
)

var (
	resolveDNSSEC   bool
	resolveUpstream string
)

func init() {
	resolveCmd.Flags().BoolVar(&resolveDNSSEC, "dnssec", false, "require a DNSSEC-validated answer")
	resolveCmd.Flags().StringVar(&resolveUpstream, "upstream", "", "recursive resolver for DNSSEC queries (host:port)")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <domain | drop:// link>",
	Short: "Resolve a domain's published server origin",
	Long: `Looks up the _weavedrop TXT record of a domain and prints the server
origin it publishes. Given a drop:// short link, prints the full share
URL instead (the fragment, if any, is preserved).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := resolve.DefaultResolver
		if resolveDNSSEC || resolveUpstream != "" {
			resolver = resolve.NewDNSSECResolver(resolveUpstream)
		}

		arg := strings.TrimSpace(args[0])
		if strings.HasPrefix(arg, resolve.Scheme+"://") {
			shareURL, err := resolve.ResolveLink(arg, resolver)
			if err != nil {
				return err
			}
			cmd.Println(shareURL)
			return nil
		}

		origin, err := resolve.ResolveWithResolver(arg, resolver)
		if err != nil {
			return err
		}
		cmd.Println(origin)
		return nil
	},
}
