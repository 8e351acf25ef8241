package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-siteform/pkg/contact"
)

func newServeCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Serve the contact endpoint and the static site",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := contact.NewServer(e.cfg, e.logger, contact.LogSink{Logger: e.logger.WithComponent("sink")})
			return srv.Run(cmd.Context())
		},
	}
	flags := cmd.Flags()
	flags.String("addr", "", "listen address (default :8080)")
	flags.String("contact-path", "", "path the contact form posts to (default /process.php)")
	flags.String("static-dir", "", "directory with the static site to serve")
	flags.String("honeypot", "", "honeypot field name (default website)")
	bindFlags(e.v, flags, map[string]string{
		"addr":         "server.addr",
		"contact-path": "server.contactpath",
		"static-dir":   "server.staticdir",
		"honeypot":     "honeypot",
	})
	return cmd
}
