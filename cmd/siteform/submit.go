package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-siteform/pkg/i18n"
	"github.com/goliatone/go-siteform/pkg/prompt"
	"github.com/goliatone/go-siteform/pkg/submit"
	"github.com/goliatone/go-siteform/pkg/validation"
)

// newDriver is replaced in tests.
var newDriver = terminalDriver

// terminalDriver prompts on the command's streams when they are files, and on
// the process terminal otherwise.
func terminalDriver(cmd *cobra.Command) prompt.Driver {
	in, inOK := cmd.InOrStdin().(terminal.FileReader)
	out, outOK := cmd.OutOrStdout().(terminal.FileWriter)
	if inOK && outOK {
		return prompt.NewSurveyDriverIO(in, out, cmd.ErrOrStderr())
	}
	return prompt.NewSurveyDriver()
}

func newSubmitCmd(e *env) *cobra.Command {
	var honeypotValue string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Fill in the contact form in the terminal and post it",
		Long: `Asks for every contact field, validates each answer with the same rules
as the site and posts the payload to --endpoint.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := e.cfg
			if u, err := url.Parse(cfg.Endpoint); err != nil || !u.IsAbs() {
				return fmt.Errorf("submit: endpoint %q must be an absolute URL", cfg.Endpoint)
			}
			validator := validation.New(
				validation.WithLocalizer(i18n.NewLocalizer(i18n.Default(), cfg.Locale)),
				validation.WithMessageMinLength(cfg.MessageMinLength),
			)
			client := &http.Client{Timeout: cfg.Timings.RequestTimeout.Std()}
			transport := submit.NewHTTPTransport(submit.WithHTTPClient(client))
			session := prompt.NewSession(newDriver(cmd), cfg.Fields,
				prompt.WithValidator(validator),
				prompt.WithTransport(transport),
				prompt.WithEndpoint(cfg.Endpoint),
				prompt.WithHoneypot(cfg.HoneypotField, honeypotValue),
				prompt.WithLogger(e.logger.WithComponent("submit")),
			)

			report, err := session.Run(cmd.Context())
			if err != nil {
				if errors.Is(err, prompt.ErrAborted) {
					return nil
				}
				return err
			}
			if report.Skipped || report.Result.OK() {
				return nil
			}
			return fmt.Errorf("submit: %s", report.Result.Outcome)
		},
	}
	flags := cmd.Flags()
	flags.String("endpoint", "", "absolute URL of the contact endpoint")
	flags.Duration("timeout", 0, "request timeout (0 waits indefinitely)")
	flags.StringVar(&honeypotValue, "honeypot-value", "", "fill the honeypot field (nothing is sent)")
	bindFlags(e.v, flags, map[string]string{
		"endpoint": "endpoint",
		"timeout":  "timeout",
	})
	return cmd
}
