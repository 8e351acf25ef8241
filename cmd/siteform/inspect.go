package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-siteform/pkg/dom"
	"github.com/goliatone/go-siteform/pkg/form"
	"github.com/goliatone/go-siteform/pkg/i18n"
	"github.com/goliatone/go-siteform/pkg/model"
	"github.com/goliatone/go-siteform/pkg/validation"
)

// inspectedForm is one form of an inspected page.
type inspectedForm struct {
	ID       string        `json:"id" yaml:"id"`
	Honeypot bool          `json:"honeypot" yaml:"honeypot"`
	Fields   []model.Field `json:"fields" yaml:"fields"`
}

func newInspectCmd(e *env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "inspect <page.html>",
		Short: "List the required fields of every form on a page",
		Long: `Parses an HTML page and reports, per form, the required fields with
the kind and name-like flag they validate as, and their current validity.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			doc, err := dom.Parse(f)
			if err != nil {
				return err
			}
			forms := inspect(doc, e)
			return writeInspection(cmd.OutOrStdout(), output, forms)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table|json|yaml)")
	return cmd
}

func inspect(doc *dom.Document, e *env) []inspectedForm {
	validator := validation.New(
		validation.WithLocalizer(i18n.NewLocalizer(i18n.Default(), e.cfg.Locale)),
		validation.WithMessageMinLength(e.cfg.MessageMinLength),
	)
	var forms []inspectedForm
	for _, el := range doc.QueryAll(form.FormSelector) {
		var opts []validation.FormOption
		if len(e.cfg.NameFields) > 0 {
			opts = append(opts, validation.WithNameFields(e.cfg.NameFields...))
		}
		fv := validation.NewFormValidator(el, validator, opts...)
		forms = append(forms, inspectedForm{
			ID:       el.ID(),
			Honeypot: el.Query(dom.AttrEquals("name", e.cfg.HoneypotField)) != nil,
			Fields:   fv.State().Fields,
		})
	}
	return forms
}

func writeInspection(w io.Writer, format string, forms []inspectedForm) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(forms)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(forms); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
		fmt.Fprintln(tw, "FORM\tFIELD\tKIND\tNAME-LIKE\tVALID\tMESSAGE")
		for _, f := range forms {
			id := f.ID
			if id == "" {
				id = "-"
			}
			for _, field := range f.Fields {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					id,
					field.Name,
					field.Kind,
					strconv.FormatBool(field.NameLike),
					strconv.FormatBool(field.Validity.Valid),
					field.Validity.Message,
				)
			}
		}
		return tw.Flush()
	default:
		return fmt.Errorf("inspect: unknown output format %q", format)
	}
}
