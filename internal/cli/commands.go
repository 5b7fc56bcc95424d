package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dynform/internal/form"
	"dynform/internal/logger"
	"dynform/internal/provider"
	"dynform/internal/schema"
)

// NewRootCmd собирает команды formctl. driver может быть nil — тогда survey.
func NewRootCmd(driver PromptDriver) *cobra.Command {
	var formsDir string

	loadProvider := func() (*provider.Static, error) {
		c, err := provider.Load(formsDir)
		if err != nil {
			return nil, err
		}
		if issues := c.Lint(); len(issues) > 0 {
			return nil, fmt.Errorf("form definitions have %d issues, first: %s", len(issues), issues[0])
		}
		return provider.NewStatic(c), nil
	}

	root := &cobra.Command{
		Use:           "formctl",
		Short:         "Inspect and fill dynamic forms from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&formsDir, "forms", "", "directory with extra form definitions (*.yaml, *.form)")

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List form types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProvider()
			if err != nil {
				return err
			}
			for _, t := range p.Forms(cmd.Context()) {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "show <formType>",
		Short: "Print the field definitions of a form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProvider()
			if err != nil {
				return err
			}
			f, err := p.GetForm(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printForm(cmd.OutOrStdout(), f)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "fill <formType>",
		Short: "Fill a form interactively and print the entry as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProvider()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			sess := form.New(p, form.WithLogger(logger.L))
			if err := sess.SelectFormType(ctx, args[0]); err != nil {
				return err
			}
			d := driver
			if d == nil {
				d = NewSurveyDriver()
			}
			res, err := Fill(ctx, d, sess)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res.Entry)
		},
	})

	return root
}

func printForm(w io.Writer, f schema.Form) {
	fmt.Fprintf(w, "%s\n", f.Type)
	for _, fd := range f.Fields {
		req := ""
		if fd.Required {
			req = " (required)"
		}
		fmt.Fprintf(w, "  %-16s %-9s %s%s\n", fd.Name, fd.Type, fd.DisplayLabel(), req)
		if len(fd.Options) > 0 {
			fmt.Fprintf(w, "  %-16s options: %v\n", "", fd.Options)
		}
	}
}
