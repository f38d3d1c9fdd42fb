package main

import (
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-mepflow/pkg/dialog"
	"github.com/dd0wney/cluso-mepflow/pkg/export"
	"github.com/dd0wney/cluso-mepflow/pkg/geo"
	"github.com/dd0wney/cluso-mepflow/pkg/logging"
)

type propertiesOptions struct {
	output string
	upload bool
}

func propertiesCmd(global *globalOptions) *cobra.Command {
	opts := &propertiesOptions{}

	cmd := &cobra.Command{
		Use:   "properties",
		Short: "Export the parameter matrix of the visible elements",
		Long: `Properties writes one row per visible element instance and one
column per distinct parameter name. Missing values are left empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, global)
			if err != nil {
				return err
			}
			defer a.close()

			doc, err := a.loadSnapshot()
			if err != nil {
				return err
			}

			output := a.cfg.Export.PropertiesOutput
			if opts.output != "" {
				output = opts.output
			}
			sink, err := export.CreateFile(output)
			if err != nil {
				return err
			}

			exp := export.NewExporter(nil, geo.Projection{}, a.logger, a.metrics)
			rows, err := exp.WritePropertiesTo(cmd.Context(), sink, doc)
			if err != nil {
				return err
			}
			a.logger.Info("property matrix written", logging.Path(sink.Location()), logging.Count(rows))

			location, err := a.upload(cmd.Context(), sink.Location(), opts.upload)
			if err != nil {
				return err
			}

			body := dialog.PropertiesCompleteBody
			if location != "" {
				body += "\n" + location
			}
			return dialog.Show(a.out, dialog.Completion(dialog.PropertiesCompleteTitle, body))
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output CSV path (.sz for snappy)")
	cmd.Flags().BoolVar(&opts.upload, "upload", false, "Upload the finished file to S3")

	return cmd
}
