package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-mepflow/pkg/dialog"
	"github.com/dd0wney/cluso-mepflow/pkg/export"
	"github.com/dd0wney/cluso-mepflow/pkg/logging"
)

type exportOptions struct {
	skipAccessories bool
	confirm         bool
	legacy          bool
	output          string
	upload          bool
}

func exportCmd(global *globalOptions) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export MEP elements with coordinates and connectivity",
		Long: `Export writes one row per element point with shared coordinates,
an approximate latitude/longitude and the connected equipment per category.

With --skip-accessories fittings and accessories are dropped from the output
and connections are resolved one hop through them. With --legacy a single
Connected_UniqueIDs column replaces the per-category columns.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, global)
			if err != nil {
				return err
			}
			defer a.close()
			return runExport(cmd, a, opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.skipAccessories, "skip-accessories", false, "Skip pipe fittings & accessories (direct connections only)")
	f.BoolVar(&opts.confirm, "confirm", false, "Ask for export options before exporting")
	f.BoolVar(&opts.legacy, "legacy", false, "Write the single Connected_UniqueIDs column")
	f.StringVarP(&opts.output, "output", "o", "", "Output CSV path (.sz for snappy)")
	f.BoolVar(&opts.upload, "upload", false, "Upload the finished file to S3")

	return cmd
}

func runExport(cmd *cobra.Command, a *app, opts *exportOptions) error {
	ctx := cmd.Context()

	skip := a.cfg.Export.SkipAccessories
	if cmd.Flags().Changed("skip-accessories") {
		skip = opts.skipAccessories
	}
	output := a.cfg.Export.FlowOutput
	if opts.output != "" {
		output = opts.output
	}

	variant := export.VariantFlow
	if opts.legacy {
		variant = export.VariantLegacy
	}

	// The options dialog only applies to the flow export
	if variant == export.VariantFlow && (opts.confirm || a.cfg.Export.Confirm) {
		res, err := dialog.Confirm(ctx, a.in, a.out, dialog.NewExportConfirm(skip))
		if err != nil {
			return err
		}
		if !res.Confirmed {
			return fmt.Errorf("export %w", ErrCancelled)
		}
		skip = res.Checked
	}

	doc, err := a.loadSnapshot()
	if err != nil {
		return err
	}
	exp, err := a.exporter(doc)
	if err != nil {
		return err
	}

	sum, err := exp.ExportToFile(ctx, output, export.Options{Variant: variant, SkipAccessories: skip})
	if err != nil {
		return err
	}
	for _, o := range sum.Skipped {
		a.logger.Debug(o.String(), logging.RunID(sum.RunID))
	}

	location, err := a.upload(ctx, sum.Location, opts.upload)
	if err != nil {
		return err
	}

	body := dialog.ExportCompleteBody
	if location != "" {
		body += "\n" + location
	}
	return dialog.Show(a.out, dialog.Completion(dialog.ExportCompleteTitle, body))
}
