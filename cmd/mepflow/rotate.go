package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-mepflow/pkg/dialog"
	"github.com/dd0wney/cluso-mepflow/pkg/geo"
	"github.com/dd0wney/cluso-mepflow/pkg/logging"
)

func rotateCmd(global *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "rotate <degrees>",
		Short: "Rotate the model about the project base point",
		Long: `Rotate turns every model element counter-clockwise about the
vertical axis through the project base point and saves the snapshot.
Use -- before a negative angle: mepflow rotate -s model.json -- -90`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			angle, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
			if err != nil || math.IsNaN(angle) || math.IsInf(angle, 0) {
				return fmt.Errorf("rotation %w: invalid angle %q", ErrCancelled, args[0])
			}

			a, err := newApp(cmd, global)
			if err != nil {
				return err
			}
			defer a.close()

			doc, err := a.loadSnapshot()
			if err != nil {
				return err
			}

			n, err := geo.RotateModel(doc, angle*math.Pi/180)
			if err != nil {
				return err
			}

			target := a.snapshotPath
			if output != "" {
				target = output
			}
			if err := a.loader.Save(target, doc); err != nil {
				return err
			}
			a.logger.Info("model rotated",
				logging.Float64("degrees", angle),
				logging.Count(n),
				logging.Path(target))

			return dialog.Show(a.out, dialog.Completion(dialog.RotateTitle, dialog.RotateBody(angle)))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the rotated snapshot here instead of in place")

	return cmd
}
