package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-mepflow/pkg/classify"
	"github.com/dd0wney/cluso-mepflow/pkg/connectivity"
	"github.com/dd0wney/cluso-mepflow/pkg/dialog"
	"github.com/dd0wney/cluso-mepflow/pkg/export"
	"github.com/dd0wney/cluso-mepflow/pkg/geo"
	"github.com/dd0wney/cluso-mepflow/pkg/graph"
)

func findCmd(global *globalOptions) *cobra.Command {
	var skipAccessories bool

	cmd := &cobra.Command{
		Use:   "find <unique-id>",
		Short: "Look up one element by unique id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, global)
			if err != nil {
				return err
			}
			defer a.close()

			skip := a.cfg.Export.SkipAccessories
			if cmd.Flags().Changed("skip-accessories") {
				skip = skipAccessories
			}

			doc, err := a.loadSnapshot()
			if err != nil {
				return err
			}
			resolver, err := a.buildResolver(doc)
			if err != nil {
				return err
			}
			projection, err := a.projection(doc)
			if err != nil {
				return err
			}

			uid := strings.TrimSpace(args[0])
			idx, err := resolver.Graph().Lookup(uid)
			if err != nil {
				return fmt.Errorf("%s: %w", dialog.NotFoundBody, err)
			}

			body, err := describe(resolver, projection, idx, skip)
			if err != nil {
				return err
			}
			return dialog.Show(a.out, dialog.Info(dialog.FindTitle, body))
		},
	}

	cmd.Flags().BoolVar(&skipAccessories, "skip-accessories", false, "Resolve connections through fittings & accessories")

	return cmd
}

// describe renders the identity, points and connectivity of one element
func describe(resolver *connectivity.Resolver, projection geo.Projection, idx graph.NodeIndex, skip bool) (string, error) {
	node := resolver.Graph().Node(idx)
	el := &node.Element
	id := export.IdentityOf(el)

	var b strings.Builder
	fmt.Fprintf(&b, "ElementId: %d\n", el.ID)
	fmt.Fprintf(&b, "UniqueId:  %s\n", id.UniqueID)
	fmt.Fprintf(&b, "Category:  %s\n", id.Category)
	fmt.Fprintf(&b, "Name:      %s\n", id.Name)

	if node.Fault != nil {
		fmt.Fprintf(&b, "\nFault: %v", node.Fault)
		return b.String(), nil
	}

	records, err := projection.Records(el)
	if err != nil {
		return "", err
	}
	for _, p := range records {
		fmt.Fprintf(&b, "\n%-8s E %.4f N %.4f Z %.4f  lat %.8f lon %.8f",
			p.Label, p.EastingM, p.NorthingM, p.ElevationM, p.LatDeg, p.LonDeg)
	}

	res, err := resolver.ResolveNode(idx, skip)
	if err != nil {
		return "", err
	}
	if res.IsEmpty() {
		b.WriteString("\n\nNo connected equipment")
		return b.String(), nil
	}
	b.WriteString("\n")
	for _, c := range classify.All {
		in, out := res.In(c), res.Out(c)
		if len(in) == 0 && len(out) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%-10s in: %s  out: %s", c,
			strings.Join(in, export.ListSeparator), strings.Join(out, export.ListSeparator))
	}
	return b.String(), nil
}
