package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolDesc-Engine/internal/domain/descriptor"
	"github.com/turtacn/MolDesc-Engine/internal/domain/descriptor/preset"
)

func newDescribeCommand() *cobra.Command {
	var ignore3D bool

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "List the standard descriptor set and its requirements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := descriptor.NewRegistry()
			if err := reg.Register(descriptor.Preset(preset.All), descriptor.RegisterOptions{Ignore3D: ignore3D}); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tREQUIRES\tDEPENDS ON")
			for _, d := range reg.Descriptors() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					d.Name(), resultTypeLabel(d), requirementsLabel(d), dependsLabel(d))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&ignore3D, "ignore-3d", false, "hide descriptors requiring 3D coordinates")
	return cmd
}

func resultTypeLabel(d descriptor.Descriptor) string {
	if t := d.ResultType(); t != "" {
		return t
	}
	return "-"
}

func requirementsLabel(d descriptor.Descriptor) string {
	var reqs []string
	if d.RequiresExplicitHydrogens() {
		reqs = append(reqs, "explicit-H")
	}
	if d.RequiresKekulized() {
		reqs = append(reqs, "kekulized")
	}
	if d.Requires3D() {
		reqs = append(reqs, "3D")
	}
	if d.RequiresSingleFragment() {
		reqs = append(reqs, "connected")
	}
	if len(reqs) == 0 {
		return "-"
	}
	return strings.Join(reqs, ",")
}

func dependsLabel(d descriptor.Descriptor) string {
	deps := d.Dependencies()
	if len(deps) == 0 {
		return "-"
	}
	var names []string
	for _, dep := range deps {
		if dep != nil {
			names = append(names, dep.Name())
		}
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
