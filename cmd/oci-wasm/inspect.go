package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wippyai/oci-wasm/capability"
	"github.com/wippyai/oci-wasm/component"
	"github.com/wippyai/oci-wasm/config"
	"github.com/wippyai/oci-wasm/errors"
)

type inspectOptions struct {
	World   string
	Package bool
	Output  string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the capability descriptor of a component, WIT package or core module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Output = resolveString(cmd, opts.Output, "output", "output")
			return runInspect(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.World, "world", "", "Extract a single world of a WIT package")
	cmd.Flags().BoolVar(&opts.Package, "package", false, "Extract the whole WIT package")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", outputJSON, "Output format (json|yaml|table)")
	return cmd
}

func runInspect(cmd *cobra.Command, path string, opts inspectOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.World != "" && opts.Package {
		return errors.InvalidInput(errors.PhaseLoad, "--world and --package are mutually exclusive")
	}

	data, err := readArtifact(path)
	if err != nil {
		return err
	}

	if component.IsCoreModule(data) {
		info, err := config.InspectModule(ctx, data)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), opts.Output, info, listing{Exports: info.Exports, Imports: info.Imports})
	}

	desc, err := describe(ctx, path, data, opts)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), opts.Output, desc, descriptorListing(desc))
}

func describe(ctx context.Context, path string, data []byte, opts inspectOptions) (*capability.Descriptor, error) {
	isJSON := capability.IsJSON(data)
	switch {
	case opts.World != "" && isJSON:
		return capability.FromJSON(data, opts.World)
	case opts.World != "":
		return capability.FromRawWitPackage(data, opts.World)
	case opts.Package && isJSON:
		return capability.FromJSONPackage(data)
	case opts.Package:
		return capability.FromRawPackage(data)
	default:
		return capability.FromFile(ctx, path)
	}
}
