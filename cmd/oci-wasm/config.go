package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/oci-wasm/component"
	"github.com/wippyai/oci-wasm/config"
	"github.com/wippyai/oci-wasm/errors"
)

type configOptions struct {
	Author string
	Module bool
	Output string
}

func newConfigCommand() *cobra.Command {
	opts := configOptions{}
	cmd := &cobra.Command{
		Use:   "config <file>",
		Short: "Print the OCI config envelope for a component or core module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Author = resolveString(cmd, opts.Author, "author", "author")
			opts.Output = resolveString(cmd, opts.Output, "output", "output")
			cfg, _, err := buildConfig(cmd.Context(), args[0], opts.Author, opts.Module)
			if err != nil {
				return err
			}
			l := listing{}
			if cfg.Component != nil {
				l = descriptorListing(cfg.Component)
			}
			return writeOutput(cmd.OutOrStdout(), opts.Output, cfg, l)
		},
	}
	cmd.Flags().StringVar(&opts.Author, "author", "", "Author recorded in the config")
	cmd.Flags().BoolVar(&opts.Module, "module", false, "Treat the file as a core wasm module")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", outputJSON, "Output format (json|yaml|table)")
	return cmd
}

// buildConfig reads path and builds its config and layer. Core modules are
// detected from the header even without module.
func buildConfig(ctx context.Context, path, author string, module bool) (*config.WasmConfig, config.Layer, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var authorPtr *string
	if author != "" {
		authorPtr = &author
	}
	if !module {
		data, err := readArtifact(path)
		if err != nil {
			return nil, config.Layer{}, err
		}
		if component.IsCoreModule(data) {
			return config.FromRawModule(ctx, data, authorPtr)
		}
		return config.FromRawComponent(data, authorPtr)
	}
	return config.FromModule(ctx, path, authorPtr)
}

func readArtifact(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read "+path, err)
	}
	return data, nil
}
