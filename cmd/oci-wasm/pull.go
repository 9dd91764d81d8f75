package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/oci-wasm/config"
	"github.com/wippyai/oci-wasm/errors"
	"github.com/wippyai/oci-wasm/registry"
)

type pullOptions struct {
	File         string
	ManifestOnly bool
	Output       string
}

func newPullCommand() *cobra.Command {
	opts := pullOptions{}
	cmd := &cobra.Command{
		Use:   "pull <reference>",
		Short: "Pull a wasm artifact and print its config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Output = resolveString(cmd, opts.Output, "output", "output")
			return runPull(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Write the wasm layer to this file")
	cmd.Flags().BoolVar(&opts.ManifestOnly, "manifest-only", false, "Fetch the manifest and config without the layer")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", outputJSON, "Output format (json|yaml|table)")
	return cmd
}

func runPull(cmd *cobra.Command, reference string, opts pullOptions) error {
	if opts.ManifestOnly && opts.File != "" {
		return errors.InvalidInput(errors.PhaseLoad, "--file needs the layer, drop --manifest-only")
	}
	client, ref, err := registry.NewRemote(reference, registryOptions())
	if err != nil {
		return err
	}

	var cfg *config.WasmConfig
	if opts.ManifestOnly {
		_, cfg, _, err = client.PullManifestAndConfig(cmd.Context(), ref)
		if err != nil {
			return err
		}
	} else {
		image, err := client.Pull(cmd.Context(), ref)
		if err != nil {
			return err
		}
		cfg, err = config.Parse(image.Config.Data)
		if err != nil {
			return err
		}
		if opts.File != "" {
			if err := os.WriteFile(opts.File, image.Layers[0].Data, 0o644); err != nil {
				return errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "write "+opts.File)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s)\n", opts.File, image.Layers[0].Digest())
		}
	}

	l := listing{}
	if cfg.Component != nil {
		l = descriptorListing(cfg.Component)
	}
	return writeOutput(cmd.OutOrStdout(), opts.Output, cfg, l)
}
