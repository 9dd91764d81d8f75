package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wippyai/oci-wasm/errors"
	"github.com/wippyai/oci-wasm/registry"
)

type pushOptions struct {
	Author      string
	Module      bool
	Annotations []string
}

func newPushCommand() *cobra.Command {
	opts := pushOptions{}
	cmd := &cobra.Command{
		Use:   "push <file> <reference>",
		Short: "Push a component or core module to an OCI registry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Author = resolveString(cmd, opts.Author, "author", "author")
			return runPush(cmd, args[0], args[1], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Author, "author", "", "Author recorded in the config")
	cmd.Flags().BoolVar(&opts.Module, "module", false, "Treat the file as a core wasm module")
	cmd.Flags().StringArrayVar(&opts.Annotations, "annotation", nil, "Manifest annotation key=value (repeatable)")
	return cmd
}

func runPush(cmd *cobra.Command, path, reference string, opts pushOptions) error {
	annotations, err := parseAnnotations(opts.Annotations)
	if err != nil {
		return err
	}
	cfg, layer, err := buildConfig(cmd.Context(), path, opts.Author, opts.Module)
	if err != nil {
		return err
	}

	client, ref, err := registry.NewRemote(reference, registryOptions())
	if err != nil {
		return err
	}
	resp, err := client.Push(cmd.Context(), ref, layer, cfg, annotations)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s@%s\n", reference, resp.ManifestDigest)
	return nil
}

func parseAnnotations(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("annotation %q is not key=value", pair))
		}
		out[key] = value
	}
	return out, nil
}

func registryOptions() registry.Options {
	return registry.Options{
		Username:  viper.GetString("registry.username"),
		Password:  viper.GetString("registry.password"),
		PlainHTTP: viper.GetBool("registry.plain_http"),
	}
}
