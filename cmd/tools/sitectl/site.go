// cmd/tools/sitectl/site.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	exportsite "site-builder/internal/services/site/export-site"
	generateimage "site-builder/internal/services/site/generate-image"
)

func newImageCmd() *cobra.Command {
	var req generateimage.Request

	cmd := &cobra.Command{
		Use:   "image",
		Short: "Generate a section image with the configured GenAI model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAppConfig()
			if err != nil {
				return err
			}
			gen := generateimage.NewGenerator(generateimage.LoadConfig(cfg), newLogger(cfg))
			result := gen.Generate(cmd.Context(), req)
			if err := printJSON(result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("image generation failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Prompt, "prompt", "", "image prompt (required)")
	cmd.Flags().StringVar(&req.AspectRatio, "aspect", generateimage.DefaultAspectRatio, "aspect ratio: 16:9, 1:1, 4:3, 3:4 or 9:16")
	cmd.Flags().StringVar(&req.SectionKey, "section", "", "section key; replaces images/<section>.png")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		push bool
		repo string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the site, optionally pushing it to GitHub",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAppConfig()
			if err != nil {
				return err
			}
			action := exportsite.ActionExportOnly
			if push {
				action = exportsite.ActionExportAndPush
			}

			exporter := exportsite.NewExporter(exportsite.LoadConfig(cfg), nil, newLogger(cfg))
			out, err := exporter.Run(cmd.Context(), action, repo)
			if err != nil {
				return err
			}
			fmt.Println(out.Message)
			if verbose && out.Output != "" {
				fmt.Println(out.Output)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&push, "push", false, "push the export to GitHub")
	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repository URL, required with --push")
	return cmd
}
