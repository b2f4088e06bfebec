package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vhvplatform/react-framework-sub001/internal/errors"
	"github.com/vhvplatform/react-framework-sub001/internal/registry"
)

func remoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Mirror templates to an S3-compatible bucket",
		Long: `Push templates to, and pull them from, the bucket configured under
"remote" in vhv.json (or VHV_REMOTE_* environment variables).
Credentials come from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
AWS_SESSION_TOKEN.

Commands:
  push   Upload a template
  pull   Download a template into the registry
  list   List the templates in the bucket`,
	}

	cmd.AddCommand(
		remotePushCmd(),
		remotePullCmd(),
		remoteListCmd(),
	)

	return cmd
}

func newRemote() (*registry.Remote, error) {
	if !cfg.HasRemote() {
		return nil, errors.New("E502").
			WithDetail("remote.bucket is not set").
			WithSuggestion(`Add "remote": {"bucket": "..."} to vhv.json or set VHV_REMOTE_BUCKET`)
	}
	client := registry.NewS3Client(registry.S3Options{
		Region:          cfg.Remote.Region,
		Endpoint:        cfg.Remote.Endpoint,
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
	})
	return registry.NewRemote(newRegistry(), client, cfg.Remote.Bucket, cfg.Remote.Prefix), nil
}

func remotePushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push <name>",
		Short: "Upload a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remote, err := newRemote()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			n, err := remote.Push(ctx, args[0])
			if err != nil {
				return err
			}
			success("Pushed '%s' (%d files) to s3://%s/%s", args[0], n, cfg.Remote.Bucket, cfg.Remote.Prefix)
			return nil
		},
	}
}

func remotePullCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "pull <name>",
		Short: "Download a template into the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			remote, err := newRemote()
			if err != nil {
				return err
			}
			reg := newRegistry()
			if force && reg.HasTemplate(name) {
				if err := reg.Remove(name); err != nil {
					return err
				}
				info("Removed local '%s'", name)
			}

			ctx, cancel := signalContext()
			defer cancel()

			tmpl, err := remote.Pull(ctx, name)
			if err != nil {
				return err
			}
			success("Pulled '%s' into %s", name, tmpl.Dir())
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing local template")

	return cmd
}

func remoteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the templates in the bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			remote, err := newRemote()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			names, err := remote.RemoteList(ctx)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				info("No templates in s3://%s/%s", cfg.Remote.Bucket, cfg.Remote.Prefix)
				return nil
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	}
}
