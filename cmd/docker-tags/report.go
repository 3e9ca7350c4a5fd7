package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rangerelf/docker-tags/cmd/docker-tags/report"
	"github.com/rangerelf/docker-tags/hub"
)

type reportOptions struct {
	global *globalOptions
	all    bool
	mode   reportModeFlag
	json   string
}

// reportFlags prepares a collection of CLI flags writing into reportOptions.
func reportFlags(global *globalOptions) (pflag.FlagSet, *reportOptions) {
	opts := reportOptions{
		global: global,
		mode:   reportModeFlag{mode: report.ModeBrief},
	}
	fs := pflag.FlagSet{}
	fs.BoolVar(&opts.all, "all", false, "include the architectures hidden by default")
	fs.Var(&opts.mode, "report", "report to print: brief, detailed, raw or structured")
	fs.StringVar(&opts.json, "json", "", "also stream every raw registry response into `PATH`")
	return fs, &opts
}

func reportCommand(global *globalOptions) *cobra.Command {
	flagSet, opts := reportFlags(global)
	cmd := &cobra.Command{
		Use:   "docker-tags [command options] IMAGE [IMAGE...]",
		Short: "Report the tags published for Docker Hub repositories",
		Long: `Queries the public Docker Hub API for the tags of each IMAGE and prints
one report per repository: every tag with its size and the CPU
architectures it was built for, in the order the registry lists them.`,
		RunE: commandAction(opts.run),
		Example: `docker-tags postgres
docker-tags --report detailed bitnami/postgresql
docker-tags --all --json responses.json postgres mysql`,
	}
	adjustUsage(cmd)
	flags := cmd.Flags()
	flags.AddFlagSet(&flagSet)
	return cmd
}

// reportModeFlag adapts report.Mode to the pflag.Value interface, so that an
// unsupported --report value fails while flags are parsed, before any
// network traffic.
type reportModeFlag struct {
	mode report.Mode
}

func (f *reportModeFlag) String() string {
	return string(f.mode)
}

func (f *reportModeFlag) Set(value string) error {
	mode, err := report.ParseMode(value)
	if err != nil {
		return err
	}
	f.mode = mode
	return nil
}

func (f *reportModeFlag) Type() string {
	return "MODE"
}

func (opts *reportOptions) run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("At least one IMAGE name is required")
	}

	client := hub.Client{}
	if opts.json != "" {
		sink, err := os.Create(opts.json)
		if err != nil {
			return fmt.Errorf("creating the raw response sink: %w", err)
		}
		defer func() {
			if err := sink.Close(); err != nil {
				logrus.Errorf("Closing %s: %v", opts.json, err)
			}
		}()
		client.Sink = sink
	}

	// ^C stops the walk at the next request and exits cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for i, image := range args {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		if err := opts.reportOne(ctx, &client, image, stdout); err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			// A failing repository is part of the report; the remaining
			// arguments still get their turn.
			fmt.Fprintf(stdout, "%s: %v\n", image, err)
		}
	}
	return nil
}

func (opts *reportOptions) reportOne(ctx context.Context, client *hub.Client, image string, stdout io.Writer) error {
	repository, err := hub.ParseRepository(image)
	if err != nil {
		return err
	}
	mode := opts.mode.mode

	if mode == report.ModeRaw {
		// Raw mode forwards the registry's own bytes: no records, no
		// architecture filtering.
		for page, err := range client.TagPages(ctx, repository) {
			if err != nil {
				return err
			}
			if _, err := stdout.Write(page.Raw); err != nil {
				return err
			}
			if _, err := io.WriteString(stdout, "\n"); err != nil {
				return err
			}
		}
		return nil
	}

	records := []report.Record{}
	for tag, err := range client.Tags(ctx, repository) {
		if err != nil {
			return err
		}
		var images []hub.Image
		if mode == report.ModeDetailed {
			if images, err = client.TagImages(ctx, repository, tag.Name); err != nil {
				return err
			}
		}
		records = append(records, report.NewRecord(tag, images))
	}

	records, omitted := report.FilterArchitectures(records, opts.all)
	if len(omitted) > 0 {
		fmt.Fprintf(stdout, "Omitting these architectures: %s\n", strings.Join(omitted, ", "))
	}
	switch mode {
	case report.ModeDetailed:
		return report.WriteDetailed(stdout, image, records)
	case report.ModeStructured:
		return report.WriteStructured(stdout, image, records)
	default:
		return report.WriteBrief(stdout, image, records)
	}
}
