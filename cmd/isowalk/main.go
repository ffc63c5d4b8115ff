package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/s0up4200/go-isowalk/internal/fs"
	"github.com/s0up4200/go-isowalk/internal/iso9660"
	"github.com/s0up4200/go-isowalk/internal/report"
	"github.com/s0up4200/go-isowalk/internal/settings"
)

var version = "dev"

const repoSlug = "s0up4200/go-isowalk"

type rootOptions struct {
	reportFile  string
	stdout      bool
	maxDepth    int
	skipErrors  bool
	long        bool
	bytes       bool
	keepVersion bool
	all         bool
	match       string
	subPath     string
	verbose     bool
	selfUpdate  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "isowalk <image>",
		Short:         "List and extract ISO 9660 images without mounting them.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetOutput(cmd.ErrOrStderr())
			if opts.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, opts)
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update isowalk",
		Long:  "Update isowalk to latest version (release builds only).",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelfUpdate(cmd.Context())
		},
		DisableFlagsInUseLine: true,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "isowalk version: %s\n", version)
			return nil
		},
		DisableFlagsInUseLine: true,
	}

	lsCmd := &cobra.Command{
		Use:   "ls <image> [path]",
		Short: "List one directory of the image",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLs(cmd, args, opts)
		},
	}

	catCmd := &cobra.Command{
		Use:   "cat <image> <path>",
		Short: "Write a file from the image to stdout",
		Args:  cobra.ExactArgs(2),
		RunE:  runCat,
	}

	extractCmd := &cobra.Command{
		Use:   "extract <image> <dest>",
		Short: "Extract the image tree into a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify <image> <dir>",
		Short: "Compare the image tree against a directory on disk",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args, opts)
		},
	}

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVarP(&opts.long, "long", "l", false, "Show size, recording time and extent location")
	pf.BoolVar(&opts.bytes, "bytes", false, "Show sizes in bytes instead of human readable units")
	pf.BoolVar(&opts.keepVersion, "keep-version", false, "Show file identifiers with their ;N version suffix")

	rootCmd.Flags().StringVarP(&opts.reportFile, "reportfilename", "o", "", "The report filename with extension")
	rootCmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Write report to stdout")
	rootCmd.Flags().IntVarP(&opts.maxDepth, "max-depth", "d", 0, "Descend at most this many levels (0 = unlimited)")
	rootCmd.Flags().BoolVar(&opts.skipErrors, "skip-errors", false, "Report unreadable directories and keep going")
	rootCmd.Flags().BoolVar(&opts.selfUpdate, "self-update", false, "Update isowalk to latest version (release builds only)")

	lsCmd.Flags().BoolVarP(&opts.all, "all", "a", false, "Include the . and .. entries")
	extractCmd.Flags().StringVar(&opts.subPath, "path", "/", "Directory inside the image to extract")
	verifyCmd.Flags().StringVar(&opts.match, "match", "", "Only compare files matching this pattern (e.g. \"*.TXT\")")

	rootCmd.AddCommand(updateCmd, versionCmd, lsCmd, catCmd, extractCmd, verifyCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "isowalk: %s\n", err.Error())
		os.Exit(1)
	}
}

// buildSettings applies flags the user set on top of the defaults.
func buildSettings(cmd *cobra.Command, opts *rootOptions) settings.Settings {
	cwd, _ := os.Getwd()
	s := settings.Default(cwd)

	flags := cmd.Flags()
	if flags.Changed("max-depth") {
		s.MaxDepth = opts.maxDepth
	}
	if flags.Changed("skip-errors") {
		s.SkipErrors = opts.skipErrors
	}
	if flags.Changed("long") {
		s.Long = opts.long
	}
	if flags.Changed("bytes") {
		s.HumanSizes = !opts.bytes
	}
	if flags.Changed("keep-version") {
		s.StripVersion = !opts.keepVersion
	}
	if flags.Changed("all") {
		s.ShowDotEntries = opts.all
	}
	if opts.reportFile != "" {
		s.ReportFileName = opts.reportFile
	}
	if opts.stdout {
		s.ReportFileName = "-"
	}
	return s
}

func runRoot(cmd *cobra.Command, args []string, opts *rootOptions) error {
	if opts.selfUpdate {
		return runSelfUpdate(cmd.Context())
	}
	if len(args) != 1 {
		return errors.New("an image path is required")
	}

	s := buildSettings(cmd, opts)
	img, err := iso9660.OpenFile(args[0])
	if err != nil {
		return err
	}
	defer img.Close()

	logrus.WithFields(logrus.Fields{
		"image": args[0],
		"label": img.VolumeLabel(),
	}).Debug("opened image")

	reportPath, err := report.WriteReport("", img, s)
	if err != nil {
		return err
	}
	if reportPath != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "Report written: %s\n", reportPath)
	}
	return nil
}

func runLs(cmd *cobra.Command, args []string, opts *rootOptions) error {
	s := buildSettings(cmd, opts)
	img, err := iso9660.OpenFile(args[0])
	if err != nil {
		return err
	}
	defer img.Close()

	target := "/"
	if len(args) == 2 {
		target = args[1]
	}
	entry, err := img.Lookup(target)
	if err != nil {
		return err
	}
	if dir, ok := entry.(*iso9660.Directory); ok {
		return report.WriteDirectory(cmd.OutOrStdout(), dir, s)
	}
	// a file lists as itself
	return report.WriteEntry(cmd.OutOrStdout(), entry, s)
}

func runCat(cmd *cobra.Command, args []string) error {
	img, err := iso9660.OpenFile(args[0])
	if err != nil {
		return err
	}
	defer img.Close()

	entry, err := img.Lookup(args[1])
	if err != nil {
		return err
	}
	file, ok := entry.(*iso9660.File)
	if !ok {
		return fmt.Errorf("%s is a directory", args[1])
	}
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	_, err = io.Copy(cmd.OutOrStdout(), rc)
	return err
}

func runExtract(cmd *cobra.Command, args []string, opts *rootOptions) error {
	iso := fs.NewISOFileSystem()
	if err := iso.Mount(args[0]); err != nil {
		return err
	}
	defer iso.Unmount()

	src, err := iso.GetDirectoryInfo(opts.subPath)
	if err != nil {
		return err
	}
	n, err := fs.Extract(src, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d files to %s\n", n, args[1])
	return nil
}

func runVerify(cmd *cobra.Command, args []string, opts *rootOptions) error {
	iso := fs.NewISOFileSystem()
	if err := iso.Mount(args[0]); err != nil {
		return err
	}
	defer iso.Unmount()

	info, err := os.Stat(args[1])
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", args[1])
	}

	diffs, err := fs.Compare(iso, fs.NewDiskFileSystem(args[1]), opts.match)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, d := range diffs {
		fmt.Fprintln(out, d.String())
	}
	if len(diffs) > 0 {
		return fmt.Errorf("%d differences between %s and %s", len(diffs), args[0], args[1])
	}
	fmt.Fprintf(out, "%s matches %s\n", iso.GetVolumeLabel(), args[1])
	return nil
}

func runSelfUpdate(ctx context.Context) error {
	if version == "" || version == "dev" {
		return errors.New("self-update is only available in release builds")
	}

	if _, err := semver.ParseTolerant(version); err != nil {
		return fmt.Errorf("could not parse version: %w", err)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return fmt.Errorf("error occurred while detecting version: %w", err)
	}
	if !found {
		return fmt.Errorf("latest version for %s/%s could not be found from github repository", repoSlug, version)
	}

	if latest.LessOrEqual(version) {
		fmt.Printf("Current binary is the latest version: %s\n", version)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("error occurred while updating binary: %w", err)
	}

	fmt.Printf("Successfully updated to version: %s\n", latest.Version())
	return nil
}
