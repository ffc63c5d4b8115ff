package isowalk

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/s0up4200/go-isowalk/internal/iso9660"
	"github.com/s0up4200/go-isowalk/internal/report"
	internalsettings "github.com/s0up4200/go-isowalk/internal/settings"
)

// Stage represents a coarse progress stage for Run.
type Stage string

const (
	StageStarting Stage = "starting"
	StageOpened   Stage = "opened"
	StageListing  Stage = "listing"
	StageDone     Stage = "done"
)

// ProgressEvent is emitted when Run transitions between major phases.
type ProgressEvent struct {
	Stage      Stage
	Path       string
	Label      string
	Elapsed    time.Duration
	OccurredAt time.Time
}

// Settings are library-facing listing controls.
type Settings struct {
	MaxDepth     int
	StripVersion bool
	HumanSizes   bool
	Long         bool
	SkipErrors   bool
}

// DefaultSettings returns library defaults equivalent to CLI defaults.
func DefaultSettings() Settings {
	return fromInternalSettings(internalsettings.Default(""))
}

// Options configure one Run call for a single image.
type Options struct {
	Path       string
	Settings   Settings
	OnProgress func(ProgressEvent)
}

// VolumeInfo contains primary volume descriptor metadata.
type VolumeInfo struct {
	Path       string
	Label      string
	System     string
	SizeBytes  int64
	BlockSize  int
	RootExtent uint32
}

// Result contains structured listing output plus the rendered listing.
type Result struct {
	Volume      VolumeInfo
	Directories int
	Files       int
	TotalSize   int64
	Errors      map[string]string
	Listing     string
}

// Run walks one image and returns the listing. The API does not write
// files; callers own output persistence behavior.
func Run(ctx context.Context, options Options) (Result, error) {
	if options.Path == "" {
		return Result{}, errors.New("path is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	emit(options.OnProgress, ProgressEvent{
		Stage:      StageStarting,
		Path:       options.Path,
		OccurredAt: time.Now(),
	})

	img, err := iso9660.OpenFile(options.Path)
	if err != nil {
		return Result{}, err
	}
	defer img.Close()

	emit(options.OnProgress, ProgressEvent{
		Stage:      StageOpened,
		Path:       options.Path,
		Label:      img.VolumeLabel(),
		Elapsed:    time.Since(start),
		OccurredAt: time.Now(),
	})

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	emit(options.OnProgress, ProgressEvent{
		Stage:      StageListing,
		Path:       options.Path,
		Label:      img.VolumeLabel(),
		OccurredAt: time.Now(),
	})

	var b strings.Builder
	sum, err := report.WriteListing(&b, img, toInternalSettings(options.Settings))
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Volume:      buildVolumeInfo(options.Path, img),
		Directories: sum.Directories,
		Files:       sum.Files,
		TotalSize:   sum.TotalSize,
		Errors:      make(map[string]string, len(sum.Errors)),
		Listing:     b.String(),
	}
	for p, err := range sum.Errors {
		result.Errors[p] = err.Error()
	}

	emit(options.OnProgress, ProgressEvent{
		Stage:      StageDone,
		Path:       options.Path,
		Label:      img.VolumeLabel(),
		Elapsed:    time.Since(start),
		OccurredAt: time.Now(),
	})

	return result, nil
}

func emit(cb func(ProgressEvent), event ProgressEvent) {
	if cb != nil {
		cb(event)
	}
}

func buildVolumeInfo(path string, img *iso9660.Image) VolumeInfo {
	vol := img.Volume()
	return VolumeInfo{
		Path:       path,
		Label:      vol.VolumeIdentifier,
		System:     vol.SystemIdentifier,
		SizeBytes:  int64(vol.VolumeSpaceSize) * int64(vol.LogicalBlockSize),
		BlockSize:  int(vol.LogicalBlockSize),
		RootExtent: vol.Root.ExtentLoc,
	}
}

func fromInternalSettings(s internalsettings.Settings) Settings {
	return Settings{
		MaxDepth:     s.MaxDepth,
		StripVersion: s.StripVersion,
		HumanSizes:   s.HumanSizes,
		Long:         s.Long,
		SkipErrors:   s.SkipErrors,
	}
}

func toInternalSettings(s Settings) internalsettings.Settings {
	return internalsettings.Settings{
		MaxDepth:     s.MaxDepth,
		StripVersion: s.StripVersion,
		HumanSizes:   s.HumanSizes,
		Long:         s.Long,
		SkipErrors:   s.SkipErrors,
	}
}
