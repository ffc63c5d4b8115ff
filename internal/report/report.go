package report

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/s0up4200/go-isowalk/internal/iso9660"
	"github.com/s0up4200/go-isowalk/internal/settings"
	"github.com/s0up4200/go-isowalk/internal/util"
)

const productVersion = "0.1.0"

// Summary counts what a listing visited.
type Summary struct {
	Directories int
	Files       int
	TotalSize   int64
	Errors      map[string]error
}

// WriteReport renders the listing of img into the file named by
// settings.ReportFileName, or path when set. "-" writes to stdout.
func WriteReport(path string, img *iso9660.Image, settings settings.Settings) (string, error) {
	reportName := resolveName(settings.ReportFileName, img.VolumeLabel())
	if path != "" {
		reportName = path
	}

	if reportName == "-" {
		_, err := WriteListing(os.Stdout, img, settings)
		return reportName, err
	}

	if _, err := os.Stat(reportName); err == nil {
		backup := fmt.Sprintf("%s.%d", reportName, time.Now().Unix())
		_ = os.Rename(reportName, backup)
	}

	var b strings.Builder
	if _, err := WriteListing(&b, img, settings); err != nil {
		return reportName, err
	}
	return reportName, os.WriteFile(reportName, []byte(b.String()), 0o644)
}

var placeholder = regexp.MustCompile(`\{\d+\}`)

func resolveName(reportName, label string) string {
	if strings.Contains(reportName, "{0}") {
		reportName = strings.ReplaceAll(reportName, "{0}", label)
	} else if placeholder.MatchString(reportName) {
		reportName = placeholder.ReplaceAllString(reportName, label)
	}
	if reportName == "-" {
		return reportName
	}
	ext := filepath.Ext(reportName)
	if ext != ".txt" && ext != ".lst" {
		// No extension or unknown extension - add .txt as default
		reportName += ".txt"
	}
	return reportName
}

// WriteListing writes the volume header followed by the recursive tree of
// img, in on-disc record order.
func WriteListing(w io.Writer, img *iso9660.Image, settings settings.Settings) (Summary, error) {
	vol := img.Volume()
	fmt.Fprintf(w, "%-16s%s\n", "Volume Label:", vol.VolumeIdentifier)
	if vol.SystemIdentifier != "" {
		fmt.Fprintf(w, "%-16s%s\n", "System:", vol.SystemIdentifier)
	}
	volumeBytes := int64(vol.VolumeSpaceSize) * int64(vol.LogicalBlockSize)
	fmt.Fprintf(w, "%-16s%s bytes\n", "Volume Size:", util.FormatNumber(volumeBytes))
	fmt.Fprintf(w, "%-16s%s\n\n", "ISOWalk:", productVersion)

	sum, err := WriteTree(w, img.Root(), settings)
	if err != nil {
		return sum, err
	}

	fmt.Fprintf(w, "\n%d directories, %d files, %s\n",
		sum.Directories, sum.Files, util.FormatFileSize(float64(sum.TotalSize), settings.HumanSizes))
	if len(sum.Errors) > 0 {
		b := &strings.Builder{}
		b.WriteString("WARNING: Listing is incomplete, errors were encountered:\n")
		for _, p := range slices.Sorted(maps.Keys(sum.Errors)) {
			fmt.Fprintf(b, "\n%s\t%s\n", p, sum.Errors[p].Error())
		}
		io.WriteString(w, b.String())
	}
	return sum, nil
}

// WriteTree writes one line per entry below root, indented by depth.
func WriteTree(w io.Writer, root *iso9660.Directory, settings settings.Settings) (Summary, error) {
	sum := Summary{Errors: map[string]error{}}
	err := iso9660.Walk(root, func(p string, entry iso9660.Entry, err error) error {
		if err != nil {
			if !settings.SkipErrors {
				return fmt.Errorf("%s: %w", p, err)
			}
			sum.Errors[p] = err
			logrus.WithField("path", p).WithError(err).Warn("skipping unreadable directory")
			return iso9660.SkipDir
		}
		if p == "/" {
			writeLine(w, 0, "/", entry, settings)
			logDescend(p, entry)
			return nil
		}

		depth := strings.Count(p, "/")
		writeLine(w, depth, displayName(entry, settings), entry, settings)
		if entry.IsDir() {
			sum.Directories++
			if settings.MaxDepth > 0 && depth >= settings.MaxDepth {
				return iso9660.SkipDir
			}
			logDescend(p, entry)
			return nil
		}
		sum.Files++
		sum.TotalSize += entry.Size()
		return nil
	})
	return sum, err
}

func logDescend(p string, dir iso9660.Entry) {
	h := dir.Header()
	logrus.WithFields(logrus.Fields{
		"path":   p,
		"lba":    h.ExtentLoc,
		"length": h.ExtentLength,
	}).Debug("listing directory")
}

// WriteDirectory lists the immediate children of dir.
func WriteDirectory(w io.Writer, dir *iso9660.Directory, settings settings.Settings) error {
	entries, err := dir.Contents()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if sub, ok := entry.(*iso9660.Directory); ok && sub.IsSelfOrParent() && !settings.ShowDotEntries {
			continue
		}
		writeLine(w, 0, displayName(entry, settings), entry, settings)
	}
	return nil
}

// WriteEntry writes the single line listing entry.
func WriteEntry(w io.Writer, entry iso9660.Entry, settings settings.Settings) error {
	_, err := fmt.Fprint(w, formatLine(0, displayName(entry, settings), entry, settings))
	return err
}

func displayName(entry iso9660.Entry, settings settings.Settings) string {
	name := entry.Name()
	if !settings.StripVersion {
		if f, ok := entry.(*iso9660.File); ok {
			name = f.Identifier()
		}
	}
	if entry.IsDir() && name != "/" {
		name += "/"
	}
	return name
}

func writeLine(w io.Writer, depth int, name string, entry iso9660.Entry, settings settings.Settings) {
	io.WriteString(w, formatLine(depth, name, entry, settings))
}

func formatLine(depth int, name string, entry iso9660.Entry, settings settings.Settings) string {
	indent := strings.Repeat("  ", depth)
	if !settings.Long {
		return indent + name + "\n"
	}
	size := "-"
	if !entry.IsDir() {
		size = util.FormatFileSize(float64(entry.Size()), settings.HumanSizes)
	}
	return fmt.Sprintf("%-48s%14s  %-26s  @%d\n", indent+name, size,
		util.FormatTimestamp(entry.ModTime()), entry.Header().ExtentLoc)
}

