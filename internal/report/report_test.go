package report

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/go-isowalk/internal/iso9660"
	"github.com/s0up4200/go-isowalk/internal/isotest"
	"github.com/s0up4200/go-isowalk/internal/settings"
)

func sampleTree() isotest.Tree {
	return isotest.Tree{
		Label: "SAMPLE",
		Dirs:  []string{"/DOCS", "/DOCS/DEEP", "/MEDIA"},
		Files: map[string]string{
			"/README.TXT":        "hello",
			"/DOCS/GUIDE.TXT":    "guide text",
			"/DOCS/DEEP/END.TXT": "end",
			"/MEDIA/CLIP.BIN":    strings.Repeat("x", 3000),
		},
	}
}

func openSample(t *testing.T) (*iso9660.Image, string) {
	t.Helper()
	p := isotest.Build(t, sampleTree())
	img, err := iso9660.OpenFile(p)
	require.NoError(t, err)
	t.Cleanup(func() { img.Close() })
	return img, p
}

func TestWriteListing_Tree(t *testing.T) {
	img, _ := openSample(t)
	cfg := settings.Default(t.TempDir())

	var b bytes.Buffer
	sum, err := WriteListing(&b, img, cfg)
	require.NoError(t, err)

	out := b.String()
	require.Contains(t, out, "Volume Label:   SAMPLE\n")
	require.Contains(t, out, "\n  DOCS/\n")
	require.Contains(t, out, "\n    DEEP/\n")
	require.Contains(t, out, "\n      END.TXT\n")
	require.Contains(t, out, "\n    CLIP.BIN\n")
	require.NotContains(t, out, ";1")
	require.Equal(t, 3, sum.Directories)
	require.Equal(t, 4, sum.Files)
	require.Equal(t, int64(5+10+3+3000), sum.TotalSize)
	require.Contains(t, out, "3 directories, 4 files, ")

	// children are listed after their parent
	require.Less(t, strings.Index(out, "DOCS/"), strings.Index(out, "GUIDE.TXT"))
}

func TestWriteListing_Options(t *testing.T) {
	img, _ := openSample(t)
	cfg := settings.Default(t.TempDir())
	cfg.MaxDepth = 1
	cfg.StripVersion = false
	cfg.Long = true
	cfg.HumanSizes = false

	var b bytes.Buffer
	sum, err := WriteListing(&b, img, cfg)
	require.NoError(t, err)

	out := b.String()
	require.Contains(t, out, "README.TXT;1")
	require.NotContains(t, out, "GUIDE.TXT")
	require.Contains(t, out, "5.00 B")
	require.Equal(t, 1, sum.Files)
	require.Equal(t, 2, sum.Directories)
}

func TestWriteListing_LogsDirectories(t *testing.T) {
	img, _ := openSample(t)
	hook := logtest.NewGlobal()
	logrus.SetLevel(logrus.DebugLevel)
	t.Cleanup(func() {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
	})

	listed := func(maxDepth int) []string {
		hook.Reset()
		cfg := settings.Default(t.TempDir())
		cfg.MaxDepth = maxDepth
		_, err := WriteListing(&bytes.Buffer{}, img, cfg)
		require.NoError(t, err)

		var paths []string
		for _, e := range hook.AllEntries() {
			if e.Message != "listing directory" {
				continue
			}
			require.Contains(t, e.Data, "lba")
			require.Contains(t, e.Data, "length")
			paths = append(paths, e.Data["path"].(string))
		}
		sort.Strings(paths)
		return paths
	}

	require.Equal(t, []string{"/", "/DOCS", "/DOCS/DEEP", "/MEDIA"}, listed(0))
	require.Equal(t, []string{"/"}, listed(1))
}

func TestWriteListing_SkipErrors(t *testing.T) {
	img, p := openSample(t)
	docs, err := img.Lookup("/DOCS")
	require.NoError(t, err)
	// an odd record length in the first record of /DOCS
	isotest.Corrupt(t, p, int64(docs.Header().ExtentLoc)*iso9660.SectorSize, []byte{35})

	broken, err := iso9660.OpenFile(p)
	require.NoError(t, err)
	defer broken.Close()

	cfg := settings.Default(t.TempDir())
	var b bytes.Buffer
	_, err = WriteListing(&b, broken, cfg)
	require.ErrorIs(t, err, iso9660.ErrLengthNotEven)
	require.Contains(t, err.Error(), "/DOCS")

	cfg.SkipErrors = true
	b.Reset()
	sum, err := WriteListing(&b, broken, cfg)
	require.NoError(t, err)
	require.Contains(t, sum.Errors, "/DOCS")
	require.Contains(t, b.String(), "WARNING: Listing is incomplete")
	require.Contains(t, b.String(), "CLIP.BIN")
}

func TestWriteDirectory(t *testing.T) {
	img, _ := openSample(t)
	cfg := settings.Default(t.TempDir())

	var b bytes.Buffer
	require.NoError(t, WriteDirectory(&b, img.Root(), cfg))
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, 3)
	require.NotContains(t, b.String(), "./")

	cfg.ShowDotEntries = true
	b.Reset()
	require.NoError(t, WriteDirectory(&b, img.Root(), cfg))
	lines = strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, 5)
	require.Equal(t, "./", lines[0])
	require.Equal(t, "../", lines[1])
}

func TestWriteReport_Name(t *testing.T) {
	img, _ := openSample(t)
	tmpDir := t.TempDir()
	cfg := settings.Default(tmpDir)

	name, err := WriteReport("", img, cfg)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmpDir, "ISOWalk_SAMPLE.txt"), name)

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	require.Contains(t, string(data), "README.TXT")

	// an existing report is kept as a backup
	_, err = WriteReport("", img, cfg)
	require.NoError(t, err)
	matches, err := filepath.Glob(name + ".*")
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestResolveName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "-", want: "-"},
		{in: "out_{0}", want: "out_VOL.txt"},
		{in: "out_{1}.lst", want: "out_VOL.lst"},
		{in: "plain.txt", want: "plain.txt"},
		{in: "report.json", want: "report.json.txt"},
	}
	for _, tt := range tests {
		if got := resolveName(tt.in, "VOL"); got != tt.want {
			t.Fatalf("resolveName(%q)=%q want %q", tt.in, got, tt.want)
		}
	}
}
