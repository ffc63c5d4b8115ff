package isowalk

import (
	"context"
	"strings"
	"testing"

	"github.com/s0up4200/go-isowalk/internal/isotest"
)

func TestRun(t *testing.T) {
	p := isotest.Build(t, isotest.Tree{
		Label: "LIBTEST",
		Dirs:  []string{"/A", "/A/B"},
		Files: map[string]string{
			"/ROOT.TXT":  "root",
			"/A/B/C.TXT": "deep file",
		},
	})

	var stages []Stage
	res, err := Run(context.Background(), Options{
		Path:       p,
		Settings:   DefaultSettings(),
		OnProgress: func(ev ProgressEvent) { stages = append(stages, ev.Stage) },
	})
	if err != nil {
		t.Fatalf("Run err: %v", err)
	}
	if res.Volume.Label != "LIBTEST" || res.Volume.BlockSize != 2048 {
		t.Fatalf("volume=%+v", res.Volume)
	}
	if res.Directories != 2 || res.Files != 2 || res.TotalSize != int64(len("root")+len("deep file")) {
		t.Fatalf("dirs=%d files=%d size=%d", res.Directories, res.Files, res.TotalSize)
	}
	if !strings.Contains(res.Listing, "      C.TXT\n") {
		t.Fatalf("listing=%q", res.Listing)
	}
	want := []Stage{StageStarting, StageOpened, StageListing, StageDone}
	if strings.Join(stageNames(stages), ",") != strings.Join(stageNames(want), ",") {
		t.Fatalf("stages=%v want %v", stages, want)
	}
}

func TestRun_Errors(t *testing.T) {
	if _, err := Run(context.Background(), Options{}); err == nil {
		t.Fatalf("Run without path succeeded")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, Options{Path: "x.iso"}); err != context.Canceled {
		t.Fatalf("err=%v want context.Canceled", err)
	}

	if _, err := Run(context.Background(), Options{Path: "missing.iso"}); err == nil {
		t.Fatalf("Run on a missing image succeeded")
	}
}

func stageNames(stages []Stage) []string {
	out := make([]string, len(stages))
	for i, s := range stages {
		out[i] = string(s)
	}
	return out
}
