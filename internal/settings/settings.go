package settings

import "path/filepath"

// Settings controls how isowalk renders an image tree.
type Settings struct {
	MaxDepth       int // 0 means unlimited
	ShowDotEntries bool
	StripVersion   bool
	HumanSizes     bool
	Long           bool
	SkipErrors     bool
	ReportFileName string
}

func Default(reportBaseDir string) Settings {
	return Settings{
		MaxDepth:       0,
		ShowDotEntries: false,
		StripVersion:   true,
		HumanSizes:     true,
		Long:           false,
		SkipErrors:     false,
		ReportFileName: filepath.Join(reportBaseDir, "ISOWalk_{0}.txt"),
	}
}
