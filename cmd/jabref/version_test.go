package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintVersion(t *testing.T) {
	tests := []struct {
		name          string
		version       string
		build         string
		buildTime     string
		expectContain []string
	}{
		{
			name:          "dev build",
			version:       "dev",
			build:         "unknown",
			expectContain: []string{"jabref version dev", "Go version:", "OS/Arch:"},
		},
		{
			name:          "release build with commit",
			version:       "5.15",
			build:         "abc1234",
			buildTime:     "2024-07-10_12:00:00",
			expectContain: []string{"jabref version 5.15", "(build: abc1234)", "[2024-07-10_12:00:00]"},
		},
		{
			name:          "release build without buildtime",
			version:       "6.0--alpha",
			build:         "def5678",
			expectContain: []string{"jabref version 6.0--alpha", "(build: def5678)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origVersion, origBuild, origBuildTime := Version, Build, BuildTime
			defer func() {
				Version, Build, BuildTime = origVersion, origBuild, origBuildTime
			}()
			Version, Build, BuildTime = tt.version, tt.build, tt.buildTime

			var buf bytes.Buffer
			printVersion(&buf)

			for _, want := range tt.expectContain {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("expected output to contain %q, got %q", want, buf.String())
				}
			}
		})
	}
}
