package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "data")
	b := filepath.Join(root, "output", "nested")

	if err := EnsureDirectories(a, "", ".", b); err != nil {
		t.Fatalf("EnsureDirectories() error: %v", err)
	}
	for _, dir := range []string{a, b} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s not created", dir)
		}
	}

	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDirectories(filepath.Join(file, "sub")); err == nil {
		t.Error("expected error creating a directory under a file")
	}
}

func TestEnsureParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.txt")
	if err := EnsureParentDir(path); err != nil {
		t.Fatal(err)
	}
	if !FileExists(filepath.Dir(path)) {
		t.Error("parent directory missing")
	}
	if FileExists(path) {
		t.Error("file should not exist")
	}
}

func TestExpandFileName(t *testing.T) {
	today := time.Now().Format("20060102")

	tests := []struct {
		name    string
		format  string
		params  map[string]string
		want    string
		pattern string
	}{
		{name: "no placeholders", format: "output/sales_report.txt", want: "output/sales_report.txt"},
		{name: "param overrides uuid", format: "out/{uuid}.txt", params: map[string]string{"uuid": "run-7"}, want: "out/run-7.txt"},
		{name: "custom param", format: "out/{region}.txt", params: map[string]string{"region": "North"}, want: "out/North.txt"},
		{name: "random uuid", format: "out/{uuid}.txt", pattern: `^out/[0-9a-f-]{36}\.txt$`},
		{name: "timestamp", format: "r_{timestamp}.txt", pattern: `^r_` + today + `_\d{6}\.txt$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandFileName(tt.format, tt.params)
			if tt.want != "" && got != tt.want {
				t.Errorf("ExpandFileName() = %s, want %s", got, tt.want)
			}
			if tt.pattern != "" && !regexp.MustCompile(tt.pattern).MatchString(got) {
				t.Errorf("ExpandFileName() = %s, want match %s", got, tt.pattern)
			}
			if strings.Contains(got, "{") {
				t.Errorf("unexpanded placeholder in %s", got)
			}
		})
	}
}
