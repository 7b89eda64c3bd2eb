package assets

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single column",
			input: "R0001\nR0002\nR0003\n",
			want:  []string{"R0001", "R0002", "R0003"},
		},
		{
			name:  "extra columns ignored",
			input: "R0001,Tripod,shelf 4\nR0002,Camera\n",
			want:  []string{"R0001", "R0002"},
		},
		{
			name:  "blank lines skipped",
			input: "R0001\n\n\nR0002\n\n",
			want:  []string{"R0001", "R0002"},
		},
		{
			name:  "whitespace trimmed",
			input: "  R0001  \n\tR0002\n",
			want:  []string{"R0001", "R0002"},
		},
		{
			name:  "blank first column skipped",
			input: "R0001\n  ,orphan note\nR0002\n",
			want:  []string{"R0001", "R0002"},
		},
		{
			name:  "no trailing newline",
			input: "R0001\nR0002",
			want:  []string{"R0001", "R0002"},
		},
		{
			name:  "ragged rows",
			input: "R0001,a,b,c\nR0002\nR0003,x\n",
			want:  []string{"R0001", "R0002", "R0003"},
		},
		{
			name:  "duplicates preserved",
			input: "R0001\nR0001\n",
			want:  []string{"R0001", "R0001"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "windows line endings",
			input: "R0001\r\nR0002\r\n",
			want:  []string{"R0001", "R0002"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Read() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "barcodes.csv")

	content := "R0001,Tripod\nR0002,Camera\n\nR0003\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"R0001", "R0002", "R0003"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %v, want %v", got, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to open asset file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "barcodes.csv")
	if err := os.WriteFile(path, []byte("R0001\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	t.Setenv("TRAILBULK_TEST_DIR", dir)

	got, err := Load("$TRAILBULK_TEST_DIR/barcodes.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "R0001" {
		t.Errorf("Load() = %v, want [R0001]", got)
	}
}

func TestExpandPath_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	got, err := expandPath("~/barcodes.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(home, "barcodes.csv")
	if got != want {
		t.Errorf("expandPath() = %s, want %s", got, want)
	}
}
