package main

import (
	"testing"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    cliFlags
		wantPos []string
		wantErr bool
	}{
		{
			name:    "positional args only",
			args:    []string{"otl2tex", "a.otl", "b.otl"},
			wantPos: []string{"a.otl", "b.otl"},
		},
		{
			name:    "long flags",
			args:    []string{"otl2tex", "--format", "SSN", "--output-dir", "out", "--no-ruby", "a.otl"},
			want:    cliFlags{format: "SSN", outputDir: "out", noRuby: true},
			wantPos: []string{"a.otl"},
		},
		{
			name:    "short flags",
			args:    []string{"otl2tex", "-f", "SN", "-o", "build", "-v", "a.otl"},
			want:    cliFlags{format: "SN", outputDir: "build", verbose: true},
			wantPos: []string{"a.otl"},
		},
		{
			name:    "ruby interpreter and date format",
			args:    []string{"otl2tex", "--ruby", "ruby3.2", "--date-format", "long", "a.otl"},
			want:    cliFlags{ruby: "ruby3.2", dateFormat: "long"},
			wantPos: []string{"a.otl"},
		},
		{
			name:    "rendering toggles",
			args:    []string{"otl2tex", "--show-preliminary", "--no-escape", "a.otl"},
			want:    cliFlags{showPreliminary: true, noEscape: true},
			wantPos: []string{"a.otl"},
		},
		{
			name:    "config by name",
			args:    []string{"otl2tex", "-c", "thesis", "a.otl"},
			want:    cliFlags{config: "thesis"},
			wantPos: []string{"a.otl"},
		},
		{
			name:    "version without positionals",
			args:    []string{"otl2tex", "--version"},
			want:    cliFlags{version: true},
			wantPos: []string{},
		},
		{
			name:    "unknown flag",
			args:    []string{"otl2tex", "--frobnicate"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags, pos, err := parseFlags(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected parse error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFlags error: %v", err)
			}

			if *flags != tt.want {
				t.Errorf("flags = %+v, want %+v", *flags, tt.want)
			}
			if len(pos) != len(tt.wantPos) {
				t.Fatalf("positionals = %v, want %v", pos, tt.wantPos)
			}
			for i := range pos {
				if pos[i] != tt.wantPos[i] {
					t.Errorf("positional[%d] = %q, want %q", i, pos[i], tt.wantPos[i])
				}
			}
		})
	}
}
