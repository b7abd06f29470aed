package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/hpcigv/internal/app"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		expectExit     bool
		expectErr      bool
		expectedCode   int
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "Happy Path with all flags",
			args: []string{
				"/data/run1",
				"--mapping-file", "/cfg/mapping.txt",
				"--template=/cfg/template.json",
				"--genome=hg38",
				"--output", "/out/igvwebConfig.js",
				"--port=9000",
				"--profile=site.hcl",
				"--dry-run",
				"--check-alignments",
				"--log-level=DEBUG",
				"--log-format=json",
			},
			expectedConfig: &app.Config{
				DataPath:        "/data/run1",
				MappingFile:     "/cfg/mapping.txt",
				TemplatePath:    "/cfg/template.json",
				Genome:          "hg38",
				OutputPath:      "/out/igvwebConfig.js",
				Port:            "9000",
				ProfilePath:     "site.hcl",
				DryRun:          true,
				CheckAlignments: true,
				LogLevel:        "debug",
				LogFormat:       "json",
			},
		},
		{
			name: "Positional argument and defaults",
			args: []string{"data"},
			expectedConfig: &app.Config{
				DataPath:     "data",
				MappingFile:  "custom/mapping.txt",
				TemplatePath: "igvwebConfig_template.json",
				Genome:       "mm10",
				OutputPath:   "custom/igvwebConfig.js",
				Port:         "8898",
				LogLevel:     "info",
				LogFormat:    "text",
			},
		},
		{
			name: "Flags after positional argument",
			args: []string{"data", "--genome", "dm6"},
			expectedConfig: &app.Config{
				DataPath:     "data",
				MappingFile:  "custom/mapping.txt",
				TemplatePath: "igvwebConfig_template.json",
				Genome:       "dm6",
				OutputPath:   "custom/igvwebConfig.js",
				Port:         "8898",
				LogLevel:     "info",
				LogFormat:    "text",
			},
		},
		{
			name: "Print profile needs no data path",
			args: []string{"--print-profile"},
			expectedConfig: &app.Config{
				MappingFile:  "custom/mapping.txt",
				TemplatePath: "igvwebConfig_template.json",
				Genome:       "mm10",
				OutputPath:   "custom/igvwebConfig.js",
				Port:         "8898",
				PrintProfile: true,
				LogLevel:     "info",
				LogFormat:    "text",
			},
		},
		{
			name:       "Help flag triggers clean exit",
			args:       []string{"-h"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "Usage:"), "Expected help text to be printed")
				require.Contains(t, output, "--mapping-file")
			},
		},
		{
			name:         "No data path prints usage and fails",
			args:         []string{},
			expectErr:    true,
			expectedCode: 2,
			checkOutput: func(t *testing.T, output string) {
				require.Contains(t, output, "Usage:")
			},
		},
		{
			name:         "Flags without data path fail",
			args:         []string{"--genome", "hg38"},
			expectErr:    true,
			expectedCode: 2,
		},
		{
			name:         "Unknown flag",
			args:         []string{"--workers=3", "data"},
			expectErr:    true,
			expectedCode: 2,
		},
		{
			name:         "Too many positional arguments",
			args:         []string{"a", "b"},
			expectErr:    true,
			expectedCode: 2,
		},
		{
			name:         "Invalid log format",
			args:         []string{"data", "--log-format=xml"},
			expectErr:    true,
			expectedCode: 2,
		},
		{
			name:         "Invalid log level",
			args:         []string{"data", "--log-level=trace"},
			expectErr:    true,
			expectedCode: 2,
		},
		{
			name:         "Empty mapping file",
			args:         []string{"data", "--mapping-file="},
			expectErr:    true,
			expectedCode: 2,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := &bytes.Buffer{}
			cfg, shouldExit, err := Parse(tc.args, out)

			if tc.expectErr {
				require.Error(t, err)
				var exitErr *ExitError
				require.True(t, errors.As(err, &exitErr), "expected an ExitError, got %T", err)
				require.Equal(t, tc.expectedCode, exitErr.Code)
				if tc.checkOutput != nil {
					tc.checkOutput(t, out.String())
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectExit, shouldExit)

			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
			if tc.expectExit {
				require.Nil(t, cfg)
				return
			}
			if diff := cmp.Diff(tc.expectedConfig, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
