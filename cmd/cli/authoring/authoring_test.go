package authoring_test

import (
	"bytes"
	"context"
	"github.com/myrjola/dvdcluedo/cmd/cli/authoring"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"testing"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidate(t *testing.T) {
	out, err := execute(t, authoring.Validate, "--catalog", "", "--strict=false")
	require.NoError(t, err)
	require.Contains(t, out, "The Mansion Murder")
	require.Contains(t, out, "Death on the Riverboat")

	_, err = execute(t, authoring.Validate, "--catalog", "does-not-exist.yaml", "--strict=false")
	require.Error(t, err)
}

func TestURLs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{
			name: "all clips",
			args: []string{"--catalog", "", "--case", ""},
			want: []string{"https://harveytucker.com/DVDCluedo/MainMenu.mp4", "MansionMenu", "RiverboatMenu"},
		},
		{
			name: "one case",
			args: []string{"--catalog", "", "--case", "The Mansion Murder"},
			want: []string{"MansionMenu.mp4", "MansionLibraryQ1"},
		},
		{
			name:    "unknown case",
			args:    []string{"--catalog", "", "--case", "Nope"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, authoring.URLs, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.want {
				require.Contains(t, out, want)
			}
		})
	}
}
