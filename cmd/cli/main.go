package main

import (
	"context"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/myrjola/dvdcluedo/cmd/cli/answers"
	"github.com/myrjola/dvdcluedo/cmd/cli/authoring"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"github.com/spf13/cobra"
	"io/fs"
	"os"
)

func init() {
	rootCmd.AddGroup(authoring.Group)
	rootCmd.AddCommand(authoring.Validate)
	rootCmd.AddCommand(authoring.URLs)
	rootCmd.AddGroup(answers.Group)
	rootCmd.AddCommand(answers.Solutions)
}

var rootCmd = &cobra.Command{
	Use:           "dvdcluedo-cli",
	Long:          `Command line utilities for authoring DVD Cluedo case content`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
