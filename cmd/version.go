package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/hibernatectl/hibernatectl/version"
)

var versionCommand = &cli.Command{
	Name:  "version",
	Usage: "Output hibernatectl version",
	Action: func(_ *cli.Context) error {
		fmt.Printf("version: %s\n", version.Version)
		fmt.Printf("commit: %s\n", version.GitCommit)
		return nil
	},
}
