package main

import (
	"fmt"

	"git.home.luguber.info/inful/mdlinkcheck/internal/version"
)

// VersionCmd prints version information.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Printf("mdlinkcheck %s (commit %s, built %s)\n",
		version.Version, version.GitCommit, version.BuildTime)
	return nil
}
