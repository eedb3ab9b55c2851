package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/WallCut/internal/host/memdoc"
)

var initSample bool

var initCmd = &cobra.Command{
	Use:   "init <document>",
	Short: "Create a new document file",
	Long: `Creates a new .wallcut.json document. With --sample the document is
populated with a small two-room apartment so a first run has something
to split; otherwise it starts empty, ready for footprint and clearance
imports.`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initSample, "sample", false, "populate with the built-in sample model")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	f := memdoc.File{Version: memdoc.FileVersion, Name: "Untitled"}
	if initSample {
		f = memdoc.SampleFile()
	}
	if err := memdoc.SaveFile(path, f); err != nil {
		return err
	}
	fmt.Printf("Created %s (%d walls, %d rooms)\n", path, len(f.Walls), len(f.Rooms))
	return nil
}
