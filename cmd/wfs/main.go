package main

import (
	"fmt"
	"os"

	"wfs/internal/archive"
	"wfs/internal/cli"
	"wfs/internal/wfs"
)

func main() {
	cmd, err := cli.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n%s\n", err, cli.Usage)
		os.Exit(1)
	}

	if err := run(cmd); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cli.Command) error {
	switch cmd.Action {
	case cli.ActionSnapshot:
		return runSnapshot(cmd)
	case cli.ActionRestore:
		return runRestore(cmd)
	case cli.ActionTree:
		return runTree(cmd)
	case cli.ActionSize:
		return runSize(cmd)
	}
	return nil
}

func runSnapshot(cmd *cli.Command) error {
	root, err := wfs.DirFromDisk(cmd.Source)
	if err != nil {
		return err
	}

	data, err := archive.Pack(root)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cmd.Dest, data, 0644); err != nil {
		return fmt.Errorf("failed to write archive %s: %w", cmd.Dest, err)
	}

	fmt.Printf("✓ Snapshot of %s: %d files, %d directories, %d bytes -> %s (%d bytes)\n",
		cmd.Source, root.FileCount(true), root.DirCount(true), root.Size(), cmd.Dest, len(data))
	return nil
}

func runRestore(cmd *cli.Command) error {
	data, err := os.ReadFile(cmd.Source)
	if err != nil {
		return fmt.Errorf("failed to read archive %s: %w", cmd.Source, err)
	}

	root, err := archive.Unpack(data)
	if err != nil {
		return err
	}
	if err := root.WriteToDisk(cmd.Dest, cmd.Overwrite); err != nil {
		return err
	}

	fmt.Printf("✓ Restored %d files into %s/%s\n", root.FileCount(true), cmd.Dest, root.Name())
	return nil
}

func runTree(cmd *cli.Command) error {
	root, err := wfs.DirFromDisk(cmd.Source)
	if err != nil {
		return err
	}
	printTree(root, "")
	fmt.Printf("\n%d files, %d directories, %d bytes\n",
		root.FileCount(true), root.DirCount(true), root.Size())
	return nil
}

func printTree(d *wfs.Dir, indent string) {
	fmt.Printf("%s%s/\n", indent, d.Name())
	for _, f := range d.Files() {
		fmt.Printf("%s  %s (%d bytes)\n", indent, f.Name(), f.Size())
	}
	for _, sub := range d.Dirs() {
		printTree(sub, indent+"  ")
	}
}

func runSize(cmd *cli.Command) error {
	size, err := wfs.PathSize(cmd.Source)
	if err != nil {
		return err
	}
	fmt.Printf("%d\n", size)
	return nil
}
