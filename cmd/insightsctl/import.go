package main

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"path"
	"slices"
	"strings"

	"github.com/chatlens/insights/store"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <archive.zip...>",
		Short: "Import fragment files from zip archives into the contacts folder",
		Long: `Import reads every <contact>/<kind>/<name>.json entry of the given zip
archives and stores it as a fragment. Archives are processed in name order, so
later archives overwrite fragments of earlier ones.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archives := slices.Sorted(slices.Values(args))
			var total int
			for i, archive := range archives {
				log.Printf("Processing archive %d of %d: %s", i+1, len(archives), archive)
				imported, err := importArchive(archive)
				if err != nil {
					return fmt.Errorf("importing %s: %w", archive, err)
				}
				total += imported
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d fragments\n", total)
			return nil
		},
	}
}

func importArchive(archive string) (int, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	imported := 0
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		contact, kind, name, ok := fragmentOf(f.Name)
		if !ok {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return imported, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		if err := store.SaveFragment(contact, kind, name, data); err != nil {
			log.Printf("Warning: skipping %s: %v", f.Name, err)
			continue
		}
		imported++
	}
	return imported, nil
}

// fragmentOf splits an archive entry ending in <contact>/<kind>/<name>.json.
func fragmentOf(entry string) (contact, kind, name string, ok bool) {
	parts := strings.Split(path.Clean(entry), "/")
	if len(parts) < 3 {
		return "", "", "", false
	}
	parts = parts[len(parts)-3:]
	name, found := strings.CutSuffix(parts[2], ".json")
	if !found || !store.ValidID(parts[0]) || !store.ValidKind(parts[1]) || !store.ValidID(name) {
		return "", "", "", false
	}
	return parts[0], parts[1], name, true
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
