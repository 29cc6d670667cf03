// Package loader decides which file selections a batch needs and collects
// them from a Picker. It does not validate what comes back.
package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/vesselbatch/internal/ctxlog"
	"github.com/vk/vesselbatch/internal/fsutil"
	"github.com/vk/vesselbatch/internal/mode"
)

// Kind is the type of selection a prompt asks for.
type Kind int

const (
	// Files asks for any number of files.
	Files Kind = iota
	// Folder asks for a single folder. Each of its immediate subdirectories
	// becomes one entry.
	Folder
)

func (k Kind) String() string {
	if k == Folder {
		return "folder"
	}
	return "files"
}

// VolumeExtensions are the image formats accepted for segmented volumes.
var VolumeExtensions = []string{"nii", "png", "bmp", "tif", "tiff", "jpg", "jpeg"}

// Prompt is one selection request.
type Prompt struct {
	// Column is 1 for primary files and 2 for paired files.
	Column     int
	Kind       Kind
	Message    string
	Extensions []string
}

// Plan returns the prompts to issue for m, in order. graphExt is the file
// extension used for single-file graph formats.
func Plan(m mode.Mode, graphExt string) []Prompt {
	if m.Dataset == mode.Graph {
		if m.Graph == mode.CSV {
			return []Prompt{
				{Column: 1, Kind: Files, Message: "Load vertex files", Extensions: []string{"csv"}},
				{Column: 2, Kind: Files, Message: "Load edge files", Extensions: []string{"csv"}},
			}
		}
		if graphExt == "" {
			graphExt = mode.DefaultGraphExtension
		}
		return []Prompt{
			{Column: 1, Kind: Files, Message: fmt.Sprintf("Load %s files", graphExt), Extensions: []string{graphExt}},
		}
	}

	volumes := Prompt{Column: 1, Kind: Files, Message: "Load volume files", Extensions: VolumeExtensions}
	switch m.Annotation {
	case mode.ID:
		return []Prompt{volumes, {Column: 2, Kind: Files, Message: "Load .nii annotation volumes", Extensions: []string{"nii"}}}
	case mode.RGB:
		return []Prompt{volumes, {Column: 2, Kind: Folder, Message: "Select parent folder of the RGB annotation folders"}}
	default:
		return []Prompt{volumes}
	}
}

// Picker answers prompts. An empty result means the user aborted.
type Picker interface {
	Pick(ctx context.Context, p Prompt) ([]string, error)
}

// PickerFunc adapts a function to the Picker interface.
type PickerFunc func(ctx context.Context, p Prompt) ([]string, error)

// Pick calls f.
func (f PickerFunc) Pick(ctx context.Context, p Prompt) ([]string, error) { return f(ctx, p) }

// Selection is the outcome of a load, partitioned by column.
type Selection struct {
	Column1 []string
	Column2 []string
}

// Load issues every prompt of the plan. It returns ok=false, with an empty
// selection, as soon as one prompt is aborted.
func Load(ctx context.Context, m mode.Mode, graphExt string, picker Picker) (Selection, bool, error) {
	logger := ctxlog.FromContext(ctx)

	var sel Selection
	for _, p := range Plan(m, graphExt) {
		paths, err := picker.Pick(ctx, p)
		if err != nil {
			return Selection{}, false, fmt.Errorf("file selection failed: %w", err)
		}
		if len(paths) == 0 {
			logger.Debug("File selection aborted.", "column", p.Column, "kind", p.Kind.String())
			return Selection{}, false, nil
		}

		if p.Kind == Folder {
			paths, err = fsutil.ImmediateSubdirs(paths[0])
			if err != nil {
				return Selection{}, false, err
			}
			if len(paths) == 0 {
				logger.Debug("Selected folder has no subfolders.", "column", p.Column)
				return Selection{}, false, nil
			}
		}

		if p.Column == 1 {
			sel.Column1 = append(sel.Column1, paths...)
		} else {
			sel.Column2 = append(sel.Column2, paths...)
		}
	}
	logger.Debug("Files selected.", "column1", len(sel.Column1), "column2", len(sel.Column2))
	return sel, true, nil
}

// StaticPicker answers prompts from fixed lists, one per column. For Folder
// prompts the column must hold the parent folder. For Files prompts a folder
// in the list stands for every file under it with one of the prompt's
// extensions.
type StaticPicker struct {
	Column1 []string
	Column2 []string
}

// Pick implements Picker.
func (s StaticPicker) Pick(_ context.Context, p Prompt) ([]string, error) {
	var paths []string
	if p.Column == 1 {
		paths = s.Column1
	} else {
		paths = s.Column2
	}
	if p.Kind == Folder {
		if len(paths) > 1 {
			return nil, fmt.Errorf("%q expects a single folder, got %d paths", p.Message, len(paths))
		}
		return append([]string(nil), paths...), nil
	}

	var out []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() || len(p.Extensions) == 0 {
			out = append(out, path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, p.Extensions...)
		if err != nil {
			return nil, fmt.Errorf("failed to search %s: %w", path, err)
		}
		out = append(out, found...)
	}
	return out, nil
}
