package hcl

import (
	"path/filepath"

	"github.com/vk/vesselbatch/internal/config"
)

// translate converts the decoded HCL blocks into the agnostic model.
func translate(root *fileRoot, path, dir string) *config.Manifest {
	m := &config.Manifest{Path: path, Dir: dir}

	if b := root.Batch; b != nil {
		m.Batch = config.Batch{
			DatasetType:    b.DatasetType,
			AnnotationType: b.AnnotationType,
			GraphFormat:    b.GraphFormat,
			ResultsDir:     resolve(dir, b.ResultsDir),
		}
		if f := b.Files; f != nil {
			m.Batch.Column1 = f.Column1
			m.Batch.Column2 = f.Column2
			m.Batch.Column2Folder = resolve(dir, f.Column2Folder)
		}
		if g := b.Graph; g != nil {
			m.Batch.Graph = &config.Graph{
				Type:              g.Type,
				Delimiter:         g.CSVDelimiter,
				FilterCliques:     g.FilterCliques,
				SmoothCenterlines: g.SmoothCenterlines,
				AttributeKeys:     g.AttributeKeys,
			}
		}
		if c := b.Catalog; c != nil {
			m.Batch.Catalog = &config.Catalog{
				Path:                  resolve(dir, c.Path),
				AcceptDuplicateColors: c.AcceptDuplicateColors,
			}
		}
	}

	if len(root.Analyzers) == 1 {
		a := root.Analyzers[0]
		m.Analyzer = &config.Analyzer{
			Type:                a.Type,
			Command:             a.Command,
			Dir:                 resolve(dir, a.Dir),
			Env:                 a.Env,
			RequiredSpaceFactor: a.RequiredSpaceFactor,
			CacheDir:            resolve(dir, a.CacheDir),
		}
	}

	for _, p := range root.Publishers {
		m.Publishers = append(m.Publishers, &config.Publisher{
			Type:               p.Type,
			URL:                p.URL,
			Namespace:          p.Namespace,
			InsecureSkipVerify: p.InsecureSkipVerify,
		})
	}
	return m
}

// resolve makes p absolute relative to dir. Empty stays empty.
func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
