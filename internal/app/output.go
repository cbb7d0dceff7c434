package app

import (
	"encoding/json"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/xform/internal/adapters/fs" //nolint:depguard // Wired in app layer
	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/zerr"
)

// OutputName returns the path below the output directory for a file that is rel
// to the project root. Files outside the root keep only their base name.
func OutputName(rel string) string {
	rel = filepath.ToSlash(rel)
	if path.IsAbs(rel) || filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, "../") {
		rel = path.Base(rel)
	}
	return strings.TrimSuffix(rel, path.Ext(rel)) + ".js"
}

// writeOutputs writes the code and source map of every successful result.
// Write failures are recorded on the result.
func writeOutputs(outDir string, results []FileResult) {
	w := fs.NewWriter(outDir)
	for i := range results {
		res := &results[i]
		if res.Err != nil || res.Artifact == nil {
			continue
		}

		name := OutputName(res.Rel)
		code := res.Artifact.Code
		if sm := res.Artifact.SourceMap; sm != nil {
			data, err := json.Marshal(sm)
			if err != nil {
				res.Err = zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", name+".map")
				continue
			}
			if _, err := w.Write(name+".map", data); err != nil {
				res.Err = err
				continue
			}
			code = strings.TrimRight(code, "\n") + "\n//# sourceMappingURL=" + path.Base(name) + ".map\n"
		}

		out, err := w.Write(name, []byte(code))
		if err != nil {
			res.Err = err
			continue
		}
		res.Output = out
	}
}
