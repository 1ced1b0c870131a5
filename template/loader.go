package template

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cloudharvest/plugincore/registry"
)

// templateDir is the directory name scanned for declarative documents.
const templateDir = "templates"

// privateMarker prefixes files and directories excluded from discovery.
const privateMarker = "_"

// Issue records one template file that could not be loaded. Issues are
// diagnostics, never fatal: a broken file does not stop the scan.
type Issue struct {
	Path string
	Err  error
}

// Result summarizes one scan.
type Result struct {
	// Loaded counts registered template definitions, not files: one file
	// may hold several documents.
	Loaded int
	Issues []Issue
}

// Loader scans directory trees for template files and registers them.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a Loader. A nil logger is replaced with a no-op one.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		logger: logger.With(zap.String("component", "template_loader")),
	}
}

// Scan walks each root looking for "templates" directories and registers
// every YAML document found beneath them. Files and directories whose name
// begins with an underscore are skipped. Read and parse failures are
// isolated per file and reported in the Result; Scan itself never fails.
func (l *Loader) Scan(reg *registry.Registry, roots []string) Result {
	var res Result
	for _, root := range roots {
		l.scanRoot(reg, root, &res)
	}
	l.logger.Info("template scan complete",
		zap.Int("loaded", res.Loaded),
		zap.Int("issues", len(res.Issues)))
	return res
}

func (l *Loader) scanRoot(reg *registry.Registry, root string, res *Result) {
	binder := reg.Bind(registry.ModuleMetadata{Package: filepath.Clean(root)})

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			res.Issues = append(res.Issues, Issue{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, privateMarker) || strings.HasPrefix(name, ".")) {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, privateMarker) {
			return nil
		}
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		category, tags, ok := classify(root, path)
		if !ok {
			return nil
		}
		if err := l.loadFile(binder, path, category, tags, res); err != nil {
			res.Issues = append(res.Issues, Issue{Path: path, Err: err})
			l.logger.Warn("template file skipped",
				zap.String("path", path),
				zap.Error(err))
		}
		return nil
	})
	if err != nil {
		res.Issues = append(res.Issues, Issue{Path: root, Err: err})
	}
}

// loadFile parses one template file and registers each top-level document.
func (l *Loader) loadFile(binder *registry.Binder, path, category string, tags []string, res *Result) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}

	var docs map[string]any
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	if docs == nil {
		return fmt.Errorf("parse template: empty document")
	}

	for name, body := range docs {
		if strings.HasPrefix(name, privateMarker) {
			continue
		}
		def := registry.Definition{
			Category: category,
			Name:     name,
			Value:    body,
			Tags:     tags,
		}
		if err := binder.Add(def); err != nil {
			res.Issues = append(res.Issues, Issue{Path: path, Err: err})
			continue
		}
		res.Loaded++
		l.logger.Debug("template registered",
			zap.String("category", category),
			zap.String("name", name),
			zap.String("path", path))
	}
	return nil
}

// classify derives the registration category from the file's position
// relative to its enclosing "templates" directory. A file nested one level
// deep, e.g. templates/reports/usage.yaml, lands in the "report template"
// category tagged "reports"; files directly inside templates/ land in the
// plain "template" category.
func classify(root, path string) (category string, tags []string, ok bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", nil, false
	}
	segs := strings.Split(filepath.ToSlash(rel), "/")
	idx := -1
	for i, s := range segs {
		if s == templateDir {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(segs)-1 {
		return "", nil, false
	}
	under := segs[idx+1:]
	if len(under) <= 1 {
		return "template", nil, true
	}
	group := under[0]
	return strings.TrimSuffix(group, "s") + " template", []string{group}, true
}
