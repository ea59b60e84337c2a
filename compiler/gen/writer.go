package gen

import (
	"bytes"
	"sort"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// File is one generated source file. Content is already formatted.
type File struct {
	// Name is the file name relative to the output package directory.
	Name string
	// Table is the DBML table the file was generated for; empty for
	// shared files such as the enum definitions.
	Table string
	// Content is the formatted Go source.
	Content []byte
}

// Renderer produces the jennifer file for each part of the graph. It
// is implemented by the entity package; the indirection keeps this
// package free of a dependency on its own consumers.
type Renderer interface {
	// Entity renders the module for one table: model struct, relation
	// enum and behavior stub.
	Entity(*Graph, *Type) *jen.File
	// Enums renders the shared enum definitions, or nil when the graph
	// declares no enums.
	Enums(*Graph) *jen.File
}

// Writer renders a resolved graph to an ordered list of files. It
// never touches the filesystem; callers decide where the output lands.
type Writer struct {
	graph    *Graph
	renderer Renderer
	workers  int
}

// NewWriter returns a writer rendering graph through r with at most
// workers concurrent renders. workers <= 0 means one per node.
func NewWriter(graph *Graph, r Renderer, workers int) *Writer {
	return &Writer{graph: graph, renderer: r, workers: workers}
}

// Write renders every table module plus the shared enum file. Files
// come back in table declaration order with the enum file last, no
// matter how the renders interleave. The first render failure aborts
// the remaining work.
func (w *Writer) Write() ([]File, error) {
	var (
		mu    sync.Mutex
		files []File
		order = make(map[string]int, len(w.graph.Nodes)+1)
	)
	var g errgroup.Group
	if w.workers > 0 {
		g.SetLimit(w.workers)
	}
	for i, node := range w.graph.Nodes {
		node := node
		order[node.FileName()] = i
		g.Go(func() error {
			f, err := w.format(node.FileName(), w.renderer.Entity(w.graph, node))
			if err != nil {
				return err
			}
			f.Table = node.Name
			mu.Lock()
			files = append(files, f)
			mu.Unlock()
			return nil
		})
	}
	if ef := w.renderer.Enums(w.graph); ef != nil {
		order[enumFileName] = len(w.graph.Nodes)
		g.Go(func() error {
			f, err := w.format(enumFileName, ef)
			if err != nil {
				return err
			}
			mu.Lock()
			files = append(files, f)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool {
		return order[files[i].Name] < order[files[j].Name]
	})
	return files, nil
}

const enumFileName = "enums.go"

// format renders the jennifer tree and runs goimports over it, so the
// output matches what gofmt would produce by hand.
func (w *Writer) format(name string, f *jen.File) (File, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return File{}, NewGenerationError(name, "rendering failed", err)
	}
	src, err := imports.Process(name, buf.Bytes(), nil)
	if err != nil {
		return File{}, NewGenerationError(name, "formatting failed", err)
	}
	return File{Name: name, Content: src}, nil
}
