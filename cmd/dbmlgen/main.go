// Command dbmlgen compiles a DBML document into Go entity source files.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/syssam/dbmlgen"
)

var (
	outDir     string
	pkgPath    string
	header     string
	configFile string
	watch      bool
)

var rootCmd = &cobra.Command{
	Use:   "dbmlgen <schema.dbml>",
	Short: "Generate typed ORM entity code from a DBML schema",
	Long: `dbmlgen compiles a DBML database definition into Go source files:
one module per table holding the model struct, a relation enum with
its join metadata, and a behavior stub for lifecycle hooks.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
	// Diagnostics are printed by run itself; cobra's echo would
	// duplicate them.
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "model", "output directory for generated files")
	rootCmd.Flags().StringVarP(&pkgPath, "package", "p", "", "import path of the generated package (default: derived from --out)")
	rootCmd.Flags().StringVar(&header, "header", "", "override the generated-file header comment")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate whenever the schema file changes")
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("dbmlgen: ")
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// fileConfig mirrors the YAML config file. Flags given explicitly on
// the command line win over file values.
type fileConfig struct {
	Package string            `yaml:"package"`
	Out     string            `yaml:"out"`
	Header  string            `yaml:"header"`
	Types   map[string]string `yaml:"types"`
}

func run(cmd *cobra.Command, args []string) error {
	src := args[0]

	var fc fileConfig
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("parsing config %s: %w", configFile, err)
		}
	}
	if !cmd.Flags().Changed("out") && fc.Out != "" {
		outDir = fc.Out
	}
	if pkgPath == "" {
		pkgPath = fc.Package
	}
	if pkgPath == "" {
		pkgPath = filepath.Base(outDir)
	}
	if header == "" {
		header = fc.Header
	}

	opts := []dbmlgen.Option{dbmlgen.WithPackage(pkgPath)}
	if header != "" {
		opts = append(opts, dbmlgen.WithHeader(header))
	}
	if len(fc.Types) > 0 {
		opts = append(opts, dbmlgen.WithTypeOverrides(fc.Types))
	}

	if err := generate(src, opts); err != nil {
		if !watch {
			return err
		}
		report(src, err)
	}
	if watch {
		return watchLoop(src, opts)
	}
	return nil
}

// generate compiles the schema file and writes the output directory.
func generate(src string, opts []dbmlgen.Option) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	files, err := dbmlgen.Compile(string(data), opts...)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(outDir, f.Name), f.Content, 0o644); err != nil {
			return err
		}
	}
	log.Printf("wrote %d file(s) to %s", len(files), outDir)
	return nil
}

// report prints every diagnostic of a failed compile to stderr.
func report(src string, err error) {
	for _, d := range dbmlgen.Diagnostics(err) {
		if d.Pos.Line > 0 {
			log.Printf("%s:%s: %s", src, d.Pos, d.Message)
		} else {
			log.Print(d.Message)
		}
	}
}

// watchLoop regenerates on every write to the schema file until
// interrupted. Editors often replace files instead of writing in
// place, so the watcher tracks the directory and filters by name.
func watchLoop(src string, opts []dbmlgen.Option) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	log.Printf("watching %s", src)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := generate(src, opts); err != nil {
				report(src, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}
