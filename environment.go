package dynobj

import (
	"log"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/dynobj/dynobj-go/internal/errors"
	"github.com/dynobj/dynobj-go/parser"
	"github.com/dynobj/dynobj-go/value"
)

// ErrorObserver receives every error an Environment returns.
type ErrorObserver func(err error)

// LoaderFunc is a function that loads document source by name.
type LoaderFunc func(name string) (string, error)

// Environment holds parse limits, the error observer and named documents.
type Environment struct {
	documents   map[string]*Document
	documentsMu sync.RWMutex
	loader      LoaderFunc
	observer    ErrorObserver
	maxDepth    int
	fuel        uint64
	debug       bool
}

// Document is a parsed document registered with an Environment.
type Document struct {
	name   string
	source string
	value  value.Value
}

// NewEnvironment creates a new environment with default settings: the
// default nesting limit, no fuel limit, debug info enabled and no
// observer.
func NewEnvironment() *Environment {
	return &Environment{
		documents: make(map[string]*Document),
		maxDepth:  parser.DefaultMaxDepth,
		debug:     true,
	}
}

// LogObserver returns an observer that writes each error to logger.
// A nil logger means log.Default().
func LogObserver(logger *log.Logger) ErrorObserver {
	if logger == nil {
		logger = log.Default()
	}
	return func(err error) {
		logger.Printf("dynobj: %v", err)
	}
}

// SetErrorObserver installs the observer. Pass nil to remove it.
func (e *Environment) SetErrorObserver(observer ErrorObserver) {
	e.observer = observer
}

// SetMaxDepth sets the nesting limit for parsed documents. Values below
// one restore the default.
func (e *Environment) SetMaxDepth(depth int) {
	if depth < 1 {
		depth = parser.DefaultMaxDepth
	}
	e.maxDepth = depth
}

// SetFuel limits the number of values a single document may contain.
// Zero disables the limit.
func (e *Environment) SetFuel(fuel uint64) {
	e.fuel = fuel
}

// SetDebug controls whether returned parse errors keep a copy of the
// document source for %+v formatting.
func (e *Environment) SetDebug(enabled bool) {
	e.debug = enabled
}

// SetLoader sets the document loader function.
func (e *Environment) SetLoader(loader LoaderFunc) {
	e.loader = loader
}

// Report forwards a non-nil err to the observer and returns it unchanged.
// Callables running against documents can use it to surface their own
// failures through the same channel.
func (e *Environment) Report(err error) error {
	if err != nil && e.observer != nil {
		e.observer(err)
	}
	return err
}

func (e *Environment) options(name string) parser.Options {
	return parser.Options{Name: name, MaxDepth: e.maxDepth, Fuel: e.fuel}
}

func (e *Environment) finish(v value.Value, err error) (value.Value, error) {
	if err != nil {
		if perr, ok := err.(*errors.Error); ok && !e.debug {
			perr.Source = ""
		}
		return value.None(), e.Report(err)
	}
	return v, nil
}

// ParseJSON parses a JSON document with the environment's limits.
func (e *Environment) ParseJSON(name, source string) (value.Value, error) {
	return e.finish(parser.ParseWithOptions(source, e.options(name)))
}

// ParseYAML parses a YAML document with the environment's limits.
func (e *Environment) ParseYAML(name, source string) (value.Value, error) {
	return e.finish(ParseYAMLWithOptions(source, e.options(name)))
}

func isYAMLName(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func (e *Environment) parseDocument(name, source string) (*Document, error) {
	var v value.Value
	var err error
	if isYAMLName(name) {
		v, err = e.ParseYAML(name, source)
	} else {
		v, err = e.ParseJSON(name, source)
	}
	if err != nil {
		return nil, err
	}
	return &Document{name: name, source: source, value: v}, nil
}

// AddDocument parses source and stores it under name, replacing any
// document with the same name. Names ending in .yaml or .yml are parsed
// as YAML, everything else as JSON.
func (e *Environment) AddDocument(name, source string) error {
	_, err := e.addDocument(name, source)
	return err
}

func (e *Environment) addDocument(name, source string) (*Document, error) {
	doc, err := e.parseDocument(name, source)
	if err != nil {
		return nil, err
	}

	e.documentsMu.Lock()
	e.documents[name] = doc
	e.documentsMu.Unlock()
	return doc, nil
}

// RemoveDocument drops a stored document.
func (e *Environment) RemoveDocument(name string) {
	e.documentsMu.Lock()
	delete(e.documents, name)
	e.documentsMu.Unlock()
}

// Documents returns the names of the stored documents in sorted order.
func (e *Environment) Documents() []string {
	e.documentsMu.RLock()
	defer e.documentsMu.RUnlock()
	return slices.Sorted(maps.Keys(e.documents))
}

// GetDocument retrieves a document by name, asking the loader for
// documents that were never added.
func (e *Environment) GetDocument(name string) (*Document, error) {
	e.documentsMu.RLock()
	doc, ok := e.documents[name]
	e.documentsMu.RUnlock()

	if ok {
		return doc, nil
	}

	if e.loader != nil {
		source, err := e.loader(name)
		if err != nil {
			return nil, e.Report(errors.Newf(errors.ErrOutOfRange, "document %q not found: %v", name, err))
		}
		return e.addDocument(name, source)
	}

	return nil, e.Report(errors.Newf(errors.ErrOutOfRange, "document %q not found", name))
}

// DocumentFromString parses a JSON document without storing it.
func (e *Environment) DocumentFromString(source string) (*Document, error) {
	return e.DocumentFromNamedString("<string>", source)
}

// DocumentFromNamedString parses a document without storing it. The name
// selects the format the same way AddDocument does.
func (e *Environment) DocumentFromNamedString(name, source string) (*Document, error) {
	return e.parseDocument(name, source)
}

// Name returns the document name.
func (d *Document) Name() string {
	return d.name
}

// Source returns the document source.
func (d *Document) Source() string {
	return d.source
}

// Value returns a deep copy of the parsed document.
func (d *Document) Value() Value {
	return d.value.Clone()
}
