package listtest

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/listkit/pkg/diff"
	"github.com/go-drift/listkit/pkg/reconcile"
	"github.com/go-drift/listkit/pkg/section"
)

// Scenario is a YAML-described pair of list states. Tests and the listkit
// CLI load scenarios to run the engine over named, reviewable inputs.
type Scenario struct {
	// Name identifies the scenario; golden files reuse it.
	Name string `yaml:"name"`

	// Description says what the scenario demonstrates.
	Description string `yaml:"description,omitempty"`

	// Old is the displayed state before the update.
	Old []SectionDoc `yaml:"old"`

	// New is the supplied state after the update.
	New []SectionDoc `yaml:"new"`
}

// SectionDoc is one section of a scenario state. An empty header or footer
// means the section has none.
type SectionDoc struct {
	Key    string   `yaml:"key"`
	Header string   `yaml:"header,omitempty"`
	Footer string   `yaml:"footer,omitempty"`
	Rows   []RowDoc `yaml:"rows,omitempty"`
}

// RowDoc is one row of a scenario section. ID is the row's identity and
// Text its display content: rows sharing an ID are the same item, and a
// text change on a kept item refreshes it.
type RowDoc struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

var rowStrategy = section.Strategy[RowDoc]{
	Same:    func(a, b RowDoc) bool { return a.ID == b.ID },
	Changed: func(a, b RowDoc) bool { return a.Text != b.Text },
}

// Row converts the document into its list row.
func (r RowDoc) Row() section.Row {
	return section.BackedBy(r.Text, r, rowStrategy)
}

// LoadScenario reads and validates a scenario file. Unknown YAML fields are
// rejected so fixture typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &sc, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if err := validateDocs("old", s.Old); err != nil {
		return err
	}
	return validateDocs("new", s.New)
}

// validateDocs checks one state: section keys unique within the state, row
// ids unique across all of its sections (identity matching assumes it).
func validateDocs(which string, docs []SectionDoc) error {
	keys := make(map[string]bool, len(docs))
	ids := make(map[string]bool)
	for i, doc := range docs {
		if doc.Key == "" {
			return fmt.Errorf("%s[%d]: key is required", which, i)
		}
		if keys[doc.Key] {
			return fmt.Errorf("%s[%d]: duplicate section key %q", which, i, doc.Key)
		}
		keys[doc.Key] = true
		for j, row := range doc.Rows {
			if row.ID == "" {
				return fmt.Errorf("%s[%d].rows[%d]: id is required", which, i, j)
			}
			if ids[row.ID] {
				return fmt.Errorf("%s[%d].rows[%d]: duplicate row id %q", which, i, j, row.ID)
			}
			ids[row.ID] = true
		}
	}
	return nil
}

// Snapshots builds the before and after snapshots of the scenario.
func (s *Scenario) Snapshots() (prev, next section.Snapshot[string], err error) {
	prev, err = snapshotOf(s.Old)
	if err != nil {
		return prev, next, err
	}
	next, err = snapshotOf(s.New)
	return prev, next, err
}

// Ops computes the operation script carrying the scenario's old state to
// its new state.
func (s *Scenario) Ops() ([]diff.Op[string], error) {
	prev, next, err := s.Snapshots()
	if err != nil {
		return nil, err
	}
	return diff.Compute(prev, next), nil
}

func snapshotOf(docs []SectionDoc) (section.Snapshot[string], error) {
	store := section.NewStore[string]()
	if err := store.Declare(docKeys(docs)...); err != nil {
		return section.Snapshot[string]{}, err
	}
	for _, doc := range docs {
		store.SetRows(doc.Key, docRows(doc.Rows)...)
		if doc.Header != "" {
			store.SetHeader(doc.Key, doc.Header)
		}
		if doc.Footer != "" {
			store.SetFooter(doc.Key, doc.Footer)
		}
	}
	return store.Snapshot(), nil
}

// Supply stages one scenario state on a driver: the section list, every
// section's rows, and headers and footers, cleared where the document has
// none. Reconciling is left to the caller.
func Supply(d *reconcile.Driver[string], docs []SectionDoc) error {
	if err := d.SupplySections(docKeys(docs)...); err != nil {
		return err
	}
	for _, doc := range docs {
		d.SupplyRows(doc.Key, docRows(doc.Rows)...)
		var header, footer any
		if doc.Header != "" {
			header = doc.Header
		}
		if doc.Footer != "" {
			footer = doc.Footer
		}
		d.SupplyHeader(doc.Key, header)
		d.SupplyFooter(doc.Key, footer)
	}
	return nil
}

func docKeys(docs []SectionDoc) []string {
	keys := make([]string, len(docs))
	for i, doc := range docs {
		keys[i] = doc.Key
	}
	return keys
}

func docRows(rows []RowDoc) []section.Row {
	out := make([]section.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Row()
	}
	return out
}
