package points

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/academia/scipoints/core"
	"github.com/academia/scipoints/core/activity"
)

// DefaultWeightsPath is the location of the default weight table inside the app FS.
const DefaultWeightsPath = "config/weights.yaml"

// Rule awards Points to the activities of Kind satisfying every condition that is set.
type Rule struct {
	Kind           activity.Kind `mapstructure:"kind" json:"kind"`
	Completed      *bool         `mapstructure:"completed" json:"completed,omitempty"`
	Published      *bool         `mapstructure:"published" json:"published,omitempty"`
	AuthorType     string        `mapstructure:"author_type" json:"author_type,omitempty"`
	Classification string        `mapstructure:"classification" json:"classification,omitempty"`
	Level          string        `mapstructure:"level" json:"level,omitempty"`
	Points         float64       `mapstructure:"points" json:"points"`
}

// specificity is the number of conditions set on the rule.
func (r Rule) specificity() int {
	n := 0
	if r.Completed != nil {
		n++
	}
	if r.Published != nil {
		n++
	}
	if r.AuthorType != "" {
		n++
	}
	if r.Classification != "" {
		n++
	}
	if r.Level != "" {
		n++
	}
	return n
}

func (r Rule) matches(a activity.Activity) bool {
	if r.Kind != a.Kind {
		return false
	}
	if r.Completed != nil && *r.Completed != a.IsCompleted() {
		return false
	}
	if r.Published != nil && *r.Published != a.Published {
		return false
	}
	if r.AuthorType != "" && r.AuthorType != a.AuthorType {
		return false
	}
	if r.Classification != "" && !a.HasTag(r.Classification) {
		return false
	}
	if r.Level != "" && r.Level != a.Level {
		return false
	}
	return true
}

// Table is the replaceable (category, condition) → weight policy.
type Table struct {
	Rules []Rule `mapstructure:"rules" json:"rules"`
}

// NewTable checks the rules: every rule needs a known kind and a non-negative, finite weight.
func NewTable(rules []Rule) (*Table, error) {
	for i, r := range rules {
		if !r.Kind.IsValid() {
			return nil, fmt.Errorf("rule %d: unknown kind %q", i, r.Kind)
		}
		if r.Points < 0 || r.Points != r.Points || r.Points > maxPoints {
			return nil, fmt.Errorf("rule %d: invalid points %v", i, r.Points)
		}
	}
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return &Table{Rules: cp}, nil
}

const maxPoints = 1e6

// LoadTable reads a YAML weight table.
func LoadTable(r io.Reader) (*Table, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(r); err != nil {
		return nil, errors.Wrap(err, "reading weight table")
	}
	var t Table
	if err := v.Unmarshal(&t); err != nil {
		return nil, errors.Wrap(err, "decoding weight table")
	}
	return NewTable(t.Rules)
}

// LoadTableFS reads the YAML weight table at path in fsys.
func LoadTableFS(fsys fs.FS, path string) (*Table, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer func() { _ = f.Close() }()
	return LoadTable(f)
}

// LoadTableFile reads the YAML weight table at path on disk.
func LoadTableFile(path string) (*Table, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return LoadTable(bytes.NewReader(data))
}

// Weigh returns the points of the most specific rule matching a; 0 when none does.
func (t *Table) Weigh(a activity.Activity) float64 {
	if t == nil {
		return 0
	}
	best, bestSpec := -1, -1
	for i, r := range t.Rules {
		if !r.matches(a) {
			continue
		}
		if spec := r.specificity(); spec > bestSpec {
			best, bestSpec = i, spec
		}
	}
	if best < 0 {
		return 0
	}
	return t.Rules[best].Points
}

// NewTableFromConfig loads conf.Points.WeightsFile when set, the default table of fsys otherwise.
func NewTableFromConfig(conf *core.Config, fsys fs.FS) (*Table, error) {
	if conf.Points.WeightsFile != "" {
		return LoadTableFile(conf.Points.WeightsFile)
	}
	return LoadTableFS(fsys, DefaultWeightsPath)
}
