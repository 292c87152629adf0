package pom

import (
	errs "github.com/matzehuels/pomedit/pkg/errors"
	"github.com/matzehuels/pomedit/pkg/xmltree"
)

// Strategy is a way of applying a dependency to a project.
type Strategy int

const (
	// SimpleInsert adds a managed entry with the version and a bare
	// reference under <dependencies>.
	SimpleInsert Strategy = iota
	// SimpleUpgrade rewrites the version of an existing declaration.
	SimpleUpgrade
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case SimpleInsert:
		return "simple-insert"
	case SimpleUpgrade:
		return "simple-upgrade"
	default:
		return "unknown"
	}
}

// execute applies the strategy. It returns false when the strategy does not
// apply to p.
func (s Strategy) execute(p Project) (bool, error) {
	switch s {
	case SimpleInsert:
		return executeInsert(p)
	case SimpleUpgrade:
		return executeUpgrade(p), nil
	default:
		return false, errs.New(errs.ErrCodeUnsupported, "unknown strategy %d", int(s))
	}
}

// postProcess checks the outcome of a successful execute: every edited
// document must render to well-formed XML.
func (s Strategy) postProcess(p Project) error {
	for _, d := range p.DirtyDocuments() {
		if _, err := xmltree.Parse(d.Bytes()); err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "%s: %s produced malformed output", s, d.Name())
		}
	}
	return nil
}

// Run validates p and tries each strategy in order until one applies. It
// reports whether any did. Validation failures leave every document
// untouched.
func Run(p Project, strategies ...Strategy) (bool, error) {
	if err := validate(p); err != nil {
		return false, err
	}
	for _, s := range strategies {
		ok, err := s.execute(p)
		if err != nil {
			return false, err
		}
		if ok {
			return true, s.postProcess(p)
		}
	}
	return false, nil
}

// Insert adds p's dependency with SimpleInsert.
func Insert(p Project) (bool, error) {
	return Run(p, SimpleInsert)
}

// Modify upgrades p's dependency when the target already declares it and
// inserts it otherwise.
func Modify(p Project) (bool, error) {
	return Run(p, SimpleUpgrade, SimpleInsert)
}
