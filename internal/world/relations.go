package world

import (
	"fmt"
	"slices"

	"github.com/samber/oops"
)

// Relationship is a directed, labeled fact between two actor names.
type Relationship struct {
	Subject string
	Label   string
	Object  string
}

func (r Relationship) String() string {
	return fmt.Sprintf("%s -%s-> %s", r.Subject, r.Label, r.Object)
}

func (r Relationship) reverse() Relationship {
	return Relationship{Subject: r.Object, Label: r.Label, Object: r.Subject}
}

// Mentions reports whether name is the subject or object of r.
func (r Relationship) Mentions(name string) bool {
	return r.Subject == name || r.Object == name
}

// RelationStore owns the set of relationship triples. Triples are unique and
// kept in insertion order so queries are deterministic.
type RelationStore struct {
	triples []Relationship
	index   map[Relationship]struct{}
}

func NewRelationStore() *RelationStore {
	return &RelationStore{index: make(map[Relationship]struct{})}
}

// Relate inserts (a, label, b), and (b, label, a) when reciprocal.
// Inserting an existing triple is a no-op.
func (s *RelationStore) Relate(a, label, b string, reciprocal bool) {
	r := Relationship{Subject: a, Label: label, Object: b}
	s.insert(r)
	if reciprocal {
		s.insert(r.reverse())
	}
}

// Unrelate removes (a, label, b), and (b, label, a) when reciprocal. Removal
// is all-or-nothing: if any requested triple is missing nothing is removed
// and ErrRelationshipNotFound is returned.
func (s *RelationStore) Unrelate(a, label, b string, reciprocal bool) error {
	r := Relationship{Subject: a, Label: label, Object: b}
	if !s.Has(r) {
		return relationshipNotFound(r)
	}
	if reciprocal && !s.Has(r.reverse()) {
		return relationshipNotFound(r.reverse())
	}
	s.remove(r)
	if reciprocal {
		s.remove(r.reverse())
	}
	return nil
}

// TryUnrelate removes whichever of the requested triples exist. It reports
// whether the forward triple was present.
func (s *RelationStore) TryUnrelate(a, label, b string, reciprocal bool) bool {
	r := Relationship{Subject: a, Label: label, Object: b}
	found := s.remove(r)
	if reciprocal {
		s.remove(r.reverse())
	}
	return found
}

// Subjects returns every X such that (X, label, object) holds.
func (s *RelationStore) Subjects(label, object string) []string {
	var out []string
	for _, r := range s.triples {
		if r.Label == label && r.Object == object {
			out = append(out, r.Subject)
		}
	}
	return out
}

// Objects returns every Y such that (subject, label, Y) holds.
func (s *RelationStore) Objects(subject, label string) []string {
	var out []string
	for _, r := range s.triples {
		if r.Subject == subject && r.Label == label {
			out = append(out, r.Object)
		}
	}
	return out
}

// Related reports whether (subject, label, object) holds.
func (s *RelationStore) Related(subject, label, object string) bool {
	return s.Has(Relationship{Subject: subject, Label: label, Object: object})
}

func (s *RelationStore) Has(r Relationship) bool {
	_, ok := s.index[r]
	return ok
}

// Prune removes every triple mentioning name and returns how many were removed.
func (s *RelationStore) Prune(name string) int {
	before := len(s.triples)
	s.triples = slices.DeleteFunc(s.triples, func(r Relationship) bool {
		if r.Mentions(name) {
			delete(s.index, r)
			return true
		}
		return false
	})
	return before - len(s.triples)
}

// All returns a copy of the triples in insertion order.
func (s *RelationStore) All() []Relationship {
	return slices.Clone(s.triples)
}

func (s *RelationStore) Len() int { return len(s.triples) }

func (s *RelationStore) insert(r Relationship) {
	if s.Has(r) {
		return
	}
	s.triples = append(s.triples, r)
	s.index[r] = struct{}{}
}

func (s *RelationStore) remove(r Relationship) bool {
	if !s.Has(r) {
		return false
	}
	delete(s.index, r)
	s.triples = slices.DeleteFunc(s.triples, func(other Relationship) bool { return other == r })
	return true
}

func relationshipNotFound(r Relationship) error {
	return oops.Code(CodeRelationshipNotFound).
		With("subject", r.Subject).
		With("label", r.Label).
		With("object", r.Object).
		Wrapf(ErrRelationshipNotFound, "%s", r)
}
