package main

import (
	"strings"

	"github.com/ttsiodras/MiniForth/internal/arena"
)

// Entry is a dictionary entry: a name paired with its compiled body.
// Entries are newest-first; two entries may share a Name (shadowing), and
// Lookup always returns the most recently defined one.
//
// A Variable or Constant Node holds a non-owning *Entry back-reference so
// that display and @/! can recover the owning entry's name and value; the
// Dictionary is the sole owner, and entries are only ever destroyed in
// bulk by Engine.Reset.
type Entry struct {
	Name string
	Body *arena.List[Node]
}

// Dictionary is the ordered, newest-first sequence of entries (component D).
type Dictionary struct {
	entries *arena.List[*Entry]
}

func newDictionary(free *arena.FreeList[*Entry]) *Dictionary {
	return &Dictionary{entries: arena.NewList(free)}
}

// Define appends a new entry with the given body and returns it immediately,
// so that a VARIABLE/CONSTANT Node can be constructed with this *Entry as
// its back-reference in the very same statement, before the entry is
// patched with its initial value.
func (d *Dictionary) Define(name string, body *arena.List[Node]) (*Entry, error) {
	e := &Entry{Name: name, Body: body}
	if _, err := d.entries.PushBack(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Lookup performs a case-insensitive, newest-to-oldest linear scan.
func (d *Dictionary) Lookup(name string) *Entry {
	for c := d.entries.Begin(); c != d.entries.End(); c = c.Next() {
		if strings.EqualFold(c.Value.Name, name) {
			return c.Value
		}
	}
	return nil
}

// Names returns every defined name, newest first.
func (d *Dictionary) Names() []string {
	var names []string
	for c := d.entries.Begin(); c != d.entries.End(); c = c.Next() {
		names = append(names, c.Value.Name)
	}
	return names
}
