package tracking

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/imamik/kpkg/internal/manifest"
)

// Log is the ordered record of applied resources. Entries are the server
// representations returned by create or patch. The zero value is ready to
// use.
type Log struct {
	entries []*unstructured.Unstructured
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// FromSequence returns a log holding copies of seq.
func FromSequence(seq manifest.Sequence) *Log {
	return &Log{entries: seq.DeepCopy()}
}

// Append records obj as the newest entry.
func (l *Log) Append(obj *unstructured.Unstructured) {
	l.entries = append(l.entries, obj)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// At returns entry i.
func (l *Log) At(i int) *unstructured.Unstructured {
	return l.entries[i]
}

// Entries returns the entries in apply order. The slice is a copy; the
// objects are shared.
func (l *Log) Entries() manifest.Sequence {
	if l == nil {
		return nil
	}
	out := make(manifest.Sequence, len(l.entries))
	copy(out, l.entries)
	return out
}

// Refs returns the reference of every entry in apply order.
func (l *Log) Refs() []manifest.Ref {
	return l.Entries().Refs()
}

// Truncate drops every entry from index n on.
func (l *Log) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(l.entries) {
		return
	}
	for i := n; i < len(l.entries); i++ {
		l.entries[i] = nil
	}
	l.entries = l.entries[:n]
}

// Remove drops entry i and shifts later entries down.
func (l *Log) Remove(i int) {
	if i < 0 || i >= len(l.entries) {
		return
	}
	copy(l.entries[i:], l.entries[i+1:])
	l.entries[len(l.entries)-1] = nil
	l.entries = l.entries[:len(l.entries)-1]
}

// Marshal encodes the log as a YAML v1 List.
func (l *Log) Marshal() ([]byte, error) {
	items := make([]interface{}, 0, l.Len())
	for _, obj := range l.Entries() {
		items = append(items, obj.Object)
	}
	out, err := sigsyaml.Marshal(map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "List",
		"items":      items,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode tracking log: %w", err)
	}
	return out, nil
}

// Unmarshal decodes a log written by Marshal.
func Unmarshal(data []byte) (*Log, error) {
	seq, err := manifest.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tracking log: %w", err)
	}
	return &Log{entries: seq}, nil
}
