package manifest

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/yaml"
	sigsyaml "sigs.k8s.io/yaml"
)

// Sequence is an ordered list of resource manifests. Order encodes
// dependencies: a Namespace precedes the objects that live in it.
type Sequence []*unstructured.Unstructured

// Ref identifies one object by kind, namespace and name.
type Ref struct {
	Kind      string
	Namespace string
	Name      string
}

// RefOf returns the reference of obj.
func RefOf(obj *unstructured.Unstructured) Ref {
	return Ref{Kind: obj.GetKind(), Namespace: obj.GetNamespace(), Name: obj.GetName()}
}

// String renders "Kind/name" or "Kind/namespace/name".
func (r Ref) String() string {
	if r.Namespace == "" {
		return r.Kind + "/" + r.Name
	}
	return r.Kind + "/" + r.Namespace + "/" + r.Name
}

// DeepCopy returns an independent copy of the sequence.
func (s Sequence) DeepCopy() Sequence {
	out := make(Sequence, len(s))
	for i, obj := range s {
		out[i] = obj.DeepCopy()
	}
	return out
}

// Refs returns the reference of every item, in order.
func (s Sequence) Refs() []Ref {
	out := make([]Ref, len(s))
	for i, obj := range s {
		out[i] = RefOf(obj)
	}
	return out
}

// Decode parses multi-document YAML or JSON. Empty documents are skipped
// and List documents are flattened into their items in place.
func Decode(data []byte) (Sequence, error) {
	decoder := yaml.NewYAMLOrJSONDecoder(bytes.NewReader(data), 4096)

	var seq Sequence
	for docIndex := 0; ; docIndex++ {
		var obj unstructured.Unstructured
		if err := decoder.Decode(&obj); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode manifest document %d: %w", docIndex, err)
		}

		if len(obj.Object) == 0 {
			continue
		}
		if obj.GetKind() == "" {
			return nil, fmt.Errorf("manifest document %d has no kind", docIndex)
		}

		items, err := flatten(&obj)
		if err != nil {
			return nil, fmt.Errorf("manifest document %d: %w", docIndex, err)
		}
		seq = append(seq, items...)
	}

	return seq, nil
}

// Flatten replaces every List object in seq with its items.
func Flatten(seq Sequence) (Sequence, error) {
	out := make(Sequence, 0, len(seq))
	for i, obj := range seq {
		items, err := flatten(obj)
		if err != nil {
			return nil, fmt.Errorf("manifest %d: %w", i, err)
		}
		out = append(out, items...)
	}
	return out, nil
}

func flatten(obj *unstructured.Unstructured) (Sequence, error) {
	if !obj.IsList() || !strings.HasSuffix(obj.GetKind(), "List") {
		return Sequence{obj}, nil
	}

	itemKind := strings.TrimSuffix(obj.GetKind(), "List")
	var out Sequence
	err := obj.EachListItem(func(o runtime.Object) error {
		item, ok := o.(*unstructured.Unstructured)
		if !ok {
			return fmt.Errorf("unexpected list item type %T", o)
		}
		// Typed lists such as SecretList may omit the item type tag.
		if item.GetKind() == "" && itemKind != "" {
			item.SetKind(itemKind)
		}
		if item.GetAPIVersion() == "" {
			item.SetAPIVersion(obj.GetAPIVersion())
		}
		nested, err := flatten(item)
		if err != nil {
			return err
		}
		out = append(out, nested...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to flatten %s: %w", obj.GetKind(), err)
	}
	return out, nil
}

// Encode renders the sequence as multi-document YAML.
func Encode(seq Sequence) ([]byte, error) {
	var buf bytes.Buffer
	for i, obj := range seq {
		out, err := sigsyaml.Marshal(obj.Object)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", RefOf(obj), err)
		}
		if i > 0 {
			buf.WriteString("---\n")
		}
		buf.Write(out)
	}
	return buf.Bytes(), nil
}
