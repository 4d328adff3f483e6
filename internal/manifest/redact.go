package manifest

import (
	"encoding/base64"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Redacted replaces secret material in discovered objects.
const Redacted = "****"

// LastAppliedAnnotation is written by kubectl apply and may embed secret data.
const LastAppliedAnnotation = "kubectl.kubernetes.io/last-applied-configuration"

// Redact blanks the payload of a Secret in place. Other kinds are left
// untouched.
func Redact(obj *unstructured.Unstructured) {
	if obj.GetKind() != "Secret" {
		return
	}

	if _, ok := obj.Object["data"]; ok {
		obj.Object["data"] = map[string]interface{}{
			"redacted": base64.StdEncoding.EncodeToString([]byte(Redacted)),
		}
	}
	if _, ok := obj.Object["stringData"]; ok {
		obj.Object["stringData"] = map[string]interface{}{"redacted": Redacted}
	}

	annotations := obj.GetAnnotations()
	if _, ok := annotations[LastAppliedAnnotation]; ok {
		annotations[LastAppliedAnnotation] = Redacted
		obj.SetAnnotations(annotations)
	}
}
