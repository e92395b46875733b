/*
Copyright 2022.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1

import (
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// InstanceSpec is the field set shared by SystemInstance, TenantInstance
// and ServiceInstance. The Rust original expressed this sharing through
// the InstanceKind trait's accessor methods (instance_common.rs); here it
// is expressed by value-embedding the same struct in each kind's Spec.
type InstanceSpec struct {
	// Category/Package select the catalogue entry to install, resolved
	// against the package cache built from every JukeBox in the cluster.
	Category string `json:"category"`
	Package  string `json:"package"`

	// JukeboxRef optionally pins resolution to one named JukeBox rather
	// than searching the whole cache.
	JukeboxRef *string `json:"jukeboxRef,omitempty"`

	// Options is opaque, package-defined configuration forwarded verbatim
	// into the worker Job's rendered values.
	// +kubebuilder:pruning:PreserveUnknownFields
	Options map[string]apiextensionsv1.JSON `json:"options,omitempty"`

	// Plan reserved for a future dry-run/plan-only mode; unused by any
	// current operation. Recovered as a placeholder from
	// original_source/common/src/instancesystem.rs field layout.
	Plan *string `json:"plan,omitempty"`
}

// InstanceStatus is the field set shared by SystemInstance, TenantInstance
// and ServiceInstance.
type InstanceStatus struct {
	// +patchMergeKey=type
	// +patchStrategy=merge
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty" patchStrategy:"merge" patchMergeKey:"type"`

	// Tag records the package version last successfully applied.
	Tag string `json:"tag,omitempty"`

	// Digest is sha256 of the JSON-serialized spec.options (or of "{}"
	// when options is unset), used to detect drift without re-diffing the
	// whole options tree: Ready=True implies Digest equals hash(spec.options).
	Digest string `json:"digest,omitempty"`

	// TFState/RhaiState hold opaque base64+gzip state blobs handed back
	// verbatim by the worker Job; the operator never inspects them.
	TFState   *string `json:"tfState,omitempty"`
	RhaiState *string `json:"rhaiState,omitempty"`

	// CRDs lists CustomResourceDefinition names the last successful
	// install applied, used by requirement checks of dependent packages.
	CRDs []string `json:"crds,omitempty"`
}

func (in *InstanceSpec) DeepCopyInto(out *InstanceSpec) {
	*out = *in
	if in.JukeboxRef != nil {
		out.JukeboxRef = new(string)
		*out.JukeboxRef = *in.JukeboxRef
	}
	if in.Options != nil {
		out.Options = make(map[string]apiextensionsv1.JSON, len(in.Options))
		for k, v := range in.Options {
			if v.Raw != nil {
				out.Options[k] = apiextensionsv1.JSON{Raw: append([]byte(nil), v.Raw...)}
			} else {
				out.Options[k] = apiextensionsv1.JSON{}
			}
		}
	}
	if in.Plan != nil {
		out.Plan = new(string)
		*out.Plan = *in.Plan
	}
}

func (in *InstanceSpec) DeepCopy() *InstanceSpec {
	if in == nil {
		return nil
	}
	out := new(InstanceSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *InstanceStatus) DeepCopyInto(out *InstanceStatus) {
	*out = *in
	if in.Conditions != nil {
		out.Conditions = make([]metav1.Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&out.Conditions[i])
		}
	}
	if in.TFState != nil {
		out.TFState = new(string)
		*out.TFState = *in.TFState
	}
	if in.RhaiState != nil {
		out.RhaiState = new(string)
		*out.RhaiState = *in.RhaiState
	}
	if in.CRDs != nil {
		out.CRDs = append([]string(nil), in.CRDs...)
	}
}

func (in *InstanceStatus) DeepCopy() *InstanceStatus {
	if in == nil {
		return nil
	}
	out := new(InstanceStatus)
	in.DeepCopyInto(out)
	return out
}

// HasOwnState reports whether the worker has recorded any state this
// Instance's status directly owns (opaque state blobs or applied CRDs),
// mirroring have_child's tfstate/rhaistate/crds checks in
// original_source/common/src/instancesystem.rs. Per-kind child lists
// (ServiceInstance's befores/vitals/... and TenantInstance/SystemInstance's
// sibling lists) are checked separately by each kind's own status type.
func (in *InstanceStatus) HasOwnState() bool {
	if in.TFState != nil && *in.TFState != "" {
		return true
	}
	if in.RhaiState != nil && *in.RhaiState != "" {
		return true
	}
	return len(in.CRDs) > 0
}
