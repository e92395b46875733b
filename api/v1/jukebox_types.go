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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// JukeBoxMaturity gates how aggressively a JukeBox's package list is
// refreshed and trusted. Ported from common/src/jukebox.rs JukeBoxMaturity.
type JukeBoxMaturity string

const (
	JukeBoxMaturityStable JukeBoxMaturity = "Stable"
	JukeBoxMaturityBeta   JukeBoxMaturity = "Beta"
	JukeBoxMaturityAlpha  JukeBoxMaturity = "Alpha"
)

// JukeBoxSourceKind discriminates a JukeBoxSpec's package source.
type JukeBoxSourceKind string

const (
	JukeBoxSourceList   JukeBoxSourceKind = "List"
	JukeBoxSourceHarbor JukeBoxSourceKind = "Harbor"
	JukeBoxSourceScript JukeBoxSourceKind = "Script"
)

// JukeBoxSource describes where a JukeBox's catalogue comes from. Exactly
// one branch applies, selected by Kind.
type JukeBoxSource struct {
	Kind JukeBoxSourceKind `json:"kind"`

	// List holds explicit registry/image/tag triples when Kind is List.
	List []JukeBoxListEntry `json:"list,omitempty"`

	// Registry/Project are set when Kind is Harbor: the catalogue is
	// discovered by querying a Harbor project's repositories/tags.
	Registry string `json:"registry,omitempty"`
	Project  string `json:"project,omitempty"`

	// Script is an embedded-language expression returning the catalogue
	// when Kind is Script.
	Script string `json:"script,omitempty"`
}

// JukeBoxListEntry is one explicit package image reference.
type JukeBoxListEntry struct {
	Registry string `json:"registry"`
	Image    string `json:"image"`
	Tag      string `json:"tag"`
}

// JukeBoxSpec is the desired state of a JukeBox: where to find packages and
// how often to refresh the catalogue.
type JukeBoxSpec struct {
	Source JukeBoxSource `json:"source"`

	// Maturity controls refresh trust level; defaults to Stable.
	// +kubebuilder:default=Stable
	Maturity JukeBoxMaturity `json:"maturity,omitempty"`

	// Schedule is a standard 5-field cron expression controlling catalogue
	// refresh cadence (see internal/jukebox, grounded on robfig/cron).
	// +kubebuilder:default="*/15 * * * *"
	Schedule string `json:"schedule,omitempty"`

	// PullSecretRef optionally names a Secret injected into worker Jobs
	// pulling package images from a private registry.
	PullSecretRef *string `json:"pullSecretRef,omitempty"`
}

// JukeBoxStatus is the observed state of a JukeBox: its catalogue and
// condition set.
type JukeBoxStatus struct {
	// Conditions follows the standard metav1.Condition convention; see
	// ConditionMaskFor("JukeBox") for which types appear here.
	// +patchMergeKey=type
	// +patchStrategy=merge
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty" patchStrategy:"merge" patchMergeKey:"type"`

	// Packages is the resolved catalogue as of the last successful refresh.
	Packages []PackageRecord `json:"packages,omitempty"`

	// LastRefreshTime records when Packages was last repopulated.
	LastRefreshTime *metav1.Time `json:"lastRefreshTime,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Cluster
// +kubebuilder:printcolumn:name="Ready",type=string,JSONPath=`.status.conditions[?(@.type=="Ready")].status`
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// JukeBox is the cluster-scoped source of truth for a reachable package
// catalogue: where packages live, how to refresh them, and the resulting
// list consumed by every Instance reconciler's read-only cache lookup.
type JukeBox struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   JukeBoxSpec   `json:"spec,omitempty"`
	Status JukeBoxStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// JukeBoxList contains a list of JukeBox.
type JukeBoxList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []JukeBox `json:"items"`
}

func (in *JukeBoxSource) DeepCopyInto(out *JukeBoxSource) {
	*out = *in
	if in.List != nil {
		out.List = make([]JukeBoxListEntry, len(in.List))
		copy(out.List, in.List)
	}
}

func (in *JukeBoxSource) DeepCopy() *JukeBoxSource {
	if in == nil {
		return nil
	}
	out := new(JukeBoxSource)
	in.DeepCopyInto(out)
	return out
}

func (in *JukeBoxSpec) DeepCopyInto(out *JukeBoxSpec) {
	*out = *in
	in.Source.DeepCopyInto(&out.Source)
	if in.PullSecretRef != nil {
		out.PullSecretRef = new(string)
		*out.PullSecretRef = *in.PullSecretRef
	}
}

func (in *JukeBoxSpec) DeepCopy() *JukeBoxSpec {
	if in == nil {
		return nil
	}
	out := new(JukeBoxSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *JukeBoxStatus) DeepCopyInto(out *JukeBoxStatus) {
	*out = *in
	if in.Conditions != nil {
		out.Conditions = make([]metav1.Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&out.Conditions[i])
		}
	}
	if in.Packages != nil {
		out.Packages = make([]PackageRecord, len(in.Packages))
		for i := range in.Packages {
			in.Packages[i].DeepCopyInto(&out.Packages[i])
		}
	}
	if in.LastRefreshTime != nil {
		out.LastRefreshTime = in.LastRefreshTime.DeepCopy()
	}
}

func (in *JukeBoxStatus) DeepCopy() *JukeBoxStatus {
	if in == nil {
		return nil
	}
	out := new(JukeBoxStatus)
	in.DeepCopyInto(out)
	return out
}

func (in *JukeBox) DeepCopyInto(out *JukeBox) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *JukeBox) DeepCopy() *JukeBox {
	if in == nil {
		return nil
	}
	out := new(JukeBox)
	in.DeepCopyInto(out)
	return out
}

func (in *JukeBox) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *JukeBoxList) DeepCopyInto(out *JukeBoxList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]JukeBox, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *JukeBoxList) DeepCopy() *JukeBoxList {
	if in == nil {
		return nil
	}
	out := new(JukeBoxList)
	in.DeepCopyInto(out)
	return out
}

func (in *JukeBoxList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}
