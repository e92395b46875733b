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

// SystemInstanceSpec is the desired state of a SystemInstance: the cluster
// -wide, namespace-scoped installation of a System-typed package.
type SystemInstanceSpec struct {
	InstanceSpec `json:",inline"`
}

// SystemInstanceStatus is the observed state of a SystemInstance.
type SystemInstanceStatus struct {
	InstanceStatus `json:",inline"`

	// Systems lists the names of sibling SystemInstances this one declared
	// a SystemPackage requirement against and found satisfied.
	Systems []string `json:"systems,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Category",type=string,JSONPath=".spec.category"
// +kubebuilder:printcolumn:name="Package",type=string,JSONPath=".spec.package"
// +kubebuilder:printcolumn:name="Ready",type=string,JSONPath=`.status.conditions[?(@.type=="Ready")].status`
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// SystemInstance installs a System-typed package: infrastructure shared by
// every tenant in the namespace (operators, CRDs, shared controllers).
type SystemInstance struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   SystemInstanceSpec   `json:"spec,omitempty"`
	Status SystemInstanceStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// SystemInstanceList contains a list of SystemInstance.
type SystemInstanceList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []SystemInstance `json:"items"`
}

func (in *SystemInstanceSpec) DeepCopyInto(out *SystemInstanceSpec) {
	*out = *in
	in.InstanceSpec.DeepCopyInto(&out.InstanceSpec)
}

func (in *SystemInstanceSpec) DeepCopy() *SystemInstanceSpec {
	if in == nil {
		return nil
	}
	out := new(SystemInstanceSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *SystemInstanceStatus) DeepCopyInto(out *SystemInstanceStatus) {
	*out = *in
	in.InstanceStatus.DeepCopyInto(&out.InstanceStatus)
	if in.Systems != nil {
		out.Systems = append([]string(nil), in.Systems...)
	}
}

func (in *SystemInstanceStatus) DeepCopy() *SystemInstanceStatus {
	if in == nil {
		return nil
	}
	out := new(SystemInstanceStatus)
	in.DeepCopyInto(out)
	return out
}

func (in *SystemInstance) DeepCopyInto(out *SystemInstance) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *SystemInstance) DeepCopy() *SystemInstance {
	if in == nil {
		return nil
	}
	out := new(SystemInstance)
	in.DeepCopyInto(out)
	return out
}

func (in *SystemInstance) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *SystemInstanceList) DeepCopyInto(out *SystemInstanceList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]SystemInstance, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *SystemInstanceList) DeepCopy() *SystemInstanceList {
	if in == nil {
		return nil
	}
	out := new(SystemInstanceList)
	in.DeepCopyInto(out)
	return out
}

func (in *SystemInstanceList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}
