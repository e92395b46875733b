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

// TenantInstanceSpec is the desired state of a TenantInstance: the
// per-tenant installation of a Tenant-typed package within a namespace.
type TenantInstanceSpec struct {
	InstanceSpec `json:",inline"`
}

// TenantInstanceStatus is the observed state of a TenantInstance.
type TenantInstanceStatus struct {
	InstanceStatus `json:",inline"`

	// Systems lists the SystemInstance names this TenantInstance's
	// SystemPackage requirements were resolved against.
	Systems []string `json:"systems,omitempty"`

	// Services lists sibling ServiceInstance names this TenantInstance
	// has declared as children. A non-empty list refuses cleanup once the
	// package is no longer catalogued; live ServiceInstances whose
	// tenantRef names this TenantInstance refuse cleanup in every case.
	Services []string `json:"services,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Category",type=string,JSONPath=".spec.category"
// +kubebuilder:printcolumn:name="Package",type=string,JSONPath=".spec.package"
// +kubebuilder:printcolumn:name="Ready",type=string,JSONPath=`.status.conditions[?(@.type=="Ready")].status`
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// TenantInstance installs a Tenant-typed package into one tenant's
// namespace, depending on zero or more SystemInstances for shared
// infrastructure.
type TenantInstance struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   TenantInstanceSpec   `json:"spec,omitempty"`
	Status TenantInstanceStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// TenantInstanceList contains a list of TenantInstance.
type TenantInstanceList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []TenantInstance `json:"items"`
}

func (in *TenantInstanceSpec) DeepCopyInto(out *TenantInstanceSpec) {
	*out = *in
	in.InstanceSpec.DeepCopyInto(&out.InstanceSpec)
}

func (in *TenantInstanceSpec) DeepCopy() *TenantInstanceSpec {
	if in == nil {
		return nil
	}
	out := new(TenantInstanceSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *TenantInstanceStatus) DeepCopyInto(out *TenantInstanceStatus) {
	*out = *in
	in.InstanceStatus.DeepCopyInto(&out.InstanceStatus)
	if in.Systems != nil {
		out.Systems = append([]string(nil), in.Systems...)
	}
	if in.Services != nil {
		out.Services = append([]string(nil), in.Services...)
	}
}

func (in *TenantInstanceStatus) DeepCopy() *TenantInstanceStatus {
	if in == nil {
		return nil
	}
	out := new(TenantInstanceStatus)
	in.DeepCopyInto(out)
	return out
}

func (in *TenantInstance) DeepCopyInto(out *TenantInstance) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *TenantInstance) DeepCopy() *TenantInstance {
	if in == nil {
		return nil
	}
	out := new(TenantInstance)
	in.DeepCopyInto(out)
	return out
}

func (in *TenantInstance) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *TenantInstanceList) DeepCopyInto(out *TenantInstanceList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]TenantInstance, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *TenantInstanceList) DeepCopy() *TenantInstanceList {
	if in == nil {
		return nil
	}
	out := new(TenantInstanceList)
	in.DeepCopyInto(out)
	return out
}

func (in *TenantInstanceList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}
