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

// ServiceInstanceSpec is the desired state of a ServiceInstance: a
// per-workload unit installed as a child of a TenantInstance (for example
// a single database, queue, or cache belonging to one tenant application).
type ServiceInstanceSpec struct {
	InstanceSpec `json:",inline"`

	// TenantRef names the owning TenantInstance in the same namespace;
	// cleanup of the TenantInstance is refused while ServiceInstances
	// referencing it still exist.
	TenantRef string `json:"tenantRef"`
}

// ServiceInstanceStatus is the observed state of a ServiceInstance.
type ServiceInstanceStatus struct {
	InstanceStatus `json:",inline"`

	// Befores/Vitals/Scalables/Others list the Kubernetes objects the
	// worker created on this ServiceInstance's behalf, grouped by the
	// category of the original package's manifest (pre-install hooks,
	// stateful vital workloads, horizontally-scalable workloads, and
	// everything else), mirroring the original's "status.children" data model.
	Befores   []ChildRef `json:"befores,omitempty"`
	Vitals    []ChildRef `json:"vitals,omitempty"`
	Scalables []ChildRef `json:"scalables,omitempty"`
	Others    []ChildRef `json:"others,omitempty"`

	// Services lists the keys of any Service objects the worker published
	// for this instance, consumable by other packages' value scripts.
	Services []string `json:"services,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Tenant",type=string,JSONPath=".spec.tenantRef"
// +kubebuilder:printcolumn:name="Category",type=string,JSONPath=".spec.category"
// +kubebuilder:printcolumn:name="Package",type=string,JSONPath=".spec.package"
// +kubebuilder:printcolumn:name="Ready",type=string,JSONPath=`.status.conditions[?(@.type=="Ready")].status`
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// ServiceInstance installs a Service-typed package as a child of exactly
// one TenantInstance.
type ServiceInstance struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ServiceInstanceSpec   `json:"spec,omitempty"`
	Status ServiceInstanceStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// ServiceInstanceList contains a list of ServiceInstance.
type ServiceInstanceList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ServiceInstance `json:"items"`
}

func (in *ServiceInstanceSpec) DeepCopyInto(out *ServiceInstanceSpec) {
	*out = *in
	in.InstanceSpec.DeepCopyInto(&out.InstanceSpec)
}

func (in *ServiceInstanceSpec) DeepCopy() *ServiceInstanceSpec {
	if in == nil {
		return nil
	}
	out := new(ServiceInstanceSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *ServiceInstanceStatus) DeepCopyInto(out *ServiceInstanceStatus) {
	*out = *in
	in.InstanceStatus.DeepCopyInto(&out.InstanceStatus)
	out.Befores = deepCopyChildRefSlice(in.Befores)
	out.Vitals = deepCopyChildRefSlice(in.Vitals)
	out.Scalables = deepCopyChildRefSlice(in.Scalables)
	out.Others = deepCopyChildRefSlice(in.Others)
	if in.Services != nil {
		out.Services = append([]string(nil), in.Services...)
	}
}

func (in *ServiceInstanceStatus) DeepCopy() *ServiceInstanceStatus {
	if in == nil {
		return nil
	}
	out := new(ServiceInstanceStatus)
	in.DeepCopyInto(out)
	return out
}

func (in *ServiceInstance) DeepCopyInto(out *ServiceInstance) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *ServiceInstance) DeepCopy() *ServiceInstance {
	if in == nil {
		return nil
	}
	out := new(ServiceInstance)
	in.DeepCopyInto(out)
	return out
}

func (in *ServiceInstance) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *ServiceInstanceList) DeepCopyInto(out *ServiceInstanceList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]ServiceInstance, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *ServiceInstanceList) DeepCopy() *ServiceInstanceList {
	if in == nil {
		return nil
	}
	out := new(ServiceInstanceList)
	in.DeepCopyInto(out)
	return out
}

func (in *ServiceInstanceList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}
