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

// ChildRef identifies one Kubernetes object a worker Job created on behalf
// of a ServiceInstance, grounded on the `Children` struct in
// original_source/common/src/instancetenant.rs.
type ChildRef struct {
	// Kind of the k8s object (e.g. "Deployment", "StatefulSet").
	Kind string `json:"kind"`
	// Name of the object.
	Name string `json:"name"`
	// Namespace the object lives in, when it differs from the owning
	// Instance's own namespace.
	Namespace *string `json:"namespace,omitempty"`
}

func (in *ChildRef) DeepCopyInto(out *ChildRef) {
	*out = *in
	if in.Namespace != nil {
		out.Namespace = new(string)
		*out.Namespace = *in.Namespace
	}
}

func (in *ChildRef) DeepCopy() *ChildRef {
	if in == nil {
		return nil
	}
	out := new(ChildRef)
	in.DeepCopyInto(out)
	return out
}

func deepCopyChildRefSlice(in []ChildRef) []ChildRef {
	if in == nil {
		return nil
	}
	out := make([]ChildRef, len(in))
	for i := range in {
		in[i].DeepCopyInto(&out[i])
	}
	return out
}
