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

package instance

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/client"

	vynilv1 "github.com/sebt3/vynil/api/v1"
)

// ServiceAdapter adapts a *vynilv1.ServiceInstance to Adapter.
type ServiceAdapter struct {
	Obj *vynilv1.ServiceInstance
}

const ServiceFinalizer = "vynil.solidite.fr/service-instance"

func (a *ServiceAdapter) Object() client.Object          { return a.Obj }
func (a *ServiceAdapter) Kind() string                   { return "ServiceInstance" }
func (a *ServiceAdapter) FinalizerName() string          { return ServiceFinalizer }
func (a *ServiceAdapter) Usage() vynilv1.PackageUsage     { return vynilv1.PackageUsageService }
func (a *ServiceAdapter) Spec() *vynilv1.InstanceSpec     { return &a.Obj.Spec.InstanceSpec }
func (a *ServiceAdapter) Status() *vynilv1.InstanceStatus { return &a.Obj.Status.InstanceStatus }

func (a *ServiceAdapter) ConditionMask() []string {
	return vynilv1.ConditionMaskFor("ServiceInstance")
}

// HasDependents is always false: a ServiceInstance is a leaf in the
// dependency graph.
func (a *ServiceAdapter) HasDependents(_ context.Context, _ client.Client) (bool, error) {
	return false, nil
}

// HasPendingState mirrors have_child from
// original_source/common/src/instanceservice.rs: own state blobs/applied
// CRDs, or any worker-created children/published services this
// ServiceInstance recorded.
func (a *ServiceAdapter) HasPendingState() bool {
	s := a.Obj.Status
	return s.InstanceStatus.HasOwnState() ||
		len(s.Befores) > 0 || len(s.Vitals) > 0 || len(s.Scalables) > 0 || len(s.Others) > 0 ||
		len(s.Services) > 0
}
