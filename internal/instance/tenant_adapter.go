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

// TenantAdapter adapts a *vynilv1.TenantInstance to Adapter.
type TenantAdapter struct {
	Obj *vynilv1.TenantInstance
}

const TenantFinalizer = "vynil.solidite.fr/tenant-instance"

func (a *TenantAdapter) Object() client.Object           { return a.Obj }
func (a *TenantAdapter) Kind() string                    { return "TenantInstance" }
func (a *TenantAdapter) FinalizerName() string           { return TenantFinalizer }
func (a *TenantAdapter) Usage() vynilv1.PackageUsage      { return vynilv1.PackageUsageTenant }
func (a *TenantAdapter) Spec() *vynilv1.InstanceSpec      { return &a.Obj.Spec.InstanceSpec }
func (a *TenantAdapter) Status() *vynilv1.InstanceStatus  { return &a.Obj.Status.InstanceStatus }

func (a *TenantAdapter) ConditionMask() []string {
	return vynilv1.ConditionMaskFor("TenantInstance")
}

// HasDependents refuses cleanup while any ServiceInstance in the same
// namespace still references this TenantInstance.
func (a *TenantAdapter) HasDependents(ctx context.Context, c client.Client) (bool, error) {
	var services vynilv1.ServiceInstanceList
	if err := c.List(ctx, &services, client.InNamespace(a.Obj.Namespace)); err != nil {
		return false, err
	}
	for _, s := range services.Items {
		if s.Spec.TenantRef == a.Obj.Name {
			return true, nil
		}
	}
	return false, nil
}

// HasPendingState mirrors have_child from
// original_source/common/src/instancetenant.rs: own state blobs/applied
// CRDs, or any resolved Systems/Services lists this TenantInstance recorded.
func (a *TenantAdapter) HasPendingState() bool {
	s := a.Obj.Status
	return s.InstanceStatus.HasOwnState() || len(s.Systems) > 0 || len(s.Services) > 0
}
