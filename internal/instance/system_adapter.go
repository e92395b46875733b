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

// SystemAdapter adapts a *vynilv1.SystemInstance to Adapter.
type SystemAdapter struct {
	Obj *vynilv1.SystemInstance
}

const SystemFinalizer = "vynil.solidite.fr/system-instance"

func (a *SystemAdapter) Object() client.Object { return a.Obj }
func (a *SystemAdapter) Kind() string          { return "SystemInstance" }
func (a *SystemAdapter) FinalizerName() string { return SystemFinalizer }
func (a *SystemAdapter) Usage() vynilv1.PackageUsage { return vynilv1.PackageUsageSystem }

func (a *SystemAdapter) Spec() *vynilv1.InstanceSpec     { return &a.Obj.Spec.InstanceSpec }
func (a *SystemAdapter) Status() *vynilv1.InstanceStatus { return &a.Obj.Status.InstanceStatus }

func (a *SystemAdapter) ConditionMask() []string {
	return vynilv1.ConditionMaskFor("SystemInstance")
}

// HasDependents reports whether any TenantInstance in the cluster still
// declares a SystemPackage requirement resolved against this instance.
func (a *SystemAdapter) HasDependents(ctx context.Context, c client.Client) (bool, error) {
	var tenants vynilv1.TenantInstanceList
	if err := c.List(ctx, &tenants); err != nil {
		return false, err
	}
	for _, t := range tenants.Items {
		for _, s := range t.Status.Systems {
			if s == a.Obj.Name {
				return true, nil
			}
		}
	}
	return false, nil
}

// HasPendingState mirrors have_child from
// original_source/common/src/instancesystem.rs: own state blobs/applied
// CRDs, or a non-empty resolved Systems list.
func (a *SystemAdapter) HasPendingState() bool {
	s := a.Obj.Status
	return s.InstanceStatus.HasOwnState() || len(s.Systems) > 0
}
