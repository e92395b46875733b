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

// Package instance implements the shared reconciliation engine used by
// SystemInstance, TenantInstance and ServiceInstance. The Rust original
// expressed kind-sharing with one InstanceKind trait implemented three
// times via macros (instance_macros.rs/instance_common.rs). Go generics
// were considered for the equivalent here and rejected: expressing "a
// client.Object with these particular accessor methods" as a type
// parameter constraint added more ceremony than the three-case switch it
// would replace. Instead, Adapter below is a small interface each
// concrete kind implements once, and Engine.Apply/Engine.Cleanup are
// written only against Adapter — a conventional Adapter/visitor pattern.
package instance

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/client"

	vynilv1 "github.com/sebt3/vynil/api/v1"
)

// Adapter exposes the per-kind surface the shared engine needs, letting
// do_reconcile/do_cleanup (ported as Engine.Apply/Engine.Cleanup)
// be written once against any of SystemInstance, TenantInstance or
// ServiceInstance.
type Adapter interface {
	// Object returns the underlying client.Object so the engine can
	// Get/Update/Status().Update it generically.
	Object() client.Object

	// Kind returns the CRD kind name, e.g. "SystemInstance".
	Kind() string

	// FinalizerName returns the finalizer string this kind registers.
	FinalizerName() string

	// Usage returns which PackageUsage this kind installs.
	Usage() vynilv1.PackageUsage

	// Spec/Status return pointers into the object's embedded
	// InstanceSpec/InstanceStatus so the engine can read/mutate them
	// without a type switch at every call site.
	Spec() *vynilv1.InstanceSpec
	Status() *vynilv1.InstanceStatus

	// ConditionMask returns the condition types this kind sets (see
	// vynilv1.ConditionMaskFor).
	ConditionMask() []string

	// HasDependents reports whether other Instances still declare a
	// dependency on this one (e.g. a TenantInstance with live
	// ServiceInstances), which unconditionally refuses cleanup.
	HasDependents(ctx context.Context, c client.Client) (bool, error)

	// HasPendingState reports whether the worker has recorded any state
	// owned by this Instance (opaque tfState/rhaiState blobs or
	// worker-created children) — the have_child check from
	// original_source/common/src/instance*.rs, consulted only when the
	// Instance's package is no longer catalogued.
	HasPendingState() bool
}
