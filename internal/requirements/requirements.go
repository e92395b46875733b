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

// Package requirements evaluates a PackageRecord's requirement list
// against live cluster state, replacing check_requirements in
// original_source/operator/src/instance_common.rs.
package requirements

import (
	"context"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"

	vynilv1 "github.com/sebt3/vynil/api/v1"
	"github.com/sebt3/vynil/internal/conditions"
	"github.com/sebt3/vynil/internal/packagecache"
	"github.com/sebt3/vynil/internal/scripting"
	"github.com/sebt3/vynil/internal/semverutil"
	"github.com/sebt3/vynil/internal/vynilerrors"
)

// StorageClassAdvertiser reports whether a cluster StorageClass satisfies
// a given StorageCapability; extracted as an interface so tests don't need
// a live API server.
type StorageClassAdvertiser interface {
	Advertises(ctx context.Context, capability vynilv1.StorageCapability) (bool, error)
}

// Context bundles everything a requirement check needs to consult.
type Context struct {
	Client   client.Client
	Cache    *packagecache.Cache
	Storage  StorageClassAdvertiser
	Eval     *scripting.Evaluator
	Previous string // status.tag of the Instance being reconciled, or "".
}

// Check evaluates every requirement in reqs, returning the first
// unsatisfied one as a *vynilerrors.Error, or nil if all are satisfied.
func Check(ctx context.Context, rc Context, reqs []vynilv1.PackageRequirement) error {
	for _, r := range reqs {
		if err := checkOne(ctx, rc, r); err != nil {
			return err
		}
	}
	return nil
}

func checkOne(ctx context.Context, rc Context, r vynilv1.PackageRequirement) error {
	switch r.Kind {
	case vynilv1.RequirementCRD:
		var crd apiextensionsv1.CustomResourceDefinition
		err := rc.Client.Get(ctx, client.ObjectKey{Name: r.CRDName}, &crd)
		if apierrors.IsNotFound(err) {
			return vynilerrors.RequirementUnsatisfied("CustomResourceDefinition %q is not installed", r.CRDName)
		}
		if err != nil {
			return vynilerrors.APIServer(err, "checking CustomResourceDefinition %q", r.CRDName)
		}
		return nil

	case vynilv1.RequirementSystemPackage:
		ready, err := systemPackageReady(ctx, rc.Client, r.Category, r.Name)
		if err != nil {
			return vynilerrors.APIServer(err, "listing SystemInstances for %s/%s", r.Category, r.Name)
		}
		if !ready {
			return vynilerrors.RequirementUnsatisfied("no Ready SystemInstance installs %s/%s", r.Category, r.Name)
		}
		return nil

	case vynilv1.RequirementTenantPackage:
		ready, err := tenantPackageReady(ctx, rc.Client, r.Category, r.Name)
		if err != nil {
			return vynilerrors.APIServer(err, "listing TenantInstances for %s/%s", r.Category, r.Name)
		}
		if !ready {
			return vynilerrors.RequirementUnsatisfied("no Ready TenantInstance installs %s/%s", r.Category, r.Name)
		}
		return nil

	case vynilv1.RequirementStorageCapability:
		if rc.Storage == nil {
			return vynilerrors.RequirementUnsatisfied("no storage capability advertiser configured")
		}
		ok, err := rc.Storage.Advertises(ctx, r.Storage)
		if err != nil {
			return vynilerrors.APIServer(err, "checking storage capability %q", r.Storage)
		}
		if !ok {
			return vynilerrors.RequirementUnsatisfied("no StorageClass advertises capability %q", r.Storage)
		}
		return nil

	case vynilv1.RequirementMinimumPreviousVersion:
		ok, err := semverutil.SatisfiesMinimum(rc.Previous, r.MinimumVersion)
		if err != nil {
			return err
		}
		if !ok {
			return vynilerrors.RequirementUnsatisfied("previous version %q does not satisfy minimum %q", rc.Previous, r.MinimumVersion)
		}
		return nil

	case vynilv1.RequirementPrefly:
		if rc.Eval == nil {
			return vynilerrors.RequirementUnsatisfied("no script evaluator configured for prefly check %q", r.PreflyName)
		}
		ok, err := rc.Eval.EvaluateBool(r.PreflyScript)
		if err != nil {
			return vynilerrors.RequirementUnsatisfied("prefly check %q errored: %v", r.PreflyName, err)
		}
		if !ok {
			return vynilerrors.RequirementUnsatisfied("prefly check %q returned false", r.PreflyName)
		}
		return nil

	default:
		return vynilerrors.Serialization(nil, "unknown requirement kind %q", r.Kind)
	}
}

// systemPackageReady reports whether any SystemInstance cluster-wide
// installs (category, name) and reports Ready=True, requiring
// SystemPackage requirement.
func systemPackageReady(ctx context.Context, c client.Client, category, name string) (bool, error) {
	if c == nil {
		return false, nil
	}
	var list vynilv1.SystemInstanceList
	if err := c.List(ctx, &list); err != nil {
		return false, err
	}
	for _, inst := range list.Items {
		if inst.Spec.Category == category && inst.Spec.Package == name &&
			conditions.IsTrue(inst.Status.Conditions, vynilv1.ConditionTypeReady) {
			return true, nil
		}
	}
	return false, nil
}

// tenantPackageReady mirrors systemPackageReady for TenantInstance.
func tenantPackageReady(ctx context.Context, c client.Client, category, name string) (bool, error) {
	if c == nil {
		return false, nil
	}
	var list vynilv1.TenantInstanceList
	if err := c.List(ctx, &list); err != nil {
		return false, err
	}
	for _, inst := range list.Items {
		if inst.Spec.Category == category && inst.Spec.Package == name &&
			conditions.IsTrue(inst.Status.Conditions, vynilv1.ConditionTypeReady) {
			return true, nil
		}
	}
	return false, nil
}
