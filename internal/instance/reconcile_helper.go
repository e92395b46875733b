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

	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	crfinalizer "sigs.k8s.io/controller-runtime/pkg/finalizer"

	"github.com/sebt3/vynil/internal/finalizer"
	"github.com/sebt3/vynil/internal/metrics"
	"github.com/sebt3/vynil/internal/vynilerrors"
)

// reconcileAdapter runs the finalizer-then-Apply/Cleanup dance shared by
// every Instance kind's Reconcile method, so SystemReconciler/
// TenantReconciler/ServiceReconciler each contribute only their
// client.Get plumbing.
func reconcileAdapter(ctx context.Context, e *Engine, a Adapter) (ctrl.Result, error) {
	obj := a.Object()
	m := metrics.Start(a.Kind())

	fin := crfinalizer.NewFinalizers()
	cleanup := finalizer.Func(func(ctx context.Context, obj client.Object) (crfinalizer.Result, error) {
		if err := e.Cleanup(ctx, a); err != nil {
			return crfinalizer.Result{}, err
		}
		return crfinalizer.Result{}, nil
	})
	if err := fin.Register(a.FinalizerName(), cleanup); err != nil {
		return ctrl.Result{}, vynilerrors.Finalizer(err, "register %s finalizer", a.Kind())
	}

	result, err := fin.Finalize(ctx, obj)
	if err != nil {
		err = vynilerrors.Finalizer(err, "finalize %s %s", a.Kind(), obj.GetName())
		m.Done(obj.GetName(), err)
		return ctrl.Result{}, err
	}
	if result.Updated {
		if err := e.Client.Update(ctx, obj); err != nil {
			return ctrl.Result{}, vynilerrors.APIServer(err, "persist %s finalizer update", a.Kind())
		}
	}
	if !obj.GetDeletionTimestamp().IsZero() {
		m.Done(obj.GetName(), nil)
		return ctrl.Result{}, nil
	}

	res, applyErr := e.Apply(ctx, a)
	if err := e.Client.Status().Update(ctx, obj); err != nil {
		m.Done(obj.GetName(), err)
		return ctrl.Result{}, vynilerrors.APIServer(err, "update %s status", a.Kind())
	}
	m.Done(obj.GetName(), applyErr)
	return res, applyErr
}
