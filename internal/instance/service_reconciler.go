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

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	ctrl "sigs.k8s.io/controller-runtime"

	vynilv1 "github.com/sebt3/vynil/api/v1"
	"github.com/sebt3/vynil/internal/vynilerrors"
)

// ServiceReconciler reconciles ServiceInstance objects through Engine.
type ServiceReconciler struct {
	*Engine
}

func (r *ServiceReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&vynilv1.ServiceInstance{}).
		Named("serviceinstance").
		Complete(r)
}

func (r *ServiceReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	var obj vynilv1.ServiceInstance
	if err := r.Engine.Client.Get(ctx, req.NamespacedName, &obj); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, vynilerrors.APIServer(err, "get serviceinstance %s", req.NamespacedName)
	}
	return reconcileAdapter(ctx, r.Engine, &ServiceAdapter{Obj: &obj})
}
