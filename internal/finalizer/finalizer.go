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

// Package finalizer adapts a plain cleanup function to
// sigs.k8s.io/controller-runtime/pkg/finalizer's Finalizer interface, the
// same function-type trick operator-controller's internal finalizers
// package uses.
package finalizer

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/client"
	crfinalizer "sigs.k8s.io/controller-runtime/pkg/finalizer"
)

// Func implements crfinalizer.Finalizer by calling itself.
type Func func(ctx context.Context, obj client.Object) (crfinalizer.Result, error)

func (f Func) Finalize(ctx context.Context, obj client.Object) (crfinalizer.Result, error) {
	return f(ctx, obj)
}
