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

// Package jobs implements the worker Job submission contract: apply via
// server-side apply, fall back to foreground-delete-then-create on
// conflict, and await completion with bounded timeouts. Ported from
// upsert_job/delete_job_and_wait/await_change in
// original_source/operator/src/instance_common.rs.
package jobs

import (
	"context"
	"time"

	batchv1 "k8s.io/api/batch/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/sebt3/vynil/internal/vynilerrors"
)

const (
	// FieldManager is the SSA field manager identity used for every
	// worker Job patch.
	FieldManager = "vynil-operator"

	// DeleteObservationTimeout bounds how long Upsert waits to observe a
	// conflicting Job actually disappear before giving up.
	DeleteObservationTimeout = 20 * time.Second

	// DeleteCompletionTimeout bounds how long DeleteAndAwait waits for a
	// deleted Job to disappear before treating the wait as expired.
	DeleteCompletionTimeout = 10 * time.Minute

	// SettleTimeout bounds generic polling loops waiting for an arbitrary
	// state change (await_change in the Rust original).
	SettleTimeout = 2 * time.Minute

	pollInterval = 2 * time.Second
)

// Upsert applies desired via SSA with force-ownership; if the API server
// rejects the patch as a conflict (another field manager owns immutable
// fields, e.g. the Job's pod template), it deletes the existing Job in
// the foreground and waits for it to disappear before creating desired
// fresh — the same two-step fallback as upsert_job.
func Upsert(ctx context.Context, c client.Client, desired *batchv1.Job) error {
	applyErr := c.Patch(ctx, desired, client.Apply, client.ForceOwnership, client.FieldOwner(FieldManager))
	if applyErr == nil {
		return nil
	}
	if !apierrors.IsConflict(applyErr) {
		return vynilerrors.APIServer(applyErr, "server-side apply of job %s/%s", desired.Namespace, desired.Name)
	}

	if err := deleteForeground(ctx, c, desired.Namespace, desired.Name); err != nil {
		return err
	}
	if err := awaitDeleted(ctx, c, desired.Namespace, desired.Name, DeleteObservationTimeout); err != nil {
		return err
	}

	desired.ResourceVersion = ""
	if err := c.Create(ctx, desired); err != nil {
		return vynilerrors.APIServer(err, "create job %s/%s after conflict fallback", desired.Namespace, desired.Name)
	}
	return nil
}

// DeleteAndAwait deletes the named Job (foreground propagation) and waits
// up to DeleteCompletionTimeout for it to disappear, returning
// WaitExpired if the timeout elapses first. A NotFound delete is treated
// as already-clean.
func DeleteAndAwait(ctx context.Context, c client.Client, namespace, name string) error {
	if err := deleteForeground(ctx, c, namespace, name); err != nil {
		return err
	}
	return awaitDeleted(ctx, c, namespace, name, DeleteCompletionTimeout)
}

func deleteForeground(ctx context.Context, c client.Client, namespace, name string) error {
	job := &batchv1.Job{ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: name}}
	policy := metav1.DeletePropagationForeground
	err := c.Delete(ctx, job, &client.DeleteOptions{PropagationPolicy: &policy})
	if err != nil && !apierrors.IsNotFound(err) {
		return vynilerrors.APIServer(err, "delete job %s/%s", namespace, name)
	}
	return nil
}

func awaitDeleted(ctx context.Context, c client.Client, namespace, name string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		var job batchv1.Job
		err := c.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, &job)
		if apierrors.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return vynilerrors.APIServer(err, "polling for deletion of job %s/%s", namespace, name)
		}
		if time.Now().After(deadline) {
			return vynilerrors.WaitExpired("job %s/%s did not disappear within %s", namespace, name, timeout)
		}
		if err := sleep(ctx, pollInterval); err != nil {
			return err
		}
	}
}

// Outcome reports a completed Job's terminal state.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeFailed
)

// AwaitCompletion polls the named Job's status until it reports Succeeded
// or Failed, bounded by SettleTimeout. Install and delete-action Jobs share
// this same bound.
func AwaitCompletion(ctx context.Context, c client.Client, namespace, name string) (Outcome, error) {
	deadline := time.Now().Add(SettleTimeout)
	for {
		var job batchv1.Job
		if err := c.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, &job); err != nil {
			return 0, vynilerrors.APIServer(err, "polling job %s/%s for completion", namespace, name)
		}
		if job.Status.Succeeded > 0 {
			return OutcomeSucceeded, nil
		}
		if job.Status.Failed > 0 && conditionTrue(job.Status.Conditions, batchv1.JobFailed) {
			return OutcomeFailed, vynilerrors.JobFailed("job %s/%s reported Failed condition", namespace, name)
		}
		if time.Now().After(deadline) {
			return 0, vynilerrors.WaitExpired("job %s/%s did not reach a terminal state within %s", namespace, name, SettleTimeout)
		}
		if err := sleep(ctx, pollInterval); err != nil {
			return 0, err
		}
	}
}

func conditionTrue(conds []batchv1.JobCondition, t batchv1.JobConditionType) bool {
	for _, c := range conds {
		if c.Type == t && c.Status == "True" {
			return true
		}
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return vynilerrors.WaitExpired("context cancelled while waiting on job: %v", ctx.Err())
	case <-timer.C:
		return nil
	}
}
