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
	"fmt"
	"time"

	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	vynilv1 "github.com/sebt3/vynil/api/v1"
	"github.com/sebt3/vynil/internal/conditions"
	"github.com/sebt3/vynil/internal/digest"
	"github.com/sebt3/vynil/internal/events"
	"github.com/sebt3/vynil/internal/jobs"
	"github.com/sebt3/vynil/internal/jobtemplate"
	"github.com/sebt3/vynil/internal/labels"
	"github.com/sebt3/vynil/internal/packagecache"
	"github.com/sebt3/vynil/internal/requirements"
	"github.com/sebt3/vynil/internal/scripting"
	"github.com/sebt3/vynil/internal/vynilerrors"
)

// requeueInterval is the normal, no-error reconcile interval — 15 minutes
// in the Rust original's do_reconcile, used as a baseline drift check even
// when nothing else triggers a reconcile.
const requeueInterval = 15 * time.Minute

// readinessConditionTypes are the condition types Engine.Apply itself
// derives from the worker Job/value-script outcome. Readiness is gated on
// these rather than on an Adapter's full declared vocabulary
// (vynilv1.ConditionMaskFor), since the worker-reported condition types
// (CrdApplied, SystemApplied, BeforeApplied, VitalApplied, ScalableApplied,
// OtherApplied, InitFrom, ScheduleBackup) have no code path setting them
// from observed worker state yet; gating on them would leave Ready
// permanently unreachable.
var readinessConditionTypes = []string{
	vynilv1.ConditionTypeAgentStarted,
	vynilv1.ConditionTypeTofuInstalled,
	vynilv1.ConditionTypeRhaiApplied,
	vynilv1.ConditionTypeInstalled,
}

// jobKindShort maps an Adapter.Kind() to the short form used in the
// worker Job's canonical name: at most one worker Job exists per
// Instance, named "{kind}--{namespace}--{name}".
var jobKindShort = map[string]string{
	"SystemInstance":  "system",
	"TenantInstance":  "tenant",
	"ServiceInstance": "service",
}

// jobName computes the Job identity the engine owns (name and
// namespace); the template controls everything else about the manifest.
func jobName(a Adapter) string {
	short, ok := jobKindShort[a.Kind()]
	if !ok {
		short = a.Kind()
	}
	return fmt.Sprintf("%s--%s--%s", short, a.Object().GetNamespace(), a.Object().GetName())
}

// BaseContext is the shared configuration every worker Job is rendered
// with, sourced from the manager's environment in the Rust original
// (VYNIL_NAMESPACE/AGENT_IMAGE/AGENT_ACCOUNT/AGENT_LOG_LEVEL, see
// original_source/operator/src/manager.rs).
type BaseContext struct {
	Namespace     string
	AgentImage    string
	AgentAccount  string
	AgentLogLevel string
}

// Engine implements the shared Apply/Cleanup algorithm every Instance
// kind's concrete reconciler delegates to.
type Engine struct {
	Client   client.Client
	Cache    *packagecache.Cache
	Renderer *jobtemplate.Renderer
	Recorder record.EventRecorder
	Base     BaseContext
	Storage  requirements.StorageClassAdvertiser
}

// Apply runs the install/update path: resolve the package, check
// requirements, render and submit (or skip) the worker Job, and update
// status. Ported from do_reconcile in
// original_source/operator/src/instance_common.rs.
func (e *Engine) Apply(ctx context.Context, a Adapter) (ctrl.Result, error) {
	spec := a.Spec()
	status := a.Status()
	obj := a.Object()

	// Step 1-2: look up the package under the cache's read lock
	// (packagecache.Cache is internally RWMutex-guarded, so no explicit
	// lock is taken here). A pinned JukeBox that the cache has never heard
	// of is reported distinctly from "package not catalogued".
	if spec.JukeboxRef != nil && !e.Cache.HasJukeBox(*spec.JukeboxRef) {
		msg := fmt.Sprintf("JukeBox %s is missing", *spec.JukeboxRef)
		conditions.Failed(&status.Conditions, obj.GetGeneration(), vynilv1.ConditionTypeAgentStarted, msg)
		events.Warning(e.Recorder, obj, "MissingJukebox", msg)
		return ctrl.Result{RequeueAfter: requeueInterval}, nil
	}
	entry, found := e.Cache.Lookup(spec.Category, spec.Package, spec.JukeboxRef)
	if !found {
		msg := fmt.Sprintf("Package %s/%s is missing", spec.Category, spec.Package)
		conditions.Failed(&status.Conditions, obj.GetGeneration(), vynilv1.ConditionTypeAgentStarted, msg)
		events.Warning(e.Recorder, obj, "MissingPackage", msg)
		return ctrl.Result{RequeueAfter: requeueInterval}, nil
	}
	pkg := entry.Record
	if pkg.Metadata.Usage != a.Usage() {
		err := vynilerrors.IllegalInstall("package %s/%s is a %s package, not usable by a %s", spec.Category, spec.Package, pkg.Metadata.Usage, a.Kind())
		conditions.Failed(&status.Conditions, obj.GetGeneration(), vynilv1.ConditionTypeInstalled, err.Error())
		return ctrl.Result{}, err
	}

	// Step 3: pull-secret exposure happens below, at job-submission time,
	// using entry.PullSecret.

	// Step 4: requirement checks.
	rc := requirements.Context{
		Client:   e.Client,
		Cache:    e.Cache,
		Storage:  e.Storage,
		Eval:     scripting.New(),
		Previous: status.Tag,
	}
	if err := requirements.Check(ctx, rc, pkg.Requirements); err != nil {
		conditions.Unsatisfied(&status.Conditions, obj.GetGeneration(), vynilv1.ConditionTypeInstalled, err.Error())
		events.Warning(e.Recorder, obj, "RequirementUnsatisfied", err.Error())
		return ctrl.Result{RequeueAfter: 30 * time.Second}, nil
	}

	// Step 5: recommendations are informational; surfaced via events only.
	for _, rec := range pkg.Recommendations {
		events.Normal(e.Recorder, obj, "Recommendation", fmt.Sprintf("%s: %s", rec.Kind, rec.Name))
	}

	// Step 6: value script evaluation, producing ctrl_values for the job
	// template.
	ctrlValues := map[string]interface{}{}
	if pkg.ValueScript != nil {
		eval := scripting.New()
		eval.SetVariable("category", spec.Category)
		eval.SetVariable("package", spec.Package)
		eval.SetVariable("name", obj.GetName())
		eval.SetVariable("namespace", obj.GetNamespace())
		eval.SetVariable("instance", obj)
		v, err := eval.EvaluateMap(*pkg.ValueScript)
		if err != nil {
			conditions.Failed(&status.Conditions, obj.GetGeneration(), vynilv1.ConditionTypeRhaiApplied, err.Error())
			return ctrl.Result{}, err
		}
		ctrlValues = v
	}
	conditions.Ok(&status.Conditions, obj.GetGeneration(), vynilv1.ConditionTypeRhaiApplied, "value script evaluated")

	// Step 7: force-reinstall / drift detection. A ForceReinstallAnnotation
	// on the object triggers an unconditional reinstall: the annotation is
	// cleared and any existing worker Job is deleted before the usual
	// tag/digest/options comparison runs.
	optDigest, err := digest.Options(spec.Options)
	if err != nil {
		return ctrl.Result{}, err
	}
	forceReinstall := false
	if obj.GetAnnotations()[labels.ForceReinstallAnnotation] != "" {
		forceReinstall = true
		patch := client.MergeFrom(obj.DeepCopyObject().(client.Object))
		ann := obj.GetAnnotations()
		delete(ann, labels.ForceReinstallAnnotation)
		obj.SetAnnotations(ann)
		if err := e.Client.Patch(ctx, obj, patch); err != nil {
			return ctrl.Result{}, vynilerrors.APIServer(err, "clearing force-reinstall annotation on %s", obj.GetName())
		}
		if err := jobs.DeleteAndAwait(ctx, e.Client, obj.GetNamespace(), jobName(a)); err != nil {
			return ctrl.Result{}, err
		}
	}
	unchanged := !forceReinstall &&
		status.Tag == pkg.Tag &&
		status.Digest == optDigest &&
		conditions.IsTrue(status.Conditions, vynilv1.ConditionTypeInstalled)
	if unchanged {
		conditions.Ok(&status.Conditions, obj.GetGeneration(), vynilv1.ConditionTypeReady, "already applied, no drift detected")
		return ctrl.Result{RequeueAfter: requeueInterval}, nil
	}

	// Step 8: render and submit the worker Job via SSA with fallback.
	values := jobtemplate.Values{
		Namespace:     obj.GetNamespace(),
		OwnerKind:     a.Kind(),
		OwnerName:     obj.GetName(),
		Category:      spec.Category,
		Package:       spec.Package,
		Registry:      pkg.Registry,
		Image:         pkg.Image,
		Tag:           pkg.Tag,
		Action:        labels.ActionInstall,
		AgentImage:    e.Base.AgentImage,
		AgentAccount:  e.Base.AgentAccount,
		AgentLogLevel: e.Base.AgentLogLevel,
		OptionsDigest: optDigest,
		CtrlValues:    ctrlValues,
		PullSecret:    entry.PullSecret,
		UseSecret:     entry.PullSecret != "",
	}
	job, err := e.Renderer.RenderJob(jobtemplate.InstallTemplateName(spec.Category), values)
	if err != nil {
		conditions.Failed(&status.Conditions, obj.GetGeneration(), vynilv1.ConditionTypeTofuInstalled, err.Error())
		return ctrl.Result{}, err
	}
	// The engine, not the template, owns the Job's identity.
	job.Name = jobName(a)
	job.Namespace = obj.GetNamespace()
	if err := jobs.Upsert(ctx, e.Client, job); err != nil {
		conditions.Failed(&status.Conditions, obj.GetGeneration(), vynilv1.ConditionTypeTofuInstalled, err.Error())
		events.Warning(e.Recorder, obj, "JobSubmitFailed", err.Error())
		return ctrl.Result{}, err
	}
	outcome, err := jobs.AwaitCompletion(ctx, e.Client, job.Namespace, job.Name)
	if err != nil {
		conditions.Failed(&status.Conditions, obj.GetGeneration(), vynilv1.ConditionTypeTofuInstalled, err.Error())
		events.Warning(e.Recorder, obj, "JobFailed", err.Error())
		return ctrl.Result{}, err
	}
	if outcome != jobs.OutcomeSucceeded {
		err := vynilerrors.JobFailed("install job for %s did not succeed", obj.GetName())
		conditions.Failed(&status.Conditions, obj.GetGeneration(), vynilv1.ConditionTypeTofuInstalled, err.Error())
		return ctrl.Result{}, err
	}

	// Step 9: record success and requeue on the baseline interval.
	status.Tag = pkg.Tag
	status.Digest = optDigest
	conditions.Ok(&status.Conditions, obj.GetGeneration(), vynilv1.ConditionTypeTofuInstalled, "worker job succeeded")
	conditions.Ok(&status.Conditions, obj.GetGeneration(), vynilv1.ConditionTypeAgentStarted, "agent completed")
	conditions.Ok(&status.Conditions, obj.GetGeneration(), vynilv1.ConditionTypeInstalled, "package installed")
	if conditions.AllMaskedTrue(status.Conditions, readinessConditionTypes, vynilv1.ConditionTypeReady) {
		conditions.Ok(&status.Conditions, obj.GetGeneration(), vynilv1.ConditionTypeReady, "all conditions satisfied")
	}
	events.Normal(e.Recorder, obj, "Installed", fmt.Sprintf("applied %s/%s:%s", spec.Category, spec.Package, pkg.Tag))
	return ctrl.Result{RequeueAfter: requeueInterval}, nil
}

// Cleanup runs the uninstall path: refuse if children exist, otherwise
// render and await a delete-action Job, then let the caller remove the
// finalizer. Ported from do_cleanup in
// original_source/operator/src/instance_common.rs.
func (e *Engine) Cleanup(ctx context.Context, a Adapter) error {
	obj := a.Object()
	spec := a.Spec()
	status := a.Status()

	// Sibling-dependent check: refuse unconditionally, regardless of
	// whether the package is still catalogued.
	hasDependents, err := a.HasDependents(ctx, e.Client)
	if err != nil {
		return vynilerrors.APIServer(err, "checking dependents of %s", obj.GetName())
	}
	if hasDependents {
		return vynilerrors.IllegalDistrib("%s %s still has dependent instances, refusing cleanup", a.Kind(), obj.GetName())
	}

	// Step 1-2: resolve the package as in Apply. If it is no longer
	// catalogued, a delete-action Job can't be rendered (no registry/image/
	// tag to fill in); acknowledge deletion immediately when there is no
	// pending state to reconcile, but refuse if the worker may still own
	// live resources (have_child, original_source/common/src/instance*.rs).
	entry, found := e.Cache.Lookup(spec.Category, spec.Package, spec.JukeboxRef)
	if !found {
		if a.HasPendingState() {
			return vynilerrors.IllegalDistrib("%s %s has pending state but package %s/%s is no longer catalogued, refusing cleanup", a.Kind(), obj.GetName(), spec.Category, spec.Package)
		}
		return nil
	}
	pkg := entry.Record

	name := jobName(a)
	if err := jobs.DeleteAndAwait(ctx, e.Client, obj.GetNamespace(), name); err != nil {
		return err
	}

	values := jobtemplate.Values{
		Namespace:     obj.GetNamespace(),
		OwnerKind:     a.Kind(),
		OwnerName:     obj.GetName(),
		Category:      spec.Category,
		Package:       spec.Package,
		Registry:      pkg.Registry,
		Image:         pkg.Image,
		Tag:           pkg.Tag,
		Action:        labels.ActionDelete,
		AgentImage:    e.Base.AgentImage,
		AgentAccount:  e.Base.AgentAccount,
		AgentLogLevel: e.Base.AgentLogLevel,
		PullSecret:    entry.PullSecret,
		UseSecret:     entry.PullSecret != "",
	}
	job, err := e.Renderer.RenderJob(jobtemplate.DeleteTemplateName(spec.Category), values)
	if err != nil {
		return err
	}
	job.Name = name
	job.Namespace = obj.GetNamespace()
	if err := jobs.Upsert(ctx, e.Client, job); err != nil {
		return err
	}
	outcome, err := jobs.AwaitCompletion(ctx, e.Client, job.Namespace, job.Name)
	if err != nil {
		return err
	}
	if outcome != jobs.OutcomeSucceeded {
		return vynilerrors.JobFailed("delete job for %s did not succeed", obj.GetName())
	}
	if err := jobs.DeleteAndAwait(ctx, e.Client, job.Namespace, job.Name); err != nil {
		return err
	}

	conditions.Ok(&status.Conditions, obj.GetGeneration(), vynilv1.ConditionTypeInstalled, "package removed")
	events.Normal(e.Recorder, obj, "Removed", fmt.Sprintf("removed %s/%s", spec.Category, spec.Package))
	return nil
}
