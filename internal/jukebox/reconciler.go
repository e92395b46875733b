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

// Package jukebox implements the JukeBox reconciler: the single writer of
// the process-wide package cache. Ported from reconcile()/cleanup() in
// original_source/operator/src/jukebox.rs.
package jukebox

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	crfinalizer "sigs.k8s.io/controller-runtime/pkg/finalizer"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"k8s.io/client-go/tools/record"

	vynilv1 "github.com/sebt3/vynil/api/v1"
	"github.com/sebt3/vynil/internal/conditions"
	"github.com/sebt3/vynil/internal/events"
	"github.com/sebt3/vynil/internal/finalizer"
	"github.com/sebt3/vynil/internal/harborclient"
	"github.com/sebt3/vynil/internal/metrics"
	"github.com/sebt3/vynil/internal/packagecache"
	"github.com/sebt3/vynil/internal/registry"
	"github.com/sebt3/vynil/internal/scripting"
	"github.com/sebt3/vynil/internal/semverutil"
	"github.com/sebt3/vynil/internal/vynilerrors"
	"k8s.io/client-go/kubernetes"
)

const FinalizerName = "vynil.solidite.fr/jukebox-cache"

// defaultSchedule is used when JukeBoxSpec.Schedule is empty.
const defaultSchedule = "*/15 * * * *"

// Reconciler refreshes a JukeBox's catalogue into the shared Cache.
type Reconciler struct {
	client.Client
	Cache      *packagecache.Cache
	Clientset  kubernetes.Interface
	Recorder   record.EventRecorder
	RegistryFn func(clientset kubernetes.Interface, namespace, pullSecret string) *registry.Client
}

// SetupWithManager registers this reconciler on a JukeBox.
func (r *Reconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&vynilv1.JukeBox{}).
		Named("jukebox").
		Complete(r)
}

// Reconcile refreshes one JukeBox's catalogue and updates the shared
// Cache; cleanup on deletion simply evicts the JukeBox's entries.
func (r *Reconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := log.FromContext(ctx)
	m := metrics.Start("JukeBox")

	var jb vynilv1.JukeBox
	if err := r.Get(ctx, req.NamespacedName, &jb); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		err = vynilerrors.APIServer(err, "get jukebox %s", req.Name)
		m.Done(req.Name, err)
		return ctrl.Result{}, err
	}

	fin := finalizer.Func(func(ctx context.Context, obj client.Object) (crfinalizer.Result, error) {
		r.Cache.RemoveJukeBox(jb.Name)
		return crfinalizer.Result{}, nil
	})
	fr := crfinalizer.NewFinalizers()
	if err := fr.Register(FinalizerName, fin); err != nil {
		return ctrl.Result{}, vynilerrors.Finalizer(err, "register jukebox finalizer")
	}
	finResult, err := fr.Finalize(ctx, &jb)
	if err != nil {
		err = vynilerrors.Finalizer(err, "finalize jukebox %s", jb.Name)
		m.Done(jb.Name, err)
		return ctrl.Result{}, err
	}
	if finResult.Updated {
		if err := r.Update(ctx, &jb); err != nil {
			return ctrl.Result{}, vynilerrors.APIServer(err, "persist jukebox finalizer removal")
		}
	}
	if !jb.DeletionTimestamp.IsZero() {
		m.Done(jb.Name, nil)
		return ctrl.Result{}, nil
	}

	records, err := r.refresh(ctx, &jb)
	if err != nil {
		conditions.Failed(&jb.Status.Conditions, jb.Generation, vynilv1.ConditionTypeUpdated, err.Error())
		if conditions.Find(jb.Status.Conditions, vynilv1.ConditionTypeReady) == nil {
			conditions.Failed(&jb.Status.Conditions, jb.Generation, vynilv1.ConditionTypeReady, err.Error())
		}
		events.Warning(r.Recorder, &jb, "RefreshFailed", err.Error())
		if uerr := r.Status().Update(ctx, &jb); uerr != nil {
			log.Error(uerr, "failed to persist jukebox failure status")
		}
		m.Done(jb.Name, err)
		return ctrl.Result{}, err
	}

	records = dedupAndSort(records)
	var pullSecret string
	if jb.Spec.PullSecretRef != nil {
		pullSecret = *jb.Spec.PullSecretRef
	}
	r.Cache.ReplaceForJukeBoxWithSecret(jb.Name, records, pullSecret)
	jb.Status.Packages = records
	now := metav1.Now()
	jb.Status.LastRefreshTime = &now
	conditions.Ok(&jb.Status.Conditions, jb.Generation, vynilv1.ConditionTypeUpdated, fmt.Sprintf("%d packages catalogued", len(records)))
	conditions.Ok(&jb.Status.Conditions, jb.Generation, vynilv1.ConditionTypeReady, "catalogue refreshed")
	if err := r.Status().Update(ctx, &jb); err != nil {
		err = vynilerrors.APIServer(err, "update jukebox status %s", jb.Name)
		m.Done(jb.Name, err)
		return ctrl.Result{}, err
	}
	events.Normal(r.Recorder, &jb, "Refreshed", fmt.Sprintf("catalogue refreshed: %d packages", len(records)))

	m.Done(jb.Name, nil)
	return ctrl.Result{RequeueAfter: nextInterval(jb.Spec.Schedule)}, nil
}

func (r *Reconciler) refresh(ctx context.Context, jb *vynilv1.JukeBox) ([]vynilv1.PackageRecord, error) {
	switch jb.Spec.Source.Kind {
	case vynilv1.JukeBoxSourceList:
		return r.refreshList(ctx, jb)
	case vynilv1.JukeBoxSourceHarbor:
		return r.refreshHarbor(ctx, jb)
	case vynilv1.JukeBoxSourceScript:
		return r.refreshScript(ctx, jb)
	default:
		return nil, vynilerrors.IllegalDistrib("jukebox %s has unknown source kind %q", jb.Name, jb.Spec.Source.Kind)
	}
}

func (r *Reconciler) refreshList(ctx context.Context, jb *vynilv1.JukeBox) ([]vynilv1.PackageRecord, error) {
	out := make([]vynilv1.PackageRecord, 0, len(jb.Spec.Source.List))
	for _, entry := range jb.Spec.Source.List {
		rec, err := r.resolveOne(ctx, jb, entry.Registry, entry.Image, entry.Tag)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *Reconciler) refreshHarbor(ctx context.Context, jb *vynilv1.JukeBox) ([]vynilv1.PackageRecord, error) {
	hc := harborclient.NewClient(jb.Spec.Source.Registry, jb.Spec.Source.Project, "", "")
	repos, err := hc.ListRepositories(ctx)
	if err != nil {
		return nil, err
	}
	var out []vynilv1.PackageRecord
	for _, repo := range repos {
		tags, err := hc.ListTags(ctx, repo.Name)
		if err != nil {
			return nil, err
		}
		for _, tag := range tags {
			rec, err := r.resolveOne(ctx, jb, jb.Spec.Source.Registry, repo.Name, tag)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *Reconciler) refreshScript(_ context.Context, jb *vynilv1.JukeBox) ([]vynilv1.PackageRecord, error) {
	eval := scripting.New()
	eval.SetVariable("jukebox", jb.Name)
	result, err := eval.EvaluateMap(jb.Spec.Source.Script)
	if err != nil {
		return nil, vynilerrors.Serialization(err, "evaluate jukebox script for %s", jb.Name)
	}
	raw, ok := result["packages"].([]vynilv1.PackageRecord)
	if !ok {
		return nil, vynilerrors.Serialization(nil, "jukebox script for %s did not return a packages list", jb.Name)
	}
	return raw, nil
}

func (r *Reconciler) resolveOne(ctx context.Context, jb *vynilv1.JukeBox, reg, image, tag string) (vynilv1.PackageRecord, error) {
	var pullSecret string
	if jb.Spec.PullSecretRef != nil {
		pullSecret = *jb.Spec.PullSecretRef
	}
	regClient := r.RegistryFn(r.Clientset, "", pullSecret)
	info, err := regClient.Resolve(ctx, reg, image, tag)
	if err != nil {
		return vynilv1.PackageRecord{}, err
	}
	return vynilv1.PackageRecord{
		Registry: reg,
		Image:    image,
		Tag:      tag,
		Digest:   info.Digest,
		Metadata: metadataFromAnnotations(image, info.Annotations),
	}, nil
}

func metadataFromAnnotations(image string, ann map[string]string) vynilv1.PackageMetadata {
	meta := vynilv1.PackageMetadata{
		Name:     ann["vynil.solidite.fr/name"],
		Category: ann["vynil.solidite.fr/category"],
		Usage:    vynilv1.PackageUsage(ann["vynil.solidite.fr/type"]),
	}
	if meta.Name == "" {
		meta.Name = image
	}
	if meta.Usage == "" {
		meta.Usage = vynilv1.PackageUsageTenant
	}
	return meta
}

// dedupAndSort enforces step 3 of the JukeBox algorithm: the catalogue
// never carries two packages with the same (category, name, tag), and is
// ordered category, then name, then tag descending by semver. The first
// occurrence of a duplicate key wins, matching the order images were
// resolved in (explicit list order, or repository/tag enumeration order
// for Harbor).
func dedupAndSort(records []vynilv1.PackageRecord) []vynilv1.PackageRecord {
	type key struct{ category, name, tag string }
	seen := make(map[key]bool, len(records))
	out := make([]vynilv1.PackageRecord, 0, len(records))
	for _, r := range records {
		k := key{r.Metadata.Category, r.Metadata.Name, r.Tag}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Metadata.Category != b.Metadata.Category {
			return a.Metadata.Category < b.Metadata.Category
		}
		if a.Metadata.Name != b.Metadata.Name {
			return a.Metadata.Name < b.Metadata.Name
		}
		return semverutil.CompareDescending(a.Tag, b.Tag) < 0
	})
	return out
}

// nextInterval parses spec.Schedule (defaulting to defaultSchedule) as a
// standard cron expression and returns the duration until its next
// occurrence, so reconcile requeues line up with the declared refresh
// cadence instead of a fixed constant.
func nextInterval(schedule string) time.Duration {
	if schedule == "" {
		schedule = defaultSchedule
	}
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return 15 * time.Minute
	}
	now := time.Now()
	return sched.Next(now).Sub(now)
}
