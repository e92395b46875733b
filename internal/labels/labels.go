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

// Package labels centralizes the label and annotation keys used on worker
// Jobs and Instances, mirroring the constant block in
// operator-controller's internal/labels package. The engine itself reads
// ForceReinstallAnnotation and uses the Action values; the owner, package
// and action keys appear on a Job only when its template sets them.
package labels

const (
	// OwnerKindKey names the Instance kind (SystemInstance/TenantInstance/
	// ServiceInstance/JukeBox) that owns a worker Job.
	OwnerKindKey = "vynil.solidite.fr/owner-kind"

	// OwnerNameKey names the owning object.
	OwnerNameKey = "vynil.solidite.fr/owner-name"

	// OwnerNamespaceKey names the owning object's namespace (empty for
	// the cluster-scoped JukeBox).
	OwnerNamespaceKey = "vynil.solidite.fr/owner-namespace"

	// PackageCategoryKey/PackageNameKey record the catalogue identity of
	// the package a Job installs or removes.
	PackageCategoryKey = "vynil.solidite.fr/package-category"
	PackageNameKey     = "vynil.solidite.fr/package-name"

	// ActionKey distinguishes an install Job from a delete Job.
	ActionKey = "vynil.solidite.fr/action"

	// OptionsDigestAnnotation records the spec.options digest a Job was
	// rendered against. The engine neither sets nor reads it; the drift
	// check in internal/instance compares InstanceStatus.Digest instead.
	OptionsDigestAnnotation = "vynil.solidite.fr/options-digest"

	// ForceReinstallAnnotation, when present on an Instance, requests a
	// reinstall even if tag/digest/options are otherwise unchanged. The
	// engine clears it after consuming it.
	ForceReinstallAnnotation = "vynil.solidite.fr/force-reinstall"
)

const (
	ActionInstall = "install"
	ActionDelete  = "delete"
)
