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

package v1

import (
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
)

// PackageUsage describes which Instance kind a package is meant for.
type PackageUsage string

const (
	PackageUsageSystem  PackageUsage = "System"
	PackageUsageTenant  PackageUsage = "Tenant"
	PackageUsageService PackageUsage = "Service"
)

// PackageFeature enumerates optional capabilities a package declares it has.
// Recovered from original_source/common/src/vynilpackage.rs; informational
// only, never gates a requirement check.
type PackageFeature string

const (
	PackageFeatureUpgrade          PackageFeature = "Upgrade"
	PackageFeatureBackup           PackageFeature = "Backup"
	PackageFeatureMonitoring       PackageFeature = "Monitoring"
	PackageFeatureHighAvailability PackageFeature = "HighAvailability"
	PackageFeatureAutoConfig       PackageFeature = "AutoConfig"
	PackageFeatureAutoScaling      PackageFeature = "AutoScaling"
)

// RequirementKind is the discriminator of a PackageRequirement.
type RequirementKind string

const (
	RequirementCRD                    RequirementKind = "CustomResourceDefinition"
	RequirementSystemPackage          RequirementKind = "SystemPackage"
	RequirementTenantPackage          RequirementKind = "TenantPackage"
	RequirementStorageCapability      RequirementKind = "StorageCapability"
	RequirementMinimumPreviousVersion RequirementKind = "MinimumPreviousVersion"
	RequirementPrefly                 RequirementKind = "Prefly"
)

// StorageCapability enumerates the storage access modes a cluster can be
// required to advertise via a StorageClass.
type StorageCapability string

const (
	StorageCapabilityRWX StorageCapability = "RWX"
	StorageCapabilityROX StorageCapability = "ROX"
)

// PackageRequirement is a single typed precondition gating an Instance's
// installation. Exactly one of the kind-specific fields is populated,
// selected by Kind — mirroring a Rust enum as a discriminated Go struct,
// the same convention core/v1 volume sources use.
type PackageRequirement struct {
	// Kind selects which of the fields below is meaningful.
	Kind RequirementKind `json:"kind"`

	// CRDName is set when Kind is CustomResourceDefinition.
	CRDName string `json:"crdName,omitempty"`

	// Category/Name are set when Kind is SystemPackage or TenantPackage.
	Category string `json:"category,omitempty"`
	Name     string `json:"name,omitempty"`

	// Storage is set when Kind is StorageCapability.
	Storage StorageCapability `json:"storage,omitempty"`

	// MinimumVersion is set when Kind is MinimumPreviousVersion (a semver constraint).
	MinimumVersion string `json:"minimumVersion,omitempty"`

	// PreflyScript/PreflyName are set when Kind is Prefly.
	PreflyScript string `json:"preflyScript,omitempty"`
	PreflyName   string `json:"preflyName,omitempty"`
}

// RecommendationKind is the discriminator of a PackageRecommendation.
type RecommendationKind string

const (
	RecommendationCRD            RecommendationKind = "CustomResourceDefinition"
	RecommendationSystemService  RecommendationKind = "SystemService"
	RecommendationTenantService  RecommendationKind = "TenantService"
)

// PackageRecommendation is an optional, non-blocking hint surfaced to the
// worker (as opposed to PackageRequirement, which blocks installation).
type PackageRecommendation struct {
	Kind RecommendationKind `json:"kind"`
	Name string             `json:"name"`
}

// PackageMetadata describes a package independent of its image identity.
type PackageMetadata struct {
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	AppVersion  *string          `json:"appVersion,omitempty"`
	Usage       PackageUsage     `json:"type"`
	Features    []PackageFeature `json:"features,omitempty"`
}

// PackageRecord is one catalogued package entry within a JukeBox's status,
// identified immutably by registry/image@tag.
type PackageRecord struct {
	Registry string `json:"registry"`
	Image    string `json:"image"`
	Tag      string `json:"tag"`
	// Digest is the resolved manifest digest for Registry/Image:Tag, as
	// last observed by the JukeBox reconciler.
	Digest string `json:"digest,omitempty"`

	Metadata     PackageMetadata          `json:"metadata"`
	Requirements []PackageRequirement     `json:"requirements,omitempty"`
	Recommendations []PackageRecommendation `json:"recommendations,omitempty"`

	// Options is a map of JSON-schema fragments describing configurable
	// parameters; the API server does not validate this subtree.
	// +kubebuilder:pruning:PreserveUnknownFields
	Options map[string]apiextensionsv1.JSON `json:"options,omitempty"`

	// ValueScript is an optional embedded-language expression evaluated
	// with the Instance bound as `instance`, producing the ctrl_values
	// template variable (see internal/scripting).
	ValueScript *string `json:"valueScript,omitempty"`
}

// Key returns the catalogue-uniqueness key (category, name, tag).
func (p PackageRecord) Key() [3]string {
	return [3]string{p.Metadata.Category, p.Metadata.Name, p.Tag}
}

// DeepCopyInto is a manually written deepcopy (no code-generator is run in
// this environment); it is exhaustive over every field above.
func (in *PackageRequirement) DeepCopyInto(out *PackageRequirement) {
	*out = *in
}

func (in *PackageRequirement) DeepCopy() *PackageRequirement {
	if in == nil {
		return nil
	}
	out := new(PackageRequirement)
	in.DeepCopyInto(out)
	return out
}

func (in *PackageRecommendation) DeepCopyInto(out *PackageRecommendation) {
	*out = *in
}

func (in *PackageRecommendation) DeepCopy() *PackageRecommendation {
	if in == nil {
		return nil
	}
	out := new(PackageRecommendation)
	in.DeepCopyInto(out)
	return out
}

func (in *PackageMetadata) DeepCopyInto(out *PackageMetadata) {
	*out = *in
	if in.AppVersion != nil {
		out.AppVersion = new(string)
		*out.AppVersion = *in.AppVersion
	}
	if in.Features != nil {
		out.Features = append([]PackageFeature(nil), in.Features...)
	}
}

func (in *PackageMetadata) DeepCopy() *PackageMetadata {
	if in == nil {
		return nil
	}
	out := new(PackageMetadata)
	in.DeepCopyInto(out)
	return out
}

func (in *PackageRecord) DeepCopyInto(out *PackageRecord) {
	*out = *in
	in.Metadata.DeepCopyInto(&out.Metadata)
	if in.Requirements != nil {
		out.Requirements = make([]PackageRequirement, len(in.Requirements))
		copy(out.Requirements, in.Requirements)
	}
	if in.Recommendations != nil {
		out.Recommendations = make([]PackageRecommendation, len(in.Recommendations))
		copy(out.Recommendations, in.Recommendations)
	}
	if in.Options != nil {
		out.Options = make(map[string]apiextensionsv1.JSON, len(in.Options))
		for k, v := range in.Options {
			if v.Raw != nil {
				out.Options[k] = apiextensionsv1.JSON{Raw: append([]byte(nil), v.Raw...)}
			} else {
				out.Options[k] = apiextensionsv1.JSON{}
			}
		}
	}
	if in.ValueScript != nil {
		out.ValueScript = new(string)
		*out.ValueScript = *in.ValueScript
	}
}

func (in *PackageRecord) DeepCopy() *PackageRecord {
	if in == nil {
		return nil
	}
	out := new(PackageRecord)
	in.DeepCopyInto(out)
	return out
}
