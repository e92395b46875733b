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

// Condition type strings. The Rust original defined three nearly-identical
// ConditionsType enums (one per Instance kind, see
// common/src/instance_macros.rs); here they collapse into one enum with a
// per-kind visibility mask (see ConditionMaskFor) so every kind shares a
// single metav1.Condition vocabulary instead of duplicating it three times.
const (
	ConditionTypeReady           = "Ready"
	ConditionTypeUpdated         = "Updated"
	ConditionTypeInstalled       = "Installed"
	ConditionTypeAgentStarted    = "AgentStarted"
	ConditionTypeCrdApplied      = "CrdApplied"
	ConditionTypeTofuInstalled   = "TofuInstalled"
	ConditionTypeRhaiApplied     = "RhaiApplied"
	ConditionTypeSystemApplied   = "SystemApplied"
	ConditionTypeBeforeApplied   = "BeforeApplied"
	ConditionTypeVitalApplied    = "VitalApplied"
	ConditionTypeScalableApplied = "ScalableApplied"
	ConditionTypeOtherApplied    = "OtherApplied"
	ConditionTypeInitFrom        = "InitFrom"
	ConditionTypeScheduleBackup  = "ScheduleBackup"
)

// Condition reason strings, shared across every condition type above.
const (
	ConditionReasonOk            = "Ok"
	ConditionReasonFailed        = "Failed"
	ConditionReasonInProgress    = "InProgress"
	ConditionReasonWaiting       = "Waiting"
	ConditionReasonUnsatisfied   = "RequirementUnsatisfied"
)

// ConditionMaskFor reports the condition types meaningful for a given
// Instance kind. JukeBox and the three Instance kinds each only ever set a
// subset of the full vocabulary; the mask replaces the Rust macros
// (impl_condition_common!/impl_condition_children!/impl_condition_crds!)
// that generated one enum variant set per kind.
func ConditionMaskFor(kind string) []string {
	switch kind {
	case "JukeBox":
		return []string{ConditionTypeReady, ConditionTypeUpdated}
	case "SystemInstance":
		return []string{
			ConditionTypeReady, ConditionTypeInstalled, ConditionTypeAgentStarted,
			ConditionTypeCrdApplied, ConditionTypeTofuInstalled, ConditionTypeSystemApplied,
			ConditionTypeRhaiApplied,
		}
	case "TenantInstance":
		return []string{
			ConditionTypeReady, ConditionTypeInstalled, ConditionTypeAgentStarted,
			ConditionTypeTofuInstalled, ConditionTypeRhaiApplied,
			ConditionTypeBeforeApplied, ConditionTypeVitalApplied, ConditionTypeScalableApplied,
			ConditionTypeOtherApplied, ConditionTypeInitFrom, ConditionTypeScheduleBackup,
		}
	case "ServiceInstance":
		// ServiceInstance + SystemInstance also carry CrdApplied.
		return []string{
			ConditionTypeReady, ConditionTypeInstalled, ConditionTypeAgentStarted,
			ConditionTypeTofuInstalled, ConditionTypeRhaiApplied, ConditionTypeCrdApplied,
			ConditionTypeBeforeApplied, ConditionTypeVitalApplied, ConditionTypeScalableApplied,
			ConditionTypeOtherApplied, ConditionTypeInitFrom, ConditionTypeScheduleBackup,
		}
	default:
		return nil
	}
}
