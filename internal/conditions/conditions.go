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

// Package conditions wraps apimachinery's apimeta condition helpers with
// a message truncation and Ok/Failed constructor pair, in the style of
// operator-controller's common_controller.go
// (SetStatusCondition/setInstalledStatusCondition*), adapted from the
// Rust original's ready_ok/ready_ko/updated_ok/updated_ko constructors
// in common/src/jukebox.rs.
package conditions

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	apimeta "k8s.io/apimachinery/pkg/api/meta"
)

// maxMessageLen mirrors operator-controller's 32768-byte condition message cap.
const maxMessageLen = 32768

func truncate(message string) string {
	if len(message) <= maxMessageLen {
		return message
	}
	const suffix = "\n\n... [message truncated]"
	cut := maxMessageLen - len(suffix)
	if cut < 0 {
		cut = 0
	}
	return message[:cut] + suffix
}

// Ok sets condType to True/Ok with message on conditions, keyed by the
// object's current Generation for ObservedGeneration.
func Ok(conditions *[]metav1.Condition, generation int64, condType, message string) {
	apimeta.SetStatusCondition(conditions, metav1.Condition{
		Type:               condType,
		Status:             metav1.ConditionTrue,
		Reason:             "Ok",
		Message:            truncate(message),
		ObservedGeneration: generation,
	})
}

// Failed sets condType to False/Failed with message.
func Failed(conditions *[]metav1.Condition, generation int64, condType, message string) {
	apimeta.SetStatusCondition(conditions, metav1.Condition{
		Type:               condType,
		Status:             metav1.ConditionFalse,
		Reason:             "Failed",
		Message:            truncate(message),
		ObservedGeneration: generation,
	})
}

// Progressing sets condType to False/InProgress, used while a Job is
// running but has not yet completed or failed.
func Progressing(conditions *[]metav1.Condition, generation int64, condType, message string) {
	apimeta.SetStatusCondition(conditions, metav1.Condition{
		Type:               condType,
		Status:             metav1.ConditionFalse,
		Reason:             "InProgress",
		Message:            truncate(message),
		ObservedGeneration: generation,
	})
}

// Unsatisfied sets condType to False/RequirementUnsatisfied.
func Unsatisfied(conditions *[]metav1.Condition, generation int64, condType, message string) {
	apimeta.SetStatusCondition(conditions, metav1.Condition{
		Type:               condType,
		Status:             metav1.ConditionFalse,
		Reason:             "RequirementUnsatisfied",
		Message:            truncate(message),
		ObservedGeneration: generation,
	})
}

// IsTrue reports whether condType is currently True.
func IsTrue(conditions []metav1.Condition, condType string) bool {
	return apimeta.IsStatusConditionTrue(conditions, condType)
}

// Find returns the condition of the given type, or nil.
func Find(conditions []metav1.Condition, condType string) *metav1.Condition {
	return apimeta.FindStatusCondition(conditions, condType)
}

// ExcludingTypes returns a copy of conditions with the named types removed,
// used before re-deriving the Ready/Installed summary conditions so stale
// entries for a mask a kind no longer sets don't linger (mirrors
// get_conditions_excluding in common/src/instancesystem.rs).
func ExcludingTypes(conditions []metav1.Condition, excluded ...string) []metav1.Condition {
	skip := make(map[string]bool, len(excluded))
	for _, t := range excluded {
		skip[t] = true
	}
	out := make([]metav1.Condition, 0, len(conditions))
	for _, c := range conditions {
		if !skip[c.Type] {
			out = append(out, c)
		}
	}
	return out
}

// AllMaskedTrue reports whether every condition type in mask (other than
// the excluded summary types) is currently True — the gate for deriving
// the overall Ready/Installed condition.
func AllMaskedTrue(conditions []metav1.Condition, mask []string, excluding ...string) bool {
	skip := make(map[string]bool, len(excluding))
	for _, t := range excluding {
		skip[t] = true
	}
	for _, t := range mask {
		if skip[t] {
			continue
		}
		if !IsTrue(conditions, t) {
			return false
		}
	}
	return true
}
