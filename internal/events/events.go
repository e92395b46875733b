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

// Package events wraps client-go's record.EventRecorder with the note
// length cap the Rust original enforced in JukeBox::send_event (1023
// bytes), so every reconciler truncates consistently instead of each
// repeating the same clamp.
package events

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
)

const maxNoteLen = 1023

// Truncate caps message at maxNoteLen, appending a marker when cut.
func Truncate(message string) string {
	if len(message) <= maxNoteLen {
		return message
	}
	const marker = "... [truncated]"
	cut := maxNoteLen - len(marker)
	if cut < 0 {
		cut = 0
	}
	return message[:cut] + marker
}

// Normal records a Normal-type Event against obj.
func Normal(recorder record.EventRecorder, obj runtime.Object, reason, message string) {
	recorder.Event(obj, corev1.EventTypeNormal, reason, Truncate(message))
}

// Warning records a Warning-type Event against obj.
func Warning(recorder record.EventRecorder, obj runtime.Object, reason, message string) {
	recorder.Event(obj, corev1.EventTypeWarning, reason, Truncate(message))
}
