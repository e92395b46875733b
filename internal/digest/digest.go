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

// Package digest computes the drift-detection hash used to decide whether
// an Instance's spec.options changed since the last applied Job, mirroring
// get_options_digest in original_source/common/src/instancesystem.rs.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
)

// Options returns the hex-encoded sha256 of the canonical JSON encoding of
// opts. A nil options map serializes the same as an explicit empty one
// (both hash as sha256("{}")), matching the Rust original's fallback.
func Options(opts map[string]apiextensionsv1.JSON) (string, error) {
	if opts == nil {
		opts = map[string]apiextensionsv1.JSON{}
	}
	raw, err := json.Marshal(opts)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
