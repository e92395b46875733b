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

// Package semverutil backs the MinimumPreviousVersion requirement with
// real semver comparison instead of string ordering, via
// Masterminds/semver/v3.
package semverutil

import (
	"github.com/Masterminds/semver/v3"

	"github.com/sebt3/vynil/internal/vynilerrors"
)

// SatisfiesMinimum reports whether previous is >= minimum, both parsed as
// semver. A non-semver previous version (e.g. the CRD was never
// installed, or status.tag is empty) is treated as not satisfying any
// minimum.
func SatisfiesMinimum(previous, minimum string) (bool, error) {
	if previous == "" {
		return false, nil
	}
	min, err := semver.NewVersion(minimum)
	if err != nil {
		return false, vynilerrors.Serialization(err, "parse minimum version constraint %q", minimum)
	}
	prev, err := semver.NewVersion(previous)
	if err != nil {
		return false, nil
	}
	return prev.Compare(min) >= 0, nil
}

// CompareDescending orders two tag strings for descending-semver sort,
// falling back to a plain string comparison when either tag fails to
// parse as semver (e.g. "latest" or a registry digest-pinned tag).
func CompareDescending(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		switch {
		case a < b:
			return 1
		case a > b:
			return -1
		default:
			return 0
		}
	}
	return vb.Compare(va)
}
