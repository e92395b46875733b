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

// Package vynilerrors defines the error taxonomy shared by every
// reconciler, replacing the Rust original's thiserror enum
// (operator/src/*.rs used anyhow::Error chains against a shared Error enum).
package vynilerrors

import "fmt"

// Class is the taxonomy discriminator used to select the Prometheus
// failure label (see internal/metrics) without string-matching error
// messages.
type Class string

const (
	ClassAPIServer              Class = "APIServerError"
	ClassMissingResource        Class = "MissingResource"
	ClassRequirementUnsatisfied Class = "RequirementUnsatisfied"
	ClassWaitExpired            Class = "WaitExpired"
	ClassJobFailed              Class = "JobFailed"
	ClassSerialization          Class = "SerializationError"
	ClassFinalizer              Class = "FinalizerError"
	ClassIllegalInstall         Class = "IllegalInstall"
	ClassIllegalDistrib         Class = "IllegalDistrib"
)

// Error is the concrete error type every package in this module returns
// for classifiable failures. Opaque causes (e.g. from client-go) are kept
// via Unwrap so callers can still errors.Is/As through to them.
type Error struct {
	Class   Class
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Class, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Class, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newf(class Class, cause error, format string, args ...any) *Error {
	return &Error{Class: class, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func APIServer(cause error, format string, args ...any) *Error {
	return newf(ClassAPIServer, cause, format, args...)
}

func MissingResource(format string, args ...any) *Error {
	return newf(ClassMissingResource, nil, format, args...)
}

func RequirementUnsatisfied(format string, args ...any) *Error {
	return newf(ClassRequirementUnsatisfied, nil, format, args...)
}

func WaitExpired(format string, args ...any) *Error {
	return newf(ClassWaitExpired, nil, format, args...)
}

func JobFailed(format string, args ...any) *Error {
	return newf(ClassJobFailed, nil, format, args...)
}

func Serialization(cause error, format string, args ...any) *Error {
	return newf(ClassSerialization, cause, format, args...)
}

func Finalizer(cause error, format string, args ...any) *Error {
	return newf(ClassFinalizer, cause, format, args...)
}

func IllegalInstall(format string, args ...any) *Error {
	return newf(ClassIllegalInstall, nil, format, args...)
}

func IllegalDistrib(format string, args ...any) *Error {
	return newf(ClassIllegalDistrib, nil, format, args...)
}

// ClassOf extracts the taxonomy class of err, or "" if err is not (or does
// not wrap) a *Error.
func ClassOf(err error) Class {
	var e *Error
	if as(err, &e) {
		return e.Class
	}
	return ""
}

func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
