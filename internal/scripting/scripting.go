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

// Package scripting provides the embedded-expression capability the
// original implementation got from the rhai scripting engine (see
// set_rhai_instance in original_source/operator/src/instance_common.rs
// and the JukeBoxDef::Script/Prefly/ValueScript call sites). rhai has no
// Go equivalent in the example corpus, so expressions are evaluated with
// Knetic/govaluate (used the same way by URunDEAD-frisbee for its
// condition scripts), which covers the boolean/arithmetic/map-producing
// subset the original scripts actually use.
package scripting

import (
	"fmt"

	"github.com/Knetic/govaluate"

	"github.com/sebt3/vynil/internal/vynilerrors"
)

// Evaluator holds the named variables bound into every expression it
// evaluates — the Go analogue of rhai's Scope, populated via SetVariable
// before each evaluate call in the Rust original.
type Evaluator struct {
	vars map[string]interface{}
}

func New() *Evaluator {
	return &Evaluator{vars: make(map[string]interface{})}
}

// SetVariable binds name to value for every subsequent Evaluate* call.
func (e *Evaluator) SetVariable(name string, value interface{}) {
	e.vars[name] = value
}

// EvaluateBool evaluates expr and requires the result to be a bool, used
// by Prefly requirement checks.
func (e *Evaluator) EvaluateBool(expr string) (bool, error) {
	v, err := e.evaluate(expr)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, vynilerrors.Serialization(nil, "script %q did not evaluate to a boolean (got %T)", expr, v)
	}
	return b, nil
}

// EvaluateMap evaluates expr and requires the result to be a
// map[string]interface{}, used by JukeBoxSource Script catalogues and by
// PackageRecord.ValueScript's ctrl_values production.
func (e *Evaluator) EvaluateMap(expr string) (map[string]interface{}, error) {
	v, err := e.evaluate(expr)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, vynilerrors.Serialization(nil, "script %q did not evaluate to a map (got %T)", expr, v)
	}
	return m, nil
}

func (e *Evaluator) evaluate(expr string) (interface{}, error) {
	functions := map[string]govaluate.ExpressionFunction{
		"map": mapFunction,
	}
	exp, err := govaluate.NewEvaluableExpressionWithFunctions(expr, functions)
	if err != nil {
		return nil, vynilerrors.Serialization(err, "parse script %q", expr)
	}
	result, err := exp.Evaluate(e.vars)
	if err != nil {
		return nil, vynilerrors.Serialization(err, "evaluate script %q", expr)
	}
	return result, nil
}

// mapFunction lets scripts build a map literal as map("key", val, "key2",
// val2, ...), since govaluate's expression grammar has no map literal
// syntax of its own.
func mapFunction(args ...interface{}) (interface{}, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("map() requires an even number of arguments")
	}
	out := make(map[string]interface{}, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			return nil, fmt.Errorf("map() key %d must be a string", i/2)
		}
		out[key] = args[i+1]
	}
	return out, nil
}
