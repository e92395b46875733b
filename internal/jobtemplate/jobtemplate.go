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

// Package jobtemplate renders the worker Job manifest from a text/template
// source enriched with Masterminds/sprig helpers, replacing the Rust
// original's handlebars-based get_templater/render_tmpl
// (original_source/operator/src/jobs.rs). Templates live alongside the
// binary under CONTROLLER_BASE_DIR, loaded once at manager startup.
package jobtemplate

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"

	"github.com/sebt3/vynil/internal/vynilerrors"
)

// Values is the variable set bound into a job template, mirroring the
// fields HashedSelf/Context supplied to the Rust renderer.
type Values struct {
	Namespace     string
	OwnerKind     string
	OwnerName     string
	Category      string
	Package       string
	Registry      string
	Image         string
	Tag           string
	Action        string // "install" or "delete"
	AgentImage    string
	AgentAccount  string
	AgentLogLevel string
	OptionsDigest string
	CtrlValues    map[string]interface{}
	Options       map[string]interface{}

	// PullSecret names the Secret the worker Job should authenticate
	// registry pulls with, when the package's JukeBox carries one.
	PullSecret string
	UseSecret  bool
}

// Renderer parses and renders named job templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses every *.yaml.tmpl file under dir into one named
// template set, loaded once at manager startup.
func NewRenderer(dir string) (*Renderer, error) {
	pattern := dir + "/*.yaml.tmpl"
	t, err := template.New("jobs").Funcs(sprig.TxtFuncMap()).ParseGlob(pattern)
	if err != nil {
		return nil, vynilerrors.Serialization(err, "parse job templates from %q", dir)
	}
	return &Renderer{tmpl: t}, nil
}

// RenderJob executes the named template against values and unmarshals the
// result into a batchv1.Job.
func (r *Renderer) RenderJob(name string, values Values) (*batchv1.Job, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, values); err != nil {
		return nil, vynilerrors.Serialization(err, "render job template %q", name)
	}
	var job batchv1.Job
	if err := yaml.Unmarshal(buf.Bytes(), &job); err != nil {
		return nil, vynilerrors.Serialization(err, "unmarshal rendered job template %q", name)
	}
	// The engine, not the template, owns pull-secret mounting: a template
	// author can't forget or misname the secret.
	if values.UseSecret && values.PullSecret != "" {
		job.Spec.Template.Spec.ImagePullSecrets = append(job.Spec.Template.Spec.ImagePullSecrets,
			corev1.LocalObjectReference{Name: values.PullSecret})
	}
	return &job, nil
}

// InstallTemplateName / DeleteTemplateName select the template invoked for
// an install vs. a cleanup action, mirroring get_action's
// "<category>/install" / "<category>/delete" naming in jobs.rs.
func InstallTemplateName(category string) string { return category + "/install" }
func DeleteTemplateName(category string) string  { return category + "/delete" }
