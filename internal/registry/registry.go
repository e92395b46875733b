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

// Package registry resolves a package image reference (registry/image:tag)
// to its manifest digest and metadata annotations, replacing the CLI-only
// OCI pulling logic the Rust original's "dist" crate carried (out of this
// operator's scope; see Non-goals) with a read-only manifest fetch the
// JukeBox reconciler uses to populate PackageRecord.Digest/Metadata.
package registry

import (
	"context"
	"fmt"

	"github.com/google/go-containerregistry/pkg/authn/k8schain"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"k8s.io/client-go/kubernetes"

	"github.com/sebt3/vynil/internal/vynilerrors"
)

// ManifestInfo is the subset of an OCI image manifest the operator cares
// about: its resolved digest and its manifest annotations (the
// vynil.solidite.fr/name, /category and /type keys among them are
// mirrored into PackageMetadata by the JukeBox reconciler).
type ManifestInfo struct {
	Digest      string
	Annotations map[string]string
}

// Client fetches manifests using the in-cluster ServiceAccount's image
// pull credentials via k8schain, the same credential-resolution chain
// cluster-image-consuming controllers in the example corpus use.
type Client struct {
	clientset    kubernetes.Interface
	namespace    string
	pullSecretNm string
}

// NewClient builds a registry Client bound to the ServiceAccount of
// namespace, optionally also consulting a named pull Secret.
func NewClient(clientset kubernetes.Interface, namespace, pullSecretName string) *Client {
	return &Client{clientset: clientset, namespace: namespace, pullSecretNm: pullSecretName}
}

// Resolve fetches the manifest for registry/image:tag and returns its
// digest and annotations.
func (c *Client) Resolve(ctx context.Context, registry, image, tag string) (ManifestInfo, error) {
	ref, err := name.ParseReference(fmt.Sprintf("%s/%s:%s", registry, image, tag))
	if err != nil {
		return ManifestInfo{}, vynilerrors.Serialization(err, "parse image reference %s/%s:%s", registry, image, tag)
	}

	opts := k8schain.Options{Namespace: c.namespace}
	if c.pullSecretNm != "" {
		opts.ImagePullSecrets = []string{c.pullSecretNm}
	}
	keychain, err := k8schain.New(ctx, c.clientset, opts)
	if err != nil {
		return ManifestInfo{}, vynilerrors.APIServer(err, "build image pull keychain for namespace %q", c.namespace)
	}

	desc, err := remote.Get(ref, remote.WithContext(ctx), remote.WithAuthFromKeychain(keychain))
	if err != nil {
		return ManifestInfo{}, vynilerrors.MissingResource("resolve manifest for %s: %v", ref, err)
	}

	img, err := desc.Image()
	if err != nil {
		return ManifestInfo{}, vynilerrors.Serialization(err, "decode image for %s", ref)
	}
	manifest, err := img.Manifest()
	if err != nil {
		return ManifestInfo{}, vynilerrors.Serialization(err, "read manifest for %s", ref)
	}

	return ManifestInfo{
		Digest:      desc.Digest.String(),
		Annotations: manifest.Annotations,
	}, nil
}
