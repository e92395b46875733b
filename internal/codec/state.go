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

// Package codec implements the opaque base64+gzip envelope used for the
// tfstate/rhaistate blobs a worker Job hands back in Instance status.
// Ported from the base64_gz_decode/encode helpers in
// original_source/common/src/instancesystem.rs; the operator never
// inspects the decoded payload, it only round-trips it.
package codec

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"io"

	"github.com/sebt3/vynil/internal/vynilerrors"
)

// EncodeState gzips then base64-encodes raw, producing the wire form
// stored in status.tfState/status.rhaiState.
func EncodeState(raw []byte) (string, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(raw); err != nil {
		return "", vynilerrors.Serialization(err, "gzip state payload")
	}
	if err := gw.Close(); err != nil {
		return "", vynilerrors.Serialization(err, "flush gzip state payload")
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeState reverses EncodeState. An empty input decodes to nil, nil.
func DecodeState(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, nil
	}
	compressed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, vynilerrors.Serialization(err, "base64-decode state payload")
	}
	gr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, vynilerrors.Serialization(err, "open gzip state payload")
	}
	defer gr.Close()
	raw, err := io.ReadAll(gr)
	if err != nil {
		return nil, vynilerrors.Serialization(err, "read gzip state payload")
	}
	return raw, nil
}
