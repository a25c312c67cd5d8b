// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tensor

// Runtime allocates the buffers of tensors computed by the evaluator.
type Runtime interface {
	// Materialize returns a contiguous copy of a handle.
	Materialize(h *Handle) (*Handle, error)
}

type host struct{}

// Host returns a runtime allocating tensors in host memory.
func Host() Runtime {
	return host{}
}

func (host) Materialize(h *Handle) (*Handle, error) {
	return h.Materialize()
}
