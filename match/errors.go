// Copyright 2025 Poiesic Systems
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

package match

import "errors"

var (
	// ErrProviderRequired is returned by NewMatcher when no AI provider was
	// supplied.
	ErrProviderRequired = errors.New("an AI provider is required")

	// ErrRecoveryIncomplete indicates the pipeline finished without a result
	// for every chunk. The interpolation layer makes this unreachable; seeing
	// it means a defect in the engine itself.
	ErrRecoveryIncomplete = errors.New("position recovery incomplete")

	// ErrInvalidConfig wraps configuration validation failures.
	ErrInvalidConfig = errors.New("invalid matcher configuration")
)
