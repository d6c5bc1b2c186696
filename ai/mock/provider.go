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

package mock

import "github.com/poiesic/chunkmatch/ai"

// MockProvider is a test double for ai.AIProvider aggregating the mock
// embedder and locator.
type MockProvider struct {
	embedder *MockEmbedder
	locator  *MockLocator
}

// NewMockProvider creates a provider backed by default mock services.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		embedder: NewMockEmbedder(),
		locator:  NewMockLocator(),
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Locator returns the mock chunk-location service.
func (p *MockProvider) Locator() ai.Locator {
	return p.locator
}

// Close is a no-op for mocks.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the concrete mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockLocator returns the concrete mock locator for test assertions.
func (p *MockProvider) GetMockLocator() *MockLocator {
	return p.locator
}
