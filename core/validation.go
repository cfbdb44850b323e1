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

package core

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - FilePath must not be empty
//
// NOT validated (populated by later pipeline steps):
//   - Vector (empty until the embedding step runs)
//   - Id (computed deterministically from FilePath+Ordinal)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}
	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}
	if chunk.FilePath == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyPath)
	}
	return nil
}

// ValidateFile validates a File according to domain rules.
func ValidateFile(file *File) error {
	if file == nil {
		return fmt.Errorf("%w: file is nil", ErrInvalidFile)
	}
	if file.Path == "" {
		return fmt.Errorf("%w: %w", ErrInvalidFile, ErrEmptyPath)
	}
	return nil
}

// ValidateEntity validates an Entity according to domain rules.
//
// NOT validated (populated by later pipeline steps):
//   - Id (computed deterministically from CanonicalName+Type)
func ValidateEntity(entity *Entity) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidEntity)
	}
	if entity.CanonicalName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptyCanonicalName)
	}
	if err := ValidateEntityType(entity.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}
	return nil
}

// ValidateEntityType validates that an EntityType has a recognised value.
func ValidateEntityType(t EntityType) error {
	switch t {
	case EntityPerson, EntityOrganization, EntityTechnology, EntityConcept, EntityLocation:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidEntityType, t)
	}
}
