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

package storage

import "github.com/dotmd/dotmd/core"

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalFile serializes a File to bytes.
func MarshalFile(f *core.File) []byte {
	buf := make([]byte, core.FileMUS.Size(*f))
	core.FileMUS.Marshal(*f, buf)
	return buf
}

// UnmarshalFile deserializes a File from bytes.
func UnmarshalFile(data []byte) (*core.File, error) {
	f, _, err := core.FileMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(c *core.Chunk) []byte {
	buf := make([]byte, core.ChunkMUS.Size(*c))
	core.ChunkMUS.Marshal(*c, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	c, _, err := core.ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// MarshalSection serializes a Section to bytes.
func MarshalSection(s *core.Section) []byte {
	buf := make([]byte, core.SectionMUS.Size(*s))
	core.SectionMUS.Marshal(*s, buf)
	return buf
}

// UnmarshalSection deserializes a Section from bytes.
func UnmarshalSection(data []byte) (*core.Section, error) {
	s, _, err := core.SectionMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// MarshalEntity serializes an Entity to bytes.
func MarshalEntity(e *core.Entity) []byte {
	buf := make([]byte, core.EntityMUS.Size(*e))
	core.EntityMUS.Marshal(*e, buf)
	return buf
}

// UnmarshalEntity deserializes an Entity from bytes.
func UnmarshalEntity(data []byte) (*core.Entity, error) {
	e, _, err := core.EntityMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// MarshalTag serializes a Tag to bytes.
func MarshalTag(t *core.Tag) []byte {
	buf := make([]byte, core.TagMUS.Size(*t))
	core.TagMUS.Marshal(*t, buf)
	return buf
}

// UnmarshalTag deserializes a Tag from bytes.
func UnmarshalTag(data []byte) (*core.Tag, error) {
	t, _, err := core.TagMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MarshalEdge serializes an Edge to bytes.
func MarshalEdge(e *core.Edge) []byte {
	buf := make([]byte, core.EdgeMUS.Size(*e))
	core.EdgeMUS.Marshal(*e, buf)
	return buf
}

// UnmarshalEdge deserializes an Edge from bytes.
func UnmarshalEdge(data []byte) (*core.Edge, error) {
	e, _, err := core.EdgeMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// MarshalCheckpoint serializes a Checkpoint to bytes.
func MarshalCheckpoint(c *core.Checkpoint) []byte {
	buf := make([]byte, core.CheckpointMUS.Size(*c))
	core.CheckpointMUS.Marshal(*c, buf)
	return buf
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	c, _, err := core.CheckpointMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
