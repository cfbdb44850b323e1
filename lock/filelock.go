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

// Package lock provides an advisory single-writer file lock for the
// graph store directory, per spec.md §5's single-writer, single-reader
// requirement.
package lock

import (
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// staleAfter bounds how long a lock is honored after it was acquired, in
// case the holding process died without releasing.
const staleAfter = 10 * time.Minute

// token identifies a lock's current holder.
type token struct {
	Token      string    `json:"token"`
	PID        int       `json:"pid"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// FileLock is an advisory, PID-and-token-based lock backed by a single
// file in the index directory.
type FileLock struct {
	path  string
	token string
}

// New builds a FileLock rooted at dir (the index directory, when called
// from Database.Open).
func New(dir string) *FileLock {
	return &FileLock{path: filepath.Join(dir, ".lock")}
}

// Acquire takes the lock, stealing it if the existing holder's token is
// stale (past staleAfter, or its PID is no longer alive). Returns
// ErrLocked if a live holder still owns it.
func (l *FileLock) Acquire() error {
	if err := l.tryAcquire(); err == nil {
		return nil
	} else if err != ErrLocked {
		return err
	}

	existing, err := readToken(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return l.tryAcquire()
		}
		return err
	}
	if !isStale(existing) {
		return ErrLocked
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return l.tryAcquire()
}

// Release removes the lock file, but only if this FileLock still holds
// the current token (a stolen lock is left alone).
func (l *FileLock) Release() error {
	existing, err := readToken(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if existing.Token != l.token {
		return nil
	}
	return os.Remove(l.path)
}

func (l *FileLock) tryAcquire() error {
	tok := token{Token: uuid.NewString(), PID: os.Getpid(), AcquiredAt: time.Now()}
	bs, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return ErrLocked
		}
		return err
	}
	defer f.Close()
	if _, err := f.Write(bs); err != nil {
		return err
	}
	l.token = tok.Token
	return nil
}

func readToken(path string) (*token, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t token
	if err := json.Unmarshal(bs, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func isStale(t *token) bool {
	if time.Since(t.AcquiredAt) > staleAfter {
		return true
	}
	return !processAlive(t.PID)
}

// processAlive reports whether pid names a live process, by sending
// signal 0, which performs error checking without delivering a signal.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
