// Copyright 2024 The FlareDB Authors
// This file is part of FlareDB.
//
// FlareDB is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// FlareDB is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with FlareDB. If not, see <http://www.gnu.org/licenses/>.

package storage

import (
	"io"
	"os"

	"github.com/cenkalti/backoff/v4"
	mmap "github.com/edsrzf/mmap-go"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"

	"github.com/flarehq/flaredb/errs"
)

func errLocked(path string) error {
	return errs.New(errs.KindResource, "storage: "+path+" is locked by another writer")
}

// FileSource is the only read contract the core depends on: read_range, a
// streaming reader, and size.
type FileSource interface {
	ReadRange(start, length int64) ([]byte, error)
	ReadStream() (io.ReadCloser, error)
	Size() (int64, error)
}

// FileSink is the only write contract the core depends on.
type FileSink interface {
	WriteAll(b []byte) error
	Finish() error
}

// LocalFile is a FileSource backed by a memory-mapped local file: read_range
// maps the needed span instead of seeking+reading. Where mapping fails it
// falls back to ReadAt; a read error other than io.EOF is retried with an
// exponential backoff (at most 3 retries), and a short read at end of file
// is returned as is.
type LocalFile struct {
	path string
}

func NewLocalFile(path string) *LocalFile {
	return &LocalFile{path: path}
}

func (f *LocalFile) Size() (int64, error) {
	fi, err := os.Stat(f.path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (f *LocalFile) ReadRange(start, length int64) ([]byte, error) {
	var out []byte
	op := func() error {
		fh, err := os.Open(f.path)
		if err != nil {
			return backoff.Permanent(err)
		}
		defer fh.Close()

		m, err := mmap.MapRegion(fh, int(length), mmap.RDONLY, 0, start)
		if err != nil {
			// Fall back to a plain seek+read for lengths mmap rejects
			// (e.g. zero-length ranges, or ranges near EOF on some OSes).
			buf := make([]byte, length)
			n, rerr := fh.ReadAt(buf, start)
			if rerr != nil && rerr != io.EOF {
				return rerr
			}
			out = buf[:n]
			return nil
		}
		defer m.Unmap()
		out = append([]byte(nil), m...)
		return nil
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *LocalFile) ReadStream() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// LocalSink is a FileSink appending to a local file. It holds an exclusive
// file lock for its lifetime, so two operators spilling to the same path
// (e.g. a restarted query reusing a spill directory) never interleave
// writes into one file.
type LocalSink struct {
	fh   *os.File
	lock *flock.Flock
}

func NewLocalSink(path string) (*LocalSink, error) {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, errLocked(path)
	}

	fh, err := os.Create(path)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	return &LocalSink{fh: fh, lock: lock}, nil
}

func (s *LocalSink) WriteAll(b []byte) error {
	_, err := s.fh.Write(b)
	return err
}

func (s *LocalSink) Finish() error {
	closeErr := s.fh.Close()
	unlockErr := s.lock.Unlock()
	if closeErr != nil {
		return closeErr
	}
	return unlockErr
}

// MemFile is a FileSource/FileSink over an in-memory filesystem
// (spf13/afero MemMapFs), used by tests that need the FileSource contract
// without touching disk.
type MemFile struct {
	fs   afero.Fs
	path string
}

func NewMemFS() afero.Fs { return afero.NewMemMapFs() }

func NewMemFile(fs afero.Fs, path string) *MemFile {
	return &MemFile{fs: fs, path: path}
}

func (f *MemFile) Size() (int64, error) {
	fi, err := f.fs.Stat(f.path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (f *MemFile) ReadRange(start, length int64) ([]byte, error) {
	fh, err := f.fs.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	buf := make([]byte, length)
	n, err := fh.ReadAt(buf, start)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

func (f *MemFile) ReadStream() (io.ReadCloser, error) {
	return f.fs.Open(f.path)
}

func (f *MemFile) WriteAll(b []byte) error {
	fh, err := f.fs.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer fh.Close()
	_, err = fh.Write(b)
	return err
}

func (f *MemFile) Finish() error { return nil }
