package cowfuse

import (
	"context"
	"errors"
	"os"
	"sync"
	"syscall"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"

	"github.com/dendrascience/dendra-cow-fuse/cowfs"
)

// FS adapts a cowfs image to a flat FUSE filesystem. The engine is
// single-threaded, so every engine call goes through mu.
type FS struct {
	engine *cowfs.FileSystem

	mu        sync.Mutex
	inodes    map[string]uint64 // stable FUSE inode number per name
	nextInode uint64
}

// New wraps an open engine instance.
func New(engine *cowfs.FileSystem) *FS {
	return &FS{
		engine:    engine,
		inodes:    make(map[string]uint64),
		nextInode: 1, // 1 is the root directory
	}
}

// Close flushes the image back to disk.
func (f *FS) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.Close()
}

// Root returns the root directory node
func (f *FS) Root() (fs.Node, error) {
	return &Dir{fs: f}, nil
}

// fuseInode returns a stable inode number for name, assigning the next
// free one on first use. Callers must hold mu.
func (f *FS) fuseInode(name string) uint64 {
	if ino, ok := f.inodes[name]; ok {
		return ino
	}
	f.nextInode++
	f.inodes[name] = f.nextInode
	return f.nextInode
}

// readFile reads the full current content of name. Callers must hold mu.
func (f *FS) readFile(name string) ([]byte, error) {
	fd, err := f.engine.Open(name, cowfs.ModeRead)
	if err != nil {
		return nil, err
	}
	defer f.engine.CloseFile(fd)

	size, err := f.engine.FileSize(fd)
	if err != nil {
		return nil, err
	}
	data := make([]byte, size)
	read := 0
	for int64(read) < size {
		n, err := f.engine.Read(fd, data[read:])
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
		read += n
	}
	return data[:read], nil
}

// writeFile stores data as a new version of name, creating the file if it
// does not exist. Callers must hold mu.
func (f *FS) writeFile(name string, data []byte) error {
	fd, err := f.engine.Open(name, cowfs.ModeWrite)
	if errors.Is(err, cowfs.ErrNotFound) {
		fd, err = f.engine.Create(name)
	}
	if err != nil {
		return err
	}
	defer f.engine.CloseFile(fd)

	_, err = f.engine.Write(fd, data)
	return err
}

// fileSize returns the current size of name. Callers must hold mu.
func (f *FS) fileSize(name string) (int64, error) {
	fd, err := f.engine.Open(name, cowfs.ModeRead)
	if err != nil {
		return 0, err
	}
	defer f.engine.CloseFile(fd)
	return f.engine.FileSize(fd)
}

// Dir implements both Node and Handle for the flat root directory.
type Dir struct {
	fs *FS
}

// Attr returns directory attributes
func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = 1
	a.Mode = os.ModeDir | 0o755
	a.Mtime = time.Now()
	a.Ctime = time.Now()
	a.Atime = time.Now()
	return nil
}

// Lookup resolves file names to nodes. The namespace is flat: there are no
// subdirectories to descend into.
func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	for _, existing := range d.fs.engine.ListFiles() {
		if existing == name {
			return &File{fs: d.fs, name: name}, nil
		}
	}
	return nil, syscall.ENOENT
}

// ReadDirAll lists every file in the image.
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	var dirents []fuse.Dirent
	for _, name := range d.fs.engine.ListFiles() {
		dirents = append(dirents, fuse.Dirent{
			Inode: d.fs.fuseInode(name),
			Name:  name,
			Type:  fuse.DT_File,
		})
	}
	return dirents, nil
}

// Create makes a new empty file in the image.
func (d *Dir) Create(ctx context.Context, req *fuse.CreateRequest, resp *fuse.CreateResponse) (fs.Node, fs.Handle, error) {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	fd, err := d.fs.engine.Create(req.Name)
	if err != nil {
		return nil, nil, engineErrno(err)
	}
	d.fs.engine.CloseFile(fd)

	file := &File{
		fs:       d.fs,
		name:     req.Name,
		modified: time.Now(),
		dirty:    true,
	}
	return file, file, nil
}

// Remove is rejected: the image has no file deletion primitive.
func (d *Dir) Remove(ctx context.Context, req *fuse.RemoveRequest) error {
	return syscall.EPERM
}

// Mkdir is rejected: the namespace is flat.
func (d *Dir) Mkdir(ctx context.Context, req *fuse.MkdirRequest) (fs.Node, error) {
	return nil, syscall.EPERM
}

// File implements both Node and Handle for files
type File struct {
	fs       *FS
	name     string
	data     []byte // buffered content, populated lazily
	loaded   bool
	dirty    bool
	modified time.Time
	mu       sync.Mutex
}

// Attr returns file attributes
func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fs.mu.Lock()
	a.Inode = f.fs.fuseInode(f.name)
	size, err := f.fs.fileSize(f.name)
	f.fs.mu.Unlock()

	if f.dirty {
		size = int64(len(f.data))
	} else if err != nil {
		return engineErrno(err)
	}

	a.Mode = 0o644
	a.Size = uint64(size)
	mtime := f.modified
	if mtime.IsZero() {
		mtime = time.Now()
	}
	a.Mtime = mtime
	a.Ctime = mtime
	a.Atime = time.Now()
	return nil
}

// ReadAll reads the entire file content
func (f *File) ReadAll(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.load(); err != nil {
		return nil, err
	}
	return f.data, nil
}

// load populates the buffer from the engine if it has not been read yet.
// Callers must hold f.mu.
func (f *File) load() error {
	if f.loaded || f.dirty {
		return nil
	}
	f.fs.mu.Lock()
	data, err := f.fs.readFile(f.name)
	f.fs.mu.Unlock()
	if err != nil {
		return engineErrno(err)
	}
	f.data = data
	f.loaded = true
	return nil
}

// Write buffers data; the new version is committed on Flush.
func (f *File) Write(ctx context.Context, req *fuse.WriteRequest, resp *fuse.WriteResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.load(); err != nil {
		return err
	}

	newLen := int(req.Offset) + len(req.Data)
	if newLen > len(f.data) {
		newData := make([]byte, newLen)
		copy(newData, f.data)
		f.data = newData
	}
	copy(f.data[req.Offset:], req.Data)
	resp.Size = len(req.Data)

	f.modified = time.Now()
	f.dirty = true
	return nil
}

// Flush commits the buffered content as a new version.
func (f *File) Flush(ctx context.Context, req *fuse.FlushRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.dirty || len(f.data) == 0 {
		return nil
	}

	f.fs.mu.Lock()
	err := f.fs.writeFile(f.name, f.data)
	f.fs.mu.Unlock()
	if err != nil {
		return engineErrno(err)
	}
	f.dirty = false
	f.loaded = true
	return nil
}

// Fsync forces synchronization
func (f *File) Fsync(ctx context.Context, req *fuse.FsyncRequest) error {
	return f.Flush(ctx, &fuse.FlushRequest{})
}

// Setattr sets file attributes
func (f *File) Setattr(ctx context.Context, req *fuse.SetattrRequest, resp *fuse.SetattrResponse) error {
	f.mu.Lock()

	if req.Valid.Size() {
		if err := f.load(); err != nil {
			f.mu.Unlock()
			return err
		}
		if req.Size < uint64(len(f.data)) {
			f.data = f.data[:req.Size]
		} else if req.Size > uint64(len(f.data)) {
			newData := make([]byte, req.Size)
			copy(newData, f.data)
			f.data = newData
		}
		f.modified = time.Now()
		f.dirty = true
	}
	if req.Valid.Mtime() {
		f.modified = req.Mtime
	}
	f.mu.Unlock()

	return f.Attr(ctx, &resp.Attr)
}

// engineErrno maps engine sentinel errors onto FUSE errno values.
func engineErrno(err error) error {
	switch {
	case errors.Is(err, cowfs.ErrNotFound):
		return syscall.ENOENT
	case errors.Is(err, cowfs.ErrAlreadyExists):
		return syscall.EEXIST
	case errors.Is(err, cowfs.ErrNameTooLong):
		return syscall.ENAMETOOLONG
	case errors.Is(err, cowfs.ErrNoFreeInode), errors.Is(err, cowfs.ErrNoFreeHandle):
		return syscall.EMFILE
	case errors.Is(err, cowfs.ErrOutOfSpace):
		return syscall.ENOSPC
	case errors.Is(err, cowfs.ErrNotWritable):
		return syscall.EACCES
	case errors.Is(err, cowfs.ErrCorruptChain), errors.Is(err, cowfs.ErrCorruptImage):
		return syscall.EIO
	case err != nil:
		return syscall.EIO
	}
	return nil
}
