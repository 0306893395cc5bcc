package static

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/indigo-web/triton/http/status"
	"github.com/pkg/errors"
)

const DefaultIndex = "index.html"

// Resolver maps request targets onto regular files under the document root.
type Resolver struct {
	root  string
	index string
}

// NewResolver canonicalizes the document root. The root must be an existing directory.
func NewResolver(root, index string) (*Resolver, error) {
	if len(index) == 0 {
		index = DefaultIndex
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "document root %s", root)
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "document root %s", root)
	}

	stat, err := os.Stat(canonical)
	if err != nil {
		return nil, errors.Wrapf(err, "document root %s", root)
	}

	if !stat.IsDir() {
		return nil, errors.Errorf("document root %s: not a directory", root)
	}

	return &Resolver{
		root:  canonical,
		index: index,
	}, nil
}

// Root returns the canonical document root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns the absolute path of the file the target refers to, and the extension
// of the requested name, which differs from the path's one when a symlink is followed.
// Directories are substituted by their index file. Any target which can't be served,
// including those escaping the root, results in status.ErrNotFound.
func (r *Resolver) Resolve(target string) (path, ext string, err error) {
	target, _, _ = strings.Cut(target, "?")

	requested := filepath.Join(r.root, filepath.FromSlash(target))
	path, err = r.locate(requested)
	if err != nil {
		return "", "", err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return "", "", status.ErrNotFound
	}

	if stat.IsDir() {
		requested = filepath.Join(requested, r.index)
		if path, err = r.locate(filepath.Join(path, r.index)); err != nil {
			return "", "", err
		}

		if stat, err = os.Stat(path); err != nil {
			return "", "", status.ErrNotFound
		}
	}

	if !stat.Mode().IsRegular() {
		return "", "", status.ErrNotFound
	}

	return path, filepath.Ext(requested), nil
}

// locate evaluates symlinks of the already cleaned path and makes sure the path
// stays within the root both before and after that.
func (r *Resolver) locate(path string) (string, error) {
	if !r.contains(path) {
		return "", status.ErrNotFound
	}

	path, err := filepath.EvalSymlinks(path)
	if err != nil || !r.contains(path) {
		return "", status.ErrNotFound
	}

	return path, nil
}

func (r *Resolver) contains(path string) bool {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return false
	}

	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
