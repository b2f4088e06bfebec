package importer

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vhvplatform/react-framework-sub001/internal/errors"
)

// source is the resolved application tree of a request.
type source struct {
	// location is the request's Source as given.
	location string

	// root is the local directory to analyze.
	root string

	// branch is the cloned branch, empty for local sources.
	branch string
	remote bool

	// tmp is removed by cleanup.
	tmp string
}

func (s source) cleanup() {
	if s.tmp != "" {
		os.RemoveAll(s.tmp)
	}
}

var remotePrefixes = []string{"https://", "http://", "ssh://", "git://", "file://", "git@"}

// IsRemote reports whether location names a git repository rather than a
// local directory. An existing local directory always wins, so a checkout
// called "app.git" is analyzed in place.
func IsRemote(location string) bool {
	if info, err := os.Stat(location); err == nil && info.IsDir() {
		return false
	}
	for _, p := range remotePrefixes {
		if strings.HasPrefix(location, p) {
			return true
		}
	}
	return strings.HasSuffix(location, ".git")
}

func (im *Importer) fetch(ctx context.Context, req Request) (source, error) {
	if !IsRemote(req.Source) {
		abs, err := filepath.Abs(req.Source)
		if err != nil {
			return source{}, errors.New("E205").WithPath(req.Source).Wrap(err)
		}
		return source{location: req.Source, root: abs}, nil
	}

	branch := req.Branch
	if branch == "" {
		branch = im.defaultBranch
	}
	tmp, err := os.MkdirTemp("", "vhv-import-")
	if err != nil {
		return source{}, errors.New("E401").WithDetail("temporary clone directory").Wrap(err)
	}
	src := source{location: req.Source, branch: branch, remote: true, tmp: tmp, root: filepath.Join(tmp, "repo")}
	if err := im.clone(ctx, req.Source, branch, src.root); err != nil {
		src.cleanup()
		return source{}, err
	}
	return src, nil
}

// clone makes a shallow checkout of url into dir.
func (im *Importer) clone(ctx context.Context, url, branch, dir string) error {
	args := []string{"clone", "--depth", "1"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, url, dir)

	im.logger.Debug("cloning", "url", url, "branch", branch)
	cmd := exec.CommandContext(ctx, im.git, args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		e := errors.New("E302").WithDetail(url).Wrap(err)
		if msg := strings.TrimSpace(out.String()); msg != "" {
			e = e.WithDetail(url + ": " + lastLine(msg))
		}
		return e
	}
	return nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
