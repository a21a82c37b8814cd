package acquire

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"jdk-autoconf/src/internal/common"
)

// Request describes one download-and-extract operation.
type Request struct {
	URL string
	// DestFile is where the archive is downloaded.
	DestFile string
	// DestDir is where the archive contents end up.
	DestDir string
	// StripComponents removes leading path components while extracting, so
	// a versioned top-level archive directory lands at DestDir itself.
	StripComponents int
}

// Downloader transfers and unpacks an archive. Transport failures are
// returned as errors; extraction failures are deliberately silent. The
// caller must validate the resulting directory, which makes a bad extraction
// self-correcting on the next run.
type Downloader interface {
	Execute(ctx context.Context, req Request) error
}

// ExecDownloader shells out to curl/wget for transfer and tar/unzip for
// extraction.
type ExecDownloader struct{}

// NewExecDownloader creates the host downloader.
func NewExecDownloader() *ExecDownloader {
	return &ExecDownloader{}
}

func (d *ExecDownloader) Execute(ctx context.Context, req Request) error {
	if err := d.download(ctx, req.URL, req.DestFile); err != nil {
		return err
	}

	if err := d.extract(ctx, req.DestFile, req.DestDir, req.StripComponents); err != nil {
		common.AcquireLogger.Warn("extraction failed for %s: %v", req.DestFile, err)
	}
	return nil
}

// download fetches url to destPath using curl or wget.
func (d *ExecDownloader) download(ctx context.Context, url, destPath string) error {
	common.AcquireLogger.Info("Downloading %s", url)

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	var cmd *exec.Cmd
	if _, err := exec.LookPath("curl"); err == nil {
		cmd = exec.CommandContext(ctx, "curl", "-fL", "-o", destPath, url)
	} else if _, err := exec.LookPath("wget"); err == nil {
		cmd = exec.CommandContext(ctx, "wget", "-O", destPath, url)
	} else {
		return fmt.Errorf("neither curl nor wget available for download")
	}

	// Capture output for STDIO-safe logging
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			common.AcquireLogger.Error("Download stderr: %s", stderr.String())
		}
		return fmt.Errorf("download failed: %w", err)
	}

	common.AcquireLogger.Info("Download completed: %s", destPath)
	return nil
}

// extract unpacks archivePath into destDir, stripping leading components.
func (d *ExecDownloader) extract(ctx context.Context, archivePath, destDir string, strip int) error {
	common.AcquireLogger.Info("Extracting %s to %s", archivePath, destDir)

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create extraction directory: %w", err)
	}

	switch {
	case strings.HasSuffix(archivePath, ".tar.gz"), strings.HasSuffix(archivePath, ".tgz"):
		args := []string{"-xzf", archivePath, "-C", destDir}
		if strip > 0 {
			args = append(args, "--strip-components="+strconv.Itoa(strip))
		}
		return d.run(ctx, "tar", args...)
	case strings.HasSuffix(archivePath, ".zip"):
		if err := d.run(ctx, "unzip", "-q", "-o", archivePath, "-d", destDir); err != nil {
			return err
		}
		return flatten(destDir, strip)
	default:
		return fmt.Errorf("unsupported archive format: %s", archivePath)
	}
}

func (d *ExecDownloader) run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			common.AcquireLogger.Error("Command stderr: %s", stderr.String())
		}
		return fmt.Errorf("command failed: %s %v: %w", name, args, err)
	}
	return nil
}

// flatten emulates tar's --strip-components for unzip: each level collapses a
// sole top-level directory into destDir.
func flatten(destDir string, strip int) error {
	for level := 0; level < strip; level++ {
		children, err := os.ReadDir(destDir)
		if err != nil {
			return err
		}
		if len(children) != 1 || !children[0].IsDir() {
			return nil
		}
		inner := filepath.Join(destDir, children[0].Name())
		grandchildren, err := os.ReadDir(inner)
		if err != nil {
			return err
		}
		for _, gc := range grandchildren {
			if err := os.Rename(filepath.Join(inner, gc.Name()), filepath.Join(destDir, gc.Name())); err != nil {
				return err
			}
		}
		if err := os.Remove(inner); err != nil {
			return err
		}
	}
	return nil
}
