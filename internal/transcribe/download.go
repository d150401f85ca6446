package transcribe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"voxtext/internal/domain"
)

const modelDownloadTimeout = 45 * time.Minute

// httpDoer abstracts the HTTP client for testability.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// WhisperProvider resolves model tiers to local ggml files, downloading
// them into the model directory on first use.
type WhisperProvider struct {
	modelDir string
	client   httpDoer
	// insecure skips certificate verification. It is used for exactly one
	// retry after a trust-chain failure and never again.
	insecure httpDoer

	stat     func(name string) (os.FileInfo, error)
	mkdirAll func(path string, perm os.FileMode) error
	rename   func(oldpath, newpath string) error
	remove   func(name string) error
	openFile func(name string, flag int, perm os.FileMode) (*os.File, error)
}

// NewWhisperProvider constructs the production provider.
func NewWhisperProvider(modelDir string) *WhisperProvider {
	return &WhisperProvider{
		modelDir: modelDir,
		client:   &http.Client{Timeout: modelDownloadTimeout},
		insecure: &http.Client{
			Timeout: modelDownloadTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		stat:     os.Stat,
		mkdirAll: os.MkdirAll,
		rename:   os.Rename,
		remove:   os.Remove,
		openFile: os.OpenFile,
	}
}

// NewWhisperProviderForTests constructs a provider with injectable clients.
func NewWhisperProviderForTests(modelDir string, client, insecure httpDoer) *WhisperProvider {
	p := NewWhisperProvider(modelDir)
	p.client = client
	p.insecure = insecure
	return p
}

// Load resolves the tier in the catalog and returns an engine bound to the
// local model file, downloading it when missing. A certificate-trust
// failure triggers exactly one retry with verification relaxed; any other
// failure, or a second trust failure, is fatal.
func (p *WhisperProvider) Load(ctx context.Context, tier domain.ModelTier) (Engine, error) {
	model, ok := domain.ModelByTier(tier)
	if !ok {
		return nil, fmt.Errorf("unknown model tier: %s", tier)
	}

	localPath := filepath.Join(p.modelDir, model.FileName)
	if _, err := p.stat(localPath); err == nil {
		return NewWhisperEngine(localPath), nil
	}

	if err := p.download(ctx, p.client, model.URL, localPath); err != nil {
		if !isTrustChainError(err) {
			return nil, fmt.Errorf("download model %s: %w", model.Name, err)
		}
		if err := p.download(ctx, p.insecure, model.URL, localPath); err != nil {
			return nil, fmt.Errorf("download model %s after relaxed-verification retry: %w", model.Name, err)
		}
	}

	return NewWhisperEngine(localPath), nil
}

// LocalPath reports whether the tier's model file is already on disk.
func (p *WhisperProvider) LocalPath(tier domain.ModelTier) (string, bool) {
	model, ok := domain.ModelByTier(tier)
	if !ok {
		return "", false
	}
	localPath := filepath.Join(p.modelDir, model.FileName)
	if _, err := p.stat(localPath); err != nil {
		return "", false
	}
	return localPath, true
}

// download fetches sourceURL into destinationPath through a temp file so a
// partial transfer never masquerades as a valid model.
func (p *WhisperProvider) download(ctx context.Context, client httpDoer, sourceURL, destinationPath string) error {
	if err := p.mkdirAll(filepath.Dir(destinationPath), 0o755); err != nil {
		return fmt.Errorf("prepare model directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "voxtext")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected HTTP status: %s", resp.Status)
	}

	tmpPath := destinationPath + ".download"
	file, err := p.openFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}

	_, copyErr := io.Copy(file, resp.Body)
	closeErr := file.Close()
	if copyErr != nil {
		_ = p.remove(tmpPath)
		return fmt.Errorf("write model file: %w", copyErr)
	}
	if closeErr != nil {
		_ = p.remove(tmpPath)
		return fmt.Errorf("close model file: %w", closeErr)
	}

	if err := p.rename(tmpPath, destinationPath); err != nil {
		_ = p.remove(tmpPath)
		return fmt.Errorf("move model file into place: %w", err)
	}
	return nil
}

// isTrustChainError reports whether err stems from certificate verification.
func isTrustChainError(err error) bool {
	if err == nil {
		return false
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var authErr x509.UnknownAuthorityError
	if errors.As(err, &authErr) {
		return true
	}
	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return true
	}
	return strings.Contains(err.Error(), "certificate")
}
